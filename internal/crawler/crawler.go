// Package crawler implements a bounded breadth-first crawl of a single
// site: starting from a seed URL it collects up to a fixed number of
// HTML pages, expanding the frontier through same-host links.
package crawler

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wayfinder-ai/wayfinder/internal/domain"
)

const (
	// DefaultUserAgent identifies the crawler to origin servers.
	DefaultUserAgent = "WayfinderBot/1.0 (+support chatbot)"
	// DefaultMaxPages bounds how many pages a single crawl may fetch.
	DefaultMaxPages = 20
	// DefaultFanout bounds how many links are enqueued per page,
	// independent of the page budget.
	DefaultFanout = 20
	// DefaultFetchTimeout is the per-page fetch deadline.
	DefaultFetchTimeout = 15 * time.Second

	maxPageBytes = 10 << 20 // 10 MB
)

// Config tunes crawl bounds. Zero values fall back to the defaults.
type Config struct {
	MaxPages     int
	Fanout       int
	FetchTimeout time.Duration
	UserAgent    string
}

// Crawler fetches pages over HTTP within the bounds of its Config.
type Crawler struct {
	client *http.Client
	cfg    Config
}

// New creates a Crawler. A nil client falls back to a default one; the
// per-page deadline is enforced with a request context either way.
func New(client *http.Client, cfg Config) *Crawler {
	if client == nil {
		client = &http.Client{}
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	if cfg.Fanout <= 0 {
		cfg.Fanout = DefaultFanout
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	return &Crawler{client: client, cfg: cfg}
}

// Crawl walks the site at seedURL breadth-first and returns the pages
// fetched, in discovery order. Individual page failures are logged and
// skipped; the crawl only fails on an invalid seed or a cancelled
// context. An unreachable seed yields an empty result, not an error.
func (c *Crawler) Crawl(ctx context.Context, seedURL string) ([]domain.Page, error) {
	if _, err := url.ParseRequestURI(seedURL); err != nil {
		return nil, domain.ErrInvalidURL
	}

	queue := []string{seedURL}
	visited := make(map[string]bool, c.cfg.MaxPages)
	var pages []domain.Page

	for len(queue) > 0 && len(visited) < c.cfg.MaxPages {
		if err := ctx.Err(); err != nil {
			return pages, err
		}

		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true

		if IsAssetURL(current) {
			log.Printf("crawler: skipping non-HTML url: %s", current)
			continue
		}

		body, err := c.fetch(ctx, current)
		if err != nil {
			if ctx.Err() != nil {
				return pages, ctx.Err()
			}
			log.Printf("crawler: skip %s: %v", current, err)
			continue
		}

		if !looksLikeHTML(body) {
			log.Printf("crawler: skipping non-HTML content: %s", current)
			continue
		}

		pages = append(pages, domain.Page{URL: current, HTML: body})
		log.Printf("crawler: added page %d: %s", len(pages), current)

		links := ExtractLinks(body, current, true)
		if len(links) > c.cfg.Fanout {
			links = links[:c.cfg.Fanout]
		}
		for _, link := range links {
			if len(visited)+len(queue) >= c.cfg.MaxPages {
				break
			}
			if !visited[link] {
				queue = append(queue, link)
			}
		}
	}

	log.Printf("crawler: completed, %d pages fetched", len(pages))
	return pages, nil
}

func (c *Crawler) fetch(ctx context.Context, pageURL string) (string, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, c.cfg.FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", pageURL, err)
	}
	return string(data), nil
}

// looksLikeHTML checks the body starts with a doctype or <html> tag,
// guarding against servers that serve JSON or plain text as text/html.
func looksLikeHTML(body string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(body))
	return strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html")
}
