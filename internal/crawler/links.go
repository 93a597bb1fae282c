package crawler

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// assetPattern matches URLs pointing at static assets that can never
// yield article text. A trailing query string does not hide the
// extension.
var assetPattern = regexp.MustCompile(`(?i)\.(pdf|png|jpe?g|gif|svg|zip|mp4|mp3|webp|ico|css|js|woff|woff2|ttf|eot)(\?|$)`)

// IsAssetURL reports whether a URL points at a static asset.
func IsAssetURL(rawURL string) bool {
	return assetPattern.MatchString(rawURL)
}

// ExtractLinks returns the crawlable links found in an HTML document,
// in document order. Every href attribute is considered, not just
// anchor tags. Links are resolved against base, restricted to http(s),
// stripped of fragments, and filtered to the base host when
// sameHostOnly is set. Asset URLs are dropped. Duplicates are kept;
// the crawler's visited set handles them.
func ExtractLinks(rawHTML, base string, sameHostOnly bool) []string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil
	}
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				resolved, resolveErr := baseURL.Parse(strings.TrimSpace(attr.Val))
				if resolveErr != nil {
					continue
				}
				if resolved.Scheme != "http" && resolved.Scheme != "https" {
					continue
				}
				if sameHostOnly && resolved.Host != baseURL.Host {
					continue
				}
				resolved.Fragment = ""
				link := resolved.String()
				if IsAssetURL(link) {
					continue
				}
				links = append(links, link)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return links
}
