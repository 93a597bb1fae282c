package ingest

import (
	"context"
	"log"
	"net/url"

	"github.com/wayfinder-ai/wayfinder/internal/domain"
	"github.com/wayfinder-ai/wayfinder/internal/session"
	"github.com/wayfinder-ai/wayfinder/internal/telemetry"
)

// Crawler is the page-collection contract the ingestion flow depends
// on.
type Crawler interface {
	Crawl(ctx context.Context, seedURL string) ([]domain.Page, error)
}

// Archiver stores raw crawled pages for later inspection. Archiving is
// best-effort; failures never affect the ingestion outcome.
type Archiver interface {
	ArchivePages(ctx context.Context, sessionID string, pages []domain.Page) error
}

// Service runs ad-hoc ingestions: crawl a site, index it, and publish
// the corpus under a session ID.
type Service struct {
	crawler  Crawler
	indexer  *Indexer
	store    *session.Store
	archiver Archiver
}

// NewService creates an ingestion Service. archiver may be nil.
func NewService(crawler Crawler, indexer *Indexer, store *session.Store, archiver Archiver) *Service {
	return &Service{
		crawler:  crawler,
		indexer:  indexer,
		store:    store,
		archiver: archiver,
	}
}

// StartIngestion validates the seed URL, registers a pending session,
// and kicks off the crawl in the background. The caller polls the
// session for readiness. Sessions whose crawl yields nothing are
// deleted rather than left empty-but-ready.
func (s *Service) StartIngestion(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.ParseRequestURI(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", domain.ErrInvalidURL
	}

	id := s.store.Create()
	log.Printf("ingest: session %s started for %s", id, rawURL)

	// The request context dies with the HTTP request; the crawl must not.
	go s.run(context.WithoutCancel(ctx), id, rawURL)

	return id, nil
}

func (s *Service) run(ctx context.Context, id, seedURL string) {
	ctx, span := telemetry.StartSpan(ctx, "ingest.run", telemetry.SpanAttributes{
		SessionID: id,
		URL:       seedURL,
		Operation: "ingest",
	})
	defer span.End()

	pages, err := s.crawler.Crawl(ctx, seedURL)
	if err != nil {
		log.Printf("ingest: session %s crawl failed: %v", id, err)
		span.SetError(err)
		s.store.Delete(id)
		return
	}
	if len(pages) == 0 {
		log.Printf("ingest: session %s found no pages, deleted", id)
		s.store.Delete(id)
		return
	}

	if s.archiver != nil {
		if archiveErr := s.archiver.ArchivePages(ctx, id, pages); archiveErr != nil {
			log.Printf("ingest: session %s archive failed: %v", id, archiveErr)
		}
	}

	docs, err := s.indexer.Index(ctx, pages)
	if err != nil {
		log.Printf("ingest: session %s indexing failed: %v", id, err)
		span.SetError(err)
		s.store.Delete(id)
		return
	}
	if len(docs) == 0 {
		log.Printf("ingest: session %s produced no documents, deleted", id)
		s.store.Delete(id)
		return
	}

	if err := s.store.SetReady(id, docs); err != nil {
		// Evicted mid-crawl; nothing to publish to.
		log.Printf("ingest: session %s vanished before ready: %v", id, err)
		return
	}
	log.Printf("ingest: session %s ready with %d documents", id, len(docs))
}
