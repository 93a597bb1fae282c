// Package retrieval ranks indexed chunks against a question by cosine
// similarity and returns the top matches with their provenance.
package retrieval

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/wayfinder-ai/wayfinder/internal/domain"
)

// DefaultTopK is how many hits Retrieve returns when k is not given.
const DefaultTopK = 5

// Embedder is the embedding backend contract the retriever depends on.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// Retriever scores corpus chunks against query embeddings. The
// synthetic troubleshooting guide joins every candidate pool; its
// vector is computed on first use and cached for the process lifetime.
type Retriever struct {
	embedder Embedder

	mu     sync.Mutex
	faqVec []float32
}

// NewRetriever creates a Retriever backed by the given embedder.
func NewRetriever(embedder Embedder) *Retriever {
	return &Retriever{embedder: embedder}
}

// Retrieve embeds the query, scores it against every chunk in the
// corpus plus the built-in guide, and returns the k best hits in
// descending score order. k falls back to DefaultTopK when zero or
// negative.
func (r *Retriever) Retrieve(ctx context.Context, query string, corpus []*domain.Document, k int) ([]domain.ScoredHit, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	faq, err := r.faqDocument(ctx)
	if err != nil {
		return nil, err
	}
	pool := make([]*domain.Document, 0, len(corpus)+1)
	pool = append(pool, corpus...)
	pool = append(pool, faq)

	queryVec, err := r.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	var hits []domain.ScoredHit
	for _, doc := range pool {
		for idx, vec := range doc.Vectors {
			if idx >= len(doc.Chunks) {
				break
			}
			hits = append(hits, domain.ScoredHit{
				Score: Cosine(queryVec, vec),
				Chunk: doc.Chunks[idx],
				Title: doc.Title,
				URL:   doc.URL,
			})
		}
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// faqDocument returns the synthetic guide with its cached vector,
// embedding it on first call.
func (r *Retriever) faqDocument(ctx context.Context) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.faqVec == nil {
		vec, err := r.embedder.GenerateEmbedding(ctx, troubleshootingGuide)
		if err != nil {
			return nil, fmt.Errorf("embed troubleshooting guide: %w", err)
		}
		r.faqVec = vec
	}

	doc := newFAQDocument()
	doc.Vectors = [][]float32{r.faqVec}
	return doc, nil
}
