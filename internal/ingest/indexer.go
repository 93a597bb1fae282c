// Package ingest turns crawled pages into an embedded document corpus:
// extraction, chunking, and batch embedding.
package ingest

import (
	"context"
	"fmt"
	"log"

	"github.com/wayfinder-ai/wayfinder/internal/domain"
	"github.com/wayfinder-ai/wayfinder/internal/extract"
)

// Embedder is the embedding backend contract the indexer depends on.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// Indexer builds an embedded corpus from raw pages.
type Indexer struct {
	embedder   Embedder
	chunkCfg   ChunkConfig
	contactCfg extract.ContactConfig
}

// NewIndexer creates an Indexer with the given embedding backend.
func NewIndexer(embedder Embedder, chunkCfg ChunkConfig) *Indexer {
	if chunkCfg.MaxChars <= 0 {
		chunkCfg = DefaultChunkConfig()
	}
	return &Indexer{
		embedder:   embedder,
		chunkCfg:   chunkCfg,
		contactCfg: extract.DefaultContactConfig(),
	}
}

// chunkRef ties a flattened chunk back to its owning document, so the
// scatter pass cannot misalign vectors if chunk ordering ever changes.
type chunkRef struct {
	docIdx int
	text   string
}

// Index extracts, chunks, and embeds a batch of pages. Pages with no
// extractable text are skipped. Embedding calls are issued one at a
// time; parallelizing them would change the load profile on the
// embedding backend. A single embedding failure aborts the whole
// batch.
func (ix *Indexer) Index(ctx context.Context, pages []domain.Page) ([]*domain.Document, error) {
	var docs []*domain.Document
	var flattened []chunkRef

	for _, page := range pages {
		article := extract.FromHTML(page.HTML, page.URL, ix.contactCfg)
		if article == nil {
			log.Printf("ingest: no extractable content: %s", page.URL)
			continue
		}

		chunks := ChunkText(article.Text, ix.chunkCfg)
		if len(chunks) == 0 {
			continue
		}

		doc := domain.NewDocument(page.URL, article.Title, article.Text, chunks)
		for _, chunk := range chunks {
			flattened = append(flattened, chunkRef{docIdx: len(docs), text: chunk})
		}
		docs = append(docs, doc)
	}

	for i, ref := range flattened {
		log.Printf("ingest: embedding chunk %d/%d", i+1, len(flattened))
		vec, err := ix.embedder.GenerateEmbedding(ctx, ref.text)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %d of %s: %w", i+1, docs[ref.docIdx].URL, err)
		}
		docs[ref.docIdx].Vectors = append(docs[ref.docIdx].Vectors, vec)
	}

	for _, doc := range docs {
		if err := domain.ValidateDocument(doc); err != nil {
			return nil, err
		}
	}

	return docs, nil
}
