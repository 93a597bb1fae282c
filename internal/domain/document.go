package domain

import "fmt"

// Page represents a single fetched page: the URL it came from and the raw
// HTML body. Pages are produced by the crawler and consumed once by the
// indexer; they carry no identity beyond the URL.
type Page struct {
	URL  string
	HTML string
}

// Document represents an indexed page: cleaned article text, its chunks, and
// one embedding per chunk. Chunks[i] and Vectors[i] always describe the same
// text; reordering one without the other corrupts retrieval.
type Document struct {
	ID      string
	URL     string
	Title   string
	Text    string
	Chunks  []string
	Vectors [][]float32
}

// NewDocument creates a Document with the ID defaulting to the source URL.
func NewDocument(url, title, text string, chunks []string) *Document {
	return &Document{
		ID:     url,
		URL:    url,
		Title:  title,
		Text:   text,
		Chunks: chunks,
	}
}

// ValidateDocument validates a Document instance, including the chunk/vector
// alignment invariant.
func ValidateDocument(d *Document) error {
	if d == nil {
		return fmt.Errorf("document cannot be nil")
	}

	if d.ID == "" {
		return fmt.Errorf("document ID is required")
	}

	if d.URL == "" {
		return fmt.Errorf("document URL is required")
	}

	if len(d.Vectors) != 0 && len(d.Vectors) != len(d.Chunks) {
		return fmt.Errorf("document has %d chunks but %d vectors", len(d.Chunks), len(d.Vectors))
	}

	return nil
}

// ScoredHit is one retrieval result: a chunk with its similarity score and
// the provenance of the owning document. Never persisted; recomputed per query.
type ScoredHit struct {
	Score float64
	Chunk string
	Title string
	URL   string
}
