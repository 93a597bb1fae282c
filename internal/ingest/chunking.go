package ingest

import (
	"regexp"
	"strings"
)

// ChunkConfig controls how article text is split for embedding.
type ChunkConfig struct {
	MaxChars int
}

// DefaultChunkConfig provides the default chunk bound.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{MaxChars: 1500}
}

var paragraphBreak = regexp.MustCompile(`\n{2,}`)

// ChunkText splits text into chunks no longer than MaxChars runes,
// keeping paragraphs whole where possible. Paragraphs accumulate into
// a chunk until the next one would overflow it; a single paragraph
// longer than the bound is hard-split into fixed-size slices. Chunks
// come back trimmed and never empty.
func ChunkText(text string, cfg ChunkConfig) []string {
	if cfg.MaxChars <= 0 {
		cfg = DefaultChunkConfig()
	}

	var chunks []string
	flush := func(s string) {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			chunks = append(chunks, trimmed)
		}
	}

	var cur string
	for _, para := range paragraphBreak.Split(text, -1) {
		runes := []rune(para)
		if len(runes) > cfg.MaxChars {
			flush(cur)
			cur = ""
			for i := 0; i < len(runes); i += cfg.MaxChars {
				end := i + cfg.MaxChars
				if end > len(runes) {
					end = len(runes)
				}
				flush(string(runes[i:end]))
			}
			continue
		}

		joined := cur + "\n\n" + para
		if len([]rune(joined)) > cfg.MaxChars {
			flush(cur)
			cur = para
		} else if cur != "" {
			cur = joined
		} else {
			cur = para
		}
	}
	flush(cur)

	return chunks
}
