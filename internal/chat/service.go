// Package chat composes retrieval-grounded answers: it ranks corpus
// chunks against the user's question, builds a cited prompt, and calls
// the completion backend.
package chat

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/wayfinder-ai/wayfinder/internal/domain"
	"github.com/wayfinder-ai/wayfinder/internal/openai"
)

// DefaultTemperature keeps answers close to the source material.
const DefaultTemperature float32 = 0.2

const systemPrompt = "You are a helpful support assistant for Wayfinder, an app that lets users control their desktop computer from their phone. " +
	"Answer questions using the provided context from the Wayfinder documentation and troubleshooting guide. " +
	"Be friendly, helpful, and encouraging. Use a casual, supportive tone. " +
	"Always prioritize connection troubleshooting when users have issues connecting. " +
	"If the answer is not in the provided sources, politely say that you don't have that information but can help with other questions. " +
	"Cite sources inline as [S1], [S2] etc. " +
	"Respond in the user's language (English by default)."

// Completer is the completion backend contract.
type Completer interface {
	GenerateCompletion(ctx context.Context, messages []openai.Message, temperature float32) (string, error)
}

// Retriever ranks corpus chunks against a question.
type Retriever interface {
	Retrieve(ctx context.Context, query string, corpus []*domain.Document, k int) ([]domain.ScoredHit, error)
}

// Source is the provenance of one cited retrieval hit.
type Source struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	URL   string  `json:"url"`
	Score float64 `json:"score"`
}

// Answer is a completed chat turn: the reply text plus the sources it
// cites.
type Answer struct {
	Reply   string   `json:"reply"`
	Sources []Source `json:"sources"`
}

// Service answers support questions against a session corpus.
type Service struct {
	retriever   Retriever
	completer   Completer
	temperature float32
	topK        int
}

// NewService creates a chat Service. Zero temperature falls back to
// the default; topK <= 0 uses the retriever's default.
func NewService(retriever Retriever, completer Completer, temperature float32, topK int) *Service {
	if temperature <= 0 {
		temperature = DefaultTemperature
	}
	return &Service{
		retriever:   retriever,
		completer:   completer,
		temperature: temperature,
		topK:        topK,
	}
}

// Answer retrieves the best-matching chunks for message, prompts the
// completion backend with them, and returns the reply with its cited
// sources.
func (s *Service) Answer(ctx context.Context, message string, corpus []*domain.Document) (*Answer, error) {
	if strings.TrimSpace(message) == "" {
		return nil, domain.ErrEmptyMessage
	}

	hits, err := s.retriever.Retrieve(ctx, message, corpus, s.topK)
	if err != nil {
		return nil, err
	}

	contextBlock, sourcesBlock := renderContext(hits)
	messages := []openai.Message{
		{Role: openai.RoleSystem, Content: systemPrompt},
		{Role: openai.RoleUser, Content: userPrompt(message, contextBlock, sourcesBlock)},
	}

	reply, err := s.completer.GenerateCompletion(ctx, messages, s.temperature)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeUpstream, "completion backend call failed", err)
	}

	sources := make([]Source, len(hits))
	for i, h := range hits {
		sources[i] = Source{
			ID:    fmt.Sprintf("S%d", i+1),
			Title: h.Title,
			URL:   h.URL,
			Score: math.Round(h.Score*1000) / 1000,
		}
	}

	return &Answer{Reply: reply, Sources: sources}, nil
}

// renderContext formats the retrieved hits into the numbered context
// and source blocks referenced by the [S1] citation convention.
func renderContext(hits []domain.ScoredHit) (contextBlock, sourcesBlock string) {
	contexts := make([]string, len(hits))
	sources := make([]string, len(hits))
	for i, h := range hits {
		contexts[i] = fmt.Sprintf("Source %d (%s):\n%s", i+1, h.Title, h.Chunk)
		sources[i] = fmt.Sprintf("[S%d] %s — %s", i+1, h.Title, h.URL)
	}
	return strings.Join(contexts, "\n\n"), strings.Join(sources, "\n")
}

func userPrompt(message, contextBlock, sourcesBlock string) string {
	return fmt.Sprintf(`User question:
%s

Context:
%s

When you answer, include inline citations like [S1], [S2].

Sources:
%s`, message, contextBlock, sourcesBlock)
}
