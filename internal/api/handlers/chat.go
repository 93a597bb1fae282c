package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/wayfinder-ai/wayfinder/internal/api"
	"github.com/wayfinder-ai/wayfinder/internal/chat"
	"github.com/wayfinder-ai/wayfinder/internal/domain"
)

// ChatService answers a support question against a corpus.
type ChatService interface {
	Answer(ctx context.Context, message string, corpus []*domain.Document) (*chat.Answer, error)
}

// SessionReader looks up ingestion sessions.
type SessionReader interface {
	Get(id string) (*domain.Session, error)
}

// CorpusProvider supplies the default corpus used when a request names
// no session.
type CorpusProvider interface {
	Documents() []*domain.Document
}

type ChatHandler struct {
	svc      ChatService
	sessions SessionReader
	corpus   CorpusProvider
}

// NewChatHandler creates a ChatHandler. corpus may be nil when no
// default corpus is configured.
func NewChatHandler(svc ChatService, sessions SessionReader, corpus CorpusProvider) *ChatHandler {
	return &ChatHandler{svc: svc, sessions: sessions, corpus: corpus}
}

type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type ChatResponse struct {
	Reply   string        `json:"reply"`
	Sources []chat.Source `json:"sources"`
}

// Chat answers a question grounded in the session corpus when a valid
// session is named, falling back to the default corpus otherwise. An
// unknown or still-pending session is not an error; the synthetic FAQ
// grounding always applies.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		api.Error(w, http.StatusBadRequest, "message is required")
		return
	}

	corpus := h.defaultCorpus()
	if req.SessionID != "" {
		if sess, err := h.sessions.Get(req.SessionID); err == nil && sess.Status == domain.SessionStatusReady {
			corpus = sess.Docs
		}
	}

	answer, err := h.svc.Answer(r.Context(), req.Message, corpus)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	sources := answer.Sources
	if sources == nil {
		sources = []chat.Source{}
	}
	api.Success(w, http.StatusOK, ChatResponse{Reply: answer.Reply, Sources: sources})
}

func (h *ChatHandler) defaultCorpus() []*domain.Document {
	if h.corpus == nil {
		return nil
	}
	return h.corpus.Documents()
}
