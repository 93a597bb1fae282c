package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wayfinder-ai/wayfinder/internal/api"
	"github.com/wayfinder-ai/wayfinder/internal/domain"
)

// IngestService starts background ingestions.
type IngestService interface {
	StartIngestion(ctx context.Context, rawURL string) (string, error)
}

type IngestHandler struct {
	svc      IngestService
	sessions SessionReader
}

func NewIngestHandler(svc IngestService, sessions SessionReader) *IngestHandler {
	return &IngestHandler{svc: svc, sessions: sessions}
}

type IngestRequest struct {
	URL string `json:"url"`
}

type IngestResponse struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}

type SessionStatusResponse struct {
	Status string     `json:"status"`
	Pages  []PageInfo `json:"pages,omitempty"`
}

type PageInfo struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Ingest validates the seed URL, creates a pending session, and
// returns its ID immediately; the crawl proceeds in the background.
func (h *IngestHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		api.Error(w, http.StatusBadRequest, "url is required")
		return
	}

	id, err := h.svc.StartIngestion(r.Context(), req.URL)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusAccepted, IngestResponse{
		SessionID: id,
		Status:    string(domain.SessionStatusPending),
	})
}

// SessionStatus reports whether a session is pending, ready, or gone.
// Unknown sessions report status not_found rather than erroring, so a
// polling frontend can treat eviction and failure uniformly.
func (h *IngestHandler) SessionStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sess, err := h.sessions.Get(id)
	if err != nil {
		api.Success(w, http.StatusOK, SessionStatusResponse{Status: "not_found"})
		return
	}

	resp := SessionStatusResponse{Status: string(sess.Status)}
	if sess.Status == domain.SessionStatusReady {
		resp.Pages = make([]PageInfo, len(sess.Docs))
		for i, doc := range sess.Docs {
			resp.Pages[i] = PageInfo{Title: doc.Title, URL: doc.URL}
		}
	}
	api.Success(w, http.StatusOK, resp)
}
