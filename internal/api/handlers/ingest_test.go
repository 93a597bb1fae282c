package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wayfinder-ai/wayfinder/internal/domain"
)

type MockIngestService struct {
	mock.Mock
}

func (m *MockIngestService) StartIngestion(ctx context.Context, rawURL string) (string, error) {
	args := m.Called(ctx, rawURL)
	return args.String(0), args.Error(1)
}

func TestIngest_Success(t *testing.T) {
	svc := new(MockIngestService)
	svc.On("StartIngestion", mock.Anything, "https://example.com").
		Return("sess-123", nil)

	h := NewIngestHandler(svc, new(MockSessionReader))
	body, _ := json.Marshal(IngestRequest{URL: "https://example.com"})
	req := httptest.NewRequest(http.MethodPost, "/ingest", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Ingest(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	var resp struct {
		Data IngestResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "sess-123", resp.Data.SessionID)
	assert.Equal(t, "pending", resp.Data.Status)
}

func TestIngest_MissingURL(t *testing.T) {
	h := NewIngestHandler(new(MockIngestService), new(MockSessionReader))

	body, _ := json.Marshal(IngestRequest{})
	req := httptest.NewRequest(http.MethodPost, "/ingest", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Ingest(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIngest_InvalidURL(t *testing.T) {
	svc := new(MockIngestService)
	svc.On("StartIngestion", mock.Anything, "ftp://example.com").
		Return("", domain.ErrInvalidURL)

	h := NewIngestHandler(svc, new(MockSessionReader))
	body, _ := json.Marshal(IngestRequest{URL: "ftp://example.com"})
	req := httptest.NewRequest(http.MethodPost, "/ingest", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Ingest(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func sessionStatusRequest(t *testing.T, h *IngestHandler, id string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/sessions/{id}", h.SessionStatus)
	req := httptest.NewRequest(http.MethodGet, "/sessions/"+id, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSessionStatus_NotFound(t *testing.T) {
	sessions := new(MockSessionReader)
	sessions.On("Get", "missing").Return(nil, domain.ErrSessionNotFound)

	h := NewIngestHandler(new(MockIngestService), sessions)
	rec := sessionStatusRequest(t, h, "missing")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data SessionStatusResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not_found", resp.Data.Status)
}

func TestSessionStatus_Pending(t *testing.T) {
	sessions := new(MockSessionReader)
	sessions.On("Get", "sess-1").Return(&domain.Session{
		ID:     "sess-1",
		Status: domain.SessionStatusPending,
	}, nil)

	h := NewIngestHandler(new(MockIngestService), sessions)
	rec := sessionStatusRequest(t, h, "sess-1")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data SessionStatusResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pending", resp.Data.Status)
	assert.Empty(t, resp.Data.Pages)
}

func TestSessionStatus_Ready(t *testing.T) {
	sessions := new(MockSessionReader)
	sessions.On("Get", "sess-2").Return(&domain.Session{
		ID:     "sess-2",
		Status: domain.SessionStatusReady,
		Docs: []*domain.Document{
			{ID: "a", URL: "https://example.com/a", Title: "Page A"},
			{ID: "b", URL: "https://example.com/b", Title: "Page B"},
		},
	}, nil)

	h := NewIngestHandler(new(MockIngestService), sessions)
	rec := sessionStatusRequest(t, h, "sess-2")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data SessionStatusResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ready", resp.Data.Status)
	require.Len(t, resp.Data.Pages, 2)
	assert.Equal(t, "Page A", resp.Data.Pages[0].Title)
	assert.Equal(t, "https://example.com/b", resp.Data.Pages[1].URL)
}
