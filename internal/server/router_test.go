package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wayfinder-ai/wayfinder/internal/api/handlers"
	"github.com/wayfinder-ai/wayfinder/internal/chat"
	"github.com/wayfinder-ai/wayfinder/internal/domain"
)

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) Answer(ctx context.Context, message string, corpus []*domain.Document) (*chat.Answer, error) {
	args := m.Called(ctx, message, corpus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chat.Answer), args.Error(1)
}

type MockIngestService struct {
	mock.Mock
}

func (m *MockIngestService) StartIngestion(ctx context.Context, rawURL string) (string, error) {
	args := m.Called(ctx, rawURL)
	return args.String(0), args.Error(1)
}

type MockSessionReader struct {
	mock.Mock
}

func (m *MockSessionReader) Get(id string) (*domain.Session, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

type emptyCorpus struct{}

func (emptyCorpus) Documents() []*domain.Document { return nil }

func newTestRouter(t *testing.T, staticDir string) (http.Handler, *MockChatService, *MockIngestService, *MockSessionReader) {
	t.Helper()

	chatSvc := new(MockChatService)
	ingestSvc := new(MockIngestService)
	sessions := new(MockSessionReader)

	router := NewRouter(RouterConfig{
		ChatHandler:   handlers.NewChatHandler(chatSvc, sessions, emptyCorpus{}),
		IngestHandler: handlers.NewIngestHandler(ingestSvc, sessions),
		StaticDir:     staticDir,
	})

	return router, chatSvc, ingestSvc, sessions
}

func TestRouter_Health(t *testing.T) {
	router, _, _, _ := newTestRouter(t, "")

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Data["status"])
	assert.Equal(t, "wayfinder", resp.Data["service"])
}

func TestRouter_ChatRouted(t *testing.T) {
	router, chatSvc, _, sessions := newTestRouter(t, "")

	sessions.On("Get", mock.Anything).Return(nil, domain.ErrSessionNotFound).Maybe()
	chatSvc.On("Answer", mock.Anything, "hello", mock.Anything).
		Return(&chat.Answer{Reply: "hi", Sources: []chat.Source{}}, nil)

	req := httptest.NewRequest("POST", "/chat", strings.NewReader(`{"message":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	chatSvc.AssertExpectations(t)
}

func TestRouter_SessionStatusRouted(t *testing.T) {
	router, _, _, sessions := newTestRouter(t, "")

	sessions.On("Get", "abc").Return(nil, domain.ErrSessionNotFound)

	req := httptest.NewRequest("GET", "/sessions/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")
}

func TestRouter_RequestIDHeader(t *testing.T) {
	router, _, _, _ := newTestRouter(t, "")

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_CORSPreflight(t *testing.T) {
	router, _, _, _ := newTestRouter(t, "")

	req := httptest.NewRequest("OPTIONS", "/chat", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_ServesStaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>widget</html>"), 0o644))

	router, _, _, _ := newTestRouter(t, dir)

	req := httptest.NewRequest("GET", "/index.html", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "widget")
}

func TestRouter_MissingStaticDirIsIgnored(t *testing.T) {
	router, _, _, _ := newTestRouter(t, "/does/not/exist")

	req := httptest.NewRequest("GET", "/nope.html", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
