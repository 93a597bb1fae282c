package server

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/wayfinder-ai/wayfinder/internal/api"
	"github.com/wayfinder-ai/wayfinder/internal/api/handlers"
	"github.com/wayfinder-ai/wayfinder/internal/api/middleware"
)

type RouterConfig struct {
	ChatHandler   *handlers.ChatHandler
	IngestHandler *handlers.IngestHandler
	// StaticDir is served at / when the directory exists. Empty
	// disables static serving.
	StaticDir string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok", "service": "wayfinder"})
	})

	r.Post("/chat", cfg.ChatHandler.Chat)
	r.Post("/ingest", cfg.IngestHandler.Ingest)
	r.Get("/sessions/{id}", cfg.IngestHandler.SessionStatus)

	if cfg.StaticDir != "" {
		if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
			fileServer := http.FileServer(http.Dir(cfg.StaticDir))
			r.Handle("/*", fileServer)
		}
	}

	return r
}
