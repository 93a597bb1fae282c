package admin

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"github.com/wayfinder-ai/wayfinder/internal/api/handlers"
	"github.com/wayfinder-ai/wayfinder/internal/chat"
	"github.com/wayfinder-ai/wayfinder/internal/config"
	"github.com/wayfinder-ai/wayfinder/internal/corpus"
	"github.com/wayfinder-ai/wayfinder/internal/crawler"
	"github.com/wayfinder-ai/wayfinder/internal/database"
	"github.com/wayfinder-ai/wayfinder/internal/ingest"
	"github.com/wayfinder-ai/wayfinder/internal/jobs"
	"github.com/wayfinder-ai/wayfinder/internal/repository"
	"github.com/wayfinder-ai/wayfinder/internal/retrieval"
	"github.com/wayfinder-ai/wayfinder/internal/server"
	"github.com/wayfinder-ai/wayfinder/internal/session"
	"github.com/wayfinder-ai/wayfinder/internal/storage"
	"github.com/wayfinder-ai/wayfinder/internal/telemetry"

	openaiclient "github.com/wayfinder-ai/wayfinder/internal/openai"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the wayfinder support API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")
	cmd.Flags().String("static-dir", "./public", "Directory of static assets to serve at /")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
			Debug:            cfg.Debug,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	if !cfg.HasAI() {
		return fmt.Errorf("WAYFINDER_AI_API_KEY is required: the chatbot cannot embed or answer without a backend")
	}

	aiClient := openaiclient.NewClientWithConfig(openaiclient.Config{
		APIKey:              cfg.AIAPIKey,
		BaseURL:             cfg.AIBaseURL,
		EmbeddingModel:      openai.EmbeddingModel(cfg.EmbedModel),
		ChatModel:           cfg.ChatModel,
		EmbeddingDimensions: cfg.EmbedDims,
	})

	// Default corpus: loaded from the database when configured, empty
	// otherwise. The built-in troubleshooting guide is always available
	// regardless.
	defaultCorpus := corpus.New(nil)
	if cfg.HasDatabase() {
		pool, err := database.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()
		log.Println("connected to database")

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			if err := database.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
		}

		corpusRepo := repository.NewCorpusRepository(pool)
		docs, err := corpusRepo.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load default corpus: %w", err)
		}
		defaultCorpus.Set(docs)
		log.Printf("default corpus loaded: %d documents", len(docs))
	}

	var archiver ingest.Archiver
	if cfg.HasS3() {
		s3Config := storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		}
		s3Client, err := storage.NewS3Client(ctx, s3Config)
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		if err := s3Client.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure S3 bucket: %w", err)
		}
		log.Printf("S3 bucket '%s' ready", cfg.S3Bucket)
		archiver = s3Client
	}

	sessionStore := session.NewStore(cfg.SessionTTL, nil)

	siteCrawler := crawler.New(&http.Client{}, crawler.Config{
		MaxPages:     cfg.CrawlMaxPages,
		Fanout:       cfg.CrawlFanout,
		FetchTimeout: cfg.CrawlFetchTimeout,
	})
	indexer := ingest.NewIndexer(aiClient, ingest.ChunkConfig{MaxChars: cfg.ChunkMaxChars})
	ingestSvc := ingest.NewService(siteCrawler, indexer, sessionStore, archiver)

	retriever := retrieval.NewRetriever(aiClient)
	chatSvc := chat.NewService(retriever, aiClient, float32(cfg.Temperature), retrieval.DefaultTopK)

	chatHandler := handlers.NewChatHandler(chatSvc, sessionStore, defaultCorpus)
	ingestHandler := handlers.NewIngestHandler(ingestSvc, sessionStore)

	evictor := jobs.NewRunner(jobs.NewSessionEvictor(sessionStore, nil), cfg.SessionEvictInterval)
	go evictor.Start(ctx)
	log.Println("session evictor started")

	staticDir, _ := cmd.Flags().GetString("static-dir")
	router := server.NewRouter(server.RouterConfig{
		ChatHandler:   chatHandler,
		IngestHandler: ingestHandler,
		StaticDir:     staticDir,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	evictor.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}
