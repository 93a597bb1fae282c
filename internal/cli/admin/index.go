package admin

import (
	"context"
	"fmt"
	"log"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"github.com/wayfinder-ai/wayfinder/internal/config"
	"github.com/wayfinder-ai/wayfinder/internal/crawler"
	"github.com/wayfinder-ai/wayfinder/internal/database"
	"github.com/wayfinder-ai/wayfinder/internal/ingest"
	"github.com/wayfinder-ai/wayfinder/internal/repository"

	openaiclient "github.com/wayfinder-ai/wayfinder/internal/openai"
)

// IndexCmd returns the index command: crawl a site and store the result
// as the default corpus.
func IndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <url>",
		Short: "Build the default corpus from a website",
		Long:  "Crawls the given site, embeds its content, and replaces the stored default corpus used for sessionless chats.",
		Args:  cobra.ExactArgs(1),
		RunE:  runIndex,
	}

	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations")

	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	seedURL := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.HasAI() {
		return fmt.Errorf("WAYFINDER_AI_API_KEY is required to embed the corpus")
	}
	if !cfg.HasDatabase() {
		return fmt.Errorf("WAYFINDER_DATABASE_URL is required to store the corpus")
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := database.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	aiClient := openaiclient.NewClientWithConfig(openaiclient.Config{
		APIKey:              cfg.AIAPIKey,
		BaseURL:             cfg.AIBaseURL,
		EmbeddingModel:      openai.EmbeddingModel(cfg.EmbedModel),
		ChatModel:           cfg.ChatModel,
		EmbeddingDimensions: cfg.EmbedDims,
	})

	siteCrawler := crawler.New(&http.Client{}, crawler.Config{
		MaxPages:     cfg.CrawlMaxPages,
		Fanout:       cfg.CrawlFanout,
		FetchTimeout: cfg.CrawlFetchTimeout,
	})

	log.Printf("crawling %s", seedURL)
	pages, err := siteCrawler.Crawl(ctx, seedURL)
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}
	if len(pages) == 0 {
		return fmt.Errorf("no pages found at %s", seedURL)
	}
	log.Printf("crawled %d pages", len(pages))

	indexer := ingest.NewIndexer(aiClient, ingest.ChunkConfig{MaxChars: cfg.ChunkMaxChars})
	docs, err := indexer.Index(ctx, pages)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}
	if len(docs) == 0 {
		return fmt.Errorf("no indexable content found at %s", seedURL)
	}

	corpusRepo := repository.NewCorpusRepository(pool)
	if err := corpusRepo.Replace(ctx, docs); err != nil {
		return fmt.Errorf("failed to store corpus: %w", err)
	}

	chunks := 0
	for _, doc := range docs {
		chunks += len(doc.Chunks)
	}
	fmt.Printf("Indexed %d documents (%d chunks) from %s\n", len(docs), chunks, seedURL)
	return nil
}
