package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	// AI backend: one OpenAI-compatible endpoint serves both embeddings and
	// chat completions.
	AIBaseURL   string `envconfig:"AI_BASE_URL"`
	AIAPIKey    string `envconfig:"AI_API_KEY"`
	EmbedModel  string `envconfig:"EMBED_MODEL" default:"text-embedding-3-small"`
	ChatModel   string `envconfig:"CHAT_MODEL" default:"gpt-4o-mini"`
	EmbedDims   int    `envconfig:"EMBED_DIMENSIONS" default:"1536"`
	Temperature float64 `envconfig:"CHAT_TEMPERATURE" default:"0.2"`

	// Crawler bounds
	CrawlMaxPages     int           `envconfig:"CRAWL_MAX_PAGES" default:"20"`
	CrawlFanout       int           `envconfig:"CRAWL_FANOUT" default:"20"`
	CrawlFetchTimeout time.Duration `envconfig:"CRAWL_FETCH_TIMEOUT" default:"15s"`

	// Chunking
	ChunkMaxChars int `envconfig:"CHUNK_MAX_CHARS" default:"1500"`

	// Session lifecycle
	SessionTTL           time.Duration `envconfig:"SESSION_TTL" default:"30m"`
	SessionEvictInterval time.Duration `envconfig:"SESSION_EVICT_INTERVAL" default:"10m"`

	// Optional persistent default corpus
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// Optional raw-page archive
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"wayfinder-pages"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("WAYFINDER", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasAI() bool {
	return c.AIAPIKey != ""
}

func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}
