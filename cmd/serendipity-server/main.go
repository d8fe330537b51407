package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/serendip-ai/serendipity/internal/archive"
	"github.com/serendip-ai/serendipity/internal/cache"
	"github.com/serendip-ai/serendipity/internal/cache/memory"
	redisstore "github.com/serendip-ai/serendipity/internal/cache/redis"
	"github.com/serendip-ai/serendipity/internal/config"
	"github.com/serendip-ai/serendipity/internal/content"
	"github.com/serendip-ai/serendipity/internal/inference"
	"github.com/serendip-ai/serendipity/internal/inference/openai"
	"github.com/serendip-ai/serendipity/internal/metrics"
	"github.com/serendip-ai/serendipity/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load(os.Getenv("SERENDIPITY_CONFIG"))
	if err != nil {
		return fmt.Errorf("config.Load() > %w", err)
	}

	if cfg.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	openaiClient := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.Timeout(), inference.DefaultMaxRetryAttempts)
	defer func() {
		_ = openaiClient.Close()
	}()

	store, err := newCacheStore(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("newCacheStore() > %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	collector := metrics.NewCollector()

	var recorder content.Recorder
	if cfg.Archive.Enabled {
		db, err := archive.Open(cfg.Archive.Database)
		if err != nil {
			return fmt.Errorf("archive.Open() > %w", err)
		}
		contentArchive := archive.New(db)
		if err := contentArchive.Migrate(ctx); err != nil {
			return fmt.Errorf("archive.Migrate() > %w", err)
		}
		defer func() {
			_ = contentArchive.Close()
		}()
		recorder = contentArchive
	}

	service := content.NewService(openaiClient, store, content.Options{
		DefaultLanguage: cfg.Generation.Language,
		InsightTTL:      cfg.Cache.InsightTTL(),
		MaxTokens:       cfg.OpenAI.MaxTokens,
		Temperature:     cfg.OpenAI.Temperature,
		Recorder:        recorder,
		Metrics:         collector,
	})

	handler := server.NewContentHandler(service, store, collector)
	router := server.NewRouter(handler, cfg.Server.AllowedOrigins)

	log.Printf("Starting server on %s (model: %s, cache: %s)", cfg.Server.Address, cfg.OpenAI.Model, cfg.Cache.Backend)
	return http.ListenAndServe(cfg.Server.Address, h2c.NewHandler(router, &http2.Server{}))
}

func newCacheStore(ctx context.Context, cfg config.CacheConfig) (cache.Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return memory.New(), nil
	case "redis":
		return redisstore.New(ctx, redisstore.Config{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", cfg.Backend)
	}
}
