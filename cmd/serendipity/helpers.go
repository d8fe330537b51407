package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"github.com/serendip-ai/serendipity/internal/cache"
	"github.com/serendip-ai/serendipity/internal/cache/memory"
	redisstore "github.com/serendip-ai/serendipity/internal/cache/redis"
	"github.com/serendip-ai/serendipity/internal/config"
	"github.com/serendip-ai/serendipity/internal/content"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
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

func printResponse(kind content.Kind, resp content.Response) {
	header := color.New(color.FgCyan, color.Bold)
	label := color.New(color.FgYellow)

	header.Printf("%s", kind)
	fmt.Printf(" (%s)\n\n", resp.Source)
	fmt.Println(resp.Text)

	if len(resp.Metadata) > 0 {
		fmt.Println()
		for key, value := range resp.Metadata {
			label.Printf("%s: ", key)
			fmt.Println(value)
		}
	}
}
