package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/serendip-ai/serendipity/internal/content"
	"github.com/serendip-ai/serendipity/internal/inference"
	"github.com/serendip-ai/serendipity/internal/inference/openai"
)

func newGenerateCommand() *cobra.Command {
	generateCommand := &cobra.Command{
		Use:   "generate",
		Short: "Generate content from the terminal",
	}

	var language string
	generateCommand.PersistentFlags().StringVar(&language, "language", "", "content language (default from config)")

	generateCommand.AddCommand(&cobra.Command{
		Use:   "affirmation",
		Short: "Generate today's affirmation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), content.KindDailyAffirmation, "", language)
		},
	})
	generateCommand.AddCommand(&cobra.Command{
		Use:   "fun",
		Short: "Generate a random joke, compliment, or art scene",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), content.KindRandomFun, "", language)
		},
	})
	generateCommand.AddCommand(&cobra.Command{
		Use:   "riddle",
		Short: "Generate a riddle with its answer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), content.KindRiddle, "", language)
		},
	})
	generateCommand.AddCommand(&cobra.Command{
		Use:   "ascii",
		Short: "Generate an ASCII art puzzle",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), content.KindASCIIChallenge, "", language)
		},
	})
	generateCommand.AddCommand(&cobra.Command{
		Use:   "insight [text about yourself]",
		Short: "Generate a personality insight from your own words",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), content.KindPersonalityInsight, strings.Join(args, " "), language)
		},
	})

	return generateCommand
}

func runGenerate(ctx context.Context, kind content.Kind, input, language string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}
	fmt.Printf("Using OpenAI provider (model: %s)\n\n", cfg.OpenAI.Model)
	openaiClient := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.Timeout(), inference.DefaultMaxRetryAttempts)
	defer func() {
		_ = openaiClient.Close()
	}()

	store, err := newCacheStore(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	service := content.NewService(openaiClient, store, content.Options{
		DefaultLanguage: cfg.Generation.Language,
		InsightTTL:      cfg.Cache.InsightTTL(),
		MaxTokens:       cfg.OpenAI.MaxTokens,
		Temperature:     cfg.OpenAI.Temperature,
	})

	resp, err := service.Generate(ctx, content.Request{
		Kind:     kind,
		Input:    input,
		Language: language,
	})
	if err != nil {
		return err
	}

	printResponse(kind, resp)
	return nil
}
