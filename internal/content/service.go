package content

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/serendip-ai/serendipity/internal/cache"
	"github.com/serendip-ai/serendipity/internal/inference"
	"github.com/serendip-ai/serendipity/internal/metrics"
)

const (
	// DefaultLanguage is used when a request does not specify one.
	DefaultLanguage = "english"

	// DefaultInsightTTL bounds how long a personality insight stays cached.
	DefaultInsightTTL = time.Hour
)

// kindParams holds the sampling parameters used for each content kind.
type kindParams struct {
	maxTokens   int
	temperature float32
}

var paramsByKind = map[Kind]kindParams{
	KindDailyAffirmation:   {maxTokens: 150, temperature: 0.7},
	KindRandomFun:          {maxTokens: 80, temperature: 0.8},
	KindRiddle:             {maxTokens: 60, temperature: 0.7},
	KindASCIIChallenge:     {maxTokens: 150, temperature: 0.6},
	KindPersonalityInsight: {maxTokens: 300, temperature: 0.7},
}

// Options configures a Service. Zero values fall back to defaults, and both
// Recorder and Metrics are optional.
type Options struct {
	DefaultLanguage string
	InsightTTL      time.Duration
	// MaxTokens caps the per-kind output budget when set.
	MaxTokens int
	// Temperature overrides the per-kind creativity parameter when positive.
	Temperature float32
	Recorder    Recorder
	Metrics     *metrics.Collector
}

// Service generates content responses. It never fails outward for upstream
// problems: any inference failure degrades to a fallback payload. The only
// returned error type is *ValidationError.
type Service struct {
	client          inference.Client
	store           cache.Store
	recorder        Recorder
	collector       *metrics.Collector
	defaultLanguage string
	insightTTL      time.Duration
	maxTokens       int
	temperature     float32

	now     func() time.Time
	pickFun func(n int) int
}

func NewService(client inference.Client, store cache.Store, opts Options) *Service {
	service := &Service{
		client:          client,
		store:           store,
		recorder:        opts.Recorder,
		collector:       opts.Metrics,
		defaultLanguage: opts.DefaultLanguage,
		insightTTL:      opts.InsightTTL,
		maxTokens:       opts.MaxTokens,
		temperature:     opts.Temperature,
		now:             time.Now,
		pickFun:         rand.Intn,
	}
	if service.defaultLanguage == "" {
		service.defaultLanguage = DefaultLanguage
	}
	if service.insightTTL <= 0 {
		service.insightTTL = DefaultInsightTTL
	}
	return service
}

// Generate produces a response for the request, consulting the cache for
// cacheable kinds and falling back to static content on upstream failure.
func (s *Service) Generate(ctx context.Context, req Request) (Response, error) {
	if req.Kind == KindPersonalityInsight && strings.TrimSpace(req.Input) == "" {
		return Response{}, &ValidationError{Message: "input cannot be empty"}
	}
	if _, ok := paramsByKind[req.Kind]; !ok {
		return Response{}, &ValidationError{Message: fmt.Sprintf("unsupported content kind %q", req.Kind)}
	}

	language := req.Language
	if language == "" {
		language = s.defaultLanguage
	}
	now := req.Date
	if now.IsZero() {
		now = s.now()
	}

	s.collector.RecordRequest(string(req.Kind))

	key, ttl, cacheable := s.cachePlan(req.Kind, language, req.Input, now)
	if cacheable {
		if resp, ok := s.lookup(ctx, key); ok {
			s.collector.RecordCacheHit()
			return resp, nil
		}
		s.collector.RecordCacheMiss()
	}

	resp, err := s.generate(ctx, req.Kind, req.Input, language, now)
	if err != nil {
		slog.Default().Warn("content generation failed, serving fallback",
			"kind", req.Kind,
			"error", err)
		s.collector.RecordUpstreamError()
		s.collector.RecordFallback()
		return fallbackResponse(req.Kind, now), nil
	}
	resp.Source = SourceGenerated

	if cacheable {
		if err := s.storeEntry(ctx, key, resp, ttl); err != nil {
			slog.Default().Warn("failed to cache generated content",
				"kind", req.Kind,
				"key", key,
				"error", err)
		}
	}
	s.record(ctx, req.Kind, language, key, resp, now)

	return resp, nil
}

// cachePlan derives the cache key and expiry for a request. RandomFun,
// riddles, and ASCII challenges must vary per call and are never cached.
func (s *Service) cachePlan(kind Kind, language, input string, now time.Time) (key string, ttl time.Duration, cacheable bool) {
	switch kind {
	case KindDailyAffirmation:
		// Expires at local midnight so the affirmation rolls over with the date.
		year, month, day := now.Date()
		endOfDay := time.Date(year, month, day+1, 0, 0, 0, 0, now.Location())
		return fmt.Sprintf("affirmation:%s:%s", language, now.Format("2006-01-02")), endOfDay.Sub(now), true
	case KindPersonalityInsight:
		return fmt.Sprintf("insight:%s:%s", language, inputHash(input)), s.insightTTL, true
	default:
		return "", 0, false
	}
}

func (s *Service) lookup(ctx context.Context, key string) (Response, bool) {
	raw, ok := s.store.Get(ctx, key)
	if !ok {
		return Response{}, false
	}
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		slog.Default().Warn("discarding undecodable cache entry", "key", key, "error", err)
		return Response{}, false
	}
	resp.Source = SourceCached
	return resp, true
}

func (s *Service) storeEntry(ctx context.Context, key string, resp Response, ttl time.Duration) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("json.Marshal > %w", err)
	}
	return s.store.Set(ctx, key, raw, ttl)
}

func (s *Service) generate(ctx context.Context, kind Kind, input, language string, now time.Time) (Response, error) {
	switch kind {
	case KindDailyAffirmation:
		return s.generateAffirmation(ctx, language, now)
	case KindRandomFun:
		return s.generateFun(ctx, language)
	case KindRiddle:
		return s.generateRiddle(ctx, language)
	case KindASCIIChallenge:
		return s.generateASCIIChallenge(ctx, language)
	case KindPersonalityInsight:
		return s.generateInsight(ctx, input, language)
	default:
		return Response{}, fmt.Errorf("unsupported content kind %q", kind)
	}
}

func (s *Service) complete(ctx context.Context, kind Kind, prompt string) (string, error) {
	params := paramsByKind[kind]
	if s.maxTokens > 0 && params.maxTokens > s.maxTokens {
		params.maxTokens = s.maxTokens
	}
	if s.temperature > 0 {
		params.temperature = s.temperature
	}

	resp, err := s.client.Complete(ctx, inference.CompletionRequest{
		Prompt:      prompt,
		MaxTokens:   params.maxTokens,
		Temperature: params.temperature,
	})
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("empty completion for kind %q", kind)
	}
	return text, nil
}

func (s *Service) generateAffirmation(ctx context.Context, language string, now time.Time) (Response, error) {
	text, err := s.complete(ctx, KindDailyAffirmation, buildAffirmationPrompt(language, now))
	if err != nil {
		return Response{}, err
	}

	element, color := visualForDate(now)
	return Response{
		Text: text,
		Metadata: map[string]string{
			"visual_element": element,
			"mood_color":     color,
			"date":           now.Format("2006-01-02"),
		},
	}, nil
}

func (s *Service) generateFun(ctx context.Context, language string) (Response, error) {
	ft := funTypes[s.pickFun(len(funTypes))]
	text, err := s.complete(ctx, KindRandomFun, buildFunPrompt(ft, language))
	if err != nil {
		return Response{}, err
	}

	return Response{
		Text: text,
		Metadata: map[string]string{
			"type":  ft.Name,
			"emoji": ft.Emoji,
		},
	}, nil
}

func (s *Service) generateRiddle(ctx context.Context, language string) (Response, error) {
	text, err := s.complete(ctx, KindRiddle, buildRiddlePrompt(language))
	if err != nil {
		return Response{}, err
	}

	question, answer := parseRiddle(text)
	metadata := map[string]string{
		"type":     "riddle",
		"question": question,
	}
	if answer != "" {
		metadata["answer"] = answer
	}
	return Response{Text: question, Metadata: metadata}, nil
}

func (s *Service) generateASCIIChallenge(ctx context.Context, language string) (Response, error) {
	text, err := s.complete(ctx, KindASCIIChallenge, buildASCIIChallengePrompt(language))
	if err != nil {
		return Response{}, err
	}

	art, answer := parseASCIIChallenge(text)
	metadata := map[string]string{
		"type": "ascii_challenge",
	}
	if answer != "" {
		metadata["answer"] = answer
	}
	return Response{Text: art, Metadata: metadata}, nil
}

func (s *Service) generateInsight(ctx context.Context, input, language string) (Response, error) {
	text, err := s.complete(ctx, KindPersonalityInsight, buildInsightPrompt(input, language))
	if err != nil {
		return Response{}, err
	}

	parsed := parseInsight(text)
	return Response{
		Text: parsed.Insight,
		Metadata: map[string]string{
			"personality_type": parsed.Type,
			"traits":           strings.Join(parsed.Traits, ", "),
			"share_text":       fmt.Sprintf("I just discovered I'm %s! 🌟 What's your AI personality type?", parsed.Type),
			"confidence_score": fmt.Sprintf("%.2f", confidenceScore(input)),
		},
	}, nil
}

func (s *Service) record(ctx context.Context, kind Kind, language, key string, resp Response, now time.Time) {
	if s.recorder == nil {
		return
	}
	err := s.recorder.Record(ctx, Record{
		Kind:      kind,
		Language:  language,
		CacheKey:  key,
		Body:      resp.Text,
		Metadata:  resp.Metadata,
		Source:    resp.Source,
		CreatedAt: now,
	})
	if err != nil {
		slog.Default().Warn("failed to archive generated content",
			"kind", kind,
			"error", err)
	}
}
