package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/serendip-ai/serendipity/internal/cache/memory"
	"github.com/serendip-ai/serendipity/internal/inference"
	mock_inference "github.com/serendip-ai/serendipity/internal/mocks/inference"
)

func newTestService(t *testing.T, client inference.Client, now time.Time) *Service {
	t.Helper()

	service := NewService(client, memory.New(), Options{})
	service.now = func() time.Time { return now }
	service.pickFun = func(n int) int { return 0 }
	return service
}

func TestService_Generate_ValidationErrors(t *testing.T) {
	tests := []struct {
		name        string
		request     Request
		wantMessage string
	}{
		{
			name:        "personality insight requires input",
			request:     Request{Kind: KindPersonalityInsight, Input: "   \n\t"},
			wantMessage: "input cannot be empty",
		},
		{
			name:        "unknown kind is rejected",
			request:     Request{Kind: Kind("horoscope")},
			wantMessage: `unsupported content kind "horoscope"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mock_inference.NewMockClient(ctrl)
			client.EXPECT().Complete(gomock.Any(), gomock.Any()).Times(0)

			service := newTestService(t, client, time.Now())

			_, err := service.Generate(context.Background(), tt.request)
			require.Error(t, err)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.wantMessage, validationErr.Message)
		})
	}
}

func TestService_Generate_DailyAffirmationIsCachedUntilMidnight(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_inference.NewMockClient(ctrl)
	client.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		Return(inference.CompletionResponse{Text: "You are exactly where you need to be."}, nil).
		Times(1)

	now := time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)
	service := newTestService(t, client, now)

	first, err := service.Generate(context.Background(), Request{Kind: KindDailyAffirmation})
	require.NoError(t, err)
	assert.Equal(t, SourceGenerated, first.Source)
	assert.Equal(t, "You are exactly where you need to be.", first.Text)
	assert.Equal(t, "2025-03-14", first.Metadata["date"])
	assert.NotEmpty(t, first.Metadata["visual_element"])
	assert.NotEmpty(t, first.Metadata["mood_color"])

	second, err := service.Generate(context.Background(), Request{Kind: KindDailyAffirmation})
	require.NoError(t, err)
	assert.Equal(t, SourceCached, second.Source)
	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, first.Metadata, second.Metadata)
}

func TestService_Generate_AffirmationVisualsAreDeterministicPerDay(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_inference.NewMockClient(ctrl)
	client.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		Return(inference.CompletionResponse{Text: "Shine on."}, nil).
		Times(2)

	date := time.Date(2025, time.July, 1, 8, 0, 0, 0, time.UTC)

	morning := newTestService(t, client, date)
	evening := newTestService(t, client, date.Add(12*time.Hour))

	first, err := morning.Generate(context.Background(), Request{Kind: KindDailyAffirmation})
	require.NoError(t, err)
	second, err := evening.Generate(context.Background(), Request{Kind: KindDailyAffirmation})
	require.NoError(t, err)

	assert.Equal(t, first.Metadata["visual_element"], second.Metadata["visual_element"])
	assert.Equal(t, first.Metadata["mood_color"], second.Metadata["mood_color"])
}

func TestService_Generate_RandomFunIsNeverCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_inference.NewMockClient(ctrl)
	client.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		Return(inference.CompletionResponse{Text: "Why did the cloud break up with the fog? It needed space."}, nil).
		Times(2)

	service := newTestService(t, client, time.Now())

	for i := 0; i < 2; i++ {
		resp, err := service.Generate(context.Background(), Request{Kind: KindRandomFun})
		require.NoError(t, err)
		assert.Equal(t, SourceGenerated, resp.Source)
		assert.Equal(t, "joke", resp.Metadata["type"])
		assert.Equal(t, "😄", resp.Metadata["emoji"])
	}

	stats, err := service.store.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Entries)
}

func TestService_Generate_FallbackOnUpstreamError(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mock_inference.NewMockClient(ctrl)
			client.EXPECT().
				Complete(gomock.Any(), gomock.Any()).
				Return(inference.CompletionResponse{}, errors.New("connection refused")).
				Times(1)

			service := newTestService(t, client, time.Now())

			resp, err := service.Generate(context.Background(), Request{
				Kind:  kind,
				Input: "I love painting and long walks",
			})
			require.NoError(t, err)
			assert.Equal(t, SourceFallback, resp.Source)
			assert.NotEmpty(t, resp.Text)
		})
	}
}

func TestService_Generate_FallbackIsNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_inference.NewMockClient(ctrl)
	client.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		Return(inference.CompletionResponse{}, errors.New("i/o timeout")).
		Times(2)

	service := newTestService(t, client, time.Now())

	for i := 0; i < 2; i++ {
		resp, err := service.Generate(context.Background(), Request{Kind: KindDailyAffirmation})
		require.NoError(t, err)
		assert.Equal(t, SourceFallback, resp.Source)
	}

	stats, err := service.store.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Entries)
}

func TestService_Generate_PersonalityInsight(t *testing.T) {
	completion := `INSIGHT: You see connections others miss and turn them into something new.
TYPE: The Curious Alchemist
TRAITS: Curious, Creative, Warm, Persistent, Extra`

	ctrl := gomock.NewController(t)
	client := mock_inference.NewMockClient(ctrl)
	client.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		Return(inference.CompletionResponse{Text: completion}, nil).
		Times(1)

	service := newTestService(t, client, time.Now())

	resp, err := service.Generate(context.Background(), Request{
		Kind:  KindPersonalityInsight,
		Input: "I love mixing ideas from different fields",
	})
	require.NoError(t, err)

	assert.Equal(t, "You see connections others miss and turn them into something new.", resp.Text)
	assert.Equal(t, "The Curious Alchemist", resp.Metadata["personality_type"])
	assert.Equal(t, "Curious, Creative, Warm, Persistent", resp.Metadata["traits"])
	assert.Equal(t, "I just discovered I'm The Curious Alchemist! 🌟 What's your AI personality type?", resp.Metadata["share_text"])
	assert.Equal(t, "0.95", resp.Metadata["confidence_score"])
}

func TestService_Generate_InsightCacheIgnoresInputFormatting(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_inference.NewMockClient(ctrl)
	client.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		Return(inference.CompletionResponse{Text: "INSIGHT: Calm and steady.\nTYPE: The Quiet Anchor\nTRAITS: Calm, Steady"}, nil).
		Times(1)

	service := newTestService(t, client, time.Now())

	first, err := service.Generate(context.Background(), Request{
		Kind:  KindPersonalityInsight,
		Input: "I enjoy quiet mornings",
	})
	require.NoError(t, err)
	assert.Equal(t, SourceGenerated, first.Source)

	second, err := service.Generate(context.Background(), Request{
		Kind:  KindPersonalityInsight,
		Input: "  I  ENJOY   quiet\tmornings ",
	})
	require.NoError(t, err)
	assert.Equal(t, SourceCached, second.Source)
	assert.Equal(t, first.Text, second.Text)
}

func TestService_Generate_RiddleMetadata(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_inference.NewMockClient(ctrl)
	client.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		Return(inference.CompletionResponse{Text: "QUESTION: What has keys but no locks?\nANSWER: A piano"}, nil).
		Times(1)

	service := newTestService(t, client, time.Now())

	resp, err := service.Generate(context.Background(), Request{Kind: KindRiddle})
	require.NoError(t, err)
	assert.Equal(t, "What has keys but no locks?", resp.Text)
	assert.Equal(t, "What has keys but no locks?", resp.Metadata["question"])
	assert.Equal(t, "A piano", resp.Metadata["answer"])
	assert.Equal(t, "riddle", resp.Metadata["type"])
}

func TestService_Generate_EmptyCompletionFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_inference.NewMockClient(ctrl)
	client.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		Return(inference.CompletionResponse{Text: "   \n"}, nil).
		Times(1)

	service := newTestService(t, client, time.Now())

	resp, err := service.Generate(context.Background(), Request{Kind: KindRiddle})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, resp.Source)
	assert.NotEmpty(t, resp.Text)
}

type recordedCall struct {
	record Record
	err    error
}

type stubRecorder struct {
	calls []recordedCall
	err   error
}

func (r *stubRecorder) Record(_ context.Context, rec Record) error {
	r.calls = append(r.calls, recordedCall{record: rec, err: r.err})
	return r.err
}

func TestService_Generate_RecordsGeneratedContent(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_inference.NewMockClient(ctrl)
	client.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		Return(inference.CompletionResponse{Text: "Today holds something good for you."}, nil).
		Times(1)

	recorder := &stubRecorder{}
	now := time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

	service := NewService(client, memory.New(), Options{Recorder: recorder})
	service.now = func() time.Time { return now }

	_, err := service.Generate(context.Background(), Request{Kind: KindDailyAffirmation})
	require.NoError(t, err)

	require.Len(t, recorder.calls, 1)
	rec := recorder.calls[0].record
	assert.Equal(t, KindDailyAffirmation, rec.Kind)
	assert.Equal(t, "english", rec.Language)
	assert.Equal(t, "affirmation:english:2025-03-14", rec.CacheKey)
	assert.Equal(t, "Today holds something good for you.", rec.Body)
	assert.Equal(t, SourceGenerated, rec.Source)
	assert.Equal(t, now, rec.CreatedAt)
}

func TestService_Generate_RecorderFailureDoesNotFailRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_inference.NewMockClient(ctrl)
	client.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		Return(inference.CompletionResponse{Text: "Keep going."}, nil).
		Times(1)

	recorder := &stubRecorder{err: errors.New("database is gone")}

	service := NewService(client, memory.New(), Options{Recorder: recorder})

	resp, err := service.Generate(context.Background(), Request{Kind: KindDailyAffirmation})
	require.NoError(t, err)
	assert.Equal(t, SourceGenerated, resp.Source)
}

func TestService_Generate_SamplingParameters(t *testing.T) {
	tests := []struct {
		name            string
		options         Options
		request         Request
		wantMaxTokens   int
		wantTemperature float32
	}{
		{
			name:            "affirmation defaults",
			request:         Request{Kind: KindDailyAffirmation},
			wantMaxTokens:   150,
			wantTemperature: 0.7,
		},
		{
			name:            "random fun runs hotter",
			request:         Request{Kind: KindRandomFun},
			wantMaxTokens:   80,
			wantTemperature: 0.8,
		},
		{
			name:            "configured cap lowers the token budget",
			options:         Options{MaxTokens: 100},
			request:         Request{Kind: KindPersonalityInsight, Input: "hello there"},
			wantMaxTokens:   100,
			wantTemperature: 0.7,
		},
		{
			name:            "configured temperature wins",
			options:         Options{Temperature: 0.2},
			request:         Request{Kind: KindRiddle},
			wantMaxTokens:   60,
			wantTemperature: 0.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mock_inference.NewMockClient(ctrl)

			var got inference.CompletionRequest
			client.EXPECT().
				Complete(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, req inference.CompletionRequest) (inference.CompletionResponse, error) {
					got = req
					return inference.CompletionResponse{Text: "ok"}, nil
				}).
				Times(1)

			service := NewService(client, memory.New(), tt.options)
			service.pickFun = func(n int) int { return 0 }

			_, err := service.Generate(context.Background(), tt.request)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMaxTokens, got.MaxTokens)
			assert.Equal(t, tt.wantTemperature, got.Temperature)
		})
	}
}
