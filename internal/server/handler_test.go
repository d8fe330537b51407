package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/serendip-ai/serendipity/internal/cache/memory"
	"github.com/serendip-ai/serendipity/internal/content"
	"github.com/serendip-ai/serendipity/internal/inference"
	"github.com/serendip-ai/serendipity/internal/metrics"
	mock_inference "github.com/serendip-ai/serendipity/internal/mocks/inference"
)

// newTestRouter builds the full router on top of a real content service with
// a mocked inference client behind it.
func newTestRouter(t *testing.T, client inference.Client) http.Handler {
	t.Helper()

	collector := metrics.NewCollector()
	store := memory.New()
	service := content.NewService(client, store, content.Options{Metrics: collector})
	handler := NewContentHandler(service, store, collector)
	return NewRouter(handler, nil)
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) content.Response {
	t.Helper()

	var resp content.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	return resp
}

func TestContentHandler_Root(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := newTestRouter(t, mock_inference.NewMockClient(ctrl))

	recorder := doRequest(t, router, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "Serendipity API", body["name"])
	assert.Equal(t, Version, body["version"])
	assert.Equal(t, "ok", body["status"])
}

func TestContentHandler_DailyAffirmation(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{name: "GET", method: http.MethodGet, path: "/api/daily-affirmation"},
		{name: "GET with language", method: http.MethodGet, path: "/api/daily-affirmation?language=spanish"},
		{name: "POST with body", method: http.MethodPost, path: "/api/daily-affirmation", body: `{"language": "french"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mock_inference.NewMockClient(ctrl)
			client.EXPECT().
				Complete(gomock.Any(), gomock.Any()).
				Return(inference.CompletionResponse{Text: "Today is yours to shape."}, nil).
				Times(1)

			router := newTestRouter(t, client)

			recorder := doRequest(t, router, tt.method, tt.path, tt.body)
			require.Equal(t, http.StatusOK, recorder.Code)
			assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

			resp := decodeResponse(t, recorder)
			assert.Equal(t, "Today is yours to shape.", resp.Text)
			assert.Equal(t, content.SourceGenerated, resp.Source)
			assert.NotEmpty(t, resp.Metadata["visual_element"])
			assert.NotEmpty(t, resp.Metadata["date"])
		})
	}
}

func TestContentHandler_PersonalityInsight(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		completion string
		wantStatus int
		wantError  string
	}{
		{
			name:       "valid input",
			body:       `{"input": "I love stargazing and old maps"}`,
			completion: "INSIGHT: You chase wonder.\nTYPE: The Star Cartographer\nTRAITS: Curious, Patient",
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing input field",
			body:       `{"language": "english"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "input is required",
		},
		{
			name:       "malformed JSON",
			body:       `{"input": `,
			wantStatus: http.StatusBadRequest,
			wantError:  "request body must be valid JSON",
		},
		{
			name:       "whitespace-only input",
			body:       `{"input": "   "}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "input cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mock_inference.NewMockClient(ctrl)
			if tt.completion != "" {
				client.EXPECT().
					Complete(gomock.Any(), gomock.Any()).
					Return(inference.CompletionResponse{Text: tt.completion}, nil).
					Times(1)
			} else {
				client.EXPECT().Complete(gomock.Any(), gomock.Any()).Times(0)
			}

			router := newTestRouter(t, client)

			recorder := doRequest(t, router, http.MethodPost, "/api/personality-insight", tt.body)
			require.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantError != "" {
				var body map[string]string
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
				assert.Equal(t, tt.wantError, body["error"])
				return
			}

			resp := decodeResponse(t, recorder)
			assert.Equal(t, "You chase wonder.", resp.Text)
			assert.Equal(t, "The Star Cartographer", resp.Metadata["personality_type"])
			assert.NotEmpty(t, resp.Metadata["share_text"])
		})
	}
}

func TestContentHandler_UpstreamFailureServesFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_inference.NewMockClient(ctrl)
	client.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		Return(inference.CompletionResponse{}, errors.New("connection refused")).
		Times(1)

	router := newTestRouter(t, client)

	recorder := doRequest(t, router, http.MethodPost, "/api/riddle", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	resp := decodeResponse(t, recorder)
	assert.Equal(t, content.SourceFallback, resp.Source)
	assert.NotEmpty(t, resp.Text)
}

func TestContentHandler_Stats(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_inference.NewMockClient(ctrl)
	client.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		Return(inference.CompletionResponse{Text: "Stay curious."}, nil).
		Times(1)

	router := newTestRouter(t, client)

	// One generated request followed by a cache hit.
	require.Equal(t, http.StatusOK, doRequest(t, router, http.MethodGet, "/api/daily-affirmation", "").Code)
	require.Equal(t, http.StatusOK, doRequest(t, router, http.MethodGet, "/api/daily-affirmation", "").Code)

	recorder := doRequest(t, router, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var stats struct {
		Requests    map[string]int64 `json:"requests"`
		CacheHits   int64            `json:"cache_hits"`
		CacheMisses int64            `json:"cache_misses"`
		Fallbacks   int64            `json:"fallbacks"`
		Cache       struct {
			Entries int64 `json:"entries"`
		} `json:"cache"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &stats))
	assert.Equal(t, int64(2), stats.Requests["daily_affirmation"])
	assert.Equal(t, int64(1), stats.CacheHits)
	assert.Equal(t, int64(1), stats.CacheMisses)
	assert.Zero(t, stats.Fallbacks)
	assert.Equal(t, int64(1), stats.Cache.Entries)
}

func TestContentHandler_PersonalityTypes(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := newTestRouter(t, mock_inference.NewMockClient(ctrl))

	recorder := doRequest(t, router, http.MethodGet, "/api/personality-types", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var body map[string][]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, content.PersonalityTypes(), body["personality_types"])
	assert.Contains(t, body["personality_types"], "The Unique Soul")
}

func TestRouter_Metrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := newTestRouter(t, mock_inference.NewMockClient(ctrl))

	recorder := doRequest(t, router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, recorder.Code)
}
