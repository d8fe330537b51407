// Package server exposes the content service over a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/serendip-ai/serendipity/internal/cache"
	"github.com/serendip-ai/serendipity/internal/content"
	"github.com/serendip-ai/serendipity/internal/metrics"
)

// Version identifies the API in the liveness payload.
const Version = "2.0.0"

// Generator is the part of the content service the handler needs.
type Generator interface {
	Generate(ctx context.Context, req content.Request) (content.Response, error)
}

// ContentHandler serves the /api routes.
type ContentHandler struct {
	service   Generator
	store     cache.Store
	collector *metrics.Collector
	validate  *validator.Validate
}

func NewContentHandler(service Generator, store cache.Store, collector *metrics.Collector) *ContentHandler {
	return &ContentHandler{
		service:   service,
		store:     store,
		collector: collector,
		validate:  validator.New(),
	}
}

// languageRequest is the optional POST body for the language-only endpoints.
type languageRequest struct {
	Language string `json:"language"`
}

// insightRequest is the POST body for /api/personality-insight.
type insightRequest struct {
	Input    string `json:"input" validate:"required"`
	Language string `json:"language"`
}

func (h *ContentHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name":    "Serendipity API",
		"version": Version,
		"status":  "ok",
	})
}

func (h *ContentHandler) DailyAffirmation(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, content.KindDailyAffirmation)
}

func (h *ContentHandler) RandomFun(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, content.KindRandomFun)
}

func (h *ContentHandler) Riddle(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, content.KindRiddle)
}

func (h *ContentHandler) ASCIIChallenge(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, content.KindASCIIChallenge)
}

// generate handles the input-free kinds. The language can come from a query
// parameter or an optional JSON body.
func (h *ContentHandler) generate(w http.ResponseWriter, r *http.Request, kind content.Kind) {
	language := r.URL.Query().Get("language")
	if r.Method == http.MethodPost && r.Body != nil {
		var req languageRequest
		// The body is optional; a missing or empty one keeps the default.
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Language != "" {
			language = req.Language
		}
	}

	resp, err := h.service.Generate(r.Context(), content.Request{
		Kind:     kind,
		Language: language,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ContentHandler) PersonalityInsight(w http.ResponseWriter, r *http.Request) {
	var req insightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "input is required")
		return
	}

	resp, err := h.service.Generate(r.Context(), content.Request{
		Kind:     content.KindPersonalityInsight,
		Input:    req.Input,
		Language: req.Language,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ContentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	snapshot := h.collector.Snapshot()

	cacheStats, err := h.store.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read cache stats")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"requests":        snapshot.Requests,
		"cache_hits":      snapshot.CacheHits,
		"cache_misses":    snapshot.CacheMisses,
		"fallbacks":       snapshot.Fallbacks,
		"upstream_errors": snapshot.UpstreamErrors,
		"cache": map[string]int64{
			"entries": cacheStats.Entries,
			"hits":    cacheStats.Hits,
			"misses":  cacheStats.Misses,
		},
	})
}

func (h *ContentHandler) PersonalityTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"personality_types": content.PersonalityTypes(),
	})
}

// writeServiceError maps service errors to HTTP responses. Only validation
// errors are expected here; upstream failures never surface as errors.
func (h *ContentHandler) writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *content.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, validationErr.Message)
		return
	}
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
