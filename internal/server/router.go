package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter wires the API routes, CORS policy, and Prometheus endpoint.
func NewRouter(handler *ContentHandler, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(requestLogger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         3600,
	}))

	router.Get("/", handler.Root)
	router.Route("/api", func(r chi.Router) {
		// The affirmation and fun endpoints accept GET for the frontend and
		// POST with an optional {language} body.
		r.Get("/daily-affirmation", handler.DailyAffirmation)
		r.Post("/daily-affirmation", handler.DailyAffirmation)
		r.Get("/random-fun", handler.RandomFun)
		r.Post("/random-fun", handler.RandomFun)
		r.Post("/riddle", handler.Riddle)
		r.Post("/ascii-challenge", handler.ASCIIChallenge)
		r.Post("/personality-insight", handler.PersonalityInsight)
		r.Get("/stats", handler.Stats)
		r.Get("/personality-types", handler.PersonalityTypes)
	})
	router.Method(http.MethodGet, "/metrics", handler.collector.Handler())

	return router
}

// requestLogger logs one line per request with status and duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Default().Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}
