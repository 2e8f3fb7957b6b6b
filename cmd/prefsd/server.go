package main

import (
	"log/slog"
	"net/http"
)

// NewRouter registers all routes and wraps them with the middleware chain.
func NewRouter(h *Handler, cfg Config, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check (no auth required — JWT middleware skips /healthz)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Preferences
	mux.HandleFunc("GET /api/v1/preferences/{name}", h.GetPreference)
	mux.HandleFunc("PUT /api/v1/preferences/{name}", h.PutPreference)

	// Listening progress
	mux.HandleFunc("GET /api/v1/courses/{course}/lessons/{lesson}/progress", h.GetProgress)
	mux.HandleFunc("PUT /api/v1/courses/{course}/lessons/{lesson}/progress", h.PutProgress)
	mux.HandleFunc("POST /api/v1/courses/{course}/lessons/{lesson}/finished", h.MarkFinished)
	mux.HandleFunc("DELETE /api/v1/courses/{course}/progress", h.DeleteCourseProgress)
	mux.HandleFunc("GET /api/v1/recent", h.GetRecent)

	// Metrics identity
	mux.HandleFunc("GET /api/v1/metrics/token", h.GetMetricsToken)
	mux.HandleFunc("DELETE /api/v1/metrics/token", h.DeleteMetricsToken)

	// Middleware chain: Recovery → CORS → RequestLogging → JWTAuth → mux
	var handler http.Handler = mux
	handler = JWTAuth(cfg.JWTSecret, cfg.JWTIssuer, cfg.DevBypassAuth)(handler)
	handler = RequestLogging(logger)(handler)
	handler = CORS(cfg.CORSAllowOrigin)(handler)
	handler = Recovery(logger)(handler)

	return handler
}
