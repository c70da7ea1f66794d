package ui

import (
	"encoding/json"
	"net/http"
	"time"

	"sheetchat/internal"
	"sheetchat/internal/chat"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewOpsRouter serves health and pprof endpoints on the operator port.
// usage may be nil.
func NewOpsRouter(manager *chat.Manager, usage UsageTotals) http.Handler {
	logger := internal.DefaultLogger.With("OpsRouter")
	started := time.Now()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		body := map[string]interface{}{
			"status":   "ok",
			"sessions": manager.Len(),
			"uptime":   time.Since(started).Round(time.Second).String(),
		}
		if usage != nil {
			totals, err := usage.Totals(r.Context(), started)
			if err != nil {
				logger.Warn("usage totals unavailable: %v", err)
				body["usage_error"] = err.Error()
			} else {
				body["usage"] = totals
			}
		}
		writeJSON(w, http.StatusOK, body)
	})
	r.Mount("/debug", middleware.Profiler())
	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
