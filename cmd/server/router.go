package main

import (
	"net/http"

	"github.com/JaimeStill/registrar/internal/config"
	"github.com/JaimeStill/registrar/internal/infrastructure"
	"github.com/JaimeStill/registrar/pkg/handlers"
)

// buildRouter mounts the probes and metrics exposition beside the front end,
// which owns every other path.
func buildRouter(cfg *config.Config, infra *infrastructure.Infrastructure, frontend http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondText(w, http.StatusOK, "OK")
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	if cfg.Metrics.Enabled() {
		mux.Handle("GET "+cfg.Metrics.Path, infra.Metrics.Handler())
	}

	mux.Handle("/", frontend)
	return mux
}
