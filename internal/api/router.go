package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// Liveness probe outside the API prefix, for load balancers
	r.Get("/health", s.handleHealth)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", s.handleHealth)

		// System metrics
		r.Get("/metrics", s.handleMetrics)

		// Configuration store endpoints
		r.Route("/config", func(r chi.Router) {
			r.Get("/devices", s.handleListDevices)

			r.Route("/device/{name}", func(r chi.Router) {
				r.Get("/", s.handleGetDevice)
				r.Post("/", s.handleSaveDevice)
				r.Delete("/", s.handleDeleteDevice)
				r.Post("/reconfigure", s.handleReconfigureDevice)
			})

			r.Get("/schemas", s.handleSchemas)

			r.Get("/transferCapabilities", s.handleGetTransferCapabilities)
			r.Post("/transferCapabilities", s.handleSaveTransferCapabilities)
			r.Get("/metadata", s.handleGetMetadata)
			r.Post("/metadata", s.handleSaveMetadata)

			r.Get("/node", s.handleGetNode)
			r.Get("/pathByUUID/{uuid}", s.handlePathByUUID)

			r.Get("/exportFullConfiguration", s.handleExport)
			r.Post("/importFullConfiguration", s.handleImport)
		})

		// System management
		r.Post("/system/factory-reset", s.handleFactoryReset)

		// WebSocket for configuration change push
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
