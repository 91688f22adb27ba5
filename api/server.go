/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/settlements/*    Severance settlement computation and history
  /api/tax/*            ISR withholding calculator
  /api/contributions/*  Social security contribution calculator
  /api/formulas/*       Formula evaluation and preview
  /api/payroll/*        Full payroll run over the concept catalog
  /api/concepts/*       Concept catalog management
  /api/tables/*         Active bracket/rate table configuration

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Settlement routes
		r.Route("/settlements", func(r chi.Router) {
			r.Get("/", h.ListSettlements)
			r.Post("/", h.ComputeSettlement)
			r.Get("/{id}", h.GetSettlement)
		})

		// Tax routes
		r.Route("/tax", func(r chi.Router) {
			r.Post("/compute", h.ComputeTax)
		})

		// Contribution routes
		r.Route("/contributions", func(r chi.Router) {
			r.Post("/compute", h.ComputeContributions)
		})

		// Formula routes
		r.Route("/formulas", func(r chi.Router) {
			r.Post("/evaluate", h.EvaluateFormula)
			r.Post("/preview", h.PreviewFormula)
		})

		// Payroll routes
		r.Route("/payroll", func(r chi.Router) {
			r.Post("/run", h.RunPayroll)
		})

		// Concept catalog routes
		r.Route("/concepts", func(r chi.Router) {
			r.Get("/", h.ListConcepts)
			r.Post("/", h.CreateConcept)
			r.Delete("/{name}", h.DeleteConcept)
		})

		// Table configuration routes
		r.Route("/tables", func(r chi.Router) {
			r.Get("/", h.GetTables)
			r.Put("/{kind}", h.PutTable)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Payroll Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Payroll Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/settlements">/api/settlements</a> - Settlement history</li>
<li><a href="/api/concepts">/api/concepts</a> - Payroll concept catalog</li>
<li><a href="/api/tables">/api/tables</a> - Active tax and contribution tables</li>
</ul>
</body>
</html>`))
	})

	return r
}
