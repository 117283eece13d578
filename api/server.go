/*
server.go - HTTP router and middleware configuration

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the browser pages

ROUTE GROUPS:
  /api/employees/*      Employees, clocking, summaries
  /api/active           Active employee pointer
  /api/export/*         CSV / XLSX reports
  /api/reset            Storage reset (dev only)
  /api/scenarios/*      Demo scenarios (loading is dev only)
  /*                    Static pages

STATIC FILES AND OFFLINE PAGE:
  Files under StaticDir are served as-is. A page navigation (Accept:
  text/html) for a missing file gets the offline page, the same last
  resort the browser cache worker uses when both its cache and the
  network miss. Missing assets (icons, scripts) stay 404.
*/
package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	AllowedOrigins []string
	StaticDir      string
	OfflinePage    string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.UpsertEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Post("/{id}/clock-in", h.ClockIn)
			r.Post("/{id}/clock-out", h.ClockOut)
			r.Get("/{id}/summary", h.GetSummary)
			r.Get("/{id}/days", h.GetDays)
		})

		r.Route("/active", func(r chi.Router) {
			r.Get("/", h.GetActive)
			r.Put("/", h.SetActive)
			r.Delete("/", h.ClearActive)
		})

		r.Get("/export/{report}.{format}", h.Export)
		r.Post("/reset", h.ResetStorage)

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
	})

	if opts.StaticDir != "" {
		r.Get("/*", staticHandler(opts.StaticDir, opts.OfflinePage))
	}

	return r
}

func staticHandler(dir, offlinePage string) http.HandlerFunc {
	fileServer := http.FileServer(http.Dir(dir))
	return func(w http.ResponseWriter, r *http.Request) {
		clean := filepath.Clean("/" + strings.TrimPrefix(r.URL.Path, "/"))
		fullPath := filepath.Join(dir, clean)

		if _, err := os.Stat(fullPath); os.IsNotExist(err) {
			if offlinePage == "" || !acceptsHTML(r) {
				http.NotFound(w, r)
				return
			}
			offline := filepath.Join(dir, offlinePage)
			if _, err := os.Stat(offline); err != nil {
				http.NotFound(w, r)
				return
			}
			http.ServeFile(w, r, offline)
			return
		}
		fileServer.ServeHTTP(w, r)
	}
}

func acceptsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
