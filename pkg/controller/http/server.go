package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/safetylens/safetytracker/frontend"
	"github.com/safetylens/safetytracker/pkg/domain/model"
	"github.com/safetylens/safetytracker/pkg/usecase"
)

// Server represents the HTTP server
type Server struct {
	*http.Server
	router    chi.Router
	dashboard *DashboardHandler
}

// Config holds the HTTP server settings
type Config struct {
	Addr string
	// BaseURL is the public URL of the dashboard; derived from requests if empty
	BaseURL string
	// Frontend overrides the embedded frontend build
	Frontend http.FileSystem
}

// NewServer creates a new HTTP server
func NewServer(ctx context.Context, cfg Config, dashboardUC usecase.DashboardUseCase) (*Server, error) {
	if dashboardUC == nil {
		return nil, goerr.New("dashboard use case is required")
	}

	router := chi.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	dashboard := NewDashboardHandler(dashboardUC, cfg.BaseURL)

	// Health check
	router.Get("/health", dashboard.HandleHealth)

	// API routes
	router.Route("/api", func(r chi.Router) {
		r.Use(CORS)

		r.Get("/options", dashboard.HandleOptions)
		r.Get("/layout", dashboard.HandleLayout)
		r.Post("/aggregate", dashboard.HandleAggregate)

		r.Route("/tabs", func(r chi.Router) {
			r.Get("/{tab}/menu", dashboard.HandleMenu)
			r.Post("/state", dashboard.HandleStateTab)
			r.Post("/metric", dashboard.HandleMetricTab)
		})

		r.Route("/events", func(r chi.Router) {
			r.Post("/map-click", dashboard.HandleMapClick)
			r.Post("/radar-click", dashboard.HandleRadarClick)
			r.Post("/scatter-relayout", dashboard.HandleScatterRelayout)
			r.Post("/bar-click", dashboard.HandleBarClick)
			r.Post("/treemap-click", dashboard.HandleTreemapClick)
		})

		r.Route("/export", func(r chi.Router) {
			r.Get("/states.xlsx", dashboard.HandleExportStates)
			r.Get("/{chart}.png", dashboard.HandleExportChart)
		})
	})

	// Frontend routes (serve embedded or filesystem)
	fsys := cfg.Frontend
	if fsys == nil {
		embedded, err := frontend.GetHTTPFS()
		if err != nil {
			ctxlog.From(ctx).Warn("Failed to get embedded frontend, using fallback",
				"error", err,
			)
		} else {
			fsys = embedded
		}
	}

	if fsys == nil {
		router.Get("/*", handleFallbackHome)
	} else {
		ctxlog.From(ctx).Info("Serving frontend")
		router.Handle("/*", NewFrontendHandler(ctx, fsys))
	}

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router:    router,
		dashboard: dashboard,
	}

	return server, nil
}

// handleFallbackHome handles the root path when frontend is not available
func handleFallbackHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>` + model.DashboardTitle + `</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            background: #f8fafc;
            color: #0f172a;
        }
        .container {
            text-align: center;
            padding: 2rem;
        }
        h1 {
            margin: 0 0 1rem 0;
            font-size: 2.5rem;
        }
        code {
            background: #e2e8f0;
            padding: 0.1rem 0.3rem;
            border-radius: 4px;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>` + model.DashboardTitle + `</h1>
        <p>The frontend is not bundled with this build.</p>
        <p>The JSON API is available under <code>/api</code>.</p>
    </div>
</body>
</html>`)); err != nil {
		ctxlog.From(r.Context()).Error("Failed to write fallback home page", "error", err)
	}
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode response", "error", err)
	}
}

// writeError writes an error response
func writeError(w http.ResponseWriter, err error, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	var message string
	if goErr := goerr.Unwrap(err); goErr != nil {
		message = goErr.Error()
	} else {
		message = err.Error()
	}

	if err := json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	}); err != nil {
		// Can't get context here, so use background context
		ctxlog.From(context.Background()).Error("Failed to encode error response", "error", err)
	}
}
