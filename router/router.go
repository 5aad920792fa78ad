// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/scanstation/api"
	"github.com/danielhkuo/scanstation/auth"
	"github.com/danielhkuo/scanstation/cliparse"
	"github.com/danielhkuo/scanstation/handlers"
	"github.com/danielhkuo/scanstation/journal"
	"github.com/danielhkuo/scanstation/middleware"
	"github.com/danielhkuo/scanstation/scan"
)

// Deps are the station components the routes are served from
type Deps struct {
	Gate    *scan.Gate
	Demo    *scan.DemoSource
	Journal *journal.Journal
	Client  *api.Client
	Store   auth.TokenStore
	Config  cliparse.Config
}

func NewRouter(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	scanHandler := handlers.NewScanHandler(d.Gate, d.Demo, d.Journal)
	eventHandler := handlers.NewEventHandler(d.Client)
	sessionHandler := handlers.NewSessionHandler(d.Client, d.Store)

	limiter := middleware.NewRateLimiter(d.Config.ScanRate, 3)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Scanning
	mux.HandleFunc("POST /scans", middleware.WithLogging(limiter.Limit(scanHandler.Submit)))
	mux.HandleFunc("POST /scans/demo", middleware.WithLogging(limiter.Limit(scanHandler.Demo)))
	mux.HandleFunc("POST /scans/ack", middleware.WithLogging(scanHandler.Acknowledge))
	mux.HandleFunc("POST /scans/activate", middleware.WithLogging(scanHandler.Activate))
	mux.HandleFunc("POST /scans/deactivate", middleware.WithLogging(scanHandler.Deactivate))
	mux.HandleFunc("GET /scans/status", scanHandler.Status)
	mux.HandleFunc("GET /scans/history", middleware.WithLogging(scanHandler.History))
	mux.HandleFunc("GET /scans/stats", middleware.WithLogging(scanHandler.Stats))

	// Events (proxied to the backend)
	mux.HandleFunc("GET /events", middleware.WithLogging(eventHandler.List))
	mux.HandleFunc("POST /events", middleware.WithLogging(eventHandler.Create))
	mux.HandleFunc("GET /events/{id}", middleware.WithLogging(eventHandler.Get))
	mux.HandleFunc("PUT /events/{id}", middleware.WithLogging(eventHandler.Update))
	mux.HandleFunc("DELETE /events/{id}", middleware.WithLogging(eventHandler.Delete))

	// Operator session
	mux.HandleFunc("GET /session", middleware.WithLogging(sessionHandler.Get))
	mux.HandleFunc("POST /session", middleware.WithLogging(sessionHandler.Login))
	mux.HandleFunc("POST /session/register", middleware.WithLogging(sessionHandler.Register))
	mux.HandleFunc("DELETE /session", middleware.WithLogging(sessionHandler.Logout))

	// Root endpoint; {$} keeps it from catching unknown paths
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("scanstation API v1"))
	})

	return mux
}
