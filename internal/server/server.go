// Package server exposes the manual trigger and diagnostics endpoints.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"FondoSync/internal/config"
	"FondoSync/internal/scheduler"
)

// Server is the HTTP entry point: health, config diagnostics and
// on-demand pipeline runs.
type Server struct {
	router *chi.Mux
	server *http.Server
	sched  *scheduler.Scheduler
	cfg    *config.Config
}

// New creates the server.
func New(port int, sched *scheduler.Scheduler, cfg *config.Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		sched:  sched,
		cfg:    cfg,
	}

	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/diagnose", s.handleDiagnose)
	s.router.Post("/run", s.handleRun)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.router,
		// Runs are synchronous: six sequential fetches plus an AI call
		// must fit in the write timeout.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
	}
	return s
}

// Start starts the HTTP server and blocks.
func (s *Server) Start() error {
	log.Printf("[INFO] http server listening on %s", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleDiagnose reports which credentials are present without leaking
// their values.
func (s *Server) handleDiagnose(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"diagnosis": map[string]bool{
			"api_credentials":   s.cfg.API.Password != "" && s.cfg.API.CodigoApp != "",
			"api_client_cert":   s.cfg.API.ClientCert != "" && s.cfg.API.ClientKey != "",
			"gemini_api_key":    s.cfg.Gemini.APIKey != "",
			"gmail_credentials": s.cfg.Gmail.ClientID != "" && s.cfg.Gmail.ClientSecret != "" && s.cfg.Gmail.RefreshToken != "",
			"surreal_address":   s.cfg.Storage.Surreal.Address != "",
			"telegram":          s.cfg.Telegram.BotToken != "",
		},
	})
}

// handleRun triggers one ingestion run synchronously and returns its
// summary. ?source=mail selects the email/AI path; default is the API.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")

	var summary any
	switch source {
	case "", "api":
		summary = s.sched.RunAPINow()
	case "mail":
		summary = s.sched.RunMailNow()
	default:
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": fmt.Sprintf("unknown source %q", source),
		})
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}
