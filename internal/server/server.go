// Package server exposes the simulation engine over a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"options-simulator/internal/config"
	"options-simulator/internal/logging"
	"options-simulator/internal/simulation"
	"options-simulator/internal/store"
)

// Server wires the HTTP routes to the simulation engine and the
// saved-simulation store.
type Server struct {
	calc   *simulation.Calculator
	proj   *simulation.Projector
	store  store.SimulationStore
	logger zerolog.Logger
	router *mux.Router
	http   *http.Server
}

// New creates a Server with routes registered.
func New(cfg config.ServerConfig, calc *simulation.Calculator, st store.SimulationStore, logger zerolog.Logger) *Server {
	s := &Server{
		calc:   calc,
		proj:   simulation.NewProjector(calc),
		store:  st,
		logger: logger,
		router: mux.NewRouter(),
	}
	s.routes()

	s.http = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.router.Use(s.logMiddleware)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/simulate", s.handleSimulate).Methods(http.MethodPost)
	api.HandleFunc("/project", s.handleProject).Methods(http.MethodPost)
	api.HandleFunc("/greeks", s.handleGreeks).Methods(http.MethodPost)
	api.HandleFunc("/simulations", s.handleListSimulations).Methods(http.MethodGet)
	api.HandleFunc("/simulations", s.handleSaveSimulation).Methods(http.MethodPost)
	api.HandleFunc("/simulations/{id}", s.handleGetSimulation).Methods(http.MethodGet)
	api.HandleFunc("/simulations/{id}", s.handleDeleteSimulation).Methods(http.MethodDelete)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
}

// Handler returns the underlying router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server and blocks until it stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
	return s.http.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		logger := s.logger.With().Str("request_id", uuid.NewString()).Logger()
		ctx := logging.WithLogger(r.Context(), logger)
		next.ServeHTTP(rec, r.WithContext(ctx))

		logging.LogRequest(logger, r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
