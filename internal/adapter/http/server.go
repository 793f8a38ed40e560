// Package http exposes the device-facing JSON API plus health, readiness,
// and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/onetapcall/emergency-resolver/internal/directory"
	"github.com/onetapcall/emergency-resolver/internal/domain"
	"github.com/onetapcall/emergency-resolver/internal/resolver"
	"github.com/onetapcall/emergency-resolver/internal/session"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server wires the navigation controller and resolution service to HTTP.
type Server struct {
	httpServer *http.Server
	controller *session.Controller
	resolver   *resolver.Service
	store      domain.NumberStore // nil when the remote store is disabled
	logger     *slog.Logger
}

// NewServer creates the HTTP server. Pass a nil store to disable the seed
// endpoint.
func NewServer(addr string, ctrl *session.Controller, res *resolver.Service, store domain.NumberStore, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		controller: ctrl,
		resolver:   res,
		store:      store,
		logger:     logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/v1/state", s.handleState)
	mux.HandleFunc("POST /api/v1/state/select", s.handleSelect)
	mux.HandleFunc("POST /api/v1/state/back", s.handleBack)
	mux.HandleFunc("POST /api/v1/state/tab", s.handleTab)
	mux.HandleFunc("POST /api/v1/state/call", s.handleCall)

	mux.HandleFunc("GET /api/v1/numbers", s.handleNumbers)
	mux.HandleFunc("GET /api/v1/numbers/{countryCode}", s.handleNumbersByCountry)

	mux.HandleFunc("POST /api/v1/admin/seed", s.handleSeed)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Service string `json:"service"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	service, err := domain.ParseServiceType(req.Service)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.controller.SelectService(service); err != nil {
		writeTransitionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleBack(w http.ResponseWriter, _ *http.Request) {
	if err := s.controller.Back(); err != nil {
		writeTransitionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleTab(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tab string `json:"tab"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.controller.SwitchTab(session.Tab(req.Tab)); err != nil {
		writeTransitionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	if err := s.controller.ConfirmCall(r.Context()); err != nil {
		switch {
		case errors.Is(err, session.ErrInvalidTransition):
			writeError(w, http.StatusConflict, err)
		default:
			// The one failure that reaches the user as a visible error.
			writeError(w, http.StatusBadGateway, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "dialing"})
}

func (s *Server) handleNumbers(w http.ResponseWriter, r *http.Request) {
	records := s.resolver.ResolveAll(r.Context())

	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		records = filterRecords(records, q)
	}
	writeJSON(w, http.StatusOK, map[string]any{"numbers": records})
}

func (s *Server) handleNumbersByCountry(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(r.PathValue("countryCode"))
	writeJSON(w, http.StatusOK, s.resolver.ResolveByCountry(r.Context(), code))
}

// handleSeed pushes the built-in table to the remote store. Unlike the
// resolution path, a failure here is surfaced, not degraded.
func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusConflict, errors.New("remote number store is not configured"))
		return
	}

	n, err := s.store.PutAll(r.Context(), directory.All())
	if err != nil {
		s.logger.Error("seeding remote store failed", "seeded", n, "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"seeded": n,
			"error":  err.Error(),
		})
		return
	}
	s.logger.Info("remote store seeded", "seeded", n)
	writeJSON(w, http.StatusOK, map[string]any{"seeded": n})
}

// filterRecords keeps records whose country name or code contains q,
// case-insensitively.
func filterRecords(records []domain.CountryRecord, q string) []domain.CountryRecord {
	q = strings.ToLower(q)
	out := make([]domain.CountryRecord, 0, len(records))
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.Country), q) ||
			strings.Contains(strings.ToLower(rec.CountryCode), q) {
			out = append(out, rec)
		}
	}
	return out
}

func writeTransitionError(w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrInvalidTransition) {
		writeError(w, http.StatusConflict, err)
		return
	}
	writeError(w, http.StatusBadRequest, err)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
