package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"livebridge/internal/bridge"
	"livebridge/internal/config"
	"livebridge/internal/logging"
	"livebridge/internal/services"
)

const maxRequestBody = 1 << 20

// Server serves the bridge endpoints on the configured bind address.
type Server struct {
	bind            string
	logger          *slog.Logger
	dispatcher      *bridge.Dispatcher
	handler         http.Handler
	server          *http.Server
	listener        net.Listener
	shutdownTimeout time.Duration
}

// New builds the HTTP server around the given dispatcher. Timeouts come from
// the server section of the config.
func New(cfg *config.Config, dispatcher *bridge.Dispatcher, logger *slog.Logger) *Server {
	srv := &Server{
		bind:            strings.TrimSpace(cfg.Server.Bind),
		logger:          logging.NewComponentLogger(logger, "httpapi"),
		dispatcher:      dispatcher,
		shutdownTimeout: time.Duration(cfg.Server.ShutdownTimeout) * time.Second,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", srv.handleHealth)
	mux.HandleFunc("/add_device", srv.handleAddDevice)
	mux.HandleFunc("/", srv.handleUnknown)
	srv.handler = srv.middleware(mux)

	srv.server = &http.Server{
		Handler:           srv.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// Handler returns the fully wired handler stack, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr reports the bound listen address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.bind
}

// Start binds the listener and serves until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	s.logger.Info("endpoint available",
		logging.String("method", http.MethodGet),
		logging.String("path", "/health"),
		logging.String("description", "health check"))
	s.logger.Info("endpoint available",
		logging.String("method", http.MethodPost),
		logging.String("path", "/add_device"),
		logging.String("description", "load a device onto a track"))
	return nil
}

// Stop shuts the server down, waiting up to the configured timeout for
// in-flight requests.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// middleware assigns a correlation id to every request and short-circuits
// CORS preflights before routing.
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := services.WithRequestID(r.Context(), uuid.NewString())

		if r.Method == http.MethodOptions {
			// Preflights get CORS headers and an empty body, nothing else.
			applyCORS(w.Header())
			w.WriteHeader(http.StatusOK)
			return
		}

		logging.WithContext(ctx, s.logger).Debug("request received",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.notFound(w, r)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleAddDevice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.notFound(w, r)
		return
	}
	ctx := r.Context()

	var req bridge.AddDeviceRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.respondError(ctx, w, services.Wrap(services.ErrValidation, "add device", "decode request", "", err))
		return
	}

	result, err := s.dispatcher.AddDevice(ctx, req)
	if err != nil {
		s.respondError(ctx, w, err)
		return
	}
	s.writeJSON(ctx, w, http.StatusOK, AddDeviceResponse{Success: true, Result: result})
}

func (s *Server) handleUnknown(w http.ResponseWriter, r *http.Request) {
	s.notFound(w, r)
}

// notFound answers any route or method outside the published surface.
func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	logging.WarnWithContext(logging.WithContext(r.Context(), s.logger), "endpoint not found", "endpoint_not_found",
		logging.String("method", r.Method),
		logging.String("path", r.URL.Path),
		logging.String(logging.FieldErrorKind, string(services.KindRouting)),
		logging.String(logging.FieldImpact, "request rejected"),
		logging.String(logging.FieldErrorHint, "use GET /health or POST /add_device"))
	s.writeError(r.Context(), w, http.StatusNotFound, "Endpoint not found")
}

func (s *Server) respondError(ctx context.Context, w http.ResponseWriter, err error) {
	kind := services.Classify(err)
	attrs := []logging.Attr{
		logging.Error(err),
		logging.String(logging.FieldErrorKind, string(kind)),
	}
	switch kind {
	case services.KindRemote, services.KindTimeout:
		attrs = append(attrs, logging.String(logging.FieldErrorHint, "confirm Ableton Live is running with the remote script loaded"))
	}
	logging.ErrorWithContext(logging.WithContext(ctx, s.logger), "request failed", "request_failed", attrs...)
	s.writeError(ctx, w, services.HTTPStatus(err), err.Error())
}

func (s *Server) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	applyCORS(w.Header())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.WithContext(ctx, s.logger).Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	s.writeJSON(ctx, w, status, ErrorResponse{Error: message})
}

func applyCORS(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}
