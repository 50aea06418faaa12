// Package http exposes the intent runner over a small JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmwilson/ollie/pkg/adapters/hermes"
	"github.com/jmwilson/ollie/pkg/backend"
	"github.com/jmwilson/ollie/pkg/dispatch"
	"github.com/jmwilson/ollie/pkg/domain"
	"github.com/jmwilson/ollie/pkg/ports"
	"github.com/jmwilson/ollie/pkg/runner"
	"github.com/jmwilson/ollie/pkg/schema"
	"github.com/jmwilson/ollie/pkg/vocab"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MaxBodySize bounds the size of an intent record.
const MaxBodySize = 64 << 10

// OperationLister reports the intent names a dispatcher maps.
type OperationLister interface {
	Operations() []string
}

// DispatchResult is the response body of POST /intents.
type DispatchResult struct {
	Intent  string         `json:"intent"`
	Outcome domain.Outcome `json:"outcome"`
	Error   string         `json:"error,omitempty"`
}

// Server serves the intent API.
type Server struct {
	submitter  ports.IntentSubmitter
	operations OperationLister
	streams    *StreamManager
	gatherer   prometheus.Gatherer
	logger     *slog.Logger
	record     *openapi3.Schema
}

// Option defines a functional option for configuring the Server.
type Option func(*Server)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithStreams serves GET /events from sm. Register sm.Hooks with the runner
// so dispatches reach it.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.streams = sm
	}
}

// WithGatherer serves GET /metrics from g. Defaults to prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithOperations serves GET /operations from l.
func WithOperations(l OperationLister) Option {
	return func(s *Server) {
		s.operations = l
	}
}

// NewServer creates a Server submitting intents to sub.
func NewServer(sub ports.IntentSubmitter, opts ...Option) (*Server, error) {
	record, err := schemaFor("IntentRecord")
	if err != nil {
		return nil, err
	}
	s := &Server{
		submitter: sub,
		gatherer:  prometheus.DefaultGatherer,
		logger:    slog.Default(),
		record:    record,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.streams == nil {
		s.streams = NewStreamManager(s.logger)
	}
	return s, nil
}

// Streams returns the SSE stream manager.
func (s *Server) Streams() *StreamManager { return s.streams }

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/intents", s.DispatchIntent)
	r.Get("/operations", s.ListOperations)
	r.Get("/capabilities", s.GetCapabilities)
	r.Get("/capabilities/{dialect}", s.GetDialectCapabilities)
	r.Get("/healthz", s.GetHealth)
	r.Method(http.MethodGet, "/events", s.streams)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(Spec())
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Ollie API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// DispatchIntent handles the POST /intents request.
func (s *Server) DispatchIntent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodySize))
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		s.logger.Warn("DispatchIntent: Invalid request body", "error", err)
		writeJSON(w, http.StatusBadRequest, DispatchResult{Outcome: domain.Ignored, Error: "invalid JSON: " + err.Error()})
		return
	}
	if err := s.record.VisitJSON(doc); err != nil {
		s.logger.Warn("DispatchIntent: Record rejected by schema", "error", err)
		writeJSON(w, http.StatusBadRequest, DispatchResult{Outcome: domain.Ignored, Error: err.Error()})
		return
	}

	in, err := hermes.DecodeRecord(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, DispatchResult{Outcome: domain.Ignored, Error: err.Error()})
		return
	}

	outcome, err := s.submitter.Submit(r.Context(), in)
	res := DispatchResult{Intent: in.Name, Outcome: outcome}
	if err != nil {
		res.Error = err.Error()
		s.logger.Warn("DispatchIntent: intent failed", "intent", in.Name, "error", err)
	}
	writeJSON(w, StatusFor(err), res)
}

// StatusFor maps a dispatch error to an HTTP status code.
func StatusFor(err error) int {
	var (
		verr *schema.ValidationError
		uerr *vocab.UnknownValueError
		nerr *domain.UnsupportedOperationError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr), errors.As(err, &uerr),
		errors.Is(err, runner.ErrSlotTooLarge), errors.Is(err, runner.ErrInvalidUTF8):
		return http.StatusUnprocessableEntity
	case errors.As(err, &nerr):
		return http.StatusNotImplemented
	case errors.Is(err, domain.ErrQueueClosed), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// ListOperations handles the GET /operations request.
func (s *Server) ListOperations(w http.ResponseWriter, r *http.Request) {
	if s.operations == nil {
		writeJSON(w, http.StatusOK, []dispatch.Contract{})
		return
	}
	writeJSON(w, http.StatusOK, dispatch.Contracts(s.operations.Operations()))
}

// GetCapabilities handles the GET /capabilities request.
func (s *Server) GetCapabilities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, backend.Matrix())
}

// GetDialectCapabilities handles the GET /capabilities/{dialect} request.
func (s *Server) GetDialectCapabilities(w http.ResponseWriter, r *http.Request) {
	dialect, err := domain.ParseDialect(chi.URLParam(r, "dialect"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	caps, err := backend.Capabilities(dialect)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, caps)
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
