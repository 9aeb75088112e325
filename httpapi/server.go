// Package httpapi exposes the research agent over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Runner answers a single research query. It is satisfied by
// *agentloop.Loop.
type Runner interface {
	Run(ctx context.Context, query string) (string, error)
}

// Saver persists a finished run. It is satisfied by *research.Store.
type Saver interface {
	Save(ctx context.Context, query, answer string) (string, error)
}

// Server wraps a runner with the HTTP surface.
type Server struct {
	runner         Runner
	saver          Saver // nil disables persistence
	authToken      string
	requestTimeout time.Duration
	logger         zerolog.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithAuthToken requires a Bearer token on answer requests. An empty token
// disables authentication.
func WithAuthToken(token string) ServerOption {
	return func(s *Server) { s.authToken = token }
}

// WithRequestTimeout bounds how long a single answer request may run.
func WithRequestTimeout(timeout time.Duration) ServerOption {
	return func(s *Server) { s.requestTimeout = timeout }
}

// WithLogger attaches a request logger.
func WithLogger(logger zerolog.Logger) ServerOption {
	return func(s *Server) { s.logger = logger }
}

// WithSaver persists every successful answer, so later queries can reuse it.
func WithSaver(saver Saver) ServerOption {
	return func(s *Server) { s.saver = saver }
}

// NewServer creates an HTTP API server around a runner.
func NewServer(runner Runner, opts ...ServerOption) *Server {
	s := &Server{
		runner:         runner,
		requestTimeout: time.Minute,
		logger:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the server's route tree.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/answer", s.logged(s.authed(s.AnswerHandler)))
	mux.HandleFunc("/health", s.logged(s.HealthHandler))
	return mux
}

// AnswerRequest is the body of POST /v1/answer. "question" is accepted as a
// synonym for "query".
type AnswerRequest struct {
	Query    string `json:"query"`
	Question string `json:"question,omitempty"`
}

// AnswerResponse is the success body of POST /v1/answer.
type AnswerResponse struct {
	Query  string `json:"query"`
	Answer string `json:"answer"`
}

// AnswerHandler handles POST /v1/answer.
func (s *Server) AnswerHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		query = strings.TrimSpace(req.Question)
	}
	if query == "" {
		writeError(w, http.StatusBadRequest, "Missing query")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	answer, err := s.runner.Run(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("run failed")
		if errors.Is(err, context.DeadlineExceeded) {
			writeError(w, http.StatusGatewayTimeout, "Run timed out")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if s.saver != nil {
		if _, err := s.saver.Save(ctx, query, answer); err != nil {
			s.logger.Warn().Err(err).Str("query", query).Msg("could not save answer")
		}
	}

	writeJSON(w, http.StatusOK, AnswerResponse{Query: query, Answer: answer})
}

// HealthHandler handles GET /health.
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// authed rejects requests without the configured Bearer token.
func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.authToken != "" {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token != s.authToken {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
		}
		next(w, r)
	}
}

// logged emits one structured log line per request.
func (s *Server) logged(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
