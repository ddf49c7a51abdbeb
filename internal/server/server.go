// Package server exposes the HTTP intake boundary: a health check and
// the form submit endpoint that hands accepted submissions to the
// background pipeline.
package server

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intake/internal/form"
	"github.com/sells-group/lead-intake/internal/model"
	"github.com/sells-group/lead-intake/internal/ratelimit"
)

// Server wires the router and limiter around the background pipeline.
type Server struct {
	limiter *ratelimit.Limiter
	process func(sub model.Submission) string
	now     func() time.Time
}

type submitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type errorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Fields  []form.FieldError `json:"fields,omitempty"`
}

// New creates a Server. process launches the pipeline for a validated
// submission and returns the background task id.
func New(limiter *ratelimit.Limiter, process func(sub model.Submission) string) *Server {
	return &Server{
		limiter: limiter,
		process: process,
		now:     time.Now,
	}
}

// Router builds the chi router with CORS for browser-hosted forms.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/api/form/submit", s.handleSubmit)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSubmit validates the payload, hands the lead to the pipeline,
// and responds immediately. The pipeline runs detached; its outcome is
// observable only through logs.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	clientKey := clientIP(r)
	if !s.limiter.Allow(clientKey) {
		zap.L().Warn("rate limit exceeded", zap.String("client", clientKey))
		writeJSON(w, http.StatusTooManyRequests, errorResponse{
			Error: "Too many submissions. Please try again later.",
		})
		return
	}

	var in form.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	sub, err := form.Validate(in, s.now().UTC())
	if err != nil {
		var verr *form.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error:  "validation failed",
				Fields: verr.Fields,
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid submission"})
		return
	}

	taskID := s.process(sub)
	zap.L().Info("submission accepted",
		zap.String("email", sub.Email),
		zap.String("company", sub.Company),
		zap.String("task_id", taskID),
	)

	writeJSON(w, http.StatusOK, submitResponse{
		Success: true,
		Message: "Form submitted successfully. We will be in touch soon!",
	})
}

// clientIP resolves the rate-limit key: proxy headers first, then the
// connection's remote address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response failed", zap.Error(err))
	}
}
