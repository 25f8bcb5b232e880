package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/agentjobs/internal/domain"
	"github.com/kailas-cloud/agentjobs/internal/domain/search/request"
	healthuc "github.com/kailas-cloud/agentjobs/internal/usecase/health"
	matchuc "github.com/kailas-cloud/agentjobs/internal/usecase/match"
	searchuc "github.com/kailas-cloud/agentjobs/internal/usecase/search"
	statsuc "github.com/kailas-cloud/agentjobs/internal/usecase/stats"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the job search and agent matching API.
type Server struct {
	search        *searchuc.Service
	match         *matchuc.Service
	stats         *statsuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	paging        request.Paging
	errorHandlers []errorHandler
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithPaging overrides the default and maximum page size of GET /api/v1/jobs.
func WithPaging(p request.Paging) ServerOption {
	return func(s *Server) { s.paging = p }
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	match *matchuc.Service,
	stats *statsuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
	opts ...ServerOption,
) *Server {
	s := &Server{
		search: search,
		match:  match,
		stats:  stats,
		health: health,
		logger: logger,
		paging: request.DefaultPaging,
	}
	for _, o := range opts {
		o(s)
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrJobNotFound, http.StatusNotFound, ErrorCodeJobNotFound),
		sentinelHandler(domain.ErrSessionNotFound, http.StatusNotFound, ErrorCodeSessionNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrCorpusNotReady, http.StatusServiceUnavailable, ErrorCodeCorpusNotReady),
		sentinelHandler(domain.ErrSkillExtraction, http.StatusBadGateway, ErrorCodeSkillExtractionFailed),
	}
	return s
}

// Routes registers all endpoints on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Get("/mcp/manifest.json", s.MCPManifestHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/jobs", s.ListJobs)
		r.Get("/jobs/{id}", s.GetJob)
		r.Get("/jobs/{id}/similar", s.SimilarJobs)
		r.Post("/agent/search", s.AgentSearch)
		r.Get("/agent/session/{id}", s.GetAgentSession)
		r.Get("/stats", s.Stats)
		r.Get("/categories", s.Categories)
		r.Get("/skills/trending", s.TrendingSkills)
		r.Get("/companies", s.ListCompanies)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeBadRequest, "method not allowed")
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:        string(report.Status),
		Checks:        checks,
		CorpusVersion: report.CorpusVersion,
		CorpusJobs:    report.CorpusJobs,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// queryTimeMs returns the elapsed milliseconds rounded to two decimals.
func queryTimeMs(start time.Time) float64 {
	us := time.Since(start).Microseconds()
	return float64(us/10) / 100
}

// safeDomainMessage returns a client-safe message without exposing internals.
// Field errors keep the offending field.
func safeDomainMessage(err error) string {
	var fe *domain.FieldError
	if errors.As(err, &fe) {
		return fe.Error()
	}
	sentinels := []error{
		domain.ErrValidation,
		domain.ErrJobNotFound,
		domain.ErrSessionNotFound,
		domain.ErrNotFound,
		domain.ErrCorpusNotReady,
		domain.ErrSkillExtraction,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
