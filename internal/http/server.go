package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"lifeadmin/internal/middleware/ratelimit"
	"lifeadmin/internal/middleware/trace"
	"lifeadmin/internal/services"
	"lifeadmin/internal/storage"
)

// Server wires the JSON API over the finance and dashboard services and the
// workout/course collections.
type Server struct {
	http.Server
	finance   *services.FinanceService
	dashboard *services.DashboardService
	repo      *storage.SQLiteRepository

	tracer      *trace.Middleware
	rateLimiter *ratelimit.Limiter

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, finance *services.FinanceService, dashboard *services.DashboardService, repo *storage.SQLiteRepository) *Server {
	mux := http.NewServeMux()

	s := &Server{
		finance:     finance,
		dashboard:   dashboard,
		repo:        repo,
		tracer:      trace.NewMiddleware(extractClientIP),
		rateLimiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	mux.HandleFunc("GET /finance/overview", s.handleFinanceOverview)
	mux.HandleFunc("POST /finance/transactions", s.handleAppendTransaction)
	mux.HandleFunc("POST /finance/budgets", s.handleUpsertBudget)
	mux.HandleFunc("GET /finance/transactions/export", s.handleExportTransactions)

	mux.HandleFunc("GET /dashboard/overview", s.handleDashboardOverview)

	mux.HandleFunc("GET /workouts", s.handleListWorkouts)
	mux.HandleFunc("GET /workouts/stats", s.handleWorkoutStats)
	mux.HandleFunc("POST /workouts", s.handleCreateWorkout)
	mux.HandleFunc("PUT /workouts/{id}", s.handleUpdateWorkout)
	mux.HandleFunc("DELETE /workouts/{id}", s.handleDeleteWorkout)

	mux.HandleFunc("GET /courses", s.handleListCourses)
	mux.HandleFunc("POST /courses", s.handleCreateCourse)
	mux.HandleFunc("PUT /courses/{id}", s.handleUpdateCourse)
	mux.HandleFunc("DELETE /courses/{id}", s.handleDeleteCourse)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	s.Server.Addr = addr
	s.Server.Handler = s.tracer.Middleware(s.withRateLimit(mux))
	s.Server.ReadHeaderTimeout = 10 * time.Second
	s.Server.WriteTimeout = 30 * time.Second
	s.Server.IdleTimeout = 60 * time.Second
	return s
}

// withRateLimit throttles mutating requests per client IP and sets the base
// security headers. Reads pass through the limiter.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")

		if r.Method != http.MethodGet && !s.rateLimiter.Allow(extractClientIP(r)) {
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops the background goroutines and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.finance.Overview(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "storage not ready"})
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	m := s.tracer.GetMetrics()
	writeJSON(w, http.StatusOK, map[string]any{
		"totalRequests":      m.TotalRequests,
		"rateLimitedClients": s.rateLimiter.ActiveClients(),
	})
}
