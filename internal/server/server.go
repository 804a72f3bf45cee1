package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/job-tracker/internal/jobstore"
	"github.com/jonathan/job-tracker/internal/overlay"
	"github.com/jonathan/job-tracker/internal/rendering"
	"github.com/jonathan/job-tracker/internal/server/middleware"
	"github.com/jonathan/job-tracker/internal/server/ratelimit"
	"github.com/jonathan/job-tracker/internal/tracker"
	"github.com/jonathan/job-tracker/internal/types"
	"golang.org/x/sync/errgroup"
)

// DefaultTitle is the page title.
const DefaultTitle = "tracker0 · Job Applications"

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	title       string
	toastTTL    time.Duration
	renderer    *rendering.Renderer
	sessions    *sessionStore
	events      *overlay.Hub[Event]
	rateLimiter *ratelimit.Limiter
}

// Config holds server configuration
type Config struct {
	Port int
	// Store is the job store every session talks to.
	Store jobstore.Store
	Order tracker.Order
	// ToastTTL is how long notifications stay visible.
	ToastTTL time.Duration
	// SessionTTL drops sessions idle for longer; zero keeps them forever.
	SessionTTL time.Duration
	// RateLimit configures the limiter; nil reads it from the environment.
	RateLimit *ratelimit.Config
	Title     string
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("server config: job store is required")
	}
	renderer, err := rendering.NewRenderer()
	if err != nil {
		return nil, err
	}

	s := &Server{
		title:    cfg.Title,
		toastTTL: cfg.ToastTTL,
		renderer: renderer,
		events:   overlay.NewHub[Event](),
	}
	if s.title == "" {
		s.title = DefaultTitle
	}
	if s.toastTTL <= 0 {
		s.toastTTL = tracker.DefaultToastTTL
	}
	s.sessions = newSessionStore(sessionOptions{
		store:     cfg.Store,
		order:     cfg.Order,
		toastTTL:  s.toastTTL,
		onCreated: func(sess *Session, _ types.JobApplication) { s.broadcastRefresh(sess) },
	}, cfg.SessionTTL)

	rateConfig := cfg.RateLimit
	if rateConfig == nil {
		rateConfig = ratelimit.LoadConfig()
	}
	s.rateLimiter = ratelimit.NewLimiter(rateConfig)

	// Setup router
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /jobs", s.handleList)
	mux.HandleFunc("GET /jobs/new", s.handleOpenModal)
	mux.HandleFunc("POST /modal/close", s.handleCloseModal)
	mux.HandleFunc("POST /jobs", s.handleCreate)
	mux.HandleFunc("GET /jobs/{id}/delete", s.handleConfirmDelete)
	mux.HandleFunc("POST /jobs/{id}/delete", s.handleDelete)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("GET /toasts/{id}/dismiss", s.handleDismissToast)
	mux.HandleFunc("GET /health", s.handleHealth)

	sessions := middleware.SessionMiddleware(middleware.SessionOptions{MaxAge: cfg.SessionTTL})
	s.handler = s.withRateLimit(s.withLogging(sessions(mux)))

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// No write timeout: /events streams for as long as the page is open.
		IdleTimeout: 60 * time.Second,
	}

	return s, nil
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)
	// Open event streams end when the base context is canceled.
	s.httpServer.BaseContext = func(net.Listener) context.Context { return ctx }

	g.Go(func() error {
		log.Printf("[server] listening on %s", ln.Addr())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.sweepSessions(ctx)
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Println("[server] shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		defer s.rateLimiter.Stop()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		log.Println("[server] stopped")
		return nil
	})

	return g.Wait()
}

// sweepSessions drops idle sessions periodically until ctx is canceled.
func (s *Server) sweepSessions(ctx context.Context) {
	if s.sessions.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(max(s.sessions.ttl/4, time.Second))
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := s.sessions.sweep(); n > 0 {
				log.Printf("[server] dropped %d idle session(s)", n)
			}
		case <-ctx.Done():
			return
		}
	}
}

// session returns the session of the request.
func (s *Server) session(r *http.Request) (*Session, error) {
	id, err := middleware.GetSessionID(r)
	if err != nil {
		return nil, err
	}
	return s.sessions.get(id), nil
}

// broadcastRefresh tells every other open page to re-fetch its list.
func (s *Server) broadcastRefresh(origin *Session) {
	s.events.Publish(Event{Kind: EventRefresh, Origin: origin.ID})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[server] error encoding JSON response: %v", err)
	}
}

// errorResponse writes a plain-text error page
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[server] %v", err)
	}
	http.Error(w, err.Error(), status)
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For is not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
