// Package mockserver is an in-memory Skanjo backend for local runs and
// end-to-end tests. It speaks the same JSON API as the real service.
package mockserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/spigell/skanjo/internal/logger"
	"github.com/spigell/skanjo/internal/skanjo"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
	maxBodyBytes      = 1 << 20
)

type Options struct {
	AdminUsername string
	AdminPassword string
	// RateLimit is requests per second allowed per API key; zero disables it.
	RateLimit float64
	Burst     int
	Logger    *zap.Logger
}

type account struct {
	identity     skanjo.Identity
	passwordHash []byte
	profile      *skanjo.ProfileUpdate
}

type featureKey struct {
	key    string
	plan   string
	scopes []string
}

type Server struct {
	opts   Options
	logger *zap.Logger
	now    func() time.Time

	mu          sync.Mutex
	nextID      int64
	accounts    map[string]*account // by email
	keys        map[string]string   // api key -> email
	featureKeys map[string][]featureKey
	calls       map[string][]skanjo.AnalyticsRecord

	limiter *keyLimiter
}

func New(opts Options) *Server {
	return &Server{
		opts:        opts,
		logger:      logger.OrNop(opts.Logger),
		now:         time.Now,
		accounts:    make(map[string]*account),
		keys:        make(map[string]string),
		featureKeys: make(map[string][]featureKey),
		calls:       make(map[string][]skanjo.AnalyticsRecord),
		limiter:     newKeyLimiter(opts.RateLimit, opts.Burst),
	}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.CleanPath)
	r.Use(s.logRequests)
	r.Use(chimw.Recoverer)

	r.Post("/register", s.register)
	r.Post("/login", s.login)
	r.With(s.requireAdmin).Post("/add-client", s.addClient)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAPIKey)
		r.Use(s.recordCalls)

		r.Post("/update-profile", s.updateProfile)
		r.Get("/analytics", s.analytics)
		r.Post("/create-feature-key", s.createFeatureKey)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("mock backend listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		log := logger.WithFields(s.logger, logger.RequestFields(r.URL.Path, r.Header.Get("X-Request-ID"))...)
		log.Info("request",
			zap.String("method", r.Method),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", s.now().Sub(start)),
		)
	})
}
