package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skanjo/internal/logger"
	"github.com/spigell/skanjo/internal/session"
	"github.com/spigell/skanjo/internal/skanjo"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"

	sqliteFile = "session.db"
)

var errNotLoggedIn = errors.New("not logged in: run 'skanjo login' or 'skanjo register' first")

// application is what every command needs: config, logger, backend client
// and the restored session.
type application struct {
	cfg    *Config
	logger *zap.Logger
	client *skanjo.Client
	store  *session.Store

	closers []io.Closer
}

func newApplication(cmd *cobra.Command) (*application, error) {
	ctx := cmd.Context()

	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}

	cfg, err := getConfig()
	if err != nil {
		return nil, err
	}

	a := &application{cfg: cfg, logger: log}

	a.client = newClient(cfg, log)

	storage, closer, err := openStorage(ctx, cfg.Session)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}

	a.store = session.NewStore(storage,
		session.WithTimeout(cfg.Session.Timeout),
		session.WithLogger(log),
		session.WithOnLogout(func(reason session.Reason) {
			if reason == session.ReasonExpired {
				fmt.Fprintln(cmd.ErrOrStderr(), "Session expired after inactivity, please log in again.")
			}
		}),
	)
	a.store.Restore(ctx)

	log.Debug("session restored",
		zap.String("backend", cfg.Session.Backend),
		zap.Stringer("state", a.store.State()),
	)

	return a, nil
}

func newClient(cfg *Config, log *zap.Logger) *skanjo.Client {
	client := skanjo.New(log, cfg.APIBaseURL)
	if ua := strings.TrimSpace(cfg.UserAgent); ua != "" {
		client.UserAgent = ua
	}
	if cfg.Analytics != nil {
		if cfg.Analytics.MaxRetries >= 0 {
			client.MaxRetries = cfg.Analytics.MaxRetries
		}
		if cfg.Analytics.RetryDelay > 0 {
			client.RetryDelay = cfg.Analytics.RetryDelay
		}
	}
	return client
}

// openStorage returns the durable session storage for the configured backend
// and, when the storage holds a connection, its closer.
func openStorage(ctx context.Context, cfg *SessionConfig) (session.Storage, io.Closer, error) {
	if cfg == nil {
		return session.NewMemoryStorage(), nil, nil
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendFile:
		return session.NewFileStorage(cfg.Dir), nil, nil
	case BackendSQLite:
		if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
			return nil, nil, fmt.Errorf("creating session dir: %w", err)
		}
		s, err := session.OpenSQLite(ctx, filepath.Join(cfg.Dir, sqliteFile))
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case BackendRedis:
		if strings.TrimSpace(cfg.RedisURL) == "" {
			return nil, nil, errors.New("session.redis-url is required for the redis backend")
		}
		s, err := session.OpenRedis(ctx, cfg.RedisURL, cfg.Timeout)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case BackendMemory:
		return session.NewMemoryStorage(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend %q (want %s, %s, %s or %s)",
			cfg.Backend, BackendFile, BackendSQLite, BackendRedis, BackendMemory)
	}
}

// currentUser returns the logged-in identity or errNotLoggedIn.
func (a *application) currentUser() (*skanjo.Identity, error) {
	user := a.store.User()
	if user == nil {
		return nil, errNotLoggedIn
	}
	return user, nil
}

// Close disarms the session timer and releases storage connections.
func (a *application) Close() {
	a.store.Close()
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("closing session storage", zap.Error(err))
		}
	}
	a.logger.Sync()
}

// withApplication wraps a command body with application setup and teardown.
func withApplication(fn func(cmd *cobra.Command, args []string, a *application) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApplication(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		return explain(a.logger, fn(cmd, args, a))
	}
}

// explain logs a hint for errors a user can act on and passes err through.
func explain(log *zap.Logger, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, skanjo.ErrConnectivity):
		log.Error("backend unreachable", zap.Error(err),
			zap.String("hint", "check api-base-url or start 'skanjo mock-server'"))
	case skanjo.IsUnauthorized(err):
		log.Error("request rejected", zap.Error(err),
			zap.String("hint", "log in again with 'skanjo login'"))
	}
	return err
}
