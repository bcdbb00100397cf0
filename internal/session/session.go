// Package session keeps the signed-in Skanjo identity.
//
// A Store holds at most one current identity, mirrors it to a Storage under
// a fixed key so it survives restarts, and logs the user out after a period
// of inactivity measured from the most recent Login or Restore.
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/skanjo/internal/logger"
	"github.com/spigell/skanjo/internal/skanjo"
	"github.com/spigell/skanjo/internal/utils"
)

const (
	// StorageKey is where the serialized identity is kept.
	StorageKey = "skanjo_user"
	// DefaultTimeout is the inactivity period after which the session ends.
	DefaultTimeout = 30 * time.Minute
)

type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "AUTHENTICATED"
	}
	return "ANONYMOUS"
}

// Reason tells an OnLogout hook why the session ended.
type Reason string

const (
	ReasonExplicit Reason = "explicit"
	ReasonExpired  Reason = "expired"
)

type timer interface {
	Stop() bool
}

type afterFunc func(d time.Duration, f func()) timer

func realAfterFunc(d time.Duration, f func()) timer {
	return time.AfterFunc(d, f)
}

type Option func(*Store)

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logger.OrNop(log)
	}
}

// WithOnLogout registers the hook called after every logout, typically to
// send the user back to the login view. It runs without the store lock held.
func WithOnLogout(fn func(Reason)) Option {
	return func(s *Store) {
		s.onLogout = fn
	}
}

func withAfterFunc(fn afterFunc) Option {
	return func(s *Store) {
		s.afterFunc = fn
	}
}

// Store is safe for concurrent use. The inactivity timer fires on its own
// goroutine.
type Store struct {
	mu sync.Mutex

	storage   Storage
	logger    *zap.Logger
	timeout   time.Duration
	onLogout  func(Reason)
	afterFunc afterFunc

	user  *skanjo.Identity
	timer timer
	// generation changes whenever the timer is re-armed or cancelled so a
	// callback from an older timer can tell it is stale.
	generation uint64
	closed     bool
}

func NewStore(storage Storage, opts ...Option) *Store {
	s := &Store{
		storage:   storage,
		logger:    zap.NewNop(),
		timeout:   DefaultTimeout,
		afterFunc: realAfterFunc,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.storage == nil {
		s.storage = NewMemoryStorage()
	}

	return s
}

// Restore loads a previously saved identity. A missing, unreadable or
// corrupt entry leaves the store anonymous.
func (s *Store) Restore(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		s.logger.Warn("failed to read saved session", zap.Error(err))
		return
	}
	if data == nil {
		s.logger.Debug("no saved session")
		return
	}

	var identity skanjo.Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		s.logger.Warn("ignoring corrupt saved session", zap.Error(err))
		return
	}

	s.user = &identity
	s.armLocked()
	s.logger.Debug("session restored", identityFields(&identity)...)
}

// Login makes identity current, saves it and restarts the inactivity timer.
// A failed save is logged; the in-memory session is authenticated anyway.
func (s *Store) Login(ctx context.Context, identity skanjo.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = &identity
	s.armLocked()

	data, err := json.Marshal(identity)
	if err != nil {
		s.logger.Warn("failed to encode session", zap.Error(err))
	} else if err := s.storage.Set(ctx, StorageKey, data); err != nil {
		s.logger.Warn("failed to save session", zap.Error(err))
	}

	s.logger.Info("logged in", identityFields(&identity)...)
}

// Logout ends the session, forgets the saved identity and notifies the
// OnLogout hook.
func (s *Store) Logout(ctx context.Context) {
	s.logout(ctx, ReasonExplicit, 0)
}

func (s *Store) logout(ctx context.Context, reason Reason, generation uint64) {
	s.mu.Lock()
	if reason == ReasonExpired && (s.closed || generation != s.generation || s.user == nil) {
		s.mu.Unlock()
		return
	}

	s.user = nil
	s.cancelLocked()

	if err := s.storage.Remove(ctx, StorageKey); err != nil {
		s.logger.Warn("failed to remove saved session", zap.Error(err))
	}
	hook := s.onLogout
	s.mu.Unlock()

	s.logger.Info("logged out", zap.String("reason", string(reason)))
	if hook != nil {
		hook(reason)
	}
}

// Close cancels the inactivity timer and keeps it from being armed again.
// The saved identity is kept.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.cancelLocked()
	s.closed = true
}

// User returns a copy of the current identity, or nil.
func (s *Store) User() *skanjo.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) IsAuthenticated() bool {
	return s.State() == Authenticated
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return Anonymous
	}
	return Authenticated
}

func (s *Store) armLocked() {
	s.cancelLocked()
	if s.closed {
		return
	}

	generation := s.generation
	s.timer = s.afterFunc(s.timeout, func() {
		s.logger.Debug("session timed out", zap.Duration("timeout", s.timeout))
		s.logout(context.Background(), ReasonExpired, generation)
	})
}

func (s *Store) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.generation++
}

func identityFields(identity *skanjo.Identity) []zap.Field {
	return logger.StringFields(
		logger.StringField{Key: logger.FieldEmail, Value: identity.Email},
		logger.StringField{Key: "api_key", Value: utils.MaskSecret(identity.APIKey)},
	)
}
