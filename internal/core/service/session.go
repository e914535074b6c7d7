package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cityfeedback/portal/internal/core/domain"
	"github.com/cityfeedback/portal/internal/core/ports"
	"github.com/cityfeedback/portal/internal/metrics"
)

// SessionKey is the well-known storage key holding the serialized user.
const SessionKey = "user"

// Session is the explicit session context handed to every view of one page
// load. It reads the persisted record at most once and is the only writer of
// it.
type Session struct {
	store ports.SessionStore
	users ports.UserBackend
	nav   ports.Navigator
	log   zerolog.Logger

	mu     sync.Mutex
	loaded bool
	user   *domain.User
}

// NewSession binds a session context to a profile store.
func NewSession(store ports.SessionStore, users ports.UserBackend, nav ports.Navigator, log zerolog.Logger) *Session {
	return &Session{store: store, users: users, nav: nav, log: log}
}

// Navigator returns the navigator views of this page load report to.
func (s *Session) Navigator() ports.Navigator {
	return s.nav
}

// Current returns the logged-in user, or nil when the record is absent or
// cannot be decoded. A corrupt record is never reported as an error.
func (s *Session) Current(ctx context.Context) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		s.user = s.read(ctx)
		s.loaded = true
	}
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) read(ctx context.Context) *domain.User {
	raw, err := s.store.Get(ctx, SessionKey)
	if err != nil {
		if !errors.Is(err, ports.ErrKeyNotFound) {
			s.log.Warn().Err(err).Msg("session store unreadable, treating as logged out")
		}
		return nil
	}

	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.ID == "" {
		metrics.SessionEventsTotal.WithLabelValues("corrupt").Inc()
		s.log.Debug().Msg("discarding malformed session record")
		return nil
	}
	return &u
}

// Login authenticates against the backend and persists the returned user.
func (s *Session) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("login: encode session: %w", err)
	}
	if err := s.store.Set(ctx, SessionKey, string(raw)); err != nil {
		return nil, fmt.Errorf("login: persist session: %w", err)
	}

	s.mu.Lock()
	u := *user
	s.user = &u
	s.loaded = true
	s.mu.Unlock()

	metrics.SessionEventsTotal.WithLabelValues("login").Inc()
	s.log.Info().Str("user_id", user.ID.String()).Str("role", string(user.Role)).Msg("logged in")
	return user, nil
}

// Logout clears the persisted record and navigates to the anonymous landing
// page. Navigation happens even if the store could not be cleared.
func (s *Session) Logout(ctx context.Context) error {
	err := s.store.Remove(ctx, SessionKey)
	if errors.Is(err, ports.ErrKeyNotFound) {
		err = nil
	}

	s.mu.Lock()
	s.user = nil
	s.loaded = true
	s.mu.Unlock()

	metrics.SessionEventsTotal.WithLabelValues("logout").Inc()
	s.nav.Navigate(RouteHome)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Authorize runs the capability check against the current user.
func (s *Session) Authorize(ctx context.Context, c domain.Capability) domain.Decision {
	return domain.Authorize(s.Current(ctx), c)
}

// Require gates a page-level effect. On denial it navigates to the default
// authenticated landing page and returns false; the caller must not issue the
// guarded request.
func (s *Session) Require(ctx context.Context, c domain.Capability) bool {
	d := s.Authorize(ctx, c)
	if d.Allowed {
		return true
	}
	metrics.GateDenialsTotal.WithLabelValues(string(c)).Inc()
	s.log.Debug().Str("capability", string(c)).Str("reason", d.Reason).Msg("role gate denied")
	s.nav.Navigate(RouteDashboard)
	return false
}

// Actor returns the current user if it holds c. Otherwise it returns
// ErrNoSession or ErrForbidden without navigating; used by actions that must
// refuse rather than redirect.
func (s *Session) Actor(ctx context.Context, c domain.Capability) (*domain.User, error) {
	user := s.Current(ctx)
	if user == nil {
		metrics.GateDenialsTotal.WithLabelValues(string(c)).Inc()
		return nil, domain.ErrNoSession
	}
	if d := domain.Authorize(user, c); !d.Allowed {
		metrics.GateDenialsTotal.WithLabelValues(string(c)).Inc()
		s.log.Debug().Str("capability", string(c)).Str("reason", d.Reason).Msg("action refused")
		return nil, fmt.Errorf("%w: %s", domain.ErrForbidden, d.Reason)
	}
	return user, nil
}
