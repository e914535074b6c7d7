package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cityfeedback/portal/internal/core/domain"
	"github.com/cityfeedback/portal/internal/core/ports"
)

// AuthView backs the login and signup pages.
type AuthView struct {
	*scope
	session   *Session
	users     ports.UserBackend
	validator *FormValidator
	log       zerolog.Logger

	errMsg string
}

func NewAuthView(ctx context.Context, session *Session, users ports.UserBackend, validator *FormValidator, log zerolog.Logger) *AuthView {
	return &AuthView{
		scope:     newScope(ctx),
		session:   session,
		users:     users,
		validator: validator,
		log:       log.With().Str("view", "auth").Logger(),
	}
}

// Login authenticates, persists the session and navigates to the dashboard.
func (v *AuthView) Login(form LoginForm) (*domain.User, error) {
	form.Email = strings.TrimSpace(form.Email)
	if err := v.validator.Validate(form); err != nil {
		v.fail(err, msgLoginRejected)
		return nil, fmt.Errorf("login: %w", err)
	}

	user, err := v.session.Login(v.ctx, form.Email, form.Password)
	if err != nil {
		v.log.Info().Err(err).Msg("login failed")
		if errors.Is(err, domain.ErrRejected) || errors.Is(err, domain.ErrNotFound) {
			v.apply(func() { v.errMsg = msgLoginRejected })
		} else {
			v.fail(err, msgLoginRejected)
		}
		return nil, err
	}
	if !v.Closed() {
		v.session.Navigator().Navigate(RouteDashboard)
	}
	return user, nil
}

// Signup registers a citizen account and navigates to the login page. The
// password rules are checked before any request is made.
func (v *AuthView) Signup(form SignupForm) (*domain.User, error) {
	form.Email = strings.TrimSpace(form.Email)
	if err := v.validator.Validate(form); err != nil {
		v.fail(err, msgSignupFailed)
		return nil, fmt.Errorf("signup: %w", err)
	}

	user, err := v.users.Signup(v.ctx, ports.SignupInput{
		Email:    form.Email,
		Password: form.Password,
		Role:     domain.RoleCitizen,
	})
	if err != nil {
		v.log.Info().Err(err).Msg("signup failed")
		v.fail(err, msgSignupFailed)
		return nil, fmt.Errorf("signup: %w", err)
	}
	v.log.Info().Str("user_id", user.ID.String()).Msg("citizen registered")
	if !v.Closed() {
		v.session.Navigator().Navigate(RouteLogin)
	}
	return user, nil
}

// Logout ends the session and navigates to the landing page.
func (v *AuthView) Logout() error {
	return v.session.Logout(v.ctx)
}

func (v *AuthView) fail(err error, fallback string) {
	v.apply(func() { v.errMsg = message(err, fallback) })
}

// Message returns the error message of the last failed attempt.
func (v *AuthView) Message() string {
	var msg string
	v.read(func() { msg = v.errMsg })
	return msg
}
