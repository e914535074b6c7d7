package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cityfeedback/portal/internal/core/ports"
	"github.com/cityfeedback/portal/internal/core/service"
)

const (
	sessionKey   = "session"
	navigatorKey = "navigator"
)

// ProfileStorage hands out the local storage of one browser profile.
type ProfileStorage interface {
	ForProfile(profileID string) ports.SessionStore
}

// Session builds the request's session context over the profile's storage.
// It must run after Profile.
func Session(storage ProfileStorage, users ports.UserBackend, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ProfileID(c)
			if id == "" {
				return echo.NewHTTPError(http.StatusInternalServerError, "profile not resolved")
			}
			nav := &service.NavigationRecorder{}
			sess := service.NewSession(storage.ForProfile(id), users, nav,
				log.With().Str("profile_id", id).Logger())

			c.Set(sessionKey, sess)
			c.Set(navigatorKey, nav)
			return next(c)
		}
	}
}

// SessionFrom returns the session context set by Session.
func SessionFrom(c echo.Context) *service.Session {
	s, _ := c.Get(sessionKey).(*service.Session)
	return s
}

// NavigatorFrom returns the request's navigation recorder.
func NavigatorFrom(c echo.Context) *service.NavigationRecorder {
	n, _ := c.Get(navigatorKey).(*service.NavigationRecorder)
	return n
}
