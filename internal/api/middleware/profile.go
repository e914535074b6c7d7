package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ProfileCookie names the cookie identifying a browser profile.
const ProfileCookie = "cf_profile"

const profileKey = "profile_id"

var errInvalidProfile = errors.New("invalid profile token")

// IssueProfileToken signs id into an HS256 token valid for ttl.
func IssueProfileToken(secret, id string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return token.SignedString([]byte(secret))
}

// ParseProfileToken validates raw and returns the profile id it carries.
func ParseProfileToken(secret, raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tkn.Valid {
		return "", errInvalidProfile
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", errInvalidProfile
	}
	return claims.Subject, nil
}

// Profile resolves the browser profile from its signed cookie. A missing,
// tampered or expired cookie starts a fresh profile, which is the same as a
// browser with empty local storage.
func Profile(secret string, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if ck, err := c.Cookie(ProfileCookie); err == nil {
				if id, err := ParseProfileToken(secret, ck.Value); err == nil {
					c.Set(profileKey, id)
					return next(c)
				}
			}

			id := uuid.NewString()
			signed, err := IssueProfileToken(secret, id, ttl)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "could not issue profile")
			}
			c.SetCookie(&http.Cookie{
				Name:     ProfileCookie,
				Value:    signed,
				Path:     "/",
				MaxAge:   int(ttl.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			c.Set(profileKey, id)
			return next(c)
		}
	}
}

// ProfileID returns the id set by Profile.
func ProfileID(c echo.Context) string {
	id, _ := c.Get(profileKey).(string)
	return id
}
