package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cityfeedback/portal/internal/api/middleware"
	"github.com/cityfeedback/portal/internal/core/domain"
	"github.com/cityfeedback/portal/internal/core/service"
)

// Login handles POST /login.
//
// @Summary      Log in
// @Description  Authenticates against the backend and stores the user in the browser profile.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  service.LoginForm  true  "Credentials"
// @Success      303
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /login [post]
func (p *Portal) Login(c echo.Context) error {
	var form service.LoginForm
	if err := c.Bind(&form); err != nil {
		return invalidPayload(c)
	}

	v := service.NewAuthView(c.Request().Context(), middleware.SessionFrom(c), p.backend, p.validator, p.log)
	defer v.Close()

	if _, err := v.Login(form); err != nil {
		if errors.Is(err, domain.ErrRejected) {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: v.Message()})
		}
		return fail(c, err, v.Message())
	}
	return render(c, http.StatusOK, map[string]string{"status": "ok"})
}

// Signup handles POST /signup.
//
// @Summary      Register as a citizen
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  service.SignupForm  true  "Registration"
// @Success      303
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /signup [post]
func (p *Portal) Signup(c echo.Context) error {
	var form service.SignupForm
	if err := c.Bind(&form); err != nil {
		return invalidPayload(c)
	}

	v := service.NewAuthView(c.Request().Context(), middleware.SessionFrom(c), p.backend, p.validator, p.log)
	defer v.Close()

	if _, err := v.Signup(form); err != nil {
		return fail(c, err, v.Message())
	}
	return render(c, http.StatusCreated, map[string]string{"status": "registered"})
}

// Logout handles POST /logout.
//
// @Summary      Log out
// @Tags         auth
// @Success      303
// @Router       /logout [post]
func (p *Portal) Logout(c echo.Context) error {
	v := service.NewAuthView(c.Request().Context(), middleware.SessionFrom(c), p.backend, p.validator, p.log)
	defer v.Close()

	if err := v.Logout(); err != nil {
		p.log.Warn().Err(err).Msg("logout could not clear the profile store")
	}
	return render(c, http.StatusOK, map[string]string{"status": "ok"})
}
