package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cityfeedback/portal/internal/api/middleware"
	"github.com/cityfeedback/portal/internal/core/domain"
	"github.com/cityfeedback/portal/internal/core/ports"
	"github.com/cityfeedback/portal/internal/core/service"
)

// Portal serves the pages of the web portal. Every request builds fresh views
// bound to the request context; they are closed when the handler returns.
type Portal struct {
	backend   ports.Backend
	schema    domain.StatusSchema
	validator *service.FormValidator
	log       zerolog.Logger
}

func NewPortal(backend ports.Backend, schema domain.StatusSchema, validator *service.FormValidator, log zerolog.Logger) *Portal {
	return &Portal{backend: backend, schema: schema, validator: validator, log: log}
}

type errorResponse struct {
	Error string `json:"error"`
}

// StatusOf maps domain errors to HTTP status codes.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrBackendUnreachable):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrRejected):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// render answers with body unless a view asked to navigate; navigation wins
// and becomes a 303.
func render(c echo.Context, code int, body any) error {
	if nav := middleware.NavigatorFrom(c); nav != nil {
		if target, ok := nav.Target(); ok {
			return c.Redirect(http.StatusSeeOther, target)
		}
	}
	return c.JSON(code, body)
}

// fail answers with the view's message for err.
func fail(c echo.Context, err error, msg string) error {
	if msg == "" {
		msg = http.StatusText(StatusOf(err))
	}
	return c.JSON(StatusOf(err), errorResponse{Error: msg})
}

func invalidPayload(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
}

func feedbackID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (p *Portal) sidebar(c echo.Context, current string) service.Sidebar {
	return service.BuildSidebar(middleware.SessionFrom(c).Current(c.Request().Context()), current)
}
