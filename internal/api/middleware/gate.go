package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cityfeedback/portal/internal/core/service"
)

// Gate applies the layout guard of route to every request in the group. A
// refused request is answered with a 303 to the page the guard chose.
func Gate(route string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := SessionFrom(c)
			if sess == nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "session not resolved")
			}
			if service.Guard(c.Request().Context(), sess, route) {
				return next(c)
			}
			target, ok := NavigatorFrom(c).Target()
			if !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return c.Redirect(http.StatusSeeOther, target)
		}
	}
}
