package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cityfeedback/portal/internal/api/middleware"
	"github.com/cityfeedback/portal/internal/core/domain"
	"github.com/cityfeedback/portal/internal/core/service"
)

type publicResponse struct {
	service.PublicSnapshot
	LoggedIn bool `json:"loggedIn"`
}

// Public handles GET / and GET /public.
//
// @Summary      Published feedback grouped by status
// @Tags         public
// @Produce      json
// @Param        category  query     string  false  "Category code or ALL"
// @Success      200       {object}  publicResponse
// @Failure      400       {object}  errorResponse
// @Router       /public [get]
func (p *Portal) Public(c echo.Context) error {
	ctx := c.Request().Context()
	v := service.NewPublicView(ctx, p.backend, p.backend, p.schema, p.log)
	defer v.Close()

	if cat := strings.TrimSpace(c.QueryParam("category")); cat != "" {
		if err := v.SetCategory(domain.Category(strings.ToUpper(cat))); err != nil {
			return fail(c, err, "unknown category")
		}
	}
	v.Mount()

	return c.JSON(http.StatusOK, publicResponse{
		PublicSnapshot: v.Render(),
		LoggedIn:       middleware.SessionFrom(c).Current(ctx) != nil,
	})
}

// PublicComments handles GET /public/feedbacks/:id/comments. The view lives
// for one request, so every call reads the thread from the backend and a
// failed read is not remembered across requests.
//
// @Summary      Comments of a published item
// @Tags         public
// @Produce      json
// @Param        id   path      int  true  "Feedback id"
// @Success      200  {array}   domain.Comment
// @Failure      400  {object}  errorResponse
// @Router       /public/feedbacks/{id}/comments [get]
func (p *Portal) PublicComments(c echo.Context) error {
	id, ok := feedbackID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid feedback id"})
	}
	v := service.NewPublicView(c.Request().Context(), p.backend, p.backend, p.schema, p.log)
	defer v.Close()

	return c.JSON(http.StatusOK, v.Comments(id))
}
