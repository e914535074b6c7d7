package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cityfeedback/portal/internal/api/middleware"
	"github.com/cityfeedback/portal/internal/core/service"
)

type dashboardResponse struct {
	Sidebar   service.Sidebar           `json:"sidebar"`
	Dashboard service.DashboardSnapshot `json:"dashboard"`
}

// Dashboard handles GET /dashboard.
//
// @Summary      The session user's own feedback
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dashboardResponse
// @Success      303
// @Router       /dashboard [get]
func (p *Portal) Dashboard(c echo.Context) error {
	v := service.NewDashboardView(c.Request().Context(), middleware.SessionFrom(c), p.backend, p.schema, p.log)
	defer v.Close()

	if !v.Mount() {
		return render(c, http.StatusForbidden, errorResponse{Error: "forbidden"})
	}
	return render(c, http.StatusOK, dashboardResponse{
		Sidebar:   p.sidebar(c, service.RouteDashboard),
		Dashboard: v.Snapshot(),
	})
}

// Welcome handles the legacy GET /dashboard-welcome page.
//
// @Summary      Legacy welcome page
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  service.Sidebar
// @Success      303
// @Router       /dashboard-welcome [get]
func (p *Portal) Welcome(c echo.Context) error {
	return render(c, http.StatusOK, p.sidebar(c, service.RouteWelcome))
}

// CreateFeedback handles POST /dashboard/create.
//
// @Summary      Submit new feedback
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Param        body  body  service.CreateFeedbackForm  true  "Feedback"
// @Success      303
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /dashboard/create [post]
func (p *Portal) CreateFeedback(c echo.Context) error {
	var form service.CreateFeedbackForm
	if err := c.Bind(&form); err != nil {
		return invalidPayload(c)
	}

	v := service.NewCreateFeedbackView(c.Request().Context(), middleware.SessionFrom(c), p.backend, p.validator, p.log)
	defer v.Close()

	fb, err := v.Submit(form)
	if err != nil {
		return fail(c, err, v.Message())
	}
	return render(c, http.StatusCreated, fb)
}
