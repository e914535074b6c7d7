package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cityfeedback/portal/internal/api/middleware"
	"github.com/cityfeedback/portal/internal/core/domain"
	"github.com/cityfeedback/portal/internal/core/service"
)

type staffResponse struct {
	Sidebar service.Sidebar       `json:"sidebar"`
	Staff   service.StaffSnapshot `json:"staff"`
}

type statisticsResponse struct {
	Counts map[domain.FeedbackStatus]int64 `json:"counts"`
	Total  int64                           `json:"total"`
}

func (p *Portal) staffView(c echo.Context) *service.StaffView {
	sess := middleware.SessionFrom(c)
	wf := service.NewWorkflow(sess, p.backend, p.backend, p.log)
	return service.NewStaffView(c.Request().Context(), sess, p.backend, wf, p.schema, p.log)
}

func (p *Portal) staffPage(c echo.Context, code int, v *service.StaffView) error {
	return render(c, code, staffResponse{
		Sidebar: p.sidebar(c, service.RouteStaffFeedbacks),
		Staff:   v.Snapshot(),
	})
}

// Staff handles GET /dashboard/staff/feedbacks.
//
// @Summary      Triage backlog
// @Description  Every feedback item with its comments and the actions offered.
// @Tags         staff
// @Produce      json
// @Param        expand  query     int  false  "Feedback id whose thread is open"
// @Success      200     {object}  staffResponse
// @Success      303
// @Router       /dashboard/staff/feedbacks [get]
func (p *Portal) Staff(c echo.Context) error {
	v := p.staffView(c)
	defer v.Close()

	if !v.Mount() {
		return render(c, http.StatusForbidden, errorResponse{Error: "forbidden"})
	}
	if id, err := strconv.ParseInt(c.QueryParam("expand"), 10, 64); err == nil && id > 0 {
		v.ToggleExpand(id)
	}
	return p.staffPage(c, http.StatusOK, v)
}

// ChangeStatus handles PUT /dashboard/staff/feedbacks/:id/status.
//
// @Summary      Change status with an optional comment
// @Description  A blank status advances the item to the next status of the configured schema.
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        id    path      int                 true  "Feedback id"
// @Param        body  body      service.StatusForm  true  "Status change"
// @Success      200   {object}  staffResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /dashboard/staff/feedbacks/{id}/status [put]
func (p *Portal) ChangeStatus(c echo.Context) error {
	id, ok := feedbackID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid feedback id"})
	}
	var form service.StatusForm
	if err := c.Bind(&form); err != nil {
		return invalidPayload(c)
	}

	v := p.staffView(c)
	defer v.Close()

	status := domain.FeedbackStatus(strings.ToUpper(strings.TrimSpace(form.Status)))
	var err error
	if status == "" {
		v.Reload()
		_, err = v.Advance(id, form.Comment)
	} else {
		_, err = v.ChangeStatus(id, status, form.Comment)
	}
	if err != nil {
		return fail(c, err, v.Snapshot().Error)
	}
	return p.staffPage(c, http.StatusOK, v)
}

// Publish handles PUT /dashboard/staff/feedbacks/:id/publish. Closed items
// are refused with 400.
//
// @Summary      Publish an item on the public page
// @Tags         staff
// @Produce      json
// @Param        id   path      int  true  "Feedback id"
// @Success      200  {object}  staffResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /dashboard/staff/feedbacks/{id}/publish [put]
func (p *Portal) Publish(c echo.Context) error {
	return p.staffAction(c, (*service.StaffView).Publish)
}

// Unpublish handles PUT /dashboard/staff/feedbacks/:id/unpublish.
//
// @Summary      Withdraw an item from the public page
// @Tags         staff
// @Produce      json
// @Param        id   path      int  true  "Feedback id"
// @Success      200  {object}  staffResponse
// @Failure      403  {object}  errorResponse
// @Router       /dashboard/staff/feedbacks/{id}/unpublish [put]
func (p *Portal) Unpublish(c echo.Context) error {
	return p.staffAction(c, (*service.StaffView).Unpublish)
}

// DeleteFeedback handles DELETE /dashboard/staff/feedbacks/:id.
//
// @Summary      Delete an item
// @Description  Administrators only.
// @Tags         staff
// @Produce      json
// @Param        id   path      int  true  "Feedback id"
// @Success      200  {object}  staffResponse
// @Failure      403  {object}  errorResponse
// @Router       /dashboard/staff/feedbacks/{id} [delete]
func (p *Portal) DeleteFeedback(c echo.Context) error {
	return p.staffAction(c, (*service.StaffView).Delete)
}

func (p *Portal) staffAction(c echo.Context, action func(*service.StaffView, int64) error) error {
	id, ok := feedbackID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid feedback id"})
	}
	v := p.staffView(c)
	defer v.Close()

	if err := action(v, id); err != nil {
		return fail(c, err, v.Snapshot().Error)
	}
	return p.staffPage(c, http.StatusOK, v)
}

// AddComment handles POST /dashboard/staff/feedbacks/:id/comments.
//
// @Summary      Comment on an item
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        id    path      int                  true  "Feedback id"
// @Param        body  body      service.CommentForm  true  "Comment"
// @Success      201   {object}  domain.Comment
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /dashboard/staff/feedbacks/{id}/comments [post]
func (p *Portal) AddComment(c echo.Context) error {
	id, ok := feedbackID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid feedback id"})
	}
	var form service.CommentForm
	if err := c.Bind(&form); err != nil {
		return invalidPayload(c)
	}

	v := p.staffView(c)
	defer v.Close()

	comment, err := v.AddComment(id, form.Content)
	if err != nil {
		return fail(c, err, v.Snapshot().Error)
	}
	return c.JSON(http.StatusCreated, comment)
}

// Statistics handles GET /dashboard/staff/statistics.
//
// @Summary      Item counts per status
// @Tags         staff
// @Produce      json
// @Success      200  {object}  statisticsResponse
// @Failure      403  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /dashboard/staff/statistics [get]
func (p *Portal) Statistics(c echo.Context) error {
	ctx := c.Request().Context()
	if _, err := middleware.SessionFrom(c).Actor(ctx, domain.CapTriageFeedback); err != nil {
		return fail(c, err, "")
	}

	counts, err := p.backend.StatusStatistics(ctx)
	if err != nil {
		p.log.Error().Err(err).Msg("status statistics failed")
		return fail(c, err, "Statistics could not be loaded.")
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	return c.JSON(http.StatusOK, statisticsResponse{Counts: counts, Total: total})
}
