package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cityfeedback/portal/internal/api/middleware"
	"github.com/cityfeedback/portal/internal/core/service"
)

type adminUsersResponse struct {
	Sidebar service.Sidebar            `json:"sidebar"`
	Users   service.AdminUsersSnapshot `json:"users"`
}

func (p *Portal) adminView(c echo.Context) *service.AdminUsersView {
	return service.NewAdminUsersView(c.Request().Context(), middleware.SessionFrom(c), p.backend, p.validator, p.log)
}

func (p *Portal) adminPage(c echo.Context, code int, v *service.AdminUsersView) error {
	return render(c, code, adminUsersResponse{
		Sidebar: p.sidebar(c, service.RouteAdminUsers),
		Users:   v.Snapshot(),
	})
}

// Users handles GET /dashboard/admin/users.
//
// @Summary      List accounts
// @Tags         admin
// @Produce      json
// @Success      200  {object}  adminUsersResponse
// @Success      303
// @Router       /dashboard/admin/users [get]
func (p *Portal) Users(c echo.Context) error {
	v := p.adminView(c)
	defer v.Close()

	if !v.Mount() {
		return render(c, http.StatusForbidden, errorResponse{Error: "forbidden"})
	}
	return p.adminPage(c, http.StatusOK, v)
}

// CreateUser handles POST /dashboard/admin/users.
//
// @Summary      Create an account with any role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      service.CreateUserForm  true  "Account"
// @Success      201   {object}  adminUsersResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /dashboard/admin/users [post]
func (p *Portal) CreateUser(c echo.Context) error {
	var form service.CreateUserForm
	if err := c.Bind(&form); err != nil {
		return invalidPayload(c)
	}
	v := p.adminView(c)
	defer v.Close()

	if _, err := v.CreateUser(form); err != nil {
		return fail(c, err, v.Snapshot().Error)
	}
	return p.adminPage(c, http.StatusCreated, v)
}

// ChangeRole handles PUT /dashboard/admin/users/:id/role.
//
// @Summary      Reassign a role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string                  true  "User id"
// @Param        body  body      service.ChangeRoleForm  true  "Role"
// @Success      200   {object}  adminUsersResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /dashboard/admin/users/{id}/role [put]
func (p *Portal) ChangeRole(c echo.Context) error {
	var form service.ChangeRoleForm
	if err := c.Bind(&form); err != nil {
		return invalidPayload(c)
	}
	v := p.adminView(c)
	defer v.Close()

	if _, err := v.ChangeRole(c.Param("id"), form); err != nil {
		return fail(c, err, v.Snapshot().Error)
	}
	return p.adminPage(c, http.StatusOK, v)
}

// ChangePassword handles PUT /dashboard/admin/users/:id/password.
//
// @Summary      Set a new password
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string                      true  "User id"
// @Param        body  body      service.ChangePasswordForm  true  "Password"
// @Success      200   {object}  adminUsersResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /dashboard/admin/users/{id}/password [put]
func (p *Portal) ChangePassword(c echo.Context) error {
	var form service.ChangePasswordForm
	if err := c.Bind(&form); err != nil {
		return invalidPayload(c)
	}
	v := p.adminView(c)
	defer v.Close()

	if err := v.ChangePassword(c.Param("id"), form); err != nil {
		return fail(c, err, v.Snapshot().Error)
	}
	v.Reload()
	return p.adminPage(c, http.StatusOK, v)
}

// DeleteUser handles DELETE /dashboard/admin/users/:id.
//
// @Summary      Delete an account
// @Description  Administrators cannot delete themselves.
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  adminUsersResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /dashboard/admin/users/{id} [delete]
func (p *Portal) DeleteUser(c echo.Context) error {
	v := p.adminView(c)
	defer v.Close()

	if err := v.DeleteUser(c.Param("id")); err != nil {
		return fail(c, err, v.Snapshot().Error)
	}
	return p.adminPage(c, http.StatusOK, v)
}

// DeleteDemoData handles DELETE /dashboard/admin/demo-data.
//
// @Summary      Purge demo accounts and their feedback
// @Tags         admin
// @Produce      json
// @Success      200  {object}  adminUsersResponse
// @Failure      403  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /dashboard/admin/demo-data [delete]
func (p *Portal) DeleteDemoData(c echo.Context) error {
	v := p.adminView(c)
	defer v.Close()

	if _, err := v.DeleteDemoData(); err != nil {
		return fail(c, err, v.Snapshot().Error)
	}
	return p.adminPage(c, http.StatusOK, v)
}
