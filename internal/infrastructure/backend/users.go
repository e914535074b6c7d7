package backend

import (
	"context"
	"net/http"

	"github.com/cityfeedback/portal/internal/core/domain"
	"github.com/cityfeedback/portal/internal/core/ports"
)

type credentials struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role,omitempty"`
}

func (c *Client) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	var u domain.User
	err := c.do(ctx, call{
		op: "signup", method: http.MethodPost, route: "/user", path: "/user",
		body: credentials{Email: in.Email, Password: in.Password, Role: in.Role},
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	var u domain.User
	err := c.do(ctx, call{
		op: "login", method: http.MethodPost, route: "/user/login", path: "/user/login",
		body: credentials{Email: email, Password: password},
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.do(ctx, call{op: "list users", method: http.MethodGet, route: "/user", path: "/user"}, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, call{op: "get user", method: http.MethodGet, route: "/user/:id", path: userPath(id, "")}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) CreateUser(ctx context.Context, adminID string, in ports.CreateUserInput) (*domain.User, error) {
	var u domain.User
	err := c.do(ctx, call{
		op: "create user", method: http.MethodPost, route: "/user/admin/create", path: "/user/admin/create",
		adminID: adminID,
		body:    credentials{Email: in.Email, Password: in.Password, Role: in.Role},
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ChangePassword(ctx context.Context, userID, password string) (*domain.User, error) {
	var u domain.User
	err := c.do(ctx, call{
		op: "change password", method: http.MethodPut, route: "/user/:id/password", path: userPath(userID, "/password"),
		body: map[string]string{"password": password},
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ChangeRole(ctx context.Context, adminID, userID string, role domain.Role) (*domain.User, error) {
	var u domain.User
	err := c.do(ctx, call{
		op: "change role", method: http.MethodPut, route: "/user/:id/role", path: userPath(userID, "/role"),
		adminID: adminID,
		body:    map[string]domain.Role{"role": role},
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) DeleteUser(ctx context.Context, adminID, userID string) error {
	return c.do(ctx, call{
		op: "delete user", method: http.MethodDelete, route: "/user/:id", path: userPath(userID, ""),
		adminID: adminID,
	}, nil)
}

func (c *Client) DeleteDemoData(ctx context.Context, adminID string) (*ports.DemoDataResult, error) {
	var res ports.DemoDataResult
	err := c.do(ctx, call{
		op: "delete demo data", method: http.MethodDelete, route: "/admin/demo-data", path: "/admin/demo-data",
		adminID: adminID,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
