package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cityfeedback/portal/internal/core/domain"
	"github.com/cityfeedback/portal/internal/core/ports"
)

// UserRow is one account as shown to administrators.
type UserRow struct {
	domain.User
	RoleDisplay domain.Display `json:"roleDisplay"`
	Initials    string         `json:"initials"`
	Self        bool           `json:"self"`
}

// AdminUsersSnapshot is the renderable state of the user management page.
type AdminUsersSnapshot struct {
	Users   []UserRow     `json:"users"`
	Roles   []domain.Role `json:"roles"`
	Loading bool          `json:"loading"`
	Error   string        `json:"error,omitempty"`
	Notice  string        `json:"notice,omitempty"`
}

// AdminUsersView manages accounts. Every operation requires the admin role and
// sends the session user's id as the admin identity.
type AdminUsersView struct {
	*scope
	session   *Session
	users     ports.UserBackend
	validator *FormValidator
	log       zerolog.Logger

	list    []domain.User
	loading bool
	errMsg  string
	notice  string
}

func NewAdminUsersView(ctx context.Context, session *Session, users ports.UserBackend, validator *FormValidator, log zerolog.Logger) *AdminUsersView {
	return &AdminUsersView{
		scope:     newScope(ctx),
		session:   session,
		users:     users,
		validator: validator,
		log:       log.With().Str("view", "admin_users").Logger(),
	}
}

// Mount gates the page. A non-admin is redirected before the user list is
// requested.
func (v *AdminUsersView) Mount() bool {
	if !Guard(v.ctx, v.session, RouteAdminUsers) {
		return false
	}
	v.Reload()
	return true
}

func (v *AdminUsersView) Reload() {
	if _, err := v.session.Actor(v.ctx, domain.CapManageUsers); err != nil {
		v.fail(err, msgUsersFailed)
		return
	}
	v.apply(func() { v.loading = true })

	list, err := v.users.ListUsers(v.ctx)
	if err != nil {
		v.log.Error().Err(err).Msg("list users failed")
	}
	v.apply(func() {
		v.loading = false
		if err != nil {
			v.list = nil
			v.errMsg = message(err, msgUsersFailed)
			return
		}
		v.list = list
		v.errMsg = ""
	})
}

func (v *AdminUsersView) CreateUser(form CreateUserForm) (*domain.User, error) {
	form.Email = strings.TrimSpace(form.Email)
	actor, err := v.session.Actor(v.ctx, domain.CapManageUsers)
	if err != nil {
		v.fail(err, msgActionFailed)
		return nil, fmt.Errorf("create user: %w", err)
	}
	if err := v.validator.Validate(form); err != nil {
		v.fail(err, msgActionFailed)
		return nil, fmt.Errorf("create user: %w", err)
	}
	u, err := v.users.CreateUser(v.ctx, actor.ID.String(), ports.CreateUserInput{
		Email:    form.Email,
		Password: form.Password,
		Role:     domain.Role(form.Role),
	})
	if err != nil {
		v.fail(err, msgActionFailed)
		return nil, fmt.Errorf("create user: %w", err)
	}
	v.log.Info().Str("user_id", u.ID.String()).Str("role", string(u.Role)).Msg("user created")
	v.Reload()
	return u, nil
}

func (v *AdminUsersView) ChangeRole(userID string, form ChangeRoleForm) (*domain.User, error) {
	actor, err := v.session.Actor(v.ctx, domain.CapManageUsers)
	if err != nil {
		v.fail(err, msgActionFailed)
		return nil, fmt.Errorf("change role: %w", err)
	}
	if err := v.validator.Validate(form); err != nil {
		v.fail(err, msgActionFailed)
		return nil, fmt.Errorf("change role: %w", err)
	}
	u, err := v.users.ChangeRole(v.ctx, actor.ID.String(), userID, domain.Role(form.Role))
	if err != nil {
		v.fail(err, msgActionFailed)
		return nil, fmt.Errorf("change role: %w", err)
	}
	v.Reload()
	return u, nil
}

func (v *AdminUsersView) ChangePassword(userID string, form ChangePasswordForm) error {
	if _, err := v.session.Actor(v.ctx, domain.CapManageUsers); err != nil {
		v.fail(err, msgActionFailed)
		return fmt.Errorf("change password: %w", err)
	}
	if err := v.validator.Validate(form); err != nil {
		v.fail(err, msgActionFailed)
		return fmt.Errorf("change password: %w", err)
	}
	if _, err := v.users.ChangePassword(v.ctx, userID, form.Password); err != nil {
		v.fail(err, msgActionFailed)
		return fmt.Errorf("change password: %w", err)
	}
	v.apply(func() { v.errMsg, v.notice = "", "Password changed." })
	return nil
}

// DeleteUser refuses to delete the session's own account.
func (v *AdminUsersView) DeleteUser(userID string) error {
	actor, err := v.session.Actor(v.ctx, domain.CapManageUsers)
	if err != nil {
		v.fail(err, msgActionFailed)
		return fmt.Errorf("delete user: %w", err)
	}
	if actor.ID.String() == userID {
		err := fmt.Errorf("delete user: %w: cannot delete your own account", domain.ErrValidation)
		v.fail(err, msgActionFailed)
		return err
	}
	if err := v.users.DeleteUser(v.ctx, actor.ID.String(), userID); err != nil {
		v.fail(err, msgActionFailed)
		return fmt.Errorf("delete user: %w", err)
	}
	v.log.Info().Str("user_id", userID).Msg("user deleted")
	v.Reload()
	return nil
}

// DeleteDemoData purges the seeded demo accounts and their feedback.
func (v *AdminUsersView) DeleteDemoData() (*ports.DemoDataResult, error) {
	actor, err := v.session.Actor(v.ctx, domain.CapDeleteDemoData)
	if err != nil {
		v.fail(err, msgDemoDataFailed)
		return nil, fmt.Errorf("delete demo data: %w", err)
	}
	res, err := v.users.DeleteDemoData(v.ctx, actor.ID.String())
	if err != nil {
		v.fail(err, msgDemoDataFailed)
		return nil, fmt.Errorf("delete demo data: %w", err)
	}
	v.log.Info().Int("deleted_users", res.DeletedUsers).Msg("demo data deleted")
	v.apply(func() { v.notice = res.Message })
	v.Reload()
	return res, nil
}

func (v *AdminUsersView) fail(err error, fallback string) {
	v.log.Debug().Err(err).Msg("admin action failed")
	v.apply(func() {
		v.errMsg = message(err, fallback)
		v.notice = ""
	})
}

func (v *AdminUsersView) Snapshot() AdminUsersSnapshot {
	self := ""
	if u := v.session.Current(v.ctx); u != nil {
		self = u.ID.String()
	}

	var snap AdminUsersSnapshot
	v.read(func() {
		snap.Loading = v.loading
		snap.Error = v.errMsg
		snap.Notice = v.notice
		snap.Roles = domain.Roles
		snap.Users = make([]UserRow, 0, len(v.list))
		for _, u := range v.list {
			snap.Users = append(snap.Users, UserRow{
				User:        u,
				RoleDisplay: domain.RoleDisplay(u.Role),
				Initials:    u.Initials(),
				Self:        u.ID.String() == self,
			})
		}
	})
	return snap
}
