package service

import (
	"context"
	"strings"

	"github.com/cityfeedback/portal/internal/core/domain"
)

// Routes of the portal.
const (
	RouteHome           = "/"
	RoutePublic         = "/public"
	RouteLogin          = "/login"
	RouteSignup         = "/signup"
	RouteDashboard      = "/dashboard"
	RouteCreate         = "/dashboard/create"
	RouteStaffFeedbacks = "/dashboard/staff/feedbacks"
	RouteAdminUsers     = "/dashboard/admin/users"
	RouteWelcome        = "/dashboard-welcome"
)

// Route describes one page. Protected pages need a session; a non-empty
// Capability additionally gates the page by role.
type Route struct {
	Path       string
	Title      string
	Protected  bool
	Capability domain.Capability
}

var routes = []Route{
	{Path: RouteHome, Title: "CityFeedback"},
	{Path: RoutePublic, Title: "Öffentliche Meldungen"},
	{Path: RouteLogin, Title: "Anmelden"},
	{Path: RouteSignup, Title: "Registrieren"},
	{Path: RouteDashboard, Title: "Meine Meldungen", Protected: true, Capability: domain.CapViewDashboard},
	{Path: RouteCreate, Title: "Neue Meldung", Protected: true, Capability: domain.CapCreateFeedback},
	{Path: RouteStaffFeedbacks, Title: "Meldungen bearbeiten", Protected: true, Capability: domain.CapTriageFeedback},
	{Path: RouteAdminUsers, Title: "Benutzerverwaltung", Protected: true, Capability: domain.CapManageUsers},
	{Path: RouteWelcome, Title: "Willkommen", Protected: true},
}

// Routes returns the route table in declaration order.
func Routes() []Route {
	out := make([]Route, len(routes))
	copy(out, routes)
	return out
}

// LookupRoute finds the route for path, ignoring a trailing slash.
func LookupRoute(path string) (Route, bool) {
	if path != RouteHome {
		path = strings.TrimSuffix(path, "/")
	}
	for _, r := range routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

// Guard decides whether the page at path may render for the session. Without
// a session a protected page navigates to the login page; a role mismatch
// navigates to the dashboard. Unknown paths are left to the caller.
func Guard(ctx context.Context, s *Session, path string) bool {
	r, ok := LookupRoute(path)
	if !ok || !r.Protected {
		return true
	}
	if s.Current(ctx) == nil {
		s.Navigator().Navigate(RouteLogin)
		return false
	}
	if r.Capability == "" {
		return true
	}
	return s.Require(ctx, r.Capability)
}

// NavItem is one sidebar entry.
type NavItem struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// Sidebar is the authenticated shell around dashboard pages.
type Sidebar struct {
	Items       []NavItem      `json:"items"`
	Initials    string         `json:"initials"`
	DisplayName string         `json:"displayName"`
	Email       string         `json:"email"`
	Role        domain.Display `json:"role"`
}

var sidebarRoutes = []string{RouteDashboard, RouteCreate, RouteStaffFeedbacks, RouteAdminUsers}

// BuildSidebar lists the dashboard pages the user may open. Entries are
// filtered through the same capability check the pages use.
func BuildSidebar(user *domain.User, current string) Sidebar {
	sb := Sidebar{
		Initials:    user.Initials(),
		DisplayName: user.DisplayName(),
	}
	if user != nil {
		sb.Email = user.Email.String()
		sb.Role = domain.RoleDisplay(user.Role)
	}
	for _, path := range sidebarRoutes {
		r, _ := LookupRoute(path)
		if !domain.Authorize(user, r.Capability).Allowed {
			continue
		}
		sb.Items = append(sb.Items, NavItem{Title: r.Title, URL: r.Path, Active: r.Path == current})
	}
	return sb
}
