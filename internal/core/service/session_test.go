package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cityfeedback/portal/internal/core/domain"
)

func TestSession_Current_Empty(t *testing.T) {
	s, _, _ := sessionAs(t, newStubBackend(), nil)
	if u := s.Current(context.Background()); u != nil {
		t.Fatalf("expected no user, got %+v", u)
	}
}

func TestSession_Current_CorruptRecordIsLoggedOut(t *testing.T) {
	for _, raw := range []string{"{not json", "null", `{"email":"x@example.com"}`, ""} {
		store := newMemStore()
		store.data[SessionKey] = raw
		s := NewSession(store, newStubBackend(), &NavigationRecorder{}, zerolog.Nop())
		if u := s.Current(context.Background()); u != nil {
			t.Fatalf("record %q: expected nil user, got %+v", raw, u)
		}
	}
}

func TestSession_Current_WrappedEmail(t *testing.T) {
	store := newMemStore()
	store.data[SessionKey] = `{"id":"s-1","email":{"value":"sam@example.com"},"role":"STAFF"}`
	s := NewSession(store, newStubBackend(), &NavigationRecorder{}, zerolog.Nop())

	u := s.Current(context.Background())
	if u == nil {
		t.Fatal("expected user")
	}
	if u.Email != "sam@example.com" || u.Role != domain.RoleStaff {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestSession_Current_ReadsStoreOnce(t *testing.T) {
	s, store, _ := sessionAs(t, newStubBackend(), staff())
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if s.Current(ctx) == nil {
			t.Fatal("expected user")
		}
	}
	if store.reads != 1 {
		t.Fatalf("expected exactly one store read, got %d", store.reads)
	}
}

func TestSession_Current_ReturnsCopy(t *testing.T) {
	s, _, _ := sessionAs(t, newStubBackend(), citizen())
	ctx := context.Background()
	u := s.Current(ctx)
	u.Role = domain.RoleAdmin
	if s.Current(ctx).Role != domain.RoleCitizen {
		t.Fatal("mutating the returned user changed the session")
	}
}

func TestSession_Current_StoreErrorIsLoggedOut(t *testing.T) {
	store := newMemStore()
	store.failGet = errBoom
	s := NewSession(store, newStubBackend(), &NavigationRecorder{}, zerolog.Nop())
	if s.Current(context.Background()) != nil {
		t.Fatal("expected nil user when the store fails")
	}
}

func TestSession_Login_PersistsUser(t *testing.T) {
	b := newStubBackend()
	b.addUser("s-1", "sam@example.com", domain.RoleStaff, "secret123")
	s, store, _ := sessionAs(t, b, nil)

	u, err := s.Login(context.Background(), "sam@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if u.Role != domain.RoleStaff {
		t.Fatalf("unexpected role %s", u.Role)
	}
	if !store.has(SessionKey) {
		t.Fatal("expected session record to be stored")
	}
	if cur := s.Current(context.Background()); cur == nil || cur.ID != "s-1" {
		t.Fatalf("expected current user s-1, got %+v", cur)
	}

	// A fresh session over the same store sees the persisted record.
	again := NewSession(store, b, &NavigationRecorder{}, zerolog.Nop())
	if cur := again.Current(context.Background()); cur == nil || cur.Email != "sam@example.com" {
		t.Fatalf("expected persisted user, got %+v", cur)
	}
}

func TestSession_Login_Rejected(t *testing.T) {
	b := newStubBackend()
	b.addUser("s-1", "sam@example.com", domain.RoleStaff, "secret123")
	s, store, _ := sessionAs(t, b, nil)

	_, err := s.Login(context.Background(), "sam@example.com", "wrong")
	if !errors.Is(err, domain.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	if store.has(SessionKey) {
		t.Fatal("rejected login must not write a session")
	}
}

func TestSession_Logout_ClearsAndNavigatesHome(t *testing.T) {
	s, store, nav := sessionAs(t, newStubBackend(), admin())
	ctx := context.Background()
	if s.Current(ctx) == nil {
		t.Fatal("expected user before logout")
	}

	if err := s.Logout(ctx); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if store.has(SessionKey) {
		t.Fatal("expected session record to be removed")
	}
	if s.Current(ctx) != nil {
		t.Fatal("expected no user after logout")
	}
	assertNavigated(t, nav, RouteHome)
}

func TestSession_Logout_WithoutSession(t *testing.T) {
	s, _, nav := sessionAs(t, newStubBackend(), nil)
	if err := s.Logout(context.Background()); err != nil {
		t.Fatalf("Logout without session returned error: %v", err)
	}
	assertNavigated(t, nav, RouteHome)
}

func TestSession_Require_DeniedNavigatesToDashboard(t *testing.T) {
	s, _, nav := sessionAs(t, newStubBackend(), citizen())
	if s.Require(context.Background(), domain.CapManageUsers) {
		t.Fatal("citizen must not hold manage_users")
	}
	assertNavigated(t, nav, RouteDashboard)
}

func TestSession_Require_AllowedDoesNotNavigate(t *testing.T) {
	s, _, nav := sessionAs(t, newStubBackend(), admin())
	if !s.Require(context.Background(), domain.CapManageUsers) {
		t.Fatal("admin must hold manage_users")
	}
	if nav.Count() != 0 {
		t.Fatalf("expected no navigation, got %d", nav.Count())
	}
}

func TestSession_Actor(t *testing.T) {
	ctx := context.Background()

	s, _, nav := sessionAs(t, newStubBackend(), nil)
	if _, err := s.Actor(ctx, domain.CapCreateFeedback); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}

	s, _, nav = sessionAs(t, newStubBackend(), staff())
	if _, err := s.Actor(ctx, domain.CapDeleteFeedback); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if nav.Count() != 0 {
		t.Fatal("Actor must not navigate")
	}

	u, err := s.Actor(ctx, domain.CapTriageFeedback)
	if err != nil || u.ID != "s-1" {
		t.Fatalf("expected staff actor, got %+v, %v", u, err)
	}
}
