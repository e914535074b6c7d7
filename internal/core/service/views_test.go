package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cityfeedback/portal/internal/core/domain"
)

func seedBacklog(b *stubBackend) {
	b.feedbacks = []domain.Feedback{
		{ID: 7, Title: "Broken lamp", Category: domain.CategoryLighting, Status: domain.StatusOpen, UserID: "c-1"},
		{ID: 8, Title: "Graffiti", Category: domain.CategoryVandalism, Status: domain.StatusInProgress, Published: true, UserID: "c-2"},
		{ID: 9, Title: "Noise", Category: domain.CategoryEnvironment, Status: domain.StatusDone, Published: true, UserID: "c-1"},
		{ID: 10, Title: "Old case", Category: domain.CategoryAdministration, Status: domain.StatusClosed, UserID: "c-1"},
	}
}

// ---------------------------------------------------------------------------
// Admin users
// ---------------------------------------------------------------------------

func TestAdminUsersView_CitizenRedirectedBeforeFetch(t *testing.T) {
	b := newStubBackend()
	s, _, nav := sessionAs(t, b, citizen())
	v := NewAdminUsersView(context.Background(), s, b, NewFormValidator(), zerolog.Nop())
	defer v.Close()

	if v.Mount() {
		t.Fatal("citizen must not mount the admin page")
	}
	if n := b.count("ListUsers"); n != 0 {
		t.Fatalf("expected no user list request, got %d", n)
	}
	assertNavigated(t, nav, RouteDashboard)
}

func TestAdminUsersView_NoSessionRedirectsToLogin(t *testing.T) {
	b := newStubBackend()
	s, _, nav := sessionAs(t, b, nil)
	v := NewAdminUsersView(context.Background(), s, b, NewFormValidator(), zerolog.Nop())
	defer v.Close()

	if v.Mount() {
		t.Fatal("anonymous visitor must not mount the admin page")
	}
	assertNavigated(t, nav, RouteLogin)
	if len(b.Calls()) != 0 {
		t.Fatalf("expected no calls, got %v", b.Calls())
	}
}

func TestAdminUsersView_AdminManagesUsers(t *testing.T) {
	b := newStubBackend()
	b.addUser("a-1", "ada@example.com", domain.RoleAdmin, "pw")
	b.addUser("c-1", "carla@example.com", domain.RoleCitizen, "pw")
	s, _, _ := sessionAs(t, b, admin())
	v := NewAdminUsersView(context.Background(), s, b, NewFormValidator(), zerolog.Nop())
	defer v.Close()

	if !v.Mount() {
		t.Fatal("admin must mount the admin page")
	}
	if got := len(v.Snapshot().Users); got != 2 {
		t.Fatalf("expected 2 users, got %d", got)
	}

	if _, err := v.ChangeRole("c-1", ChangeRoleForm{Role: "STAFF"}); err != nil {
		t.Fatalf("ChangeRole returned error: %v", err)
	}
	if b.users["c-1"].Role != domain.RoleStaff {
		t.Fatalf("role not changed: %s", b.users["c-1"].Role)
	}
	if b.lastAdminID != "a-1" {
		t.Fatalf("expected admin id a-1, got %q", b.lastAdminID)
	}

	if _, err := v.ChangeRole("c-1", ChangeRoleForm{Role: "MAYOR"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown role, got %v", err)
	}

	u, err := v.CreateUser(CreateUserForm{Email: " new@example.com ", Password: "pw", Role: "CITIZEN"})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if u.Email != "new@example.com" {
		t.Fatalf("expected trimmed email, got %q", u.Email)
	}
}

func TestAdminUsersView_CannotDeleteSelf(t *testing.T) {
	b := newStubBackend()
	s, _, _ := sessionAs(t, b, admin())
	v := NewAdminUsersView(context.Background(), s, b, NewFormValidator(), zerolog.Nop())
	defer v.Close()

	if err := v.DeleteUser("a-1"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if n := b.count("DeleteUser"); n != 0 {
		t.Fatalf("expected no delete request, got %d", n)
	}
	if v.Snapshot().Error == "" {
		t.Fatal("expected an error message")
	}
}

func TestAdminUsersView_DeleteDemoData(t *testing.T) {
	b := newStubBackend()
	s, _, _ := sessionAs(t, b, admin())
	v := NewAdminUsersView(context.Background(), s, b, NewFormValidator(), zerolog.Nop())
	defer v.Close()

	res, err := v.DeleteDemoData()
	if err != nil {
		t.Fatalf("DeleteDemoData returned error: %v", err)
	}
	if res.DeletedUsers != 3 {
		t.Fatalf("unexpected result %+v", res)
	}
	if v.Snapshot().Notice != res.Message {
		t.Fatalf("expected notice %q, got %q", res.Message, v.Snapshot().Notice)
	}
}

func TestAdminUsersView_StaffCannotDeleteDemoData(t *testing.T) {
	b := newStubBackend()
	s, _, _ := sessionAs(t, b, staff())
	v := NewAdminUsersView(context.Background(), s, b, NewFormValidator(), zerolog.Nop())
	defer v.Close()

	if _, err := v.DeleteDemoData(); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(b.Calls()) != 0 {
		t.Fatalf("expected no calls, got %v", b.Calls())
	}
}

// ---------------------------------------------------------------------------
// Staff backlog
// ---------------------------------------------------------------------------

func newStaffFixture(t *testing.T, u *domain.User) (*StaffView, *stubBackend, *NavigationRecorder) {
	t.Helper()
	b := newStubBackend()
	seedBacklog(b)
	s, _, nav := sessionAs(t, b, u)
	wf := NewWorkflow(s, b, b, zerolog.Nop())
	v := NewStaffView(context.Background(), s, b, wf, domain.SchemaFourState, zerolog.Nop())
	t.Cleanup(v.Close)
	return v, b, nav
}

func itemByID(t *testing.T, snap StaffSnapshot, id int64) StaffItem {
	t.Helper()
	for _, it := range snap.Items {
		if it.ID == id {
			return it
		}
	}
	t.Fatalf("item %d not in snapshot", id)
	return StaffItem{}
}

func TestStaffView_CitizenRedirected(t *testing.T) {
	v, b, nav := newStaffFixture(t, citizen())
	if v.Mount() {
		t.Fatal("citizen must not mount the staff page")
	}
	if len(b.Calls()) != 0 {
		t.Fatalf("expected no calls, got %v", b.Calls())
	}
	assertNavigated(t, nav, RouteDashboard)
}

func TestStaffView_CommentFanOutIsolatesFailures(t *testing.T) {
	v, b, _ := newStaffFixture(t, staff())
	b.commentErrFor[7] = errBoom
	b.comments[8] = []domain.Comment{{ID: 1, FeedbackID: 8, AuthorID: "s-1", Content: "on it"}}

	if !v.Mount() {
		t.Fatal("staff must mount the staff page")
	}
	snap := v.Snapshot()
	if snap.Error != "" {
		t.Fatalf("a per-item comment failure must not set the page error, got %q", snap.Error)
	}

	seven := itemByID(t, snap, 7)
	if len(seven.Comments) != 0 || !seven.CommentsError {
		t.Fatalf("item 7: expected empty comments flagged as failed, got %+v", seven)
	}
	eight := itemByID(t, snap, 8)
	if len(eight.Comments) != 1 || eight.CommentsError {
		t.Fatalf("item 8: expected one comment, got %+v", eight)
	}
	if n := b.count("ListComments"); n != 4 {
		t.Fatalf("expected one comment fetch per item, got %d", n)
	}
}

func TestStaffView_ListFailureEmptiesPage(t *testing.T) {
	v, b, _ := newStaffFixture(t, staff())
	b.listErr = errBoom

	v.Mount()
	snap := v.Snapshot()
	if len(snap.Items) != 0 {
		t.Fatalf("expected no items, got %d", len(snap.Items))
	}
	if snap.Error != msgListFailed {
		t.Fatalf("expected %q, got %q", msgListFailed, snap.Error)
	}
	if snap.Loading {
		t.Fatal("loading must be cleared")
	}
}

func TestStaffView_StatsAndAffordances(t *testing.T) {
	v, _, _ := newStaffFixture(t, staff())
	v.Mount()
	snap := v.Snapshot()

	want := StaffStats{Open: 1, InProgress: 1, Done: 1, Published: 2}
	if snap.Stats != want {
		t.Fatalf("stats = %+v, want %+v", snap.Stats, want)
	}

	if it := itemByID(t, snap, 7); !it.CanPublish || it.CanUnpublish {
		t.Fatalf("item 7: expected publish offered, got %+v", it)
	}
	if it := itemByID(t, snap, 8); it.CanPublish || !it.CanUnpublish {
		t.Fatalf("item 8: expected unpublish offered, got %+v", it)
	}
	if it := itemByID(t, snap, 10); it.CanPublish || it.CanUnpublish {
		t.Fatalf("item 10: closed and unpublished offers nothing, got %+v", it)
	}
	if it := itemByID(t, snap, 7); it.CanDelete {
		t.Fatal("staff must not be offered delete")
	}
	if it := itemByID(t, snap, 7); it.NextStatus != string(domain.StatusInProgress) {
		t.Fatalf("expected next status INPROGRESS, got %q", it.NextStatus)
	}
}

func TestStaffView_ChangeStatusPartialSuccess(t *testing.T) {
	v, b, _ := newStaffFixture(t, staff())
	v.Mount()
	b.addCommentErr = errBoom

	change, err := v.ChangeStatus(7, domain.StatusDone, "done")
	if err != nil {
		t.Fatalf("ChangeStatus returned error: %v", err)
	}
	if change.CommentErr == nil {
		t.Fatal("expected comment error to be reported")
	}
	snap := v.Snapshot()
	if snap.Error != msgCommentPartial {
		t.Fatalf("expected partial-success message, got %q", snap.Error)
	}
	if it := itemByID(t, snap, 7); it.Status != domain.StatusDone {
		t.Fatalf("expected item 7 DONE after reload, got %s", it.Status)
	}
}

func TestStaffView_ChangeStatusRejectsUnknownStatus(t *testing.T) {
	v, b, _ := newStaffFixture(t, staff())
	if _, err := v.ChangeStatus(7, "ARCHIVED", ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if n := b.count("UpdateStatus"); n != 0 {
		t.Fatalf("expected no status write, got %d", n)
	}
}

func TestStaffView_Advance(t *testing.T) {
	v, b, _ := newStaffFixture(t, staff())
	v.Mount()

	if _, err := v.Advance(8, ""); err != nil {
		t.Fatalf("Advance returned error: %v", err)
	}
	if n := b.count("UpdateStatus 8 DONE"); n != 1 {
		t.Fatalf("expected INPROGRESS -> DONE, calls %v", b.Calls())
	}
	if _, err := v.Advance(10, ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected terminal status to have no next, got %v", err)
	}
}

func TestStaffView_PublishAndDelete(t *testing.T) {
	v, b, _ := newStaffFixture(t, admin())
	v.Mount()

	if err := v.Publish(7); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if it := itemByID(t, v.Snapshot(), 7); !it.Published {
		t.Fatal("expected item 7 published")
	}
	if err := v.Delete(7); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	for _, it := range v.Snapshot().Items {
		if it.ID == 7 {
			t.Fatal("item 7 still listed after delete")
		}
	}
	if b.lastAdminID != "a-1" {
		t.Fatalf("expected admin id a-1, got %q", b.lastAdminID)
	}
}

func TestStaffView_PublishRefusesClosed(t *testing.T) {
	v, b, _ := newStaffFixture(t, staff())
	v.Mount()

	if err := v.Publish(10); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if n := b.count("Publish"); n != 0 {
		t.Fatalf("expected no publish request, calls %v", b.Calls())
	}
	if b.find(10).Published {
		t.Fatal("item 10 must stay unpublished")
	}
	if snap := v.Snapshot(); snap.Error != "closed feedback cannot be published" {
		t.Fatalf("unexpected error message %q", snap.Error)
	}
}

func TestStaffView_PublishLooksUpUnlistedItem(t *testing.T) {
	v, b, _ := newStaffFixture(t, staff())

	if err := v.Publish(10); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if n := b.count("GetFeedback 10"); n != 1 {
		t.Fatalf("expected a single lookup, calls %v", b.Calls())
	}
	if n := b.count("Publish"); n != 0 {
		t.Fatalf("expected no publish request, calls %v", b.Calls())
	}

	if err := v.Publish(7); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if !b.find(7).Published {
		t.Fatal("expected item 7 published")
	}
}

func TestStaffView_ToggleExpandUsesLoadedThread(t *testing.T) {
	v, b, _ := newStaffFixture(t, staff())
	b.commentErrFor[7] = errBoom
	v.Mount()
	before := b.count("ListComments")

	v.ToggleExpand(8)
	if n := b.count("ListComments"); n != before {
		t.Fatalf("loaded thread must not be refetched, got %d extra", n-before)
	}

	delete(b.commentErrFor, 7)
	v.ToggleExpand(7)
	if n := b.count("ListComments 7"); n != 2 {
		t.Fatalf("a failed thread is refetched on open, got %d fetches", n)
	}
	if itemByID(t, v.Snapshot(), 7).CommentsError {
		t.Fatal("expected the error flag cleared after refetch")
	}
}

func TestStaffView_ToggleExpandAndComment(t *testing.T) {
	v, _, _ := newStaffFixture(t, staff())
	v.Mount()

	v.ToggleExpand(9)
	if !itemByID(t, v.Snapshot(), 9).Expanded {
		t.Fatal("expected item 9 expanded")
	}
	v.ToggleExpand(8)
	snap := v.Snapshot()
	if itemByID(t, snap, 9).Expanded || !itemByID(t, snap, 8).Expanded {
		t.Fatal("expected only item 8 expanded")
	}

	if _, err := v.AddComment(8, "  "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for blank comment, got %v", err)
	}
	if _, err := v.AddComment(8, "checked"); err != nil {
		t.Fatalf("AddComment returned error: %v", err)
	}
	if got := len(itemByID(t, v.Snapshot(), 8).Comments); got != 1 {
		t.Fatalf("expected refreshed thread with 1 comment, got %d", got)
	}

	v.ToggleExpand(8)
	if itemByID(t, v.Snapshot(), 8).Expanded {
		t.Fatal("expected item 8 collapsed")
	}
}

func TestStaffView_ClosedViewDiscardsResults(t *testing.T) {
	v, _, _ := newStaffFixture(t, staff())
	v.Close()
	v.Reload()

	if got := len(v.Snapshot().Items); got != 0 {
		t.Fatalf("closed view must not apply results, got %d items", got)
	}
	if !v.Closed() {
		t.Fatal("expected view closed")
	}
}

// ---------------------------------------------------------------------------
// Dashboard
// ---------------------------------------------------------------------------

func TestDashboardView_ShowsOwnItems(t *testing.T) {
	b := newStubBackend()
	seedBacklog(b)
	s, _, _ := sessionAs(t, b, citizen())
	v := NewDashboardView(context.Background(), s, b, domain.SchemaFourState, zerolog.Nop())
	defer v.Close()

	if !v.Mount() {
		t.Fatal("citizen must mount the dashboard")
	}
	snap := v.Snapshot()
	if len(snap.Items) != 3 {
		t.Fatalf("expected 3 own items, got %d", len(snap.Items))
	}
	want := DashboardStats{Total: 3, Open: 1, InProgress: 0, Closed: 1}
	if snap.Stats != want {
		t.Fatalf("stats = %+v, want %+v", snap.Stats, want)
	}
	if snap.Items[0].CategoryLabel != "Beleuchtung" {
		t.Fatalf("unexpected label %q", snap.Items[0].CategoryLabel)
	}
}

func TestDashboardView_NoSessionRedirectsToLogin(t *testing.T) {
	b := newStubBackend()
	s, _, nav := sessionAs(t, b, nil)
	v := NewDashboardView(context.Background(), s, b, domain.SchemaFourState, zerolog.Nop())
	defer v.Close()

	if v.Mount() {
		t.Fatal("anonymous visitor must not mount the dashboard")
	}
	assertNavigated(t, nav, RouteLogin)
	if len(b.Calls()) != 0 {
		t.Fatalf("expected no calls, got %v", b.Calls())
	}
}

func TestDashboardView_ListFailure(t *testing.T) {
	b := newStubBackend()
	b.listErr = domain.ErrBackendUnreachable
	s, _, _ := sessionAs(t, b, citizen())
	v := NewDashboardView(context.Background(), s, b, domain.SchemaFourState, zerolog.Nop())
	defer v.Close()

	v.Mount()
	snap := v.Snapshot()
	if len(snap.Items) != 0 || snap.Error != msgUnreachable {
		t.Fatalf("expected empty list with unreachable message, got %+v", snap)
	}
}

// ---------------------------------------------------------------------------
// Public listing
// ---------------------------------------------------------------------------

func TestPublicView_GroupsAndMemoizesComments(t *testing.T) {
	b := newStubBackend()
	seedBacklog(b)
	b.comments[9] = []domain.Comment{{ID: 1, FeedbackID: 9, Content: "resolved"}}
	v := NewPublicView(context.Background(), b, b, domain.SchemaFourState, zerolog.Nop())
	defer v.Close()

	v.Mount()
	snap := v.Render()
	if snap.Total != 2 {
		t.Fatalf("expected 2 published items, got %d", snap.Total)
	}
	if len(snap.Groups) != 4 {
		t.Fatalf("expected 4 status groups, got %d", len(snap.Groups))
	}
	if snap.Groups[1].Status != domain.StatusInProgress || len(snap.Groups[1].Items) != 1 {
		t.Fatalf("unexpected INPROGRESS group: %+v", snap.Groups[1])
	}
	if got := snap.Groups[2].Items[0].Comments; len(got) != 1 {
		t.Fatalf("expected comment on item 9, got %+v", got)
	}

	v.Render()
	if n := b.count("ListComments 9"); n != 1 {
		t.Fatalf("expected memoized comments, fetched %d times", n)
	}
}

func TestPublicView_FailedCommentsMemoizedEmpty(t *testing.T) {
	b := newStubBackend()
	seedBacklog(b)
	b.commentErrFor[8] = errBoom
	v := NewPublicView(context.Background(), b, b, domain.SchemaFourState, zerolog.Nop())
	defer v.Close()

	v.Mount()
	v.Render()
	if got := v.Comments(8); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil comments, got %#v", got)
	}
	if n := b.count("ListComments 8"); n != 1 {
		t.Fatalf("expected a single fetch, got %d", n)
	}
}

func TestPublicView_CategoryFilter(t *testing.T) {
	b := newStubBackend()
	seedBacklog(b)
	v := NewPublicView(context.Background(), b, b, domain.SchemaFourState, zerolog.Nop())
	defer v.Close()
	v.Mount()

	if err := v.SetCategory(domain.CategoryVandalism); err != nil {
		t.Fatalf("SetCategory returned error: %v", err)
	}
	snap := v.Render()
	if snap.Total != 1 || snap.Category != domain.CategoryVandalism {
		t.Fatalf("expected one vandalism item, got %+v", snap)
	}

	if err := v.SetCategory(domain.CategoryAll); err != nil {
		t.Fatalf("SetCategory(ALL) returned error: %v", err)
	}
	if v.Render().Total != 2 {
		t.Fatal("ALL must show every published item")
	}

	if err := v.SetCategory("PARKING"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestPublicView_ThreeStateSchema(t *testing.T) {
	b := newStubBackend()
	b.feedbacks = []domain.Feedback{
		{ID: 1, Status: domain.StatusInProgressAlt, Published: true, Category: domain.CategoryTraffic},
		{ID: 2, Status: domain.StatusDone, Published: true, Category: domain.CategoryTraffic},
	}
	v := NewPublicView(context.Background(), b, b, domain.SchemaThreeState, zerolog.Nop())
	defer v.Close()
	v.Mount()

	snap := v.Render()
	if len(snap.Groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(snap.Groups))
	}
	if len(snap.Groups[1].Items) != 1 {
		t.Fatalf("expected IN_PROGRESS bucket to hold one item, got %+v", snap.Groups[1])
	}
}

// ---------------------------------------------------------------------------
// Create feedback
// ---------------------------------------------------------------------------

func TestCreateFeedbackView_ValidationBlocksRequest(t *testing.T) {
	b := newStubBackend()
	s, _, nav := sessionAs(t, b, citizen())
	v := NewCreateFeedbackView(context.Background(), s, b, NewFormValidator(), zerolog.Nop())
	defer v.Close()

	_, err := v.Submit(CreateFeedbackForm{Title: "   ", Category: "VERKEHR", Content: "x"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(b.Calls()) != 0 {
		t.Fatalf("expected no calls, got %v", b.Calls())
	}
	if v.Message() == "" {
		t.Fatal("expected an error message")
	}
	if nav.Count() != 0 {
		t.Fatal("failed submission must not navigate")
	}
}

func TestCreateFeedbackView_Submit(t *testing.T) {
	b := newStubBackend()
	s, _, nav := sessionAs(t, b, citizen())
	v := NewCreateFeedbackView(context.Background(), s, b, NewFormValidator(), zerolog.Nop())
	defer v.Close()

	fb, err := v.Submit(CreateFeedbackForm{Title: " Pothole ", Category: "VERKEHR", Content: " Deep hole "})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if fb.Title != "Pothole" || fb.Content != "Deep hole" {
		t.Fatalf("expected trimmed fields, got %+v", fb)
	}
	if fb.UserID != "c-1" {
		t.Fatalf("expected owner c-1, got %q", fb.UserID)
	}
	assertNavigated(t, nav, RouteDashboard)
}

func TestCreateFeedbackView_NoSession(t *testing.T) {
	b := newStubBackend()
	s, _, _ := sessionAs(t, b, nil)
	v := NewCreateFeedbackView(context.Background(), s, b, NewFormValidator(), zerolog.Nop())
	defer v.Close()

	if _, err := v.Submit(CreateFeedbackForm{Title: "t", Category: "VERKEHR", Content: "c"}); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if v.Message() != msgNotLoggedIn {
		t.Fatalf("unexpected message %q", v.Message())
	}
}

// ---------------------------------------------------------------------------
// Login and signup
// ---------------------------------------------------------------------------

func TestAuthView_Login(t *testing.T) {
	b := newStubBackend()
	b.addUser("c-1", "carla@example.com", domain.RoleCitizen, "secret123")
	s, store, nav := sessionAs(t, b, nil)
	v := NewAuthView(context.Background(), s, b, NewFormValidator(), zerolog.Nop())
	defer v.Close()

	if _, err := v.Login(LoginForm{Email: "carla@example.com", Password: "nope"}); err == nil {
		t.Fatal("expected rejection")
	}
	if v.Message() != msgLoginRejected {
		t.Fatalf("unexpected message %q", v.Message())
	}

	if _, err := v.Login(LoginForm{Email: "carla@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if !store.has(SessionKey) {
		t.Fatal("expected session stored")
	}
	assertNavigated(t, nav, RouteDashboard)
}

func TestAuthView_SignupPasswordRules(t *testing.T) {
	cases := []struct {
		name     string
		password string
		confirm  string
	}{
		{"too short", "abc123", "abc123"},
		{"no digit", "abcdefgh", "abcdefgh"},
		{"no letter", "12345678", "12345678"},
		{"mismatch", "abcdefg1", "abcdefg2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := newStubBackend()
			s, _, nav := sessionAs(t, b, nil)
			v := NewAuthView(context.Background(), s, b, NewFormValidator(), zerolog.Nop())
			defer v.Close()

			_, err := v.Signup(SignupForm{Email: "new@example.com", Password: tc.password, ConfirmPassword: tc.confirm})
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if len(b.Calls()) != 0 {
				t.Fatalf("expected no calls, got %v", b.Calls())
			}
			if nav.Count() != 0 {
				t.Fatal("failed signup must not navigate")
			}
		})
	}
}

func TestAuthView_SignupCreatesCitizen(t *testing.T) {
	b := newStubBackend()
	s, _, nav := sessionAs(t, b, nil)
	v := NewAuthView(context.Background(), s, b, NewFormValidator(), zerolog.Nop())
	defer v.Close()

	u, err := v.Signup(SignupForm{Email: "new@example.com", Password: "abcdefg1", ConfirmPassword: "abcdefg1"})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if u.Role != domain.RoleCitizen || b.lastSignupRole != domain.RoleCitizen {
		t.Fatalf("expected CITIZEN, got %s", u.Role)
	}
	assertNavigated(t, nav, RouteLogin)
}
