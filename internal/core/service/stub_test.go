package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cityfeedback/portal/internal/core/domain"
	"github.com/cityfeedback/portal/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory session store
// ---------------------------------------------------------------------------

type memStore struct {
	mu      sync.Mutex
	data    map[string]string
	reads   int
	failGet error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (s *memStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.failGet != nil {
		return "", s.failGet
	}
	v, ok := s.data[key]
	if !ok {
		return "", ports.ErrKeyNotFound
	}
	return v, nil
}

func (s *memStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return ports.ErrKeyNotFound
	}
	delete(s.data, key)
	return nil
}

func (s *memStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}

// ---------------------------------------------------------------------------
// Recording backend stub
// ---------------------------------------------------------------------------

type stubBackend struct {
	mu    sync.Mutex
	calls []string

	users     map[string]*domain.User
	passwords map[string]string
	feedbacks []domain.Feedback
	comments  map[int64][]domain.Comment
	nextID    int64

	listErr        error
	addCommentErr  error
	commentErrFor  map[int64]error
	updateErr      error
	lastAdminID    string
	lastAuthorID   string
	lastSignupRole domain.Role
}

var _ ports.Backend = (*stubBackend)(nil)

func newStubBackend() *stubBackend {
	return &stubBackend{
		users:         make(map[string]*domain.User),
		passwords:     make(map[string]string),
		comments:      make(map[int64][]domain.Comment),
		commentErrFor: make(map[int64]error),
		nextID:        100,
	}
}

func (b *stubBackend) record(call string) {
	b.calls = append(b.calls, call)
}

func (b *stubBackend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.calls))
	copy(out, b.calls)
	return out
}

func (b *stubBackend) count(prefix string) int {
	n := 0
	for _, c := range b.Calls() {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func (b *stubBackend) addUser(id, email string, role domain.Role, password string) *domain.User {
	u := &domain.User{ID: domain.ValueString(id), Email: domain.ValueString(email), Role: role}
	b.users[id] = u
	b.passwords[email] = password
	return u
}

func (b *stubBackend) Signup(_ context.Context, in ports.SignupInput) (*domain.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("Signup")
	b.lastSignupRole = in.Role
	b.nextID++
	u := &domain.User{ID: domain.ValueString(fmt.Sprintf("u-%d", b.nextID)), Email: domain.ValueString(in.Email), Role: in.Role}
	b.users[u.ID.String()] = u
	b.passwords[in.Email] = in.Password
	clone := *u
	return &clone, nil
}

func (b *stubBackend) Login(_ context.Context, email, password string) (*domain.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("Login")
	for _, u := range b.users {
		if u.Email.String() == email && b.passwords[email] == password {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrRejected
}

func (b *stubBackend) ListUsers(context.Context) ([]domain.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("ListUsers")
	out := make([]domain.User, 0, len(b.users))
	for _, u := range b.users {
		out = append(out, *u)
	}
	return out, nil
}

func (b *stubBackend) GetUser(_ context.Context, id string) (*domain.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("GetUser")
	u, ok := b.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (b *stubBackend) CreateUser(_ context.Context, adminID string, in ports.CreateUserInput) (*domain.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("CreateUser")
	b.lastAdminID = adminID
	b.nextID++
	u := &domain.User{ID: domain.ValueString(fmt.Sprintf("u-%d", b.nextID)), Email: domain.ValueString(in.Email), Role: in.Role}
	b.users[u.ID.String()] = u
	clone := *u
	return &clone, nil
}

func (b *stubBackend) ChangePassword(_ context.Context, userID, password string) (*domain.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("ChangePassword")
	u, ok := b.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	b.passwords[u.Email.String()] = password
	clone := *u
	return &clone, nil
}

func (b *stubBackend) ChangeRole(_ context.Context, adminID, userID string, role domain.Role) (*domain.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("ChangeRole")
	b.lastAdminID = adminID
	u, ok := b.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.Role = role
	clone := *u
	return &clone, nil
}

func (b *stubBackend) DeleteUser(_ context.Context, adminID, userID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("DeleteUser")
	b.lastAdminID = adminID
	delete(b.users, userID)
	return nil
}

func (b *stubBackend) DeleteDemoData(_ context.Context, adminID string) (*ports.DemoDataResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("DeleteDemoData")
	b.lastAdminID = adminID
	return &ports.DemoDataResult{DeletedUsers: 3, Message: "3 demo users deleted"}, nil
}

func (b *stubBackend) ListFeedbacks(context.Context) ([]domain.Feedback, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("ListFeedbacks")
	if b.listErr != nil {
		return nil, b.listErr
	}
	out := make([]domain.Feedback, len(b.feedbacks))
	copy(out, b.feedbacks)
	return out, nil
}

func (b *stubBackend) ListPublicFeedbacks(context.Context) ([]domain.Feedback, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("ListPublicFeedbacks")
	if b.listErr != nil {
		return nil, b.listErr
	}
	var out []domain.Feedback
	for _, f := range b.feedbacks {
		if f.Published {
			out = append(out, f)
		}
	}
	return out, nil
}

func (b *stubBackend) find(id int64) *domain.Feedback {
	for i := range b.feedbacks {
		if b.feedbacks[i].ID == id {
			return &b.feedbacks[i]
		}
	}
	return nil
}

func (b *stubBackend) GetFeedback(_ context.Context, id int64) (*domain.Feedback, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(fmt.Sprintf("GetFeedback %d", id))
	f := b.find(id)
	if f == nil {
		return nil, domain.ErrNotFound
	}
	clone := *f
	return &clone, nil
}

func (b *stubBackend) CreateFeedback(_ context.Context, in ports.CreateFeedbackInput) (*domain.Feedback, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("CreateFeedback")
	b.nextID++
	f := domain.Feedback{
		ID:           b.nextID,
		Title:        in.Title,
		Category:     in.Category,
		Content:      in.Content,
		FeedbackDate: "2026-10-16",
		Status:       domain.StatusOpen,
		UserID:       domain.ValueString(in.UserID),
	}
	b.feedbacks = append(b.feedbacks, f)
	return &f, nil
}

func (b *stubBackend) UpdateStatus(_ context.Context, id int64, status domain.FeedbackStatus) (*domain.Feedback, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(fmt.Sprintf("UpdateStatus %d %s", id, status))
	if b.updateErr != nil {
		return nil, b.updateErr
	}
	f := b.find(id)
	if f == nil {
		return nil, domain.ErrNotFound
	}
	f.Status = status
	clone := *f
	return &clone, nil
}

func (b *stubBackend) setPublished(id int64, published bool, call string) (*domain.Feedback, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(fmt.Sprintf("%s %d", call, id))
	f := b.find(id)
	if f == nil {
		return nil, domain.ErrNotFound
	}
	f.Published = published
	clone := *f
	return &clone, nil
}

func (b *stubBackend) Publish(_ context.Context, id int64) (*domain.Feedback, error) {
	return b.setPublished(id, true, "Publish")
}

func (b *stubBackend) Unpublish(_ context.Context, id int64) (*domain.Feedback, error) {
	return b.setPublished(id, false, "Unpublish")
}

func (b *stubBackend) DeleteFeedback(_ context.Context, adminID string, id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(fmt.Sprintf("DeleteFeedback %d", id))
	b.lastAdminID = adminID
	for i := range b.feedbacks {
		if b.feedbacks[i].ID == id {
			b.feedbacks = append(b.feedbacks[:i], b.feedbacks[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (b *stubBackend) StatusStatistics(context.Context) (map[domain.FeedbackStatus]int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("StatusStatistics")
	out := make(map[domain.FeedbackStatus]int64)
	for _, f := range b.feedbacks {
		out[f.Status]++
	}
	return out, nil
}

func (b *stubBackend) ListComments(_ context.Context, feedbackID int64) ([]domain.Comment, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(fmt.Sprintf("ListComments %d", feedbackID))
	if err := b.commentErrFor[feedbackID]; err != nil {
		return nil, err
	}
	out := make([]domain.Comment, len(b.comments[feedbackID]))
	copy(out, b.comments[feedbackID])
	return out, nil
}

func (b *stubBackend) AddComment(_ context.Context, feedbackID int64, authorID, content string) (*domain.Comment, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(fmt.Sprintf("AddComment %d", feedbackID))
	b.lastAuthorID = authorID
	if b.addCommentErr != nil {
		return nil, b.addCommentErr
	}
	b.nextID++
	c := domain.Comment{ID: b.nextID, FeedbackID: feedbackID, AuthorID: domain.ValueString(authorID), Content: content}
	b.comments[feedbackID] = append(b.comments[feedbackID], c)
	return &c, nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

var errBoom = errors.New("boom")

// sessionAs returns a session whose store already holds u.
func sessionAs(t *testing.T, b *stubBackend, u *domain.User) (*Session, *memStore, *NavigationRecorder) {
	t.Helper()
	store := newMemStore()
	if u != nil {
		raw, err := json.Marshal(u)
		if err != nil {
			t.Fatalf("marshal user: %v", err)
		}
		store.data[SessionKey] = string(raw)
	}
	nav := &NavigationRecorder{}
	return NewSession(store, b, nav, zerolog.Nop()), store, nav
}

func citizen() *domain.User {
	return &domain.User{ID: "c-1", Email: "carla@example.com", Role: domain.RoleCitizen}
}

func staff() *domain.User {
	return &domain.User{ID: "s-1", Email: "sam@example.com", Role: domain.RoleStaff}
}

func admin() *domain.User {
	return &domain.User{ID: "a-1", Email: "ada@example.com", Role: domain.RoleAdmin}
}

func assertNavigated(t *testing.T, nav *NavigationRecorder, want string) {
	t.Helper()
	got, ok := nav.Target()
	if !ok {
		t.Fatalf("expected navigation to %q, got none", want)
	}
	if got != want {
		t.Fatalf("expected navigation to %q, got %q", want, got)
	}
}
