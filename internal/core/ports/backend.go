package ports

import (
	"context"

	"github.com/cityfeedback/portal/internal/core/domain"
)

// SignupInput carries a self-registration request.
type SignupInput struct {
	Email    string
	Password string
	Role     domain.Role
}

// CreateUserInput carries an admin-created account.
type CreateUserInput struct {
	Email    string
	Password string
	Role     domain.Role
}

// CreateFeedbackInput carries a new feedback item owned by UserID.
type CreateFeedbackInput struct {
	UserID   string
	Title    string
	Category domain.Category
	Content  string
}

// DemoDataResult is returned after demo data has been purged.
type DemoDataResult struct {
	DeletedUsers int    `json:"deletedUsers"`
	Message      string `json:"message"`
}

// UserBackend covers the /user endpoints. Calls taking adminID attach it as
// the advisory admin identity header.
type UserBackend interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	CreateUser(ctx context.Context, adminID string, in CreateUserInput) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, password string) (*domain.User, error)
	ChangeRole(ctx context.Context, adminID, userID string, role domain.Role) (*domain.User, error)
	DeleteUser(ctx context.Context, adminID, userID string) error
	DeleteDemoData(ctx context.Context, adminID string) (*DemoDataResult, error)
}

// FeedbackBackend covers the /feedback endpoints.
type FeedbackBackend interface {
	ListFeedbacks(ctx context.Context) ([]domain.Feedback, error)
	ListPublicFeedbacks(ctx context.Context) ([]domain.Feedback, error)
	GetFeedback(ctx context.Context, id int64) (*domain.Feedback, error)
	CreateFeedback(ctx context.Context, in CreateFeedbackInput) (*domain.Feedback, error)
	UpdateStatus(ctx context.Context, id int64, status domain.FeedbackStatus) (*domain.Feedback, error)
	Publish(ctx context.Context, id int64) (*domain.Feedback, error)
	Unpublish(ctx context.Context, id int64) (*domain.Feedback, error)
	DeleteFeedback(ctx context.Context, adminID string, id int64) error
	StatusStatistics(ctx context.Context) (map[domain.FeedbackStatus]int64, error)
}

// CommentBackend covers the /feedback/:id/comments endpoints.
type CommentBackend interface {
	ListComments(ctx context.Context, feedbackID int64) ([]domain.Comment, error)
	AddComment(ctx context.Context, feedbackID int64, authorID, content string) (*domain.Comment, error)
}

// Backend is the whole REST surface the portal consumes.
type Backend interface {
	UserBackend
	FeedbackBackend
	CommentBackend
}
