package backend

import (
	"context"
	"net/http"

	"github.com/cityfeedback/portal/internal/core/domain"
	"github.com/cityfeedback/portal/internal/core/ports"
)

func (c *Client) listFeedbacks(ctx context.Context, op, path string) ([]domain.Feedback, error) {
	var items []domain.Feedback
	if err := c.do(ctx, call{op: op, method: http.MethodGet, route: path, path: path}, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Feedback{}
	}
	return items, nil
}

func (c *Client) ListFeedbacks(ctx context.Context) ([]domain.Feedback, error) {
	return c.listFeedbacks(ctx, "list feedbacks", "/feedback")
}

func (c *Client) ListPublicFeedbacks(ctx context.Context) ([]domain.Feedback, error) {
	return c.listFeedbacks(ctx, "list public feedbacks", "/feedback/public")
}

func (c *Client) GetFeedback(ctx context.Context, id int64) (*domain.Feedback, error) {
	var f domain.Feedback
	if err := c.do(ctx, call{op: "get feedback", method: http.MethodGet, route: "/feedback/:id", path: feedbackPath(id, "")}, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

type createFeedbackRequest struct {
	UserID   string          `json:"userId"`
	Title    string          `json:"title"`
	Category domain.Category `json:"category"`
	Content  string          `json:"content"`
}

func (c *Client) CreateFeedback(ctx context.Context, in ports.CreateFeedbackInput) (*domain.Feedback, error) {
	var f domain.Feedback
	err := c.do(ctx, call{
		op: "create feedback", method: http.MethodPost, route: "/feedback", path: "/feedback",
		body: createFeedbackRequest(in),
	}, &f)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *Client) UpdateStatus(ctx context.Context, id int64, status domain.FeedbackStatus) (*domain.Feedback, error) {
	var f domain.Feedback
	err := c.do(ctx, call{
		op: "update status", method: http.MethodPut, route: "/feedback/:id/status", path: feedbackPath(id, "/status"),
		body: map[string]domain.FeedbackStatus{"status": status},
	}, &f)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *Client) Publish(ctx context.Context, id int64) (*domain.Feedback, error) {
	var f domain.Feedback
	if err := c.do(ctx, call{op: "publish", method: http.MethodPut, route: "/feedback/:id/publish", path: feedbackPath(id, "/publish")}, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *Client) Unpublish(ctx context.Context, id int64) (*domain.Feedback, error) {
	var f domain.Feedback
	if err := c.do(ctx, call{op: "unpublish", method: http.MethodPut, route: "/feedback/:id/unpublish", path: feedbackPath(id, "/unpublish")}, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *Client) DeleteFeedback(ctx context.Context, adminID string, id int64) error {
	return c.do(ctx, call{
		op: "delete feedback", method: http.MethodDelete, route: "/feedback/:id", path: feedbackPath(id, ""),
		adminID: adminID,
	}, nil)
}

// StatusStatistics returns the backend's per-status item counts.
func (c *Client) StatusStatistics(ctx context.Context) (map[domain.FeedbackStatus]int64, error) {
	stats := map[domain.FeedbackStatus]int64{}
	err := c.do(ctx, call{
		op: "status statistics", method: http.MethodGet,
		route: "/feedback/statistics/status", path: "/feedback/statistics/status",
	}, &stats)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (c *Client) ListComments(ctx context.Context, feedbackID int64) ([]domain.Comment, error) {
	var cs []domain.Comment
	if err := c.do(ctx, call{op: "list comments", method: http.MethodGet, route: "/feedback/:id/comments", path: feedbackPath(feedbackID, "/comments")}, &cs); err != nil {
		return nil, err
	}
	if cs == nil {
		cs = []domain.Comment{}
	}
	return cs, nil
}

type addCommentRequest struct {
	AuthorID string `json:"authorId"`
	Content  string `json:"content"`
}

func (c *Client) AddComment(ctx context.Context, feedbackID int64, authorID, content string) (*domain.Comment, error) {
	var cm domain.Comment
	err := c.do(ctx, call{
		op: "add comment", method: http.MethodPost, route: "/feedback/:id/comments", path: feedbackPath(feedbackID, "/comments"),
		body: addCommentRequest{AuthorID: authorID, Content: content},
	}, &cm)
	if err != nil {
		return nil, err
	}
	return &cm, nil
}
