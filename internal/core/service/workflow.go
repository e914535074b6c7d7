package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cityfeedback/portal/internal/core/domain"
	"github.com/cityfeedback/portal/internal/core/ports"
	"github.com/cityfeedback/portal/internal/metrics"
)

// StatusChange is the outcome of SetStatus. The status write and the optional
// comment are independent: CommentErr may be set while Feedback already
// carries the new status.
type StatusChange struct {
	Feedback   *domain.Feedback
	Comment    *domain.Comment
	CommentErr error
}

// Workflow issues feedback lifecycle mutations on behalf of the session user.
// It never validates transitions; the backend decides what is legal.
type Workflow struct {
	session  *Session
	feedback ports.FeedbackBackend
	comments ports.CommentBackend
	log      zerolog.Logger
}

func NewWorkflow(session *Session, feedback ports.FeedbackBackend, comments ports.CommentBackend, log zerolog.Logger) *Workflow {
	return &Workflow{session: session, feedback: feedback, comments: comments, log: log}
}

// SetStatus writes status unconditionally. A non-blank comment is appended by
// a second request once the status write succeeded; its failure is reported in
// StatusChange.CommentErr and never rolls the status back.
func (w *Workflow) SetStatus(ctx context.Context, id int64, status domain.FeedbackStatus, comment string) (*StatusChange, error) {
	actor, err := w.session.Actor(ctx, domain.CapTriageFeedback)
	if err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}

	fb, err := w.feedback.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}
	metrics.StatusChangesTotal.WithLabelValues(string(status)).Inc()
	w.log.Info().Int64("feedback_id", id).Str("status", string(status)).Msg("status changed")

	change := &StatusChange{Feedback: fb}
	text := strings.TrimSpace(comment)
	if text == "" {
		return change, nil
	}

	if d := domain.Authorize(actor, domain.CapAddComment); !d.Allowed {
		change.CommentErr = fmt.Errorf("add comment: %w", domain.ErrForbidden)
		return change, nil
	}
	c, err := w.comments.AddComment(ctx, id, actor.ID.String(), text)
	if err != nil {
		w.log.Warn().Err(err).Int64("feedback_id", id).Msg("status applied, comment failed")
		change.CommentErr = fmt.Errorf("add comment: %w", err)
		return change, nil
	}
	change.Comment = c
	return change, nil
}

// Publish makes the item publicly visible. Repeating it is harmless.
func (w *Workflow) Publish(ctx context.Context, id int64) (*domain.Feedback, error) {
	if _, err := w.session.Actor(ctx, domain.CapTriageFeedback); err != nil {
		return nil, fmt.Errorf("publish: %w", err)
	}
	fb, err := w.feedback.Publish(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("publish: %w", err)
	}
	return fb, nil
}

// Unpublish hides the item from the public listing. Repeating it is harmless.
func (w *Workflow) Unpublish(ctx context.Context, id int64) (*domain.Feedback, error) {
	if _, err := w.session.Actor(ctx, domain.CapTriageFeedback); err != nil {
		return nil, fmt.Errorf("unpublish: %w", err)
	}
	fb, err := w.feedback.Unpublish(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("unpublish: %w", err)
	}
	return fb, nil
}

// AddComment appends a comment authored by the session user.
func (w *Workflow) AddComment(ctx context.Context, id int64, content string) (*domain.Comment, error) {
	text := strings.TrimSpace(content)
	if text == "" {
		return nil, fmt.Errorf("add comment: %w: comment must not be empty", domain.ErrValidation)
	}
	actor, err := w.session.Actor(ctx, domain.CapAddComment)
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	c, err := w.comments.AddComment(ctx, id, actor.ID.String(), text)
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return c, nil
}

// Delete removes the item for good.
func (w *Workflow) Delete(ctx context.Context, id int64) error {
	actor, err := w.session.Actor(ctx, domain.CapDeleteFeedback)
	if err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}
	if err := w.feedback.DeleteFeedback(ctx, actor.ID.String(), id); err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}
	w.log.Info().Int64("feedback_id", id).Str("admin_id", actor.ID.String()).Msg("feedback deleted")
	return nil
}
