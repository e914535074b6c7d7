package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cityfeedback/portal/internal/core/domain"
	"github.com/cityfeedback/portal/internal/core/ports"
	"github.com/cityfeedback/portal/internal/metrics"
)

// CreateFeedbackView submits a new item owned by the session user.
type CreateFeedbackView struct {
	*scope
	session   *Session
	feedback  ports.FeedbackBackend
	validator *FormValidator
	log       zerolog.Logger

	submitting bool
	errMsg     string
}

func NewCreateFeedbackView(ctx context.Context, session *Session, feedback ports.FeedbackBackend, validator *FormValidator, log zerolog.Logger) *CreateFeedbackView {
	return &CreateFeedbackView{
		scope:     newScope(ctx),
		session:   session,
		feedback:  feedback,
		validator: validator,
		log:       log.With().Str("view", "create").Logger(),
	}
}

func (v *CreateFeedbackView) Mount() bool {
	return Guard(v.ctx, v.session, RouteCreate)
}

// Submit trims and validates the form, creates the item and navigates back to
// the dashboard. Validation failures never reach the backend.
func (v *CreateFeedbackView) Submit(form CreateFeedbackForm) (*domain.Feedback, error) {
	form.trim()

	actor, err := v.session.Actor(v.ctx, domain.CapCreateFeedback)
	if err != nil {
		v.fail(err)
		return nil, fmt.Errorf("create feedback: %w", err)
	}
	if err := v.validator.Validate(form); err != nil {
		v.fail(err)
		return nil, fmt.Errorf("create feedback: %w", err)
	}

	v.apply(func() { v.submitting = true })
	fb, err := v.feedback.CreateFeedback(v.ctx, ports.CreateFeedbackInput{
		UserID:   actor.ID.String(),
		Title:    form.Title,
		Category: domain.Category(form.Category),
		Content:  form.Content,
	})
	v.apply(func() { v.submitting = false })
	if err != nil {
		v.log.Error().Err(err).Msg("create feedback failed")
		v.fail(err)
		return nil, fmt.Errorf("create feedback: %w", err)
	}

	metrics.FeedbacksCreatedTotal.WithLabelValues(form.Category).Inc()
	v.log.Info().Int64("feedback_id", fb.ID).Str("category", form.Category).Msg("feedback created")
	if !v.Closed() {
		v.session.Navigator().Navigate(RouteDashboard)
	}
	return fb, nil
}

func (v *CreateFeedbackView) fail(err error) {
	v.apply(func() { v.errMsg = message(err, msgCreateFailed) })
}

// Message returns the error message of the last failed submission.
func (v *CreateFeedbackView) Message() string {
	var msg string
	v.read(func() { msg = v.errMsg })
	return msg
}

// Submitting reports whether a submission is in flight.
func (v *CreateFeedbackView) Submitting() bool {
	var b bool
	v.read(func() { b = v.submitting })
	return b
}
