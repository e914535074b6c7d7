package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/cityfeedback/portal/internal/core/domain"
)

// User-facing messages shown in a view's error slot.
const (
	msgListFailed       = "Feedbacks could not be loaded."
	msgUsersFailed      = "Users could not be loaded."
	msgActionFailed     = "The action could not be completed."
	msgCommentEmpty     = "Please enter a comment."
	msgCommentPartial   = "Status was changed, but the comment could not be added."
	msgNotLoggedIn      = "You are not logged in."
	msgForbidden        = "You are not allowed to do this."
	msgUnreachable      = "The server could not be reached."
	msgLoginRejected    = "Email or password is wrong."
	msgSignupFailed     = "Registration failed."
	msgCreateFailed     = "Feedback could not be submitted."
	msgDemoDataFailed   = "Demo data could not be deleted."
	msgCategoryNotKnown = "Unknown category."
)

// scope ties a view's in-flight requests to the view's lifetime. After Close,
// completions are discarded instead of written into view state.
type scope struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu sync.Mutex
}

func newScope(parent context.Context) *scope {
	ctx, cancel := context.WithCancel(parent)
	return &scope{ctx: ctx, cancel: cancel}
}

// Close cancels outstanding requests. Safe to call more than once.
func (s *scope) Close() {
	s.cancel()
}

// Closed reports whether the view has been torn down.
func (s *scope) Closed() bool {
	return s.ctx.Err() != nil
}

// apply runs fn under the view lock unless the view is closed. It reports
// whether fn ran.
func (s *scope) apply(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return false
	}
	fn()
	return true
}

// read runs fn under the view lock regardless of scope state.
func (s *scope) read(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// userMessager is implemented by backend errors that carry a server-provided
// message suitable for display.
type userMessager interface {
	UserMessage() string
}

// message maps err to the text shown in a view, preferring the backend's own
// message over fallback.
func message(err error, fallback string) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrNoSession):
		return msgNotLoggedIn
	case errors.Is(err, domain.ErrForbidden):
		return msgForbidden
	case errors.Is(err, domain.ErrBackendUnreachable):
		return msgUnreachable
	case errors.Is(err, domain.ErrValidation):
		var um userMessager
		if errors.As(err, &um) && um.UserMessage() != "" {
			return um.UserMessage()
		}
		return validationText(err)
	}
	var um userMessager
	if errors.As(err, &um) && um.UserMessage() != "" {
		return um.UserMessage()
	}
	return fallback
}

// validationText strips wrapping prefixes so only the field messages remain.
func validationText(err error) string {
	s := err.Error()
	marker := domain.ErrValidation.Error() + ": "
	if i := strings.Index(s, marker); i >= 0 {
		return s[i+len(marker):]
	}
	return s
}
