package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cityfeedback/portal/internal/core/domain"
	"github.com/cityfeedback/portal/internal/core/ports"
	"github.com/cityfeedback/portal/internal/metrics"
)

// StaffStats summarizes the whole backlog.
type StaffStats struct {
	Open       int `json:"open"`
	InProgress int `json:"inProgress"`
	Done       int `json:"done"`
	Published  int `json:"published"`
}

// StaffItem is one backlog row with its comments and the actions offered.
type StaffItem struct {
	FeedbackRow
	Comments      []domain.Comment `json:"comments"`
	CommentsError bool             `json:"commentsError,omitempty"`
	Expanded      bool             `json:"expanded"`
	CanPublish    bool             `json:"canPublish"`
	CanUnpublish  bool             `json:"canUnpublish"`
	CanDelete     bool             `json:"canDelete"`
	NextStatus    string           `json:"nextStatus,omitempty"`
}

// StaffSnapshot is the renderable state of the staff backlog page.
type StaffSnapshot struct {
	Items    []StaffItem `json:"items"`
	Stats    StaffStats  `json:"stats"`
	Statuses []string    `json:"statuses"`
	Loading  bool        `json:"loading"`
	Error    string      `json:"error,omitempty"`
}

// StaffBackend is what the staff page reads from.
type StaffBackend interface {
	ports.FeedbackBackend
	ports.CommentBackend
}

// StaffView is the triage page: every item, its comments, and the status,
// publication and comment actions.
type StaffView struct {
	*scope
	session  *Session
	backend  StaffBackend
	workflow *Workflow
	schema   domain.StatusSchema
	log      zerolog.Logger

	items         []domain.Feedback
	comments      map[int64][]domain.Comment
	commentErrors map[int64]bool
	expanded      int64
	loading       bool
	errMsg        string
}

func NewStaffView(ctx context.Context, session *Session, backend StaffBackend, workflow *Workflow, schema domain.StatusSchema, log zerolog.Logger) *StaffView {
	return &StaffView{
		scope:         newScope(ctx),
		session:       session,
		backend:       backend,
		workflow:      workflow,
		schema:        schema,
		log:           log.With().Str("view", "staff").Logger(),
		comments:      map[int64][]domain.Comment{},
		commentErrors: map[int64]bool{},
	}
}

// Mount gates the page on triage rights before anything is fetched.
func (v *StaffView) Mount() bool {
	if !Guard(v.ctx, v.session, RouteStaffFeedbacks) {
		return false
	}
	v.Reload()
	return true
}

// Reload fetches the list and then every item's comments concurrently. A
// failed comment fetch yields an empty list for that item only.
func (v *StaffView) Reload() {
	v.apply(func() { v.loading = true })

	items, err := v.backend.ListFeedbacks(v.ctx)
	if err != nil {
		v.log.Error().Err(err).Msg("list feedbacks failed")
		v.apply(func() {
			v.loading = false
			v.items = nil
			v.comments = map[int64][]domain.Comment{}
			v.commentErrors = map[int64]bool{}
			v.errMsg = message(err, msgListFailed)
		})
		return
	}

	comments, failed := v.fetchComments(items)
	v.apply(func() {
		v.loading = false
		v.items = items
		v.comments = comments
		v.commentErrors = failed
		v.errMsg = ""
	})
}

func (v *StaffView) fetchComments(items []domain.Feedback) (map[int64][]domain.Comment, map[int64]bool) {
	lists := make([][]domain.Comment, len(items))
	failed := make([]bool, len(items))

	var g errgroup.Group
	for i, f := range items {
		i, f := i, f
		g.Go(func() error {
			cs, err := v.backend.ListComments(v.ctx, f.ID)
			if err != nil {
				metrics.CommentFetchErrorsTotal.WithLabelValues("staff").Inc()
				v.log.Warn().Err(err).Int64("feedback_id", f.ID).Msg("comments unavailable")
				lists[i] = []domain.Comment{}
				failed[i] = true
				return nil
			}
			if cs == nil {
				cs = []domain.Comment{}
			}
			lists[i] = cs
			return nil
		})
	}
	_ = g.Wait()

	byID := make(map[int64][]domain.Comment, len(items))
	errs := make(map[int64]bool)
	for i, f := range items {
		byID[f.ID] = lists[i]
		if failed[i] {
			errs[f.ID] = true
		}
	}
	return byID, errs
}

// refreshComments refetches one item's comments. A failure keeps what is
// shown and is only logged.
func (v *StaffView) refreshComments(id int64) {
	cs, err := v.backend.ListComments(v.ctx, id)
	if err != nil {
		metrics.CommentFetchErrorsTotal.WithLabelValues("staff").Inc()
		v.log.Warn().Err(err).Int64("feedback_id", id).Msg("comment refresh failed")
		return
	}
	if cs == nil {
		cs = []domain.Comment{}
	}
	v.apply(func() {
		v.comments[id] = cs
		delete(v.commentErrors, id)
	})
}

// ChangeStatus sets the status and appends comment when non-blank, then
// reloads. A comment failure leaves the new status in place and surfaces a
// partial-success message.
func (v *StaffView) ChangeStatus(id int64, status domain.FeedbackStatus, comment string) (*StatusChange, error) {
	if !v.schema.Contains(status) {
		err := fmt.Errorf("change status: %w: status must be one of: %v", domain.ErrValidation, v.schema.Names())
		v.fail(err)
		return nil, err
	}
	change, err := v.workflow.SetStatus(v.ctx, id, status, comment)
	if err != nil {
		v.fail(err)
		return nil, err
	}
	v.Reload()
	if change.CommentErr != nil {
		v.apply(func() { v.errMsg = msgCommentPartial })
	}
	return change, nil
}

// Advance moves the item to the next status of the schema.
func (v *StaffView) Advance(id int64, comment string) (*StatusChange, error) {
	var current domain.FeedbackStatus
	v.read(func() {
		for _, f := range v.items {
			if f.ID == id {
				current = f.Status
			}
		}
	})
	next, ok := v.schema.Next(current)
	if !ok {
		err := fmt.Errorf("advance: %w: %q has no next status", domain.ErrValidation, current)
		v.fail(err)
		return nil, err
	}
	return v.ChangeStatus(id, next, comment)
}

// Publish refuses closed items before any write.
func (v *StaffView) Publish(id int64) error {
	if _, err := v.session.Actor(v.ctx, domain.CapTriageFeedback); err != nil {
		err = fmt.Errorf("publish: %w", err)
		v.fail(err)
		return err
	}
	f, err := v.item(id)
	if err != nil {
		err = fmt.Errorf("publish: %w", err)
		v.fail(err)
		return err
	}
	if f.Status == domain.StatusClosed {
		err := fmt.Errorf("publish: %w: closed feedback cannot be published", domain.ErrValidation)
		v.fail(err)
		return err
	}
	if _, err := v.workflow.Publish(v.ctx, id); err != nil {
		v.fail(err)
		return err
	}
	v.Reload()
	return nil
}

func (v *StaffView) Unpublish(id int64) error {
	if _, err := v.workflow.Unpublish(v.ctx, id); err != nil {
		v.fail(err)
		return err
	}
	v.Reload()
	return nil
}

// Delete is offered to administrators only.
func (v *StaffView) Delete(id int64) error {
	if err := v.workflow.Delete(v.ctx, id); err != nil {
		v.fail(err)
		return err
	}
	v.apply(func() {
		if v.expanded == id {
			v.expanded = 0
		}
	})
	v.Reload()
	return nil
}

// AddComment appends a comment and refreshes that item's thread.
func (v *StaffView) AddComment(id int64, content string) (*domain.Comment, error) {
	c, err := v.workflow.AddComment(v.ctx, id, content)
	if err != nil {
		v.fail(err)
		return nil, err
	}
	v.apply(func() { v.errMsg = "" })
	v.refreshComments(id)
	return c, nil
}

// ToggleExpand opens the comment thread of id, closing any other, or closes
// it if already open. Opening fetches the thread only when it is not loaded.
func (v *StaffView) ToggleExpand(id int64) {
	var fetch bool
	v.apply(func() {
		if v.expanded == id {
			v.expanded = 0
			return
		}
		v.expanded = id
		_, loaded := v.comments[id]
		fetch = !loaded || v.commentErrors[id]
	})
	if fetch {
		v.refreshComments(id)
	}
}

// item returns id from the loaded list, falling back to the backend when the
// view has not listed it.
func (v *StaffView) item(id int64) (domain.Feedback, error) {
	var (
		f     domain.Feedback
		found bool
	)
	v.read(func() {
		for _, it := range v.items {
			if it.ID == id {
				f, found = it, true
				return
			}
		}
	})
	if found {
		return f, nil
	}
	fb, err := v.backend.GetFeedback(v.ctx, id)
	if err != nil {
		return domain.Feedback{}, err
	}
	return *fb, nil
}

func (v *StaffView) fail(err error) {
	v.log.Debug().Err(err).Msg("staff action failed")
	v.apply(func() { v.errMsg = message(err, msgActionFailed) })
}

func (v *StaffView) Snapshot() StaffSnapshot {
	canDelete := v.session.Authorize(v.ctx, domain.CapDeleteFeedback).Allowed

	var snap StaffSnapshot
	v.read(func() {
		snap.Loading = v.loading
		snap.Error = v.errMsg
		snap.Statuses = v.schema.Names()
		snap.Items = make([]StaffItem, 0, len(v.items))
		for _, f := range v.items {
			item := StaffItem{
				FeedbackRow:   newRow(f),
				Comments:      v.comments[f.ID],
				CommentsError: v.commentErrors[f.ID],
				Expanded:      v.expanded == f.ID,
				CanPublish:    domain.CanOfferPublish(f),
				CanUnpublish:  domain.CanOfferUnpublish(f),
				CanDelete:     canDelete,
			}
			if item.Comments == nil {
				item.Comments = []domain.Comment{}
			}
			if next, ok := v.schema.Next(f.Status); ok {
				item.NextStatus = string(next)
			}
			snap.Items = append(snap.Items, item)
		}
		snap.Stats = StaffStats{
			Open:       domain.CountStatus(v.items, domain.StatusOpen),
			InProgress: domain.CountStatus(v.items, v.schema.InProgress()),
			Done:       domain.CountStatus(v.items, domain.StatusDone),
			Published:  domain.CountPublished(v.items),
		}
	})
	return snap
}
