package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/cityfeedback/portal/internal/core/domain"
	"github.com/cityfeedback/portal/internal/core/ports"
)

// DashboardStats summarizes the caller's own items.
type DashboardStats struct {
	Total      int `json:"total"`
	Open       int `json:"open"`
	InProgress int `json:"inProgress"`
	Closed     int `json:"closed"`
}

// FeedbackRow is a feedback item decorated for display.
type FeedbackRow struct {
	domain.Feedback
	CategoryLabel string         `json:"categoryLabel"`
	StatusDisplay domain.Display `json:"statusDisplay"`
}

func newRow(f domain.Feedback) FeedbackRow {
	return FeedbackRow{
		Feedback:      f,
		CategoryLabel: domain.CategoryLabel(f.Category),
		StatusDisplay: domain.StatusDisplay(f.Status),
	}
}

// DashboardSnapshot is the renderable state of the citizen dashboard.
type DashboardSnapshot struct {
	Items   []FeedbackRow  `json:"items"`
	Stats   DashboardStats `json:"stats"`
	Loading bool           `json:"loading"`
	Error   string         `json:"error,omitempty"`
}

// DashboardView lists the session user's own feedback.
type DashboardView struct {
	*scope
	session  *Session
	feedback ports.FeedbackBackend
	schema   domain.StatusSchema
	log      zerolog.Logger

	items   []domain.Feedback
	loading bool
	errMsg  string
}

func NewDashboardView(ctx context.Context, session *Session, feedback ports.FeedbackBackend, schema domain.StatusSchema, log zerolog.Logger) *DashboardView {
	return &DashboardView{
		scope:    newScope(ctx),
		session:  session,
		feedback: feedback,
		schema:   schema,
		log:      log.With().Str("view", "dashboard").Logger(),
	}
}

// Mount gates the page and loads it. It returns false when the page may not
// render; navigation has been issued in that case.
func (v *DashboardView) Mount() bool {
	if !Guard(v.ctx, v.session, RouteDashboard) {
		return false
	}
	v.Reload()
	return true
}

// Reload refetches the full list and keeps the caller's items. On failure the
// list is emptied and an error message set.
func (v *DashboardView) Reload() {
	user := v.session.Current(v.ctx)
	if user == nil {
		return
	}
	v.apply(func() { v.loading = true })

	all, err := v.feedback.ListFeedbacks(v.ctx)
	if err != nil {
		v.log.Error().Err(err).Msg("list feedbacks failed")
	}
	v.apply(func() {
		v.loading = false
		if err != nil {
			v.items = nil
			v.errMsg = message(err, msgListFailed)
			return
		}
		v.items = domain.OwnedBy(all, user.ID.String())
		v.errMsg = ""
	})
}

func (v *DashboardView) Snapshot() DashboardSnapshot {
	var snap DashboardSnapshot
	v.read(func() {
		snap.Loading = v.loading
		snap.Error = v.errMsg
		snap.Items = make([]FeedbackRow, 0, len(v.items))
		for _, f := range v.items {
			snap.Items = append(snap.Items, newRow(f))
		}
		snap.Stats = DashboardStats{
			Total:      len(v.items),
			Open:       domain.CountStatus(v.items, domain.StatusOpen),
			InProgress: domain.CountStatus(v.items, v.schema.InProgress()),
			Closed:     domain.CountStatus(v.items, domain.StatusClosed),
		}
	})
	return snap
}
