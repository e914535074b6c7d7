package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/cityfeedback/portal/internal/core/domain"
	"github.com/cityfeedback/portal/internal/core/ports"
	"github.com/cityfeedback/portal/internal/metrics"
)

// PublicItem is a published item with its comment thread.
type PublicItem struct {
	FeedbackRow
	Comments []domain.Comment `json:"comments"`
}

// PublicGroup is one status bucket of the public listing.
type PublicGroup struct {
	Status  domain.FeedbackStatus `json:"status"`
	Display domain.Display        `json:"display"`
	Items   []PublicItem          `json:"items"`
}

// CategoryOption is one entry of the category selector.
type CategoryOption struct {
	Code     domain.Category `json:"code"`
	Label    string          `json:"label"`
	Selected bool            `json:"selected"`
}

// PublicSnapshot is the renderable state of the anonymous listing.
type PublicSnapshot struct {
	Category   domain.Category  `json:"category"`
	Categories []CategoryOption `json:"categories"`
	Groups     []PublicGroup    `json:"groups"`
	Total      int              `json:"total"`
	Loading    bool             `json:"loading"`
	Error      string           `json:"error,omitempty"`
}

// PublicView lists published feedback grouped by status. It needs no session.
// Comments are fetched once per item and memoized for the life of the view.
type PublicView struct {
	*scope
	feedback ports.FeedbackBackend
	comments ports.CommentBackend
	schema   domain.StatusSchema
	log      zerolog.Logger

	items    []domain.Feedback
	category domain.Category
	memo     map[int64][]domain.Comment
	loading  bool
	errMsg   string

	flight singleflight.Group
}

func NewPublicView(ctx context.Context, feedback ports.FeedbackBackend, comments ports.CommentBackend, schema domain.StatusSchema, log zerolog.Logger) *PublicView {
	return &PublicView{
		scope:    newScope(ctx),
		feedback: feedback,
		comments: comments,
		schema:   schema,
		log:      log.With().Str("view", "public").Logger(),
		category: domain.CategoryAll,
		memo:     map[int64][]domain.Comment{},
	}
}

func (v *PublicView) Mount() {
	v.Reload()
}

// Reload refetches the published list. Memoized comments survive.
func (v *PublicView) Reload() {
	v.apply(func() { v.loading = true })

	items, err := v.feedback.ListPublicFeedbacks(v.ctx)
	if err != nil {
		v.log.Error().Err(err).Msg("list public feedbacks failed")
	}
	v.apply(func() {
		v.loading = false
		if err != nil {
			v.items = nil
			v.errMsg = message(err, msgListFailed)
			return
		}
		v.items = items
		v.errMsg = ""
	})
}

// SetCategory changes the filter. CategoryAll shows everything.
func (v *PublicView) SetCategory(c domain.Category) error {
	if c == "" {
		c = domain.CategoryAll
	}
	if c != domain.CategoryAll && !c.Valid() {
		return fmt.Errorf("%w: %s %q", domain.ErrValidation, msgCategoryNotKnown, c)
	}
	v.apply(func() { v.category = c })
	return nil
}

// Comments returns the thread of id, fetching it on first use. Concurrent
// callers for the same id share one request. A failure memoizes an empty
// thread.
func (v *PublicView) Comments(id int64) []domain.Comment {
	var (
		cs  []domain.Comment
		hit bool
	)
	v.read(func() { cs, hit = v.memo[id] })
	if hit {
		return cs
	}

	res, _, _ := v.flight.Do(strconv.FormatInt(id, 10), func() (any, error) {
		list, err := v.comments.ListComments(v.ctx, id)
		if err != nil {
			metrics.CommentFetchErrorsTotal.WithLabelValues("public").Inc()
			v.log.Warn().Err(err).Int64("feedback_id", id).Msg("comments unavailable")
			list = []domain.Comment{}
		}
		if list == nil {
			list = []domain.Comment{}
		}
		v.apply(func() { v.memo[id] = list })
		return list, nil
	})
	return res.([]domain.Comment)
}

// Render filters, groups and attaches comments to the visible items. Threads
// not yet memoized are fetched concurrently first.
func (v *PublicView) Render() PublicSnapshot {
	var (
		items    []domain.Feedback
		category domain.Category
		snap     PublicSnapshot
	)
	v.read(func() {
		items = v.items
		category = v.category
		snap.Loading = v.loading
		snap.Error = v.errMsg
	})

	visible := domain.FilterByCategory(items, category)

	var g errgroup.Group
	for _, f := range visible {
		f := f
		g.Go(func() error {
			v.Comments(f.ID)
			return nil
		})
	}
	_ = g.Wait()

	snap.Category = category
	snap.Total = len(visible)
	snap.Categories = categoryOptions(category)
	for _, grp := range v.schema.GroupByStatus(visible) {
		pg := PublicGroup{
			Status:  grp.Status,
			Display: domain.StatusDisplay(grp.Status),
			Items:   make([]PublicItem, 0, len(grp.Items)),
		}
		for _, f := range grp.Items {
			pg.Items = append(pg.Items, PublicItem{FeedbackRow: newRow(f), Comments: v.Comments(f.ID)})
		}
		snap.Groups = append(snap.Groups, pg)
	}
	return snap
}

func categoryOptions(selected domain.Category) []CategoryOption {
	codes := append([]domain.Category{domain.CategoryAll}, domain.Categories...)
	out := make([]CategoryOption, len(codes))
	for i, c := range codes {
		out[i] = CategoryOption{Code: c, Label: domain.CategoryLabel(c), Selected: c == selected}
	}
	return out
}
