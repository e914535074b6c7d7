package domain

import (
	"errors"
	"time"
)

// Category is the municipal topic a feedback item is filed under.
type Category string

const (
	CategoryTraffic        Category = "VERKEHR"
	CategoryEnvironment    Category = "UMWELT"
	CategoryLighting       Category = "BELEUCHTUNG"
	CategoryVandalism      Category = "VANDALISMUS"
	CategoryAdministration Category = "VERWALTUNG"
)

// CategoryAll is the selector value that disables category filtering.
const CategoryAll Category = "ALL"

// Categories lists every category in display order.
var Categories = []Category{
	CategoryTraffic,
	CategoryEnvironment,
	CategoryLighting,
	CategoryVandalism,
	CategoryAdministration,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// FeedbackStatus represents the lifecycle state of a feedback item.
type FeedbackStatus string

const (
	StatusOpen       FeedbackStatus = "OPEN"
	StatusInProgress FeedbackStatus = "INPROGRESS"
	StatusDone       FeedbackStatus = "DONE"
	StatusClosed     FeedbackStatus = "CLOSED"

	// StatusInProgressAlt is the in-progress spelling of the three-state schema.
	StatusInProgressAlt FeedbackStatus = "IN_PROGRESS"
)

var (
	ErrForbidden          = errors.New("access forbidden")
	ErrNoSession          = errors.New("not logged in")
	ErrNotFound           = errors.New("not found")
	ErrRejected           = errors.New("request rejected by backend")
	ErrBackendUnreachable = errors.New("backend unreachable")
	ErrValidation         = errors.New("validation failed")
)

// Feedback is a citizen-submitted item as returned by the backend.
type Feedback struct {
	ID           int64          `json:"id"`
	Title        string         `json:"title"`
	Category     Category       `json:"category"`
	Content      string         `json:"content"`
	FeedbackDate string         `json:"feedbackDate"`
	Status       FeedbackStatus `json:"status"`
	Published    bool           `json:"published"`
	UserID       ValueString    `json:"userId"`
}

// Date parses FeedbackDate. The backend sends a plain date, older builds a
// full timestamp. The bool is false when neither layout matches.
func (f Feedback) Date() (time.Time, bool) {
	for _, layout := range []string{time.DateOnly, time.RFC3339Nano, "2006-01-02T15:04:05"} {
		if parsed, err := time.Parse(layout, f.FeedbackDate); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// CanOfferPublish reports whether the publish control is offered for f.
// A closed item is never offered for publication.
func CanOfferPublish(f Feedback) bool {
	return f.Status != StatusClosed && !f.Published
}

// CanOfferUnpublish reports whether the unpublish control is offered for f.
func CanOfferUnpublish(f Feedback) bool {
	return f.Published
}

// OwnedBy returns the items whose owner is userID, preserving order.
func OwnedBy(items []Feedback, userID string) []Feedback {
	out := make([]Feedback, 0, len(items))
	if userID == "" {
		return out
	}
	for _, f := range items {
		if string(f.UserID) == userID {
			out = append(out, f)
		}
	}
	return out
}

// FilterByCategory returns the items in category c. CategoryAll (or an empty
// selector) returns items unchanged.
func FilterByCategory(items []Feedback, c Category) []Feedback {
	if c == CategoryAll || c == "" {
		return items
	}
	out := make([]Feedback, 0, len(items))
	for _, f := range items {
		if f.Category == c {
			out = append(out, f)
		}
	}
	return out
}

// CountStatus counts the items currently in status s.
func CountStatus(items []Feedback, s FeedbackStatus) int {
	n := 0
	for _, f := range items {
		if f.Status == s {
			n++
		}
	}
	return n
}

// CountPublished counts the published items.
func CountPublished(items []Feedback) int {
	n := 0
	for _, f := range items {
		if f.Published {
			n++
		}
	}
	return n
}
