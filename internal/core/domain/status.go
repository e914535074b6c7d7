package domain

import (
	"fmt"
	"strings"
)

// StatusSchema is one of the status vocabularies the backend has been seen to
// speak. The client does not pick one; configuration does.
type StatusSchema struct {
	Name  string
	order []FeedbackStatus
}

var (
	// SchemaFourState is OPEN → INPROGRESS → DONE → CLOSED.
	SchemaFourState = StatusSchema{
		Name:  "four-state",
		order: []FeedbackStatus{StatusOpen, StatusInProgress, StatusDone, StatusClosed},
	}
	// SchemaThreeState is OPEN → IN_PROGRESS → CLOSED.
	SchemaThreeState = StatusSchema{
		Name:  "three-state",
		order: []FeedbackStatus{StatusOpen, StatusInProgressAlt, StatusClosed},
	}
)

// ParseStatusSchema resolves a schema by name. An empty name selects the
// four-state schema.
func ParseStatusSchema(name string) (StatusSchema, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SchemaFourState.Name:
		return SchemaFourState, nil
	case SchemaThreeState.Name:
		return SchemaThreeState, nil
	}
	return StatusSchema{}, fmt.Errorf("unknown status schema %q (valid: %s, %s)",
		name, SchemaFourState.Name, SchemaThreeState.Name)
}

// Order returns the states in display order. The returned slice is a copy.
func (s StatusSchema) Order() []FeedbackStatus {
	out := make([]FeedbackStatus, len(s.order))
	copy(out, s.order)
	return out
}

// Contains reports whether status belongs to the schema.
func (s StatusSchema) Contains(status FeedbackStatus) bool {
	return s.index(status) >= 0
}

// InProgress returns the schema's in-progress spelling.
func (s StatusSchema) InProgress() FeedbackStatus {
	if s.Contains(StatusInProgressAlt) {
		return StatusInProgressAlt
	}
	return StatusInProgress
}

// Next returns the state following current in the linear ordering. ok is
// false for the last state and for states outside the schema. The ordering is
// informational only: no transition is ever rejected client-side.
func (s StatusSchema) Next(current FeedbackStatus) (next FeedbackStatus, ok bool) {
	i := s.index(current)
	if i < 0 || i == len(s.order)-1 {
		return "", false
	}
	return s.order[i+1], true
}

// Terminal reports whether status is the last state of the schema.
func (s StatusSchema) Terminal(status FeedbackStatus) bool {
	i := s.index(status)
	return i >= 0 && i == len(s.order)-1
}

// Names returns the schema states as strings, e.g. for "oneof" validation.
func (s StatusSchema) Names() []string {
	out := make([]string, len(s.order))
	for i, st := range s.order {
		out[i] = string(st)
	}
	return out
}

func (s StatusSchema) index(status FeedbackStatus) int {
	for i, st := range s.order {
		if st == status {
			return i
		}
	}
	return -1
}

// StatusGroup is one display bucket of the public listing.
type StatusGroup struct {
	Status FeedbackStatus
	Items  []Feedback
}

// GroupByStatus partitions items into the schema's buckets, in schema order.
// Every bucket is present, possibly empty. Items whose status is outside the
// schema land in no bucket. Relative order inside a bucket is preserved.
func (s StatusSchema) GroupByStatus(items []Feedback) []StatusGroup {
	groups := make([]StatusGroup, len(s.order))
	for i, st := range s.order {
		groups[i] = StatusGroup{Status: st, Items: []Feedback{}}
	}
	for _, f := range items {
		if i := s.index(f.Status); i >= 0 {
			groups[i].Items = append(groups[i].Items, f)
		}
	}
	return groups
}
