// Package datastore provides database operations for the weather inference core.
package datastore

import "time"

// InferenceQuery defines filter parameters for historical inference queries
// against Interface.ListInferences, built with the chained With* methods
// below rather than populating the struct directly.
type InferenceQuery struct {
	NodeID string

	Since time.Time
	Until time.Time

	Limit  int
	Offset int
}

// NewInferenceQuery creates a default query covering the last 24 hours.
func NewInferenceQuery(nodeID string) *InferenceQuery {
	now := time.Now()
	return &InferenceQuery{
		NodeID: nodeID,
		Since:  now.Add(-24 * time.Hour),
		Until:  now,
		Limit:  100,
		Offset: 0,
	}
}

// WithRange sets the inclusive/exclusive [since, until) time window.
func (q *InferenceQuery) WithRange(since, until time.Time) *InferenceQuery {
	q.Since = since
	q.Until = until
	return q
}

// WithLimit sets the result limit.
func (q *InferenceQuery) WithLimit(limit int) *InferenceQuery {
	q.Limit = limit
	return q
}

// WithOffset sets the pagination offset.
func (q *InferenceQuery) WithOffset(offset int) *InferenceQuery {
	q.Offset = offset
	return q
}

// Timezone returns the configured timezone for timestamp conversions.
func Timezone() *time.Location {
	return time.Local
}
