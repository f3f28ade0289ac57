package journal

import (
	"context"
	"time"
)

// Record captures a single admission decision.
type Record struct {
	// ID is a UUID v4 assigned by the recorder when empty.
	ID string `json:"id"`

	// Resource is the name the admission check was keyed on.
	Resource string `json:"resource"`

	// Decision is the outcome, "admitted" or "rejected".
	Decision string `json:"decision"`

	// Occupancy is the number of live window entries after the check.
	Occupancy int `json:"occupancy"`

	// Rate is the configured admissions per window (0 = unlimited).
	Rate int `json:"rate"`

	// Period is the configured window length.
	Period time.Duration `json:"period"`

	// RetryAfter is the suggested wait when rejected.
	RetryAfter time.Duration `json:"retry_after"`

	// Timestamp is when the decision was made.
	Timestamp time.Time `json:"timestamp"`
}

// Query defines filter parameters for reading journal records.
type Query struct {
	// Resource filters by resource name. Empty matches all.
	Resource string `json:"resource,omitempty"`

	// Decision filters by decision outcome. Empty matches all.
	Decision string `json:"decision,omitempty"`

	// StartTime is the inclusive lower bound on Timestamp.
	StartTime *time.Time `json:"start_time,omitempty"`

	// EndTime is the inclusive upper bound on Timestamp.
	EndTime *time.Time `json:"end_time,omitempty"`

	// Limit is the maximum number of records to return. 0 means no limit.
	Limit int `json:"limit,omitempty"`

	// Offset skips N records after sorting.
	Offset int `json:"offset,omitempty"`

	// SortOrder orders results by timestamp: "asc" (default) or "desc".
	SortOrder string `json:"sort_order,omitempty"`
}

// Storage defines the interface for journal storage backends.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Store persists a journal record.
	Store(ctx context.Context, record *Record) error

	// Query retrieves records matching the query filters, sorted by
	// timestamp. Returns an empty slice when nothing matches.
	Query(ctx context.Context, query *Query) ([]*Record, error)

	// Count returns the number of records matching the query filters.
	Count(ctx context.Context, query *Query) (int64, error)

	// Delete removes records matching the query filters and returns how
	// many were removed. Used by retention pruning.
	Delete(ctx context.Context, query *Query) (int64, error)

	// Close releases any resources held by the backend.
	Close() error
}
