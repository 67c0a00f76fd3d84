// Package runlog persists the history of planning requests. Every request,
// successful or not, becomes one RunRecord; stores support time and status
// filtered queries.
package runlog

import (
	"context"
	"time"

	"github.com/kilianp07/blendplan/core/model"
)

// StatusOK is the status of a run that produced a plan. Failed runs carry
// the lp.Reason of their error.
const StatusOK = "ok"

// RunRecord captures one planning request and its outcome.
type RunRecord struct {
	Timestamp  time.Time   `json:"timestamp"`
	RunID      string      `json:"run_id"`
	Status     string      `json:"status"`
	Error      string      `json:"error,omitempty"`
	Backend    string      `json:"backend"`
	Fallback   bool        `json:"fallback"`
	N          int         `json:"n"`
	M          int         `json:"m"`
	L          int         `json:"l"`
	Profit     float64     `json:"profit"`
	Iterations int         `json:"iterations"`
	DurationMS float64     `json:"duration_ms"`
	Plan       *model.Plan `json:"plan,omitempty"`
}

// RunQuery defines filters for retrieving records. Zero values match all.
type RunQuery struct {
	Start  time.Time
	End    time.Time
	Status string
	RunID  string
	// Limit caps the number of returned records, keeping the most recent.
	Limit int
}

// Matches reports whether r passes every filter of q except Limit.
func (q RunQuery) Matches(r RunRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Status != "" && r.Status != q.Status {
		return false
	}
	if q.RunID != "" && r.RunID != q.RunID {
		return false
	}
	return true
}

func (q RunQuery) limit(recs []RunRecord) []RunRecord {
	if q.Limit > 0 && len(recs) > q.Limit {
		return recs[len(recs)-q.Limit:]
	}
	return recs
}

// Store persists RunRecords and supports querying. Query returns records
// ordered by timestamp.
type Store interface {
	Append(ctx context.Context, rec RunRecord) error
	Query(ctx context.Context, q RunQuery) ([]RunRecord, error)
	Close() error
}

// NopStore keeps nothing.
type NopStore struct{}

func (NopStore) Append(context.Context, RunRecord) error { return nil }
func (NopStore) Query(context.Context, RunQuery) ([]RunRecord, error) {
	return nil, nil
}
func (NopStore) Close() error { return nil }
