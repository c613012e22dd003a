// Package jobdispatch models the audit trail of fetch/parse/grade work
// handed out by the scheduler, adapted from the original job-scheduler
// domain's dispatch-record shape onto this pipeline's job kinds.
package jobdispatch

import (
	"fmt"
	"strings"
	"time"
)

type Kind string

const (
	KindDiscoverURLs Kind = "discover_urls"
	KindFetchPage    Kind = "fetch_page"
	KindParseSnapshot Kind = "parse_snapshot"
	KindGradeMatch   Kind = "grade_match"
	KindResync       Kind = "resync"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusRunning    Status = "running"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
	StatusDeadLetter Status = "dead_letter"
)

// Dispatch is one unit of scheduled or retried work, tracked so operators
// can see what the scheduler handed out, what the worker pool did with it,
// and how many times it has been retried.
type Dispatch struct {
	ID          string
	Kind        Kind
	SourceSlug  string
	Payload     string // JSON, kind-specific (e.g. {"url": "..."} or {"match_id": "..."})
	Status      Status
	Attempts    int
	MaxAttempts int
	LastError   string
	ScheduledAt time.Time
	StartedAt   *time.Time
	FinishedAt  *time.Time
	NextRetryAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (d Dispatch) Validate() error {
	if strings.TrimSpace(string(d.Kind)) == "" {
		return fmt.Errorf("job dispatch kind is required")
	}
	if d.MaxAttempts <= 0 {
		return fmt.Errorf("job dispatch max_attempts must be positive")
	}
	return nil
}

// Exhausted reports whether this dispatch has used up its retry budget and
// should be moved to the dead letter queue instead of retried again.
func (d Dispatch) Exhausted() bool {
	return d.Attempts >= d.MaxAttempts
}
