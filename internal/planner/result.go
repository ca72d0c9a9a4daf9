package planner

import (
	"time"

	"github.com/maxkimambo/sysgraph/internal/scheduler"
)

// Status is the outcome of a single system run
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// SystemResult contains the result of a single system run
type SystemResult struct {
	Name     string
	Priority scheduler.Priority
	Status   Status

	// Error is set when Status is StatusFailed
	Error error

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// DispatchResult contains the results of running a plan
type DispatchResult struct {
	// RunID identifies this dispatch in logs and traces
	RunID string

	// Success indicates every system ran without error
	Success bool

	// Systems holds one result per plan entry, in plan order
	Systems []*SystemResult

	Duration time.Duration

	// Error is the first error encountered
	Error error
}

// Failed returns the names of systems that failed
func (r *DispatchResult) Failed() []string {
	return r.withStatus(StatusFailed)
}

// Skipped returns the names of systems that never ran
func (r *DispatchResult) Skipped() []string {
	return r.withStatus(StatusSkipped)
}

func (r *DispatchResult) withStatus(status Status) []string {
	var names []string
	for _, s := range r.Systems {
		if s.Status == status {
			names = append(names, s.Name)
		}
	}
	return names
}

// Succeeded returns how many systems completed
func (r *DispatchResult) Succeeded() int {
	count := 0
	for _, s := range r.Systems {
		if s.Status == StatusSucceeded {
			count++
		}
	}
	return count
}
