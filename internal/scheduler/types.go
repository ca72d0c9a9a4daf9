// Package scheduler builds a dependency-ordered schedule of named systems.
//
// Systems are registered on a Builder, optionally naming the systems they
// depend on. Dependencies may be named before they are registered; such names
// get a placeholder node that fails at build time unless a real system with
// that name is registered later. Edges that would close a cycle are rejected
// when they are added, so the graph is acyclic after every successful call.
//
// Build walks the graph from its root and hands every system to a Planner
// together with a priority. Priorities start at MaxPriority and decrease by
// one per system; a system always receives a lower priority than every system
// it depends on, directly or transitively.
package scheduler

import (
	"context"
	"math"
)

// Priority orders systems for a planner. A system with a higher priority must
// not run later than one with a lower priority.
type Priority int32

// MaxPriority is the priority handed to the first system of a schedule.
const MaxPriority Priority = math.MaxInt32

// NodeID identifies a node in the system graph. IDs are stable for the
// lifetime of a Builder and never reused.
type NodeID int

const (
	// RootNode anchors every system; it carries no payload.
	RootNode NodeID = 0
	// InvalidNode is returned alongside errors.
	InvalidNode NodeID = -1
)

// RunFunc is the unit of work a planner executes for a system.
type RunFunc func(ctx context.Context) error

// Planner receives systems in schedule order.
type Planner interface {
	Add(name string, run RunFunc, priority Priority) error
}

// ScheduledSystem is one entry of a linearized schedule.
type ScheduledSystem struct {
	ID          NodeID   `json:"id"`
	Name        string   `json:"name"`
	Priority    Priority `json:"priority"`
	Placeholder bool     `json:"placeholder"`
}
