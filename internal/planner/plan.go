// Package planner collects scheduled systems and runs them in priority order.
package planner

import (
	"sort"
	"sync"
	"time"

	syserrors "github.com/maxkimambo/sysgraph/internal/errors"
	"github.com/maxkimambo/sysgraph/internal/scheduler"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Config contains configuration for a plan
type Config struct {
	// MaxParallel is the maximum number of systems of one priority level run at once
	MaxParallel int

	// SystemTimeout bounds a single system run. Zero means no timeout.
	SystemTimeout time.Duration

	// Tracer receives dispatch spans. Nil uses the global tracer provider.
	Tracer trace.Tracer

	// Meter records dispatch metrics. Nil uses the global meter provider.
	Meter metric.Meter
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		MaxParallel: 4,
	}
}

// Entry is a system added to a plan
type Entry struct {
	Name     string
	Priority scheduler.Priority
	Run      scheduler.RunFunc

	seq int
}

// Plan is a scheduler.Planner that keeps systems ordered by priority.
// It is safe for concurrent use.
type Plan struct {
	config  *Config
	mu      sync.Mutex
	entries []Entry
	names   map[string]struct{}
}

var _ scheduler.Planner = (*Plan)(nil)

// New creates an empty plan
func New(config *Config) *Plan {
	if config == nil {
		config = DefaultConfig()
	}
	if config.MaxParallel < 1 {
		config.MaxParallel = 1
	}

	return &Plan{
		config: config,
		names:  make(map[string]struct{}),
	}
}

// Add records a system. Names must be unique within a plan.
func (p *Plan) Add(name string, run scheduler.RunFunc, priority scheduler.Priority) error {
	if name == "" {
		return syserrors.NewInvalidSystemError("System name cannot be empty", "Plan add")
	}
	if run == nil {
		return syserrors.NewInvalidSystemError("System run function cannot be nil", "Plan add").
			WithContext("system", name)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.names[name]; exists {
		return syserrors.NewInvalidSystemError("System already added to plan", "Plan add").
			WithContext("system", name)
	}

	p.names[name] = struct{}{}
	p.entries = append(p.entries, Entry{
		Name:     name,
		Priority: priority,
		Run:      run,
		seq:      len(p.entries),
	})
	return nil
}

// Len returns the number of systems in the plan
func (p *Plan) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// Entries returns the systems ordered by descending priority. Systems of
// equal priority keep the order they were added in.
func (p *Plan) Entries() []Entry {
	p.mu.Lock()
	entries := make([]Entry, len(p.entries))
	copy(entries, p.entries)
	p.mu.Unlock()

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority > entries[j].Priority
		}
		return entries[i].seq < entries[j].seq
	})
	return entries
}

// Levels groups Entries by priority, highest first. Every system of a level
// finishes before any system of the next level starts.
func (p *Plan) Levels() [][]Entry {
	var levels [][]Entry
	for _, e := range p.Entries() {
		last := len(levels) - 1
		if last >= 0 && levels[last][0].Priority == e.Priority {
			levels[last] = append(levels[last], e)
			continue
		}
		levels = append(levels, []Entry{e})
	}
	return levels
}
