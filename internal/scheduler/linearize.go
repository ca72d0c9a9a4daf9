package scheduler

import (
	"fmt"

	syserrors "github.com/maxkimambo/sysgraph/internal/errors"
	"github.com/maxkimambo/sysgraph/internal/logger"
)

// Build delivers every system to p in schedule order, the first with
// MaxPriority and each following one with a priority one lower. Placeholders
// that were never registered are delivered too, so their MissingDependentSystem
// error surfaces.
//
// The first factory error stops the build and is returned; systems delivered
// before it stay with the planner. The builder cannot be used afterwards.
func (b *Builder) Build(p Planner) error {
	if b.spent {
		return syserrors.NewBuilderSpentError("Build")
	}
	if p == nil {
		return syserrors.NewInvalidSystemError("Planner cannot be nil", "Build")
	}
	b.spent = true

	priority := MaxPriority
	delivered := 0
	for _, id := range b.linearize() {
		n := &b.graph.nodes[id]
		if n.factory == nil {
			continue
		}

		if err := n.factory.Instantiate(p, priority); err != nil {
			logger.Op.WithFields(map[string]interface{}{
				"system":    n.name,
				"priority":  int32(priority),
				"delivered": delivered,
			}).Warn("system failed to instantiate")
			return fmt.Errorf("system %q at priority %d: %w", n.name, priority, err)
		}

		delivered++
		priority--
	}

	logger.Op.Debugf("built schedule of %d systems", delivered)
	return nil
}

// Order returns the schedule Build would produce without instantiating any
// system. It does not consume the builder.
func (b *Builder) Order() []ScheduledSystem {
	order := b.linearize()
	systems := make([]ScheduledSystem, 0, len(order))

	priority := MaxPriority
	for _, id := range order {
		n := &b.graph.nodes[id]
		if n.factory == nil {
			continue
		}
		systems = append(systems, ScheduledSystem{
			ID:          id,
			Name:        n.name,
			Priority:    priority,
			Placeholder: n.placeholder,
		})
		priority--
	}
	return systems
}

// linearize walks the graph depth-first from the root. A node is emitted
// once all of its predecessors have been emitted; children are explored in
// edge insertion order.
func (b *Builder) linearize() []NodeID {
	g := b.graph

	pending := make([]int, g.len())
	for i := range g.nodes {
		for _, to := range g.nodes[i].edges {
			pending[to]++
		}
	}

	order := make([]NodeID, 0, g.len()-1)
	stack := []NodeID{RootNode}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if current != RootNode {
			order = append(order, current)
		}

		edges := g.nodes[current].edges
		for i := len(edges) - 1; i >= 0; i-- {
			next := edges[i]
			pending[next]--
			if pending[next] == 0 {
				stack = append(stack, next)
			}
		}
	}

	return order
}
