package scheduler

import (
	syserrors "github.com/maxkimambo/sysgraph/internal/errors"
	"github.com/maxkimambo/sysgraph/internal/logger"
)

// Builder collects systems and their dependencies. It is not safe for
// concurrent use and can be built only once.
type Builder struct {
	graph  *systemGraph
	oracle cycleOracle
	spent  bool
}

// NewBuilder creates an empty builder holding only the root node.
func NewBuilder() *Builder {
	return &Builder{graph: newSystemGraph()}
}

// AddSystem registers factory under name with no dependencies. Registering
// a name again replaces its factory, which is how a placeholder created for
// a forward-referenced dependency becomes a real system.
func (b *Builder) AddSystem(name string, factory SystemFactory) (NodeID, error) {
	if err := b.checkRegistration(name, factory, nil, "AddSystem"); err != nil {
		return InvalidNode, err
	}
	return b.register(name, factory)
}

// AddSystemWithDeps registers factory under name and makes it depend on each
// of deps, processed in order. Unknown dependency names become placeholders.
//
// A dependency that would close a cycle fails the call with WouldCycle. Edges
// and placeholders committed for earlier entries of deps are kept.
func (b *Builder) AddSystemWithDeps(name string, factory SystemFactory, deps []string) (NodeID, error) {
	if err := b.checkRegistration(name, factory, deps, "AddSystemWithDeps"); err != nil {
		return InvalidNode, err
	}

	id, err := b.register(name, factory)
	if err != nil {
		return InvalidNode, err
	}

	for _, dep := range deps {
		depID, known, err := b.graph.lookup(dep)
		if err != nil {
			return InvalidNode, err
		}

		if !known {
			// a new node has no edges yet, so it cannot reach id
			depID, _, err = b.graph.getOrCreatePlaceholder(dep)
			if err != nil {
				return InvalidNode, err
			}
			logger.Op.WithFields(map[string]interface{}{
				"system":     name,
				"dependency": dep,
			}).Debug("created placeholder for unregistered dependency")
		} else if b.oracle.connected(b.graph, id, depID) {
			logger.Op.WithFields(map[string]interface{}{
				"system":     name,
				"dependency": dep,
			}).Debug("rejected dependency that would close a cycle")
			return InvalidNode, syserrors.NewWouldCycleError(name, dep)
		}

		if b.graph.hasEdge(depID, id) {
			continue
		}
		b.graph.addEdge(depID, id)
	}

	return id, nil
}

func (b *Builder) register(name string, factory SystemFactory) (NodeID, error) {
	id, replaced, err := b.graph.upsertPayload(name, factory)
	if err != nil {
		return InvalidNode, err
	}

	if logger.Op.DebugEnabled() {
		logger.Op.WithFields(map[string]interface{}{
			"system":   name,
			"node":     int(id),
			"replaced": replaced,
		}).Debug("registered system")
	}
	return id, nil
}

func (b *Builder) checkRegistration(name string, factory SystemFactory, deps []string, operation string) error {
	if b.spent {
		return syserrors.NewBuilderSpentError(operation)
	}
	if name == "" {
		return syserrors.NewInvalidSystemError("System name cannot be empty", operation)
	}
	if factory == nil {
		return syserrors.NewInvalidSystemError("System factory cannot be nil", operation).
			WithContext("system", name)
	}
	for i, dep := range deps {
		if dep == "" {
			return syserrors.NewInvalidSystemError("Dependency name cannot be empty", operation).
				WithContext("system", name).
				WithContext("index", i)
		}
	}
	return nil
}

// Lookup returns the node registered for name.
func (b *Builder) Lookup(name string) (NodeID, bool) {
	id, ok, err := b.graph.lookup(name)
	return id, ok && err == nil
}

// Len returns the number of named nodes, placeholders included.
func (b *Builder) Len() int {
	return b.graph.len() - 1
}

// EdgeCount returns the number of dependency edges, root anchors excluded.
func (b *Builder) EdgeCount() int {
	return b.graph.edgeCount - len(b.graph.nodes[RootNode].edges)
}

// Unresolved returns dependency names that were never registered as systems,
// in the order they were first mentioned.
func (b *Builder) Unresolved() []string {
	return b.graph.placeholders()
}

// Dependencies returns the direct dependencies of name, ordered by when each
// dependency was first seen by the builder.
func (b *Builder) Dependencies(name string) []string {
	id, ok := b.Lookup(name)
	if !ok {
		return nil
	}

	var deps []string
	for from := range b.graph.nodes {
		if NodeID(from) == RootNode {
			continue
		}
		if b.graph.hasEdge(NodeID(from), id) {
			deps = append(deps, b.graph.nodes[from].name)
		}
	}
	return deps
}

// DependsOn reports whether system depends on dependency, directly or transitively.
func (b *Builder) DependsOn(system, dependency string) bool {
	to, ok := b.Lookup(system)
	if !ok {
		return false
	}
	from, ok := b.Lookup(dependency)
	if !ok || from == to {
		return false
	}
	return b.oracle.connected(b.graph, from, to)
}
