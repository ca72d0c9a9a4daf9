package scheduler

import (
	syserrors "github.com/maxkimambo/sysgraph/internal/errors"
)

// node is a slot in the graph arena. Outgoing edges keep insertion order.
type node struct {
	name        string
	factory     SystemFactory
	placeholder bool
	edges       []NodeID
}

// systemGraph owns the node table and the append-only node arena.
// Index 0 is the root.
type systemGraph struct {
	nodes     []node
	index     map[string]NodeID
	edgeCount int
}

func newSystemGraph() *systemGraph {
	return &systemGraph{
		nodes: []node{{}},
		index: make(map[string]NodeID),
	}
}

func (g *systemGraph) len() int {
	return len(g.nodes)
}

func (g *systemGraph) contains(id NodeID) bool {
	return id >= 0 && int(id) < len(g.nodes)
}

// lookup returns the node for name. A table entry pointing outside the arena
// is reported as DuplicateSystem.
func (g *systemGraph) lookup(name string) (NodeID, bool, error) {
	id, ok := g.index[name]
	if !ok {
		return InvalidNode, false, nil
	}
	if !g.contains(id) {
		return InvalidNode, false, syserrors.NewDuplicateSystemError(name)
	}
	return id, true, nil
}

// addNode appends a node and anchors it to the root.
func (g *systemGraph) addNode(name string, factory SystemFactory, placeholder bool) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, node{name: name, factory: factory, placeholder: placeholder})
	g.index[name] = id
	g.addEdge(RootNode, id)
	return id
}

func (g *systemGraph) addEdge(from, to NodeID) {
	g.nodes[from].edges = append(g.nodes[from].edges, to)
	g.edgeCount++
}

func (g *systemGraph) hasEdge(from, to NodeID) bool {
	for _, next := range g.nodes[from].edges {
		if next == to {
			return true
		}
	}
	return false
}

// getOrCreatePlaceholder returns the node for name, creating a placeholder
// whose payload fails with MissingDependentSystem if name is unknown.
func (g *systemGraph) getOrCreatePlaceholder(name string) (NodeID, bool, error) {
	id, ok, err := g.lookup(name)
	if err != nil || ok {
		return id, false, err
	}
	return g.addNode(name, missingDependency{name: name}, true), true, nil
}

// upsertPayload sets the payload of name, creating the node if needed.
// replaced reports whether an existing node was overwritten.
func (g *systemGraph) upsertPayload(name string, factory SystemFactory) (id NodeID, replaced bool, err error) {
	id, ok, err := g.lookup(name)
	if err != nil {
		return InvalidNode, false, err
	}
	if !ok {
		return g.addNode(name, factory, false), false, nil
	}

	n := &g.nodes[id]
	n.factory = factory
	n.placeholder = false
	return id, true, nil
}

// placeholders returns unresolved dependency names in creation order.
func (g *systemGraph) placeholders() []string {
	var names []string
	for _, n := range g.nodes[1:] {
		if n.placeholder {
			names = append(names, n.name)
		}
	}
	return names
}
