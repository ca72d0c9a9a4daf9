package scheduler

// cycleOracle answers reachability queries against the current graph.
// Its workspace is reused between queries and grows with the arena.
type cycleOracle struct {
	visited []bool
	stack   []NodeID
}

// connected reports whether a directed path leads from `from` to `to`.
// A node is always connected to itself.
func (o *cycleOracle) connected(g *systemGraph, from, to NodeID) bool {
	if from == to {
		return true
	}

	o.reset(g.len())
	o.visited[from] = true
	o.stack = append(o.stack, from)

	for len(o.stack) > 0 {
		current := o.stack[len(o.stack)-1]
		o.stack = o.stack[:len(o.stack)-1]

		for _, next := range g.nodes[current].edges {
			if next == to {
				return true
			}
			if !o.visited[next] {
				o.visited[next] = true
				o.stack = append(o.stack, next)
			}
		}
	}

	return false
}

func (o *cycleOracle) reset(size int) {
	if cap(o.visited) < size {
		o.visited = make([]bool, size, size*2)
	} else {
		o.visited = o.visited[:size]
		clear(o.visited)
	}
	o.stack = o.stack[:0]
}
