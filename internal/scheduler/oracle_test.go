package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chain(t *testing.T, names ...string) (*systemGraph, []NodeID) {
	t.Helper()
	g := newSystemGraph()
	ids := make([]NodeID, len(names))
	for i, name := range names {
		id, _, err := g.upsertPayload(name, sys(name))
		require.NoError(t, err)
		ids[i] = id
		if i > 0 {
			g.addEdge(ids[i-1], id)
		}
	}
	return g, ids
}

func TestCycleOracle_Connected(t *testing.T) {
	g, ids := chain(t, "a", "b", "c", "d")
	var o cycleOracle

	assert.True(t, o.connected(g, ids[0], ids[3]))
	assert.True(t, o.connected(g, ids[1], ids[2]))
	assert.False(t, o.connected(g, ids[3], ids[0]))
	assert.False(t, o.connected(g, ids[2], ids[1]))
	assert.True(t, o.connected(g, RootNode, ids[3]))
	assert.False(t, o.connected(g, ids[0], RootNode))
}

func TestCycleOracle_SelfIsConnected(t *testing.T) {
	g, ids := chain(t, "solo")
	var o cycleOracle

	assert.True(t, o.connected(g, ids[0], ids[0]))
	assert.Nil(t, o.visited, "self queries never touch the workspace")
}

func TestCycleOracle_WorkspaceIsReused(t *testing.T) {
	g, ids := chain(t, "a", "b", "c")
	var o cycleOracle

	require.True(t, o.connected(g, ids[0], ids[2]))
	workspace := &o.visited[:1][0]

	// a stale visited mark from the previous query must not hide b
	require.True(t, o.connected(g, ids[1], ids[2]))
	assert.Same(t, workspace, &o.visited[:1][0])
	assert.Empty(t, o.stack)
}

func TestCycleOracle_GrowsWithGraph(t *testing.T) {
	g, ids := chain(t, "a", "b")
	var o cycleOracle
	require.True(t, o.connected(g, ids[0], ids[1]))

	for i := 0; i < 20; i++ {
		id := g.addNode(string(rune('c'+i)), sys("x"), false)
		g.addEdge(ids[1], id)
		ids = append(ids, id)
	}

	assert.True(t, o.connected(g, ids[0], ids[len(ids)-1]))
	assert.Len(t, o.visited, g.len())
}

func TestSystemGraph_Placeholders(t *testing.T) {
	g := newSystemGraph()

	id, created, err := g.getOrCreatePlaceholder("later")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, []string{"later"}, g.placeholders())

	again, created, err := g.getOrCreatePlaceholder("later")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, id, again)

	upgraded, replaced, err := g.upsertPayload("later", sys("later"))
	require.NoError(t, err)
	assert.True(t, replaced)
	assert.Equal(t, id, upgraded)
	assert.Empty(t, g.placeholders())

	assert.True(t, g.hasEdge(RootNode, id), "every node is anchored to the root")
	assert.Equal(t, 1, g.edgeCount)
}
