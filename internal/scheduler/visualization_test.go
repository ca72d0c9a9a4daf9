package scheduler

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGameBuilder(t *testing.T) *Builder {
	t.Helper()
	b := NewBuilder()
	_, err := b.AddSystem("input", sys("input"))
	require.NoError(t, err)
	_, err = b.AddSystemWithDeps("physics", sys("physics"), []string{"input"})
	require.NoError(t, err)
	_, err = b.AddSystemWithDeps("render", sys("render"), []string{"physics", "camera"})
	require.NoError(t, err)
	return b
}

func TestGraphVisualization_GraphInfo(t *testing.T) {
	info := NewGraphVisualization(newGameBuilder(t)).GenerateGraphInfo()

	assert.Equal(t, GraphStats{TotalSystems: 4, Registered: 3, Placeholders: 1, Edges: 3}, info.Stats)
	require.Len(t, info.Nodes, 4)

	names := make([]string, len(info.Nodes))
	for i, n := range info.Nodes {
		names[i] = n.Name
		assert.Equal(t, i+1, n.Position)
	}
	assert.Equal(t, []string{"input", "physics", "camera", "render"}, names)

	render := info.Nodes[3]
	assert.Equal(t, []string{"physics", "camera"}, render.Dependencies)
	assert.Equal(t, MaxPriority-3, render.Priority)
	assert.True(t, info.Nodes[2].Placeholder)
}

func TestGraphVisualization_DOT(t *testing.T) {
	dot := NewGraphVisualization(newGameBuilder(t)).GenerateDOTGraph()

	assert.True(t, strings.HasPrefix(dot, "digraph SystemSchedule {\n"))
	assert.True(t, strings.HasSuffix(dot, "}\n"))
	assert.Contains(t, dot, `"input" -> "physics";`)
	assert.Contains(t, dot, `"camera" -> "render";`)
	assert.Contains(t, dot, `"camera" [label="camera\n#3\nmissing", fillcolor="salmon"];`)
	assert.Contains(t, dot, `"input" [label="input\n#1", fillcolor="lightgreen"];`)
	assert.NotContains(t, dot, `"" ->`, "root edges are not drawn")
}

func TestGraphVisualization_Mermaid(t *testing.T) {
	out := NewGraphVisualization(newGameBuilder(t)).GenerateMermaid()

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "flowchart LR", lines[0])
	assert.Contains(t, lines, `  n1["input"]`)
	assert.Contains(t, lines, `  n4["camera (missing)"]:::missing`)
	assert.Contains(t, lines, "  n1 --> n2")
	assert.Contains(t, lines, "  n4 --> n3")
	assert.Equal(t, "  classDef missing fill:#f99,stroke:#c00", lines[len(lines)-1])
}

func TestGraphVisualization_MermaidWithoutPlaceholders(t *testing.T) {
	b := NewBuilder()
	_, err := b.AddSystem("only", sys("only"))
	require.NoError(t, err)

	out := NewGraphVisualization(b).GenerateMermaid()
	assert.Equal(t, "flowchart LR\n  n1[\"only\"]\n", out)
}

func TestGraphVisualization_TextSummary(t *testing.T) {
	text := NewGraphVisualization(newGameBuilder(t)).GenerateTextSummary()

	assert.Contains(t, text, "  Systems: 4\n")
	assert.Contains(t, text, "  Missing: 1\n")
	assert.Contains(t, text, "  Dependencies: 3\n")
	assert.Contains(t, text, "  1. input (priority 2147483647)\n")
	assert.Contains(t, text, "  3. camera (priority 2147483645) - missing\n")
	assert.Contains(t, text, "  4. render (priority 2147483644) <- physics, camera\n")
}

func TestGraphVisualization_Exports(t *testing.T) {
	v := NewGraphVisualization(newGameBuilder(t))
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "graph.json")
	require.NoError(t, v.ExportToJSON(jsonPath))
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)

	var decoded GraphInfo
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 4, decoded.Stats.TotalSystems)
	assert.Equal(t, "render", decoded.Nodes[3].Name)

	dotPath := filepath.Join(dir, "graph.dot")
	require.NoError(t, v.ExportToDOT(dotPath))
	dot, err := os.ReadFile(dotPath)
	require.NoError(t, err)
	assert.Equal(t, v.GenerateDOTGraph(), string(dot))

	mmdPath := filepath.Join(dir, "graph.mmd")
	require.NoError(t, v.ExportToMermaid(mmdPath))
	mmd, err := os.ReadFile(mmdPath)
	require.NoError(t, err)
	assert.Equal(t, v.GenerateMermaid(), string(mmd))

	textPath := filepath.Join(dir, "graph.txt")
	require.NoError(t, v.ExportToText(textPath))
	text, err := os.ReadFile(textPath)
	require.NoError(t, err)
	assert.Equal(t, v.GenerateTextSummary(), string(text))
}

func TestGraphVisualization_DoesNotConsumeBuilder(t *testing.T) {
	b := newGameBuilder(t)
	_ = NewGraphVisualization(b).GenerateGraphInfo()

	_, err := b.AddSystem("camera", sys("camera"))
	require.NoError(t, err)
	require.NoError(t, b.Build(newRecordingPlanner()))
}
