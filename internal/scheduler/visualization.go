package scheduler

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// GraphVisualization renders the builder's graph for inspection
type GraphVisualization struct {
	builder *Builder
}

// NewGraphVisualization creates a new visualization helper
func NewGraphVisualization(b *Builder) *GraphVisualization {
	return &GraphVisualization{builder: b}
}

// NodeInfo contains information about a system for visualization
type NodeInfo struct {
	ID           NodeID   `json:"id"`
	Name         string   `json:"name"`
	Placeholder  bool     `json:"placeholder"`
	Priority     Priority `json:"priority"`
	Position     int      `json:"position"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// EdgeInfo contains information about a dependency edge
type EdgeInfo struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// GraphStats summarizes the graph
type GraphStats struct {
	TotalSystems int `json:"totalSystems"`
	Registered   int `json:"registered"`
	Placeholders int `json:"placeholders"`
	Edges        int `json:"edges"`
}

// GraphInfo contains the full graph structure for visualization.
// Nodes are listed in schedule order.
type GraphInfo struct {
	Nodes []NodeInfo `json:"nodes"`
	Edges []EdgeInfo `json:"edges"`
	Stats GraphStats `json:"stats"`
}

// GenerateGraphInfo creates a representation of the graph for visualization
func (v *GraphVisualization) GenerateGraphInfo() *GraphInfo {
	g := v.builder.graph
	order := v.builder.Order()

	deps := make(map[NodeID][]string, len(order))
	edges := []EdgeInfo{}
	for from := 1; from < g.len(); from++ {
		for _, to := range g.nodes[from].edges {
			deps[to] = append(deps[to], g.nodes[from].name)
			edges = append(edges, EdgeInfo{From: g.nodes[from].name, To: g.nodes[to].name})
		}
	}

	info := &GraphInfo{
		Nodes: make([]NodeInfo, 0, len(order)),
		Edges: edges,
		Stats: GraphStats{
			TotalSystems: len(order),
			Edges:        len(edges),
		},
	}

	for i, s := range order {
		info.Nodes = append(info.Nodes, NodeInfo{
			ID:           s.ID,
			Name:         s.Name,
			Placeholder:  s.Placeholder,
			Priority:     s.Priority,
			Position:     i + 1,
			Dependencies: deps[s.ID],
		})
		if s.Placeholder {
			info.Stats.Placeholders++
		} else {
			info.Stats.Registered++
		}
	}

	return info
}

// ExportToJSON exports the graph to a JSON file
func (v *GraphVisualization) ExportToJSON(filename string) error {
	data, err := v.GenerateJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// GenerateJSON returns the graph as indented JSON
func (v *GraphVisualization) GenerateJSON() ([]byte, error) {
	return json.MarshalIndent(v.GenerateGraphInfo(), "", "  ")
}

// GenerateDOTGraph creates a DOT format graph for visualization with Graphviz
func (v *GraphVisualization) GenerateDOTGraph() string {
	info := v.GenerateGraphInfo()

	var sb strings.Builder
	sb.WriteString("digraph SystemSchedule {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box, style=filled];\n")
	sb.WriteString("  label=\"System Schedule\";\n")
	sb.WriteString("  labelloc=\"t\";\n\n")

	for _, node := range info.Nodes {
		color := "lightgreen"
		label := fmt.Sprintf("%s\\n#%d", node.Name, node.Position)
		if node.Placeholder {
			color = "salmon"
			label += "\\nmissing"
		}
		sb.WriteString(fmt.Sprintf("  %q [label=\"%s\", fillcolor=%q];\n", node.Name, label, color))
	}

	if len(info.Edges) > 0 {
		sb.WriteString("\n")
	}
	for _, edge := range info.Edges {
		sb.WriteString(fmt.Sprintf("  %q -> %q;\n", edge.From, edge.To))
	}

	sb.WriteString("}\n")
	return sb.String()
}

// ExportToDOT exports the graph to a DOT file
func (v *GraphVisualization) ExportToDOT(filename string) error {
	return os.WriteFile(filename, []byte(v.GenerateDOTGraph()), 0644)
}

// GenerateMermaid creates a Mermaid flowchart of the graph
func (v *GraphVisualization) GenerateMermaid() string {
	info := v.GenerateGraphInfo()

	ids := make(map[string]string, len(info.Nodes))
	var sb strings.Builder
	sb.WriteString("flowchart LR\n")
	for _, node := range info.Nodes {
		id := fmt.Sprintf("n%d", node.ID)
		ids[node.Name] = id
		if node.Placeholder {
			sb.WriteString(fmt.Sprintf("  %s[\"%s (missing)\"]:::missing\n", id, node.Name))
		} else {
			sb.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", id, node.Name))
		}
	}
	for _, edge := range info.Edges {
		sb.WriteString(fmt.Sprintf("  %s --> %s\n", ids[edge.From], ids[edge.To]))
	}
	if info.Stats.Placeholders > 0 {
		sb.WriteString("  classDef missing fill:#f99,stroke:#c00\n")
	}
	return sb.String()
}

// ExportToMermaid exports the graph to a Mermaid file
func (v *GraphVisualization) ExportToMermaid(filename string) error {
	return os.WriteFile(filename, []byte(v.GenerateMermaid()), 0644)
}

// GenerateTextSummary creates a human-readable text summary of the schedule
func (v *GraphVisualization) GenerateTextSummary() string {
	info := v.GenerateGraphInfo()

	var sb strings.Builder
	sb.WriteString("=== System Schedule Summary ===\n\n")
	sb.WriteString(fmt.Sprintf("  Systems: %d\n", info.Stats.TotalSystems))
	sb.WriteString(fmt.Sprintf("  Registered: %d\n", info.Stats.Registered))
	sb.WriteString(fmt.Sprintf("  Missing: %d\n", info.Stats.Placeholders))
	sb.WriteString(fmt.Sprintf("  Dependencies: %d\n\n", info.Stats.Edges))

	sb.WriteString("Order:\n")
	for _, node := range info.Nodes {
		sb.WriteString(fmt.Sprintf("  %d. %s (priority %d)", node.Position, node.Name, node.Priority))
		if node.Placeholder {
			sb.WriteString(" - missing")
		}
		if len(node.Dependencies) > 0 {
			sb.WriteString(fmt.Sprintf(" <- %s", strings.Join(node.Dependencies, ", ")))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// ExportToText exports the schedule summary to a text file
func (v *GraphVisualization) ExportToText(filename string) error {
	return os.WriteFile(filename, []byte(v.GenerateTextSummary()), 0644)
}
