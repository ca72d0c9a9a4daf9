package cmd

import (
	"fmt"

	"github.com/maxkimambo/sysgraph/internal/logger"
	"github.com/maxkimambo/sysgraph/internal/scheduler"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Render the system dependency graph",
	Long: `Renders the dependency graph of a manifest as text, Graphviz DOT, Mermaid or JSON.
Systems appear in schedule order; undeclared dependencies are marked as missing.

Example:
sysgraph graph -f systems.yaml --format dot -o systems.dot
sysgraph graph -f systems.hcl --format mermaid
`,
	RunE: runGraph,
}

func init() {
	addManifestFlag(graphCmd)
	graphCmd.Flags().String("format", "text", "Output format: text, dot, mermaid or json")
	graphCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
}

func runGraph(cmd *cobra.Command, args []string) error {
	config, err := createConfig(cmd)
	if err != nil {
		return err
	}

	_, b, err := loadBuilder(config.ManifestPath)
	if err != nil {
		return err
	}

	v := scheduler.NewGraphVisualization(b)

	if config.Output != "" {
		if err := exportGraph(v, config.Format, config.Output); err != nil {
			return fmt.Errorf("failed to write graph: %w", err)
		}
		logger.User.Successf("Graph written to %s", config.Output)
		return nil
	}

	rendered, err := renderGraph(v, config.Format)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}

func exportGraph(v *scheduler.GraphVisualization, format, path string) error {
	switch format {
	case "dot":
		return v.ExportToDOT(path)
	case "mermaid":
		return v.ExportToMermaid(path)
	case "json":
		return v.ExportToJSON(path)
	default:
		return v.ExportToText(path)
	}
}

func renderGraph(v *scheduler.GraphVisualization, format string) (string, error) {
	switch format {
	case "dot":
		return v.GenerateDOTGraph(), nil
	case "mermaid":
		return v.GenerateMermaid(), nil
	case "json":
		data, err := v.GenerateJSON()
		if err != nil {
			return "", fmt.Errorf("failed to encode graph: %w", err)
		}
		return string(data) + "\n", nil
	default:
		return v.GenerateTextSummary(), nil
	}
}
