package cmd

import (
	"fmt"

	"github.com/maxkimambo/sysgraph/internal/planner"
	"github.com/maxkimambo/sysgraph/internal/utils"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build the schedule and run every system in priority order",
	Long: `Builds the schedule of a manifest into a plan and dispatches it. Systems of
the same priority run concurrently up to --max-parallel; lower priorities wait
for higher ones. The first failing system stops the run.

Example:
sysgraph run -f systems.yaml --max-parallel 8 --timeout 30s
`,
	RunE: runRun,
}

func init() {
	addManifestFlag(runCmd)
	runCmd.Flags().Int("max-parallel", planner.DefaultConfig().MaxParallel, "Maximum systems run at once")
	runCmd.Flags().Duration("timeout", 0, "Timeout for a single system (0 disables it)")
}

func runRun(cmd *cobra.Command, args []string) error {
	config, err := createConfig(cmd)
	if err != nil {
		return err
	}

	_, b, err := loadBuilder(config.ManifestPath)
	if err != nil {
		return err
	}

	p := planner.New(&planner.Config{
		MaxParallel:   config.MaxParallel,
		SystemTimeout: config.SystemTimeout,
	})
	if err := b.Build(p); err != nil {
		return err
	}

	result, err := p.Dispatch(cmd.Context())
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, resultTable(result))
	if err != nil {
		return err
	}

	fmt.Fprintln(out, utils.NewBox(utils.SuccessMessage, "Run completed").
		AddField("Run ID", result.RunID).
		AddField("Systems", result.Succeeded()).
		AddField("Duration", result.Duration).
		Render())
	return nil
}
