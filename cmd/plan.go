package cmd

import (
	"fmt"

	syserrors "github.com/maxkimambo/sysgraph/internal/errors"
	"github.com/maxkimambo/sysgraph/internal/logger"
	"github.com/maxkimambo/sysgraph/internal/planner"
	"github.com/maxkimambo/sysgraph/internal/utils"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the schedule a manifest produces",
	Long: `Loads a manifest, registers its systems in declaration order and prints the
resulting schedule with the priority assigned to each system.

Dependencies that no entry declares are listed as missing and the schedule is
not built. With --strict they fail the command instead.

Example:
sysgraph plan -f systems.yaml
sysgraph plan -f systems.hcl --strict
`,
	RunE: runPlan,
}

func init() {
	addManifestFlag(planCmd)
	planCmd.Flags().Bool("strict", false, "Fail when a dependency is never declared")
}

func runPlan(cmd *cobra.Command, args []string) error {
	config, err := createConfig(cmd)
	if err != nil {
		return err
	}

	_, b, err := loadBuilder(config.ManifestPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	unresolved := b.Unresolved()

	if len(unresolved) > 0 && config.Strict {
		return syserrors.NewMissingDependentSystemError(unresolved[0]).
			WithContext("unresolved", len(unresolved))
	}

	fmt.Fprintln(out, orderTable(b))

	if len(unresolved) > 0 {
		box := utils.NewBox(utils.WarningMessage, "Schedule has unresolved dependencies")
		for _, name := range unresolved {
			box.AddBullet(name)
		}
		box.AddLine("Building this schedule fails until these systems are declared.")
		fmt.Fprintln(out, box.Render())
		return nil
	}

	p := planner.New(nil)
	if err := b.Build(p); err != nil {
		return err
	}

	logger.User.Successf("Schedule built with %d systems", p.Len())
	fmt.Fprintln(out, utils.NewBox(utils.SuccessMessage, "Schedule built").
		AddField("Systems", p.Len()).
		AddField("Levels", len(p.Levels())).
		AddField("Dependencies", b.EdgeCount()).
		Render())
	return nil
}
