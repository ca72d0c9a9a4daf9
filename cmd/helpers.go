package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/maxkimambo/sysgraph/internal/logger"
	"github.com/maxkimambo/sysgraph/internal/manifest"
	"github.com/maxkimambo/sysgraph/internal/planner"
	"github.com/maxkimambo/sysgraph/internal/scheduler"
	"github.com/maxkimambo/sysgraph/internal/utils"
	"github.com/spf13/cobra"
)

func addManifestFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "Manifest file (.yaml, .yml or .hcl) (required)")
	if err := cmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("Failed to mark file as required: %v", err))
	}
}

// loadBuilder loads the manifest at path and registers its systems on a new builder
func loadBuilder(path string) (*manifest.Manifest, *scheduler.Builder, error) {
	m, err := manifest.Load(path)
	if err != nil {
		return nil, nil, err
	}

	b := scheduler.NewBuilder()
	if err := m.Apply(b, manifestSystem); err != nil {
		return m, nil, err
	}

	logger.Op.WithFields(map[string]interface{}{
		"systems":      b.Len(),
		"dependencies": b.EdgeCount(),
		"unresolved":   len(b.Unresolved()),
	}).Debug("manifest applied")
	return m, b, nil
}

// manifestSystem is the factory for manifest entries. Manifests carry no
// code, so each system only reports that it ran.
func manifestSystem(spec manifest.SystemSpec) scheduler.SystemFactory {
	return scheduler.System(spec.Name, func(ctx context.Context) error {
		entry := logger.Op.WithSystem(spec.Name)
		if spec.Description != "" {
			entry = entry.WithField("description", spec.Description)
		}
		entry.Info("system ran")
		return ctx.Err()
	})
}

func orderTable(b *scheduler.Builder) string {
	tf := utils.NewTableFormatter("#", "System", "Priority", "Status", "Depends on")
	for i, s := range b.Order() {
		status := "ready"
		if s.Placeholder {
			status = "missing"
		}
		deps := strings.Join(b.Dependencies(s.Name), ", ")
		if deps == "" {
			deps = "-"
		}
		tf.AddRow(strconv.Itoa(i+1), s.Name, strconv.FormatInt(int64(s.Priority), 10), status, deps)
	}
	return tf.String()
}

func resultTable(result *planner.DispatchResult) string {
	tf := utils.NewTableFormatter("System", "Priority", "Status", "Duration")
	for _, s := range result.Systems {
		duration := "-"
		if s.Status != planner.StatusSkipped {
			duration = s.Duration.Round(time.Microsecond).String()
		}
		tf.AddRow(s.Name, strconv.FormatInt(int64(s.Priority), 10), string(s.Status), duration)
	}
	return tf.String()
}
