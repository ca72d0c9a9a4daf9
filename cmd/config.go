package cmd

import (
	"fmt"
	"time"

	syserrors "github.com/maxkimambo/sysgraph/internal/errors"
	"github.com/spf13/cobra"
)

// Config holds the options shared by the subcommands
type Config struct {
	ManifestPath  string
	Strict        bool
	Format        string
	Output        string
	MaxParallel   int
	SystemTimeout time.Duration
}

var graphFormats = map[string]bool{
	"text":    true,
	"dot":     true,
	"mermaid": true,
	"json":    true,
}

// createConfig reads the flags a command defines; flags it does not define keep their zero value
func createConfig(cmd *cobra.Command) (*Config, error) {
	manifestPath, _ := cmd.Flags().GetString("file")
	strict, _ := cmd.Flags().GetBool("strict")
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	maxParallel, _ := cmd.Flags().GetInt("max-parallel")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	config := &Config{
		ManifestPath:  manifestPath,
		Strict:        strict,
		Format:        format,
		Output:        output,
		MaxParallel:   maxParallel,
		SystemTimeout: timeout,
	}
	return config, config.validate(cmd)
}

func (c *Config) validate(cmd *cobra.Command) error {
	if cmd.Flags().Lookup("format") != nil && !graphFormats[c.Format] {
		return syserrors.NewManifestError(syserrors.CodeConfigFormat,
			fmt.Sprintf("unknown graph format %q", c.Format), "", nil).
			WithTroubleshooting("Use one of: text, dot, mermaid, json")
	}
	if cmd.Flags().Lookup("max-parallel") != nil && c.MaxParallel < 1 {
		return syserrors.NewInvalidSystemError("--max-parallel must be at least 1", "Flag validation")
	}
	if c.SystemTimeout < 0 {
		return syserrors.NewInvalidSystemError("--timeout cannot be negative", "Flag validation")
	}
	return nil
}
