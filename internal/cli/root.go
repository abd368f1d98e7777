// Package cli provides the Cobra command structure for gobricklayer.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gobricklayer/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root gobricklayer command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "gobricklayer",
		Short: "Interlock inner walls of sliced G-code like brickwork",
		Long: `gobricklayer post-processes sliced G-code so that alternating inner-wall
segments are printed half a layer higher, interlocking neighbouring walls
like courses of bricks for stronger parts.

It understands OrcaSlicer, BambuStudio, PrusaSlicer, SuperSlicer and Cura
output, rewrites files in place with backups, and can watch a slicer's
export folder to process new files as they are saved.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), logging.Default()))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	rootCmd.AddCommand(newProcessCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newRestoreCommand())
	rootCmd.AddCommand(newDialectsCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	NewHelpFormatter(color, os.Stdout).ApplyToCommand(rootCmd)

	return rootCmd
}
