// Package cli provides the Cobra command structure for tekkenmd.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/tekkenmd/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root tekkenmd command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var color string

	rootCmd := &cobra.Command{
		Use:   "tekkenmd",
		Short: "Render Tekken move notation as images for Markdown",
		Long: `tekkenmd turns comma-separated Tekken move notation such as
"Electric", f, n, d, df:2 into a single composited PNG strip of button and
direction icons.

Render one notation from the command line, or build every fenced
` + "```tekken" + ` block in a Markdown tree into content-addressed images and
optionally embed links to them right below each block.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "path to config file")
	rootCmd.PersistentFlags().StringP("directory", "C", "", "run as if started in this directory")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newBuildCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	applyHelp(rootCmd, color, os.Stdout)

	return rootCmd
}
