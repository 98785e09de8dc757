package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/tekkenmd/internal/logging"
	"github.com/yaklabco/tekkenmd/pkg/config"
	"github.com/yaklabco/tekkenmd/pkg/fsutil"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new tekkenmd configuration file",
		Long: `Create a new .tekkenmd.yml configuration file in the current directory
with the default settings.

Examples:
  tekkenmd init                      Create minimal .tekkenmd.yml
  tekkenmd init --full               Also list layout and colour settings
  tekkenmd init --format toml        Create .tekkenmd.toml instead
  tekkenmd init --output custom.yml  Write to a custom file path`,
		Args: func(cmd *cobra.Command, args []string) error {
			return usageError(cobra.NoArgs(cmd, args))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Generate full template with layout and colour settings")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Output format: yaml or toml")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: .tekkenmd.yml or .tekkenmd.toml)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive()

	format := config.TemplateFormat(flags.format)
	if format != config.TemplateYAML && format != config.TemplateTOML {
		return usageError(fmt.Errorf("invalid format %q: must be yaml or toml", flags.format))
	}

	workDir, err := workingDir(cmd)
	if err != nil {
		return err
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = format.FileName()
	}
	absPath := absFrom(workDir, outputPath)

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return usageError(fmt.Errorf("file %q already exists; use --force to overwrite", outputPath))
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", outputPath, err)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Format: format,
		Full:   flags.full,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := fsutil.WriteAtomic(commandContext(cmd), absPath, content, configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("run 'tekkenmd build' to render the notation blocks below this directory")

	return nil
}
