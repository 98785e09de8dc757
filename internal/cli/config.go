package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/tekkenmd/internal/configloader"
	"github.com/yaklabco/tekkenmd/internal/logging"
	"github.com/yaklabco/tekkenmd/pkg/config"
)

// commandContext returns the command's context, or a background context
// when the command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// workingDir returns the absolute --directory value, or the process
// working directory.
func workingDir(cmd *cobra.Command) (string, error) {
	dir, err := cmd.Flags().GetString("directory")
	if err != nil {
		return "", fmt.Errorf("get directory flag: %w", err)
	}

	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve directory: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", usageError(fmt.Errorf("directory: %w", err))
	}
	if !info.IsDir() {
		return "", usageError(fmt.Errorf("directory: %s is not a directory", dir))
	}
	return abs, nil
}

// absFrom resolves a path flag against the working directory, so that it
// does not later resolve against the config file's directory.
func absFrom(workDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workDir, path)
}

// loadConfig resolves the configuration for a command run in workDir,
// with cliCfg holding the values set by flags.
func loadConfig(cmd *cobra.Command, workDir string, cliCfg *config.Config) (*configloader.LoadResult, error) {
	logger := logging.Default()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	loadResult, err := configloader.Load(commandContext(cmd), configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: absFrom(workDir, configPath),
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}

	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	return loadResult, nil
}
