package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/tekkenmd/internal/logging"
	"github.com/yaklabco/tekkenmd/pkg/config"
	"github.com/yaklabco/tekkenmd/pkg/mdblock"
	"github.com/yaklabco/tekkenmd/pkg/render"
	"github.com/yaklabco/tekkenmd/pkg/reporter"
	"github.com/yaklabco/tekkenmd/pkg/runner"
)

type buildFlags struct {
	outDir          string
	assetsDir       string
	fence           string
	altText         string
	format          string
	ignore          []string
	jobs            int
	embed           bool
	backups         bool
	prune           bool
	dryRun          bool
	verbose         bool
	compact         bool
	includeVendored bool
	followSymlinks  bool
}

func newBuildCommand() *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build [paths...]",
		Short: "Render the notation blocks of Markdown files",
		Long:  buildLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args, flags)
		},
	}

	addBuildFlags(cmd, flags)

	return cmd
}

const buildLongDescription = `Render every fenced notation block of Markdown files to PNG images.

By default, scans all .md and .markdown files in the current directory and
subdirectories, skipping hidden and vendored directories. Images are named
after a hash of their content, so unchanged notation is never rewritten.

Examples:
  tekkenmd build                      # Render blocks below the current directory
  tekkenmd build docs/ README.md      # Render specific files or directories
  tekkenmd build --embed              # Insert an image link after each block
  tekkenmd build --embed --dry-run    # Show what would change
  tekkenmd build --prune              # Delete images no longer referenced
  tekkenmd build --format json        # Machine-readable report`

func addBuildFlags(cmd *cobra.Command, flags *buildFlags) {
	cmd.Flags().StringVarP(&flags.outDir, "out-dir", "o", "", "directory images are written to (default \"images\")")
	cmd.Flags().StringVar(&flags.assetsDir, "assets", "", "directory holding the icon assets (default \"assets\")")
	cmd.Flags().StringVar(&flags.fence, "fence", "", "info string of notation code blocks (default \"tekken\")")
	cmd.Flags().StringVar(&flags.altText, "alt", "", "alt text template of embedded links: {name}, {notation}, {end}")
	cmd.Flags().StringVar(&flags.format, "format", "", "output format: text, json (default \"text\")")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().BoolVar(&flags.embed, "embed", false, "insert or refresh an image link after each block")
	cmd.Flags().BoolVar(&flags.backups, "backups", false, "keep a backup of each Markdown file before embedding")
	cmd.Flags().BoolVar(&flags.prune, "prune", false, "delete images no longer referenced by any block")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "render everything but write nothing")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "list every rendered block")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON output")
	cmd.Flags().BoolVar(&flags.includeVendored, "include-vendored", false, "also scan vendored directories such as node_modules")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "traverse symlinked directories")
}

// cliConfig collects the settings given as flags. Unset flags leave the
// configured value in place.
func (f *buildFlags) cliConfig(cmd *cobra.Command, workDir string) *config.Config {
	cfg := &config.Config{
		FenceLanguage: f.fence,
		AssetsDir:     absFrom(workDir, f.assetsDir),
		OutDir:        absFrom(workDir, f.outDir),
		AltText:       f.altText,
		Ignore:        f.ignore,
		Jobs:          f.jobs,
		DryRun:        f.dryRun,
		Prune:         f.prune,
		Format:        config.OutputFormat(f.format),
	}

	if cmd.Flags().Changed("embed") {
		cfg.Embed = config.Bool(f.embed)
	}
	if cmd.Flags().Changed("backups") {
		cfg.Backups.Enabled = config.Bool(f.backups)
	}

	return cfg
}

func runBuild(cmd *cobra.Command, args []string, flags *buildFlags) error {
	ctx := commandContext(cmd)
	logger := logging.Default()

	workDir, err := workingDir(cmd)
	if err != nil {
		return err
	}

	if flags.format != "" {
		if _, err := reporter.ParseFormat(flags.format); err != nil {
			return usageError(err)
		}
	}

	loadResult, err := loadConfig(cmd, workDir, flags.cliConfig(cmd, workDir))
	if err != nil {
		return err
	}
	cfg := loadResult.Config

	logger.Debug("configuration loaded",
		logging.FieldFence, cfg.FenceLanguage,
		logging.FieldEmbed, cfg.EmbedEnabled(),
		logging.FieldPrune, cfg.Prune,
		logging.FieldDryRun, cfg.DryRun,
		logging.FieldJobs, cfg.Jobs,
		logging.FieldAssetsDir, runner.AssetsDir(cfg, loadResult.BaseDir),
	)

	renderer, err := runner.NewRenderer(cfg, loadResult.BaseDir, render.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	buildRunner := runner.New(renderer, mdblock.New(cfg.FenceLanguage))

	runOpts := runner.OptionsFromConfig(cfg, loadResult.BaseDir)
	runOpts.Paths = args
	runOpts.WorkingDir = workDir
	runOpts.IncludeVendored = flags.includeVendored
	runOpts.FollowSymlinks = flags.followSymlinks
	runOpts.Logger = logger

	logger.Debug("starting build",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldOutDir, runOpts.OutDir,
	)

	result, err := buildRunner.Run(logging.WithLogger(ctx, logger), runOpts)
	if err != nil {
		return errors.Join(errors.New("build run failed"), err)
	}

	logger.Debug("build finished",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldBlocksRendered, result.Stats.BlocksRendered,
		logging.FieldBlocksFailed, result.Stats.BlocksFailed,
		logging.FieldImagesWritten, result.Stats.ImagesWritten,
		logging.FieldImagesPruned, result.Stats.ImagesPruned,
	)

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	repOpts := reporter.DefaultOptions()
	repOpts.Writer = cmd.OutOrStdout()
	repOpts.Format = format
	repOpts.Color = colorMode
	repOpts.Verbose = flags.verbose
	repOpts.Compact = flags.compact

	rep, err := reporter.New(repOpts)
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrBuildFailures
	}

	return nil
}
