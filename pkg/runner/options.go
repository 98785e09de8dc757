// Package runner renders the notation blocks of many Markdown files
// concurrently, writes the images and optionally embeds links to them.
package runner

import (
	"github.com/charmbracelet/log"

	"github.com/yaklabco/tekkenmd/pkg/config"
	"github.com/yaklabco/tekkenmd/pkg/fsutil"
)

// Options controls a multi-file build.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// Manifest entries are stored relative to it.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (lowercase, with leading dot)
	// considered Markdown. Defaults to [".md", ".markdown"] via DefaultExtensions().
	Extensions []string

	// IncludeGlobs are additional glob patterns to include, relative to WorkingDir.
	// Empty means "include everything that matches Extensions".
	IncludeGlobs []string

	// ExcludeGlobs are glob patterns used to skip files or directories.
	// These merge ignore rules from config and CLI (e.g. --ignore).
	ExcludeGlobs []string

	// IncludeVendored walks directories that look vendored
	// (node_modules, vendor, third_party and the like).
	IncludeVendored bool

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	// OutDir is the directory images are written to. Relative paths
	// resolve against WorkingDir.
	OutDir string

	// ImagePrefix is prepended to every image name.
	ImagePrefix string

	// AltText is the alt text template of embedded links.
	AltText string

	// Embed inserts or refreshes an image link after each rendered block.
	Embed bool

	// DryRun renders everything but writes nothing.
	DryRun bool

	// Prune removes images that the manifest no longer references.
	Prune bool

	// Backups controls copies of Markdown files taken before rewriting.
	Backups fsutil.BackupConfig

	// Logger receives progress at debug level. Defaults to the logger in
	// the run context.
	Logger *log.Logger
}

// DefaultExtensions returns the default set of Markdown file extensions.
func DefaultExtensions() []string {
	return []string{".md", ".markdown"}
}

// OptionsFromConfig fills the build settings of Options from cfg. Relative
// out_dir values resolve against baseDir.
func OptionsFromConfig(cfg *config.Config, baseDir string) Options {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	backups := fsutil.DefaultBackupConfig()
	backups.Enabled = cfg.BackupsEnabled()
	if cfg.Backups.Mode != "" {
		backups.Mode = fsutil.BackupMode(cfg.Backups.Mode)
	}

	return Options{
		WorkingDir:   baseDir,
		ExcludeGlobs: cfg.Ignore,
		Jobs:         cfg.Jobs,
		OutDir:       resolvePath(baseDir, cfg.OutDir),
		ImagePrefix:  cfg.ImagePrefix,
		AltText:      cfg.AltText,
		Embed:        cfg.EmbedEnabled(),
		DryRun:       cfg.DryRun,
		Prune:        cfg.Prune,
		Backups:      backups,
	}
}

// effectiveExtensions returns the extensions to use, defaulting if empty.
func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

// effectivePaths returns the paths to process, defaulting to "." if empty.
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

// effectiveOutDir returns OutDir resolved against workDir, defaulting to
// config.DefaultOutDir.
func (o Options) effectiveOutDir(workDir string) string {
	outDir := o.OutDir
	if outDir == "" {
		outDir = config.DefaultOutDir
	}
	return resolvePath(workDir, outDir)
}

func (o Options) effectiveAltText() string {
	if o.AltText == "" {
		return config.DefaultAltText
	}
	return o.AltText
}
