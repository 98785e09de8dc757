// Package config defines core configuration types for tekkenmd.
// These types are pure data structures; loading and merging live in
// internal/configloader.
package config

// OutputFormat specifies the output format of the build report.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// IsValid returns true if the output format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON:
		return true
	default:
		return false
	}
}

// Default values.
const (
	DefaultFenceLanguage = "tekken"
	DefaultAssetsDir     = "assets"
	DefaultOutDir        = "images"
	DefaultImagePrefix   = "tekken-"
	DefaultAltText       = "{notation}"
	DefaultBackupMode    = "sidecar"
)

// BackupsConfig controls backups taken before Markdown files are rewritten.
type BackupsConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty" toml:"enabled,omitempty"`
	Mode    string `yaml:"mode,omitempty" toml:"mode,omitempty"` // "sidecar" or "none"
}

// LayoutConfig overrides the render geometry. Zero fields keep the
// renderer's defaults.
type LayoutConfig struct {
	StartWidth       int `yaml:"start_width,omitempty" toml:"start_width,omitempty"`
	TileWidth        int `yaml:"tile_width,omitempty" toml:"tile_width,omitempty"`
	EndWidth         int `yaml:"end_width,omitempty" toml:"end_width,omitempty"`
	Height           int `yaml:"height,omitempty" toml:"height,omitempty"`
	Gap              int `yaml:"gap,omitempty" toml:"gap,omitempty"`
	NameFontSize     int `yaml:"name_font_size,omitempty" toml:"name_font_size,omitempty"`
	EndTextFontSize  int `yaml:"end_text_font_size,omitempty" toml:"end_text_font_size,omitempty"`
	FallbackFontSize int `yaml:"fallback_font_size,omitempty" toml:"fallback_font_size,omitempty"`
	MinFontSize      int `yaml:"min_font_size,omitempty" toml:"min_font_size,omitempty"`
}

// IsZero reports whether no layout field is set.
func (l LayoutConfig) IsZero() bool {
	return l == LayoutConfig{}
}

// ColorsConfig overrides render colours as hex strings ("#rgb", "#rrggbb"
// or "#rrggbbaa"). Empty fields keep the defaults.
type ColorsConfig struct {
	Name       string `yaml:"name,omitempty" toml:"name,omitempty"`
	EndText    string `yaml:"end_text,omitempty" toml:"end_text,omitempty"`
	Fallback   string `yaml:"fallback,omitempty" toml:"fallback,omitempty"`
	Background string `yaml:"background,omitempty" toml:"background,omitempty"`
}

// IsZero reports whether no colour is set.
func (c ColorsConfig) IsZero() bool {
	return c == ColorsConfig{}
}

// Config is the root configuration structure for tekkenmd.
type Config struct {
	// FenceLanguage is the info string that marks notation blocks.
	FenceLanguage string `yaml:"fence_language" toml:"fence_language"`

	// AssetsDir is the directory holding the icon tree.
	AssetsDir string `yaml:"assets_dir" toml:"assets_dir"`

	// OutDir is where rendered images are written. Relative paths are
	// resolved against the working directory.
	OutDir string `yaml:"out_dir" toml:"out_dir"`

	// ImagePrefix is prepended to every generated image name.
	ImagePrefix string `yaml:"image_prefix" toml:"image_prefix"`

	// ExpandMotions expands motion shorthands such as qcf into directions.
	ExpandMotions *bool `yaml:"expand_motions,omitempty" toml:"expand_motions,omitempty"`

	// Embed inserts an image link after every rendered block.
	Embed *bool `yaml:"embed,omitempty" toml:"embed,omitempty"`

	// AltText is the alt text template of embedded links. The placeholders
	// {name}, {notation} and {end} are substituted.
	AltText string `yaml:"alt_text,omitempty" toml:"alt_text,omitempty"`

	// FontFile is an optional TTF/OTF file replacing the embedded font.
	FontFile string `yaml:"font_file,omitempty" toml:"font_file,omitempty"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore,omitempty" toml:"ignore,omitempty"`

	// Backups configures backups of rewritten Markdown files.
	Backups BackupsConfig `yaml:"backups,omitempty" toml:"backups,omitempty"`

	// Layout overrides render geometry.
	Layout LayoutConfig `yaml:"layout,omitempty" toml:"layout,omitempty"`

	// Colors overrides render colours.
	Colors ColorsConfig `yaml:"colors,omitempty" toml:"colors,omitempty"`

	// CLI-level options (not persisted to config files).

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-" toml:"-"`

	// DryRun reports what would be written without touching any file.
	DryRun bool `yaml:"-" toml:"-"`

	// Prune removes images no longer referenced by any Markdown file.
	Prune bool `yaml:"-" toml:"-"`

	// Format specifies the report format.
	Format OutputFormat `yaml:"-" toml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		FenceLanguage: DefaultFenceLanguage,
		AssetsDir:     DefaultAssetsDir,
		OutDir:        DefaultOutDir,
		ImagePrefix:   DefaultImagePrefix,
		ExpandMotions: Bool(true),
		Embed:         Bool(false),
		AltText:       DefaultAltText,
		Backups: BackupsConfig{
			Enabled: Bool(false),
			Mode:    DefaultBackupMode,
		},
		Format: FormatText,
		Jobs:   0, // 0 means use runtime.NumCPU
	}
}

// Bool returns a pointer to v.
func Bool(v bool) *bool {
	return &v
}

// ExpandMotionsEnabled reports whether motion shorthands are expanded.
// Unset means enabled.
func (c *Config) ExpandMotionsEnabled() bool {
	return c.ExpandMotions == nil || *c.ExpandMotions
}

// EmbedEnabled reports whether image links are embedded.
func (c *Config) EmbedEnabled() bool {
	return c.Embed != nil && *c.Embed
}

// BackupsEnabled reports whether backups are written.
func (c *Config) BackupsEnabled() bool {
	return c.Backups.Enabled != nil && *c.Backups.Enabled
}
