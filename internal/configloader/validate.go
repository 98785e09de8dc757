package configloader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/tekkenmd/pkg/config"
	"github.com/yaklabco/tekkenmd/pkg/render"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "layout.tile_width").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	})
}

// knownBackupModes lists valid backup mode values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownBackupModes = map[string]bool{
	"sidecar": true,
	"none":    true,
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if strings.ContainsAny(cfg.FenceLanguage, " \t\n`~") {
		result.fail("fence_language", cfg.FenceLanguage,
			"invalid fence language %q; must be a single word", cfg.FenceLanguage)
	}

	if strings.ContainsAny(cfg.ImagePrefix, `/\`) {
		result.fail("image_prefix", cfg.ImagePrefix,
			"invalid image prefix %q; must not contain path separators", cfg.ImagePrefix)
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.fail("format", cfg.Format, "invalid format %q; must be one of: text, json", cfg.Format)
	}

	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	if cfg.Backups.Mode != "" && !knownBackupModes[cfg.Backups.Mode] {
		result.fail("backups.mode", cfg.Backups.Mode,
			"invalid backup mode %q; must be one of: sidecar, none", cfg.Backups.Mode)
	}

	if cfg.Backups.Mode == "none" && cfg.BackupsEnabled() {
		result.warn("backups", cfg.Backups.Mode, "backups are enabled but mode is none; no backups will be written")
	}

	if cfg.DryRun && cfg.Prune {
		result.warn("prune", cfg.Prune, "dry run lists stale images without removing them")
	}

	validateLayout(cfg.Layout, result)
	validateColors(cfg.Colors, result)
	validateIgnorePatterns(cfg, result)

	return result
}

func validateLayout(layout config.LayoutConfig, result *ValidationResult) {
	fields := []struct {
		name  string
		value int
	}{
		{"start_width", layout.StartWidth},
		{"tile_width", layout.TileWidth},
		{"end_width", layout.EndWidth},
		{"height", layout.Height},
		{"gap", layout.Gap},
		{"name_font_size", layout.NameFontSize},
		{"end_text_font_size", layout.EndTextFontSize},
		{"fallback_font_size", layout.FallbackFontSize},
		{"min_font_size", layout.MinFontSize},
	}

	for _, f := range fields {
		if f.value < 0 {
			result.fail("layout."+f.name, f.value, "must be >= 0 (0 keeps the default)")
		}
		if f.value > render.MaxSurfaceSide {
			result.fail("layout."+f.name, f.value, "must be <= %d", render.MaxSurfaceSide)
		}
	}

	if minHeight := render.DefaultGeometry().MinHeight(); layout.Height > 0 && layout.Height < minHeight {
		result.fail("layout.height", layout.Height, "must be >= %d to fit icons and fallback text", minHeight)
	}
}

func validateColors(colors config.ColorsConfig, result *ValidationResult) {
	fields := []struct {
		name  string
		value string
	}{
		{"name", colors.Name},
		{"end_text", colors.EndText},
		{"fallback", colors.Fallback},
		{"background", colors.Background},
	}

	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if _, err := render.ParseColor(f.value); err != nil {
			result.fail("colors."+f.name, f.value, "%v", err)
		}
	}
}

// validateIgnorePatterns checks that ignore patterns are valid globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		if _, err := filepath.Match(pattern, ""); err != nil {
			result.fail(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidBackupMode returns true if the backup mode is valid.
func IsValidBackupMode(mode string) bool {
	return knownBackupModes[mode]
}
