package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/tekkenmd/pkg/config"
)

// envVarPrefix is the prefix for all tekkenmd environment variables.
const envVarPrefix = "TEKKENMD_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field string
	typ   envFieldType
	doc   string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"FENCE_LANGUAGE":  {field: "fence_language", typ: envTypeString, doc: "Info string of notation blocks"},
	"ASSETS_DIR":      {field: "assets_dir", typ: envTypeString, doc: "Directory holding the icon tree"},
	"OUT_DIR":         {field: "out_dir", typ: envTypeString, doc: "Directory rendered images are written to"},
	"IMAGE_PREFIX":    {field: "image_prefix", typ: envTypeString, doc: "Prefix of generated image names"},
	"EXPAND_MOTIONS":  {field: "expand_motions", typ: envTypeBool, doc: "Expand motion shorthands: true or false"},
	"EMBED":           {field: "embed", typ: envTypeBool, doc: "Embed image links after blocks: true or false"},
	"ALT_TEXT":        {field: "alt_text", typ: envTypeString, doc: "Alt text template of embedded links"},
	"FONT_FILE":       {field: "font_file", typ: envTypeString, doc: "TTF or OTF font file"},
	"IGNORE":          {field: "ignore", typ: envTypeSlice, doc: "Comma-separated list of ignore patterns"},
	"BACKUPS_ENABLED": {field: "backups.enabled", typ: envTypeBool, doc: "Back up Markdown files before rewriting"},
	"BACKUPS_MODE":    {field: "backups.mode", typ: envTypeString, doc: "Backup mode: sidecar or none"},
	"JOBS":            {field: "jobs", typ: envTypeInt, doc: "Number of parallel workers (0 = auto)"},
	"DRY_RUN":         {field: "dry_run", typ: envTypeBool, doc: "Dry-run mode: true or false"},
	"PRUNE":           {field: "prune", typ: envTypeBool, doc: "Remove unreferenced images: true or false"},
	"FORMAT":          {field: "format", typ: envTypeString, doc: "Report format: text or json"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with TEKKENMD_ (e.g., TEKKENMD_OUT_DIR).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "fence_language":
		cfg.FenceLanguage = value
	case "assets_dir":
		cfg.AssetsDir = value
	case "out_dir":
		cfg.OutDir = value
	case "image_prefix":
		cfg.ImagePrefix = value
	case "alt_text":
		cfg.AltText = value
	case "font_file":
		cfg.FontFile = value
	case "backups.mode":
		cfg.Backups.Mode = value
	case "format":
		cfg.Format = config.OutputFormat(value)
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "expand_motions":
		cfg.ExpandMotions = config.Bool(value)
	case "embed":
		cfg.Embed = config.Bool(value)
	case "backups.enabled":
		cfg.Backups.Enabled = config.Bool(value)
	case "dry_run":
		cfg.DryRun = value
	case "prune":
		cfg.Prune = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "jobs":
		cfg.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "ignore":
		cfg.Ignore = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// EnvVar describes one supported environment variable.
type EnvVar struct {
	Name        string
	Description string
}

// ListEnvVars returns all supported environment variables sorted by name.
func ListEnvVars() []EnvVar {
	vars := make([]EnvVar, 0, len(envMappings))
	for suffix, mapping := range envMappings {
		vars = append(vars, EnvVar{Name: envVarPrefix + suffix, Description: mapping.doc})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
	return vars
}
