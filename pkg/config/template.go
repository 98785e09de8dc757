package config

import (
	"fmt"
	"strings"
)

// TemplateFormat is the syntax of a generated configuration file.
type TemplateFormat string

const (
	TemplateYAML TemplateFormat = "yaml"
	TemplateTOML TemplateFormat = "toml"
)

// FileName returns the project configuration file name for the format.
func (f TemplateFormat) FileName() string {
	if f == TemplateTOML {
		return ".tekkenmd.toml"
	}
	return ".tekkenmd.yml"
}

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the output format: "yaml" or "toml".
	Format TemplateFormat

	// Full writes every layout and colour setting as a comment.
	// If false, generates a minimal template.
	Full bool
}

// templateEntry is one documented setting. Commented entries are written
// disabled so the renderer's defaults stay in charge.
type templateEntry struct {
	section   string
	key       string
	value     string
	doc       string
	commented bool
	full      bool
}

// templateEntries lists settings in output order. Values are written
// verbatim, so they must be valid in both YAML and TOML.
//
//nolint:gochecknoglobals // Static template content.
var templateEntries = []templateEntry{
	{key: "fence_language", value: `"` + DefaultFenceLanguage + `"`,
		doc: "Info string of fenced code blocks holding notation"},
	{key: "assets_dir", value: `"` + DefaultAssetsDir + `"`,
		doc: "Directory with attack-buttons/, hold-direction/, press-direction/, misc/ and background/"},
	{key: "out_dir", value: `"` + DefaultOutDir + `"`,
		doc: "Where rendered PNG files are written"},
	{key: "image_prefix", value: `"` + DefaultImagePrefix + `"`,
		doc: "Prefix of generated image names"},
	{key: "expand_motions", value: "true",
		doc: "Expand motion shorthands such as qcf into single directions"},
	{key: "embed", value: "false",
		doc: "Insert an image link after every notation block"},
	{key: "alt_text", value: `"` + DefaultAltText + `"`,
		doc: "Alt text of embedded links; {name}, {notation} and {end} are substituted"},
	{key: "font_file", value: `"fonts/custom.ttf"`, commented: true,
		doc: "TTF or OTF font replacing the embedded Go Bold"},
	{key: "ignore", value: `["drafts/**"]`, commented: true,
		doc: "File patterns to ignore (glob patterns)"},

	{section: "backups", key: "enabled", value: "false",
		doc: "Keep a copy of each Markdown file before its first rewrite"},
	{section: "backups", key: "mode", value: `"` + DefaultBackupMode + `"`,
		doc: "sidecar or none"},

	{section: "layout", key: "start_width", value: "110", commented: true, full: true},
	{section: "layout", key: "tile_width", value: "50", commented: true, full: true},
	{section: "layout", key: "end_width", value: "10", commented: true, full: true},
	{section: "layout", key: "height", value: "121", commented: true, full: true},
	{section: "layout", key: "gap", value: "100", commented: true, full: true},
	{section: "layout", key: "name_font_size", value: "22", commented: true, full: true},
	{section: "layout", key: "end_text_font_size", value: "18", commented: true, full: true},
	{section: "layout", key: "fallback_font_size", value: "17", commented: true, full: true},
	{section: "layout", key: "min_font_size", value: "10", commented: true, full: true},

	{section: "colors", key: "name", value: `"#ffffff"`, commented: true, full: true},
	{section: "colors", key: "end_text", value: `"#ffffff"`, commented: true, full: true},
	{section: "colors", key: "fallback", value: `"#ff0000"`, commented: true, full: true},
	{section: "colors", key: "background", value: `"#1e1e1e"`, commented: true, full: true},
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	format := opts.Format
	if format == "" {
		format = TemplateYAML
	}
	if format != TemplateYAML && format != TemplateTOML {
		return nil, fmt.Errorf("unsupported template format %q", format)
	}

	var buf strings.Builder
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n")

	section := ""
	for _, entry := range templateEntries {
		if entry.full && !opts.Full {
			continue
		}

		if entry.section != section {
			section = entry.section
			buf.WriteString("\n")
			writeSectionHeader(&buf, format, section, entry.commented)
		}

		if entry.doc != "" {
			if section == "" {
				buf.WriteString("\n")
			}
			buf.WriteString(indent(format, section) + "# " + entry.doc + "\n")
		}

		prefix := indent(format, section)
		if entry.commented {
			prefix += "# "
		}
		writeEntry(&buf, format, prefix, entry)
	}

	return []byte(buf.String()), nil
}

func writeSectionHeader(buf *strings.Builder, format TemplateFormat, section string, commented bool) {
	prefix := ""
	if commented {
		prefix = "# "
	}
	if format == TemplateTOML {
		fmt.Fprintf(buf, "%s[%s]\n", prefix, section)
		return
	}
	fmt.Fprintf(buf, "%s%s:\n", prefix, section)
}

func writeEntry(buf *strings.Builder, format TemplateFormat, prefix string, entry templateEntry) {
	if format == TemplateTOML {
		fmt.Fprintf(buf, "%s%s = %s\n", prefix, entry.key, entry.value)
		return
	}
	fmt.Fprintf(buf, "%s%s: %s\n", prefix, entry.key, entry.value)
}

func indent(format TemplateFormat, section string) string {
	if section == "" || format == TemplateTOML {
		return ""
	}
	return "  "
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# tekkenmd configuration
# See: https://github.com/yaklabco/tekkenmd`
}
