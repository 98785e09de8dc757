package reporter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/tekkenmd/pkg/config"
)

// Format is the report format of a build, shared with the configuration
// so that a config file, TEKKENMD_FORMAT and --format agree.
type Format = config.OutputFormat

const (
	FormatText = config.FormatText
	FormatJSON = config.FormatJSON
)

// ErrUnknownFormat is returned for a format other than text or json.
var ErrUnknownFormat = errors.New("unknown report format")

// Formats lists the supported report formats, text first.
func Formats() []Format {
	return []Format{FormatText, FormatJSON}
}

// ParseFormat maps a --format value to a Format. The empty value selects
// text.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatText, nil
	}

	f := Format(s)
	if !f.IsValid() {
		names := make([]string, 0, len(Formats()))
		for _, known := range Formats() {
			names = append(names, string(known))
		}
		return "", fmt.Errorf("%w %q; valid formats: %s", ErrUnknownFormat, s, strings.Join(names, ", "))
	}
	return f, nil
}
