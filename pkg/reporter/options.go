package reporter

import (
	"io"
	"os"
)

// bufWriterSize is the buffer size of report writers.
const bufWriterSize = 64 * 1024

// Options configures a build report.
type Options struct {
	// Writer receives the report. Nil means standard output.
	Writer io.Writer

	// Format selects text or JSON. Empty means text.
	Format Format

	// Color is "auto", "always" or "never"; only the text report uses it.
	Color string

	// Verbose lists rendered blocks and pruned images, not only failures.
	Verbose bool

	// ShowSummary ends the text report with the one-line build summary.
	ShowSummary bool

	// Compact writes the JSON report on a single line.
	Compact bool
}

// DefaultOptions returns the options of a plain `tekkenmd build`.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		Format:      FormatText,
		Color:       "auto",
		ShowSummary: true,
	}
}

// withDefaults fills the unset writer and format.
func (o Options) withDefaults() Options {
	if o.Writer == nil {
		o.Writer = os.Stdout
	}
	if o.Format == "" {
		o.Format = FormatText
	}
	return o
}
