// Package reporter writes the outcome of a build as text or JSON.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/tekkenmd/pkg/runner"
)

// Reporter formats and writes build results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of failures reported and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	opts = opts.withDefaults()

	switch opts.Format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatText:
		return NewTextReporter(opts), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, opts.Format)
	}
}

// failures counts failed blocks, errored files and run-level errors.
func failures(result *runner.Result) int {
	if result == nil {
		return 0
	}
	return result.Stats.BlocksFailed + result.Stats.FilesErrored + len(result.Errors)
}

// displayPath prefers the working-directory-relative path.
func displayPath(file runner.FileOutcome) string {
	if file.RelPath != "" {
		return file.RelPath
	}
	return file.Path
}
