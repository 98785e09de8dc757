package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/tekkenmd/internal/ui/pretty"
	"github.com/yaklabco/tekkenmd/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter. Failed blocks and files are always listed;
// rendered blocks only in verbose mode.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to render."))
		}
		return 0, nil
	}

	for _, file := range result.Files {
		path := displayPath(file)

		if file.Error != nil {
			fmt.Fprint(r.bw, r.styles.FormatFileError(path, file.Error))
			continue
		}

		shown := r.visibleBlocks(file)
		if len(shown) == 0 {
			continue
		}

		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(file.Blocks)))
		for _, block := range shown {
			fmt.Fprint(r.bw, r.styles.FormatBlock(path, block))
		}
		fmt.Fprintln(r.bw)
	}

	for _, runErr := range result.Errors {
		fmt.Fprintln(r.bw, r.styles.Error.Render(fmt.Sprintf("error: %v", runErr)))
	}

	if r.opts.Verbose {
		for _, img := range result.Pruned {
			fmt.Fprintln(r.bw, r.styles.Dim.Render("pruned ")+r.styles.Image.Render(img))
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats, result.DryRun))
	}

	return failures(result), nil
}

func (r *TextReporter) visibleBlocks(file runner.FileOutcome) []runner.BlockOutcome {
	if r.opts.Verbose {
		return file.Blocks
	}
	var failed []runner.BlockOutcome
	for _, block := range file.Blocks {
		if block.Failed() {
			failed = append(failed, block)
		}
	}
	return failed
}
