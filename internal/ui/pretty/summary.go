package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/tekkenmd/pkg/runner"
)

const summaryDividerWidth = 40

// plural returns "n word" with a trailing "s" unless n is 1.
func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "5 blocks rendered in 2 files, 1 failed, 3 images written, 1 file updated".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats, dryRun bool) string {
	prefix := ""
	if dryRun {
		prefix = s.Dim.Render("(dry run) ")
	}

	if stats.BlocksRendered+stats.BlocksFailed == 0 {
		msg := s.Success.Render("No notation blocks found") +
			s.Dim.Render(fmt.Sprintf(" (%s checked)", plural(stats.FilesProcessed, "file")))
		if stats.FilesErrored > 0 {
			msg += ", " + s.Failure.Render(plural(stats.FilesErrored, "file")+" errored")
		}
		if stats.ImagesPruned > 0 {
			msg += ", " + plural(stats.ImagesPruned, "image") + " pruned"
		}
		return prefix + msg + "\n"
	}

	parts := []string{
		fmt.Sprintf("%s rendered in %s", plural(stats.BlocksRendered, "block"), plural(stats.FilesWithBlocks, "file")),
	}

	if stats.BlocksFailed > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.BlocksFailed)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(plural(stats.FilesErrored, "file")+" errored"))
	}

	written := "written"
	if dryRun {
		written = "to write"
	}
	parts = append(parts, s.Success.Render(plural(stats.ImagesWritten, "image")+" "+written))

	if stats.FilesModified > 0 {
		parts = append(parts, s.Success.Render(plural(stats.FilesModified, "file")+" updated"))
	}
	if stats.ImagesPruned > 0 {
		parts = append(parts, plural(stats.ImagesPruned, "image")+" pruned")
	}

	return prefix + strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats, dryRun bool) string {
	var builder strings.Builder

	title := "Summary"
	if dryRun {
		title += " (dry run)"
	}

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render(title))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files checked:     " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)) + "\n")
	builder.WriteString("  Files with blocks: " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesWithBlocks)) + "\n")

	if stats.FilesErrored > 0 {
		builder.WriteString("  Files errored:     " +
			s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}
	if stats.FilesModified > 0 {
		builder.WriteString("  Files modified:    " +
			s.Success.Render(strconv.Itoa(stats.FilesModified)) + "\n")
	}

	builder.WriteString("\n")

	builder.WriteString("  Blocks rendered:   " +
		s.SummaryValue.Render(strconv.Itoa(stats.BlocksRendered)) + "\n")
	if stats.BlocksFailed > 0 {
		builder.WriteString("  Blocks failed:     " +
			s.Failure.Render(strconv.Itoa(stats.BlocksFailed)) + "\n")
	}
	builder.WriteString("  Images written:    " +
		s.SummaryValue.Render(strconv.Itoa(stats.ImagesWritten)) + "\n")
	if stats.ImagesPruned > 0 {
		builder.WriteString("  Images pruned:     " +
			s.SummaryValue.Render(strconv.Itoa(stats.ImagesPruned)) + "\n")
	}
	if links := stats.LinksInserted + stats.LinksUpdated; links > 0 {
		builder.WriteString("  Links embedded:    " +
			s.SummaryValue.Render(strconv.Itoa(links)) + "\n")
	}

	builder.WriteString("\n")

	switch {
	case stats.FilesErrored > 0 || stats.BlocksFailed > 0:
		builder.WriteString(s.Failure.Render("Build completed with failures"))
	default:
		builder.WriteString(s.Success.Render("Build succeeded"))
	}
	builder.WriteString("\n")

	return builder.String()
}
