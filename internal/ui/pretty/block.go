package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/tekkenmd/pkg/runner"
)

// FormatFileHeader formats the header line printed above a file's blocks.
func (s *Styles) FormatFileHeader(path string, blocks int) string {
	word := "blocks"
	if blocks == 1 {
		word = "block"
	}
	return s.FilePath.Render(path) + " " + s.Dim.Render(fmt.Sprintf("(%d %s)", blocks, word))
}

// FormatFileError formats a file that could not be processed.
func (s *Styles) FormatFileError(path string, err error) string {
	return fmt.Sprintf("%s: %s\n", s.FilePath.Render(path), s.Error.Render(fmt.Sprintf("error: %v", err)))
}

// FormatBlock formats one block outcome as an indented line:
//
//	path:line  image  WxH  source
//
// Failed blocks show the error in place of the image.
func (s *Styles) FormatBlock(path string, block runner.BlockOutcome) string {
	var builder strings.Builder

	location := s.Location.Render(fmt.Sprintf("%s:%d", path, block.Line))
	source := s.Source.Render(singleLine(block.Source))

	if block.Failed() {
		builder.WriteString(fmt.Sprintf("  %s  %s  %s\n",
			location,
			s.Error.Render("error"),
			s.Message.Render(block.Error.Error()),
		))
		builder.WriteString("    " + source + "\n")
		return builder.String()
	}

	status := s.Dim.Render("unchanged")
	if block.Written {
		status = s.Success.Render("written")
	}

	builder.WriteString(fmt.Sprintf("  %s  %s  %dx%d  %s  %s\n",
		location,
		s.Image.Render(block.Image),
		block.Width, block.Height,
		status,
		source,
	))

	if block.TextTokens > 0 {
		word := "tokens"
		if block.TextTokens == 1 {
			word = "token"
		}
		builder.WriteString("    " + s.Warning.Render(fmt.Sprintf("%d %s drawn as text", block.TextTokens, word)) + "\n")
	}

	return builder.String()
}

// singleLine joins the lines of a multi-line source with spaces.
func singleLine(source string) string {
	return strings.Join(strings.Fields(source), " ")
}
