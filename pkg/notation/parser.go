// Package notation parses comma-separated fighting-game input notation and
// classifies each move token into an icon asset class.
//
// Parsing is purely syntactic: it splits the source into an optional quoted
// name, an optional quoted end text, and an ordered list of move tokens.
// Classification is a separate, total function (see Resolve).
package notation

import (
	"strings"
	"unicode"
)

// quote delimits the leading name and the trailing end text.
const quote = '"'

// separator splits move tokens.
const separator = ","

// Token is a single move unit between separators.
type Token struct {
	// Raw is the piece exactly as it appeared between separators.
	Raw string

	// Text is the trimmed, whitespace-normalized token.
	Text string
}

// Notation is the result of parsing a notation source string.
type Notation struct {
	// Name is the leading quoted annotation, drawn near the start.
	Name string

	// EndText is the trailing quoted annotation, drawn near the end.
	EndText string

	// Tokens are the move tokens in source order.
	Tokens []Token
}

// Texts returns the normalized text of every token, in order.
func (n Notation) Texts() []string {
	texts := make([]string, len(n.Tokens))
	for i, tok := range n.Tokens {
		texts[i] = tok.Text
	}
	return texts
}

// String renders the notation back to normalized source form.
// Parsing the result yields the same name, end text, and tokens.
func (n Notation) String() string {
	var builder strings.Builder

	if n.Name != "" {
		builder.WriteByte(quote)
		builder.WriteString(n.Name)
		builder.WriteByte(quote)
		if len(n.Tokens) > 0 || n.EndText != "" {
			builder.WriteString(", ")
		}
	}

	builder.WriteString(strings.Join(n.Texts(), ", "))

	if n.EndText != "" {
		if len(n.Tokens) > 0 {
			builder.WriteByte(' ')
		}
		builder.WriteByte(quote)
		builder.WriteString(n.EndText)
		builder.WriteByte(quote)
	}

	return builder.String()
}

// Parse splits source into name, end text, and move tokens.
//
// Parse never fails. A quote that is not closed is treated as literal
// content and ends up inside a token.
func Parse(source string) Notation {
	var result Notation

	rest := strings.TrimSpace(source)
	result.Name, rest = extractName(rest)
	result.EndText, rest = extractEndText(rest)

	for _, piece := range strings.Split(rest, separator) {
		text := Normalize(piece)
		if text == "" {
			continue
		}
		result.Tokens = append(result.Tokens, Token{Raw: piece, Text: text})
	}

	return result
}

// extractName consumes a leading quoted segment and one following separator.
func extractName(source string) (string, string) {
	if len(source) == 0 || source[0] != quote {
		return "", source
	}

	end := strings.IndexByte(source[1:], quote)
	if end == -1 {
		return "", source
	}
	end++ // index into source

	name := source[1:end]
	rest := strings.TrimLeftFunc(source[end+1:], unicode.IsSpace)
	rest = strings.TrimPrefix(rest, separator)

	return name, strings.TrimSpace(rest)
}

// extractEndText consumes a trailing quoted segment.
func extractEndText(source string) (string, string) {
	last := len(source) - 1
	if last < 1 || source[last] != quote {
		return "", source
	}

	start := strings.LastIndexByte(source[:last], quote)
	if start == -1 {
		return "", source
	}

	return source[start+1 : last], strings.TrimSpace(source[:start])
}

// Normalize trims a token and collapses internal whitespace to '+'.
// Runs of '+' collapse to one, so "1 2", "1 + 2" and "1+2" are equivalent.
func Normalize(piece string) string {
	fields := strings.FieldsFunc(piece, func(r rune) bool {
		return unicode.IsSpace(r) || r == '+'
	})
	if len(fields) == 0 {
		// A token made only of '+' is kept verbatim so it can fall back to text.
		return strings.TrimSpace(strings.Map(dropSpace, piece))
	}
	return strings.Join(fields, "+")
}

func dropSpace(r rune) rune {
	if unicode.IsSpace(r) {
		return -1
	}
	return r
}
