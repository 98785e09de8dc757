// Package mdblock finds fenced notation blocks in Markdown documents and
// embeds image links after them.
package mdblock

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// DefaultLanguage is the fence info word that marks a notation block.
const DefaultLanguage = "tekken"

// Block is one fenced notation block.
type Block struct {
	// Index is the position among the notation blocks of the document.
	Index int

	// Source is the block content with the trailing newline removed.
	Source string

	// Info is the complete info string of the opening fence.
	Info string

	// Line is the 1-based line number of the opening fence.
	Line int

	// Start is the byte offset of the opening fence line.
	Start int

	// End is the byte offset just past the closing fence line, including its
	// newline. For an unclosed fence it is the end of the document.
	End int

	// Closed reports whether a closing fence was found.
	Closed bool
}

// Extractor finds notation blocks. It is safe for concurrent use.
type Extractor struct {
	language string
	md       goldmark.Markdown
}

// New creates an Extractor matching fences whose first info word equals
// language, case-insensitively. An empty language means DefaultLanguage.
func New(language string) *Extractor {
	if language == "" {
		language = DefaultLanguage
	}
	return &Extractor{
		language: language,
		md:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Language returns the fence language this extractor matches.
func (e *Extractor) Language() string {
	return e.language
}

// Extract returns the notation blocks of content in document order.
func (e *Extractor) Extract(ctx context.Context, content []byte) ([]Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extract cancelled: %w", err)
	}

	reader := text.NewReader(content)
	doc := e.md.Parser().Parse(reader, parser.WithContext(parser.NewContext()))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extract cancelled: %w", err)
	}

	var blocks []Block
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		fenced, ok := n.(*ast.FencedCodeBlock)
		if !ok || fenced.Info == nil {
			return ast.WalkContinue, nil
		}
		if !strings.EqualFold(string(fenced.Language(content)), e.language) {
			return ast.WalkSkipChildren, nil
		}

		block := newBlock(content, fenced)
		block.Index = len(blocks)
		blocks = append(blocks, block)
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk document: %w", err)
	}

	return blocks, nil
}

func newBlock(content []byte, fenced *ast.FencedCodeBlock) Block {
	infoSeg := fenced.Info.Segment
	start := lineStart(content, infoSeg.Start)
	fenceChar, fenceLen := fenceOf(content[start:lineEnd(content, start)])

	var src bytes.Buffer
	bodyEnd := lineEnd(content, infoSeg.Stop)
	lines := fenced.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		src.Write(seg.Value(content))
		bodyEnd = seg.Stop
	}

	end, closed := closingFence(content, bodyEnd, fenceChar, fenceLen)

	return Block{
		Source: strings.TrimRight(src.String(), "\r\n"),
		Info:   string(infoSeg.Value(content)),
		Line:   bytes.Count(content[:start], []byte{'\n'}) + 1,
		Start:  start,
		End:    end,
		Closed: closed,
	}
}

// lineStart returns the offset of the start of the line containing pos.
func lineStart(content []byte, pos int) int {
	pos = min(pos, len(content))
	if i := bytes.LastIndexByte(content[:pos], '\n'); i >= 0 {
		return i + 1
	}
	return 0
}

// lineEnd returns the offset just past the newline of the line containing pos.
func lineEnd(content []byte, pos int) int {
	if pos >= len(content) {
		return len(content)
	}
	if i := bytes.IndexByte(content[pos:], '\n'); i >= 0 {
		return pos + i + 1
	}
	return len(content)
}

// fenceOf returns the fence character and run length that open line.
func fenceOf(line []byte) (byte, int) {
	trimmed := bytes.TrimLeft(line, " \t>")
	if len(trimmed) == 0 || (trimmed[0] != '`' && trimmed[0] != '~') {
		return '`', 3
	}

	char := trimmed[0]
	n := 0
	for n < len(trimmed) && trimmed[n] == char {
		n++
	}
	return char, max(n, 3)
}

// closingFence scans the lines from pos for a closing fence of at least
// fenceLen fenceChar characters. It returns the offset just past that line.
func closingFence(content []byte, pos int, fenceChar byte, fenceLen int) (int, bool) {
	for pos < len(content) {
		next := lineEnd(content, pos)
		line := bytes.TrimRight(content[pos:next], "\r\n")
		if isClosingFence(line, fenceChar, fenceLen) {
			return next, true
		}
		pos = next
	}
	return len(content), false
}

func isClosingFence(line []byte, fenceChar byte, fenceLen int) bool {
	trimmed := bytes.TrimLeft(line, " \t>")
	n := 0
	for n < len(trimmed) && trimmed[n] == fenceChar {
		n++
	}
	if n < fenceLen {
		return false
	}
	return len(bytes.TrimSpace(trimmed[n:])) == 0
}
