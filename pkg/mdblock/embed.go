package mdblock

import (
	"bytes"
	"strings"

	"github.com/yaklabco/tekkenmd/pkg/fix"
)

// Marker tags the image links managed by Embed. Links carrying it are
// refreshed in place on later runs instead of being inserted again.
const Marker = "<!-- tekkenmd -->"

// Link is an image link to place after a block.
type Link struct {
	Block  Block
	Alt    string
	Target string
}

// Line renders the link as a Markdown image followed by the marker.
func (l Link) Line() string {
	alt := strings.NewReplacer("\r", " ", "\n", " ", "[", `\[`, "]", `\]`).Replace(l.Alt)

	target := l.Target
	if strings.ContainsAny(target, " ()<>") {
		target = "<" + strings.NewReplacer("<", "%3C", ">", "%3E").Replace(target) + ">"
	}

	return "![" + alt + "](" + target + ") " + Marker
}

// EmbedResult reports what Embed changed.
type EmbedResult struct {
	Content  []byte
	Inserted int
	Updated  int
}

// Changed reports whether the content differs from the input.
func (r EmbedResult) Changed() bool {
	return r.Inserted+r.Updated > 0
}

// Embed places each link after its block. A marked link already following
// the block, optionally after one blank line, is replaced when it differs;
// otherwise a blank line and the link are inserted after the closing fence.
func Embed(content []byte, links []Link) (EmbedResult, error) {
	builder := fix.NewEditBuilder()
	result := EmbedResult{}

	for _, link := range links {
		want := link.Line()

		if start, end, ok := existingLink(content, link.Block.End); ok {
			if string(content[start:end]) != want {
				builder.ReplaceRange(start, end, want)
				result.Updated++
			}
			continue
		}

		insert := "\n" + want + "\n"
		if end := link.Block.End; end > 0 && content[end-1] != '\n' {
			insert = "\n" + insert
		}
		builder.Insert(link.Block.End, insert)
		result.Inserted++
	}

	out, err := builder.Apply(content)
	if err != nil {
		return EmbedResult{}, err
	}
	result.Content = out

	return result, nil
}

// existingLink finds a marked image link on the line at pos or the line after
// a single blank line. It returns the byte range of the link text.
func existingLink(content []byte, pos int) (int, int, bool) {
	for blanks := 0; pos < len(content) && blanks <= 1; {
		next := lineEnd(content, pos)
		line := bytes.TrimRight(content[pos:next], "\r\n")
		trimmed := bytes.TrimSpace(line)

		if len(trimmed) == 0 {
			blanks++
			pos = next
			continue
		}

		if bytes.HasPrefix(trimmed, []byte("![")) && bytes.HasSuffix(trimmed, []byte(Marker)) {
			return pos, pos + len(line), true
		}
		return 0, 0, false
	}
	return 0, 0, false
}
