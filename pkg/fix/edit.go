// Package fix provides byte-range text edits used to rewrite Markdown files
// in place, such as inserting image links after notation blocks.
package fix

// TextEdit replaces the bytes [StartOffset, EndOffset) with NewText.
// An edit with equal offsets is an insertion.
type TextEdit struct {
	StartOffset int
	EndOffset   int
	NewText     string
}

// IsInsert reports whether the edit removes nothing.
func (e TextEdit) IsInsert() bool {
	return e.StartOffset == e.EndOffset
}

// EditBuilder accumulates edits for one file.
type EditBuilder struct {
	Edits []TextEdit
}

// NewEditBuilder creates an empty EditBuilder.
func NewEditBuilder() *EditBuilder {
	return &EditBuilder{}
}

// ReplaceRange replaces bytes [start, end) with newText.
func (b *EditBuilder) ReplaceRange(start, end int, newText string) {
	b.Edits = append(b.Edits, TextEdit{
		StartOffset: start,
		EndOffset:   end,
		NewText:     newText,
	})
}

// Insert inserts text at offset.
func (b *EditBuilder) Insert(offset int, text string) {
	b.ReplaceRange(offset, offset, text)
}

// Len returns the number of accumulated edits.
func (b *EditBuilder) Len() int {
	return len(b.Edits)
}

// Apply applies the accumulated edits to content.
func (b *EditBuilder) Apply(content []byte) ([]byte, error) {
	return Apply(content, b.Edits)
}
