package fix

import (
	"bytes"
	"fmt"
	"slices"
)

// RangeError describes an edit whose offsets fall outside the content.
type RangeError struct {
	Edit       TextEdit
	ContentLen int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("edit [%d:%d] out of range for %d bytes",
		e.Edit.StartOffset, e.Edit.EndOffset, e.ContentLen)
}

// ConflictError describes two edits that touch overlapping bytes.
type ConflictError struct {
	First  TextEdit
	Second TextEdit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d:%d] and [%d:%d]",
		e.First.StartOffset, e.First.EndOffset,
		e.Second.StartOffset, e.Second.EndOffset)
}

// Sorted returns a copy of edits ordered by start offset, then end offset.
// Insertions at the same offset keep their relative order.
func Sorted(edits []TextEdit) []TextEdit {
	out := slices.Clone(edits)
	slices.SortStableFunc(out, func(a, b TextEdit) int {
		if a.StartOffset != b.StartOffset {
			return a.StartOffset - b.StartOffset
		}
		return a.EndOffset - b.EndOffset
	})
	return out
}

// Check validates edits against a content length and rejects overlaps.
// It returns the edits in application order.
func Check(edits []TextEdit, contentLen int) ([]TextEdit, error) {
	for _, e := range edits {
		if e.StartOffset < 0 || e.EndOffset < e.StartOffset || e.EndOffset > contentLen {
			return nil, &RangeError{Edit: e, ContentLen: contentLen}
		}
	}

	sorted := Sorted(edits)
	for i := 1; i < len(sorted); i++ {
		prev, curr := sorted[i-1], sorted[i]
		if curr.StartOffset < prev.EndOffset {
			return nil, &ConflictError{First: prev, Second: curr}
		}
	}

	return sorted, nil
}

// Apply checks edits and applies them to content. The input slice is not
// modified. With no edits, content is returned as is.
func Apply(content []byte, edits []TextEdit) ([]byte, error) {
	if len(edits) == 0 {
		return content, nil
	}

	sorted, err := Check(edits, len(content))
	if err != nil {
		return nil, err
	}

	delta := 0
	for _, e := range sorted {
		delta += len(e.NewText) - (e.EndOffset - e.StartOffset)
	}

	var out bytes.Buffer
	out.Grow(len(content) + delta)

	cursor := 0
	for _, e := range sorted {
		out.Write(content[cursor:e.StartOffset])
		out.WriteString(e.NewText)
		cursor = e.EndOffset
	}
	out.Write(content[cursor:])

	return out.Bytes(), nil
}
