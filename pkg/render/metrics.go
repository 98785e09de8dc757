package render

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
)

// Average glyph advance as a fraction of the font size: 3/5, or 0.6.
const (
	estimateNum = 3
	estimateDen = 5
)

// EstimateWidth approximates the rendered width of text at size pixels
// without a font: 0.6 × size per display cell, rounded up. Wide East-Asian
// characters count as two cells.
func EstimateWidth(text string, size int) int {
	if text == "" || size <= 0 {
		return 0
	}

	cells := runewidth.StringWidth(text)
	return (cells*size*estimateNum + estimateDen - 1) / estimateDen
}

// MeasureWidth returns the exact advance of text rendered with face, rounded up.
func MeasureWidth(face font.Face, text string) int {
	if text == "" {
		return 0
	}
	return font.MeasureString(face, text).Ceil()
}

// FaceSource yields font faces by pixel size.
type FaceSource interface {
	Face(size int) (font.Face, error)
}

// FitFace returns the largest face no bigger than size in which text fits
// maxWidth, shrinking one pixel at a time. It never goes below floor; text
// that still overflows at the floor is returned at the floor size.
func FitFace(src FaceSource, text string, size, floor, maxWidth int) (font.Face, int, error) {
	if floor < 1 {
		floor = 1
	}
	if size < floor {
		size = floor
	}

	for {
		face, err := src.Face(size)
		if err != nil {
			return nil, 0, fmt.Errorf("face at %dpx: %w", size, err)
		}
		if size <= floor || MeasureWidth(face, text) <= maxWidth {
			return face, size, nil
		}
		size--
	}
}
