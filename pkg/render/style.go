package render

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Style holds the colours used for text and for background fill.
type Style struct {
	Name       color.Color
	EndText    color.Color
	Fallback   color.Color
	Background color.Color
}

// DefaultStyle returns white annotations, red fallback text and a dark fill.
func DefaultStyle() Style {
	return Style{
		Name:       color.White,
		EndText:    color.White,
		Fallback:   color.RGBA{R: 0xff, A: 0xff},
		Background: color.RGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff},
	}
}

// withDefaults fills unset colours from DefaultStyle.
func (s Style) withDefaults() Style {
	def := DefaultStyle()
	if s.Name == nil {
		s.Name = def.Name
	}
	if s.EndText == nil {
		s.EndText = def.EndText
	}
	if s.Fallback == nil {
		s.Fallback = def.Fallback
	}
	if s.Background == nil {
		s.Background = def.Background
	}
	return s
}

// ErrInvalidColor indicates a colour string that is not #rgb, #rrggbb or #rrggbbaa.
var ErrInvalidColor = errors.New("invalid color")

// ParseColor parses a hex colour such as "#f00", "#ff0000" or "#ff000080".
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")

	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
