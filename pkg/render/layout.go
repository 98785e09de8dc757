// Package render turns parsed notation into a composited raster image.
//
// Rendering happens in two phases. Plan computes the full canvas geometry
// from estimated text widths before any surface exists; Compose then draws
// background segments, annotations and tokens onto a surface of exactly
// the planned size.
package render

import (
	"errors"
	"fmt"

	"github.com/yaklabco/tekkenmd/pkg/notation"
)

// Kind is the visual representation chosen for a token.
type Kind int

const (
	// KindIcon draws the token's asset image.
	KindIcon Kind = iota
	// KindText draws the token string in the fallback font.
	KindText
)

// String returns the kind name.
func (k Kind) String() string {
	if k == KindIcon {
		return "icon"
	}
	return "text"
}

// ResolvedToken is a token paired with its visual representation.
type ResolvedToken struct {
	Token     notation.Token
	Kind      Kind
	Class     notation.Class
	AssetPath string
}

// Text returns the normalized token text.
func (r ResolvedToken) Text() string {
	return r.Token.Text
}

// IsNarrow reports whether the token is drawn as a half-width glyph.
func (r ResolvedToken) IsNarrow() bool {
	return r.Kind == KindIcon && r.Class == notation.ClassMisc
}

// ResolveTokens classifies every token. Tokens with an icon class start as
// KindIcon; the renderer demotes them to KindText when the fetch fails.
func ResolveTokens(tokens []notation.Token) []ResolvedToken {
	resolved := make([]ResolvedToken, len(tokens))
	for i, tok := range tokens {
		res := notation.Resolve(tok.Text)
		kind := KindText
		if res.HasIcon() {
			kind = KindIcon
		}
		resolved[i] = ResolvedToken{
			Token:     tok,
			Kind:      kind,
			Class:     res.Class,
			AssetPath: res.Path,
		}
	}
	return resolved
}

// Geometry holds the fixed dimensions used by layout and compositing.
type Geometry struct {
	StartWidth int
	TileWidth  int
	EndWidth   int
	Height     int

	// Gap separates the name and end-text reserves when both are present.
	Gap int

	NameFontSize     int
	EndTextFontSize  int
	FallbackFontSize int
	MinFontSize      int

	// TextPadding is the inset of annotations from the canvas edges.
	TextPadding int
	// FallbackPadding is added to the advance of every text-fallback token.
	FallbackPadding int

	IconSize           int
	IconTop            int
	AnnotationBaseline int
	FallbackBaseline   int
}

// DefaultGeometry returns the standard strip dimensions.
func DefaultGeometry() Geometry {
	return Geometry{
		StartWidth:         110,
		TileWidth:          50,
		EndWidth:           10,
		Height:             121,
		Gap:                100,
		NameFontSize:       22,
		EndTextFontSize:    18,
		FallbackFontSize:   17,
		MinFontSize:        10,
		TextPadding:        20,
		FallbackPadding:    10,
		IconSize:           50,
		IconTop:            45,
		AnnotationBaseline: 35,
		FallbackBaseline:   80,
	}
}

// ErrInvalidGeometry indicates a geometry that cannot produce a canvas.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Validate checks that all dimensions are usable.
func (g Geometry) Validate() error {
	positive := []struct {
		name  string
		value int
	}{
		{"tile width", g.TileWidth},
		{"height", g.Height},
		{"name font size", g.NameFontSize},
		{"end text font size", g.EndTextFontSize},
		{"fallback font size", g.FallbackFontSize},
		{"min font size", g.MinFontSize},
		{"icon size", g.IconSize},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidGeometry, p.name, p.value)
		}
	}

	nonNegative := []struct {
		name  string
		value int
	}{
		{"start width", g.StartWidth},
		{"end width", g.EndWidth},
		{"gap", g.Gap},
		{"text padding", g.TextPadding},
		{"fallback padding", g.FallbackPadding},
	}
	for _, p := range nonNegative {
		if p.value < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalidGeometry, p.name, p.value)
		}
	}

	if minHeight := g.MinHeight(); g.Height < minHeight {
		return fmt.Errorf("%w: height %d leaves icons or fallback text off the canvas, need at least %d",
			ErrInvalidGeometry, g.Height, minHeight)
	}

	return nil
}

// MinHeight is the smallest canvas height that still holds the icons and
// every text baseline.
func (g Geometry) MinHeight() int {
	return max(g.IconTop+g.IconSize, g.FallbackBaseline, g.AnnotationBaseline)
}

// Align is the horizontal anchoring of an annotation.
type Align int

const (
	// AlignLeft anchors the text's left edge at X.
	AlignLeft Align = iota
	// AlignRight anchors the text's right edge at X.
	AlignRight
)

// TextPlacement positions one annotation.
type TextPlacement struct {
	Text     string
	X        int
	Baseline int
	MaxWidth int
	FontSize int
	Align    Align
}

// Present reports whether there is text to draw.
func (p TextPlacement) Present() bool {
	return p.Text != ""
}

// LayoutPlan is the computed canvas geometry. Width always equals
// StartWidth + MovesWidth + EndWidth + NameReserve + EndTextReserve + Gap.
type LayoutPlan struct {
	Width  int
	Height int

	StartWidth  int
	TileWidth   int
	MiddleCount int
	EndWidth    int

	// MovesX is the x-offset of the first token.
	MovesX     int
	MovesWidth int

	NameReserve    int
	EndTextReserve int
	Gap            int

	// Offsets and Advances are indexed like the token slice.
	Offsets  []int
	Advances []int

	Name    TextPlacement
	EndText TextPlacement

	Geometry Geometry
}

// Advance returns the horizontal space a token occupies.
func Advance(tok ResolvedToken, geo Geometry) int {
	switch {
	case tok.Kind == KindText:
		return EstimateWidth(tok.Text(), geo.FallbackFontSize) + geo.FallbackPadding
	case tok.IsNarrow():
		return geo.TileWidth / 2
	default:
		return geo.TileWidth
	}
}

// Plan computes canvas dimensions, background segmentation and every
// token and annotation position. It performs no I/O.
func Plan(tokens []ResolvedToken, name, endText string, geo Geometry) LayoutPlan {
	plan := LayoutPlan{
		Height:     geo.Height,
		StartWidth: geo.StartWidth,
		TileWidth:  geo.TileWidth,
		EndWidth:   geo.EndWidth,
		MovesX:     geo.StartWidth,
		Offsets:    make([]int, len(tokens)),
		Advances:   make([]int, len(tokens)),
		Geometry:   geo,
	}

	x := plan.MovesX
	for i, tok := range tokens {
		adv := Advance(tok, geo)
		plan.Offsets[i] = x
		plan.Advances[i] = adv
		x += adv
	}
	plan.MovesWidth = x - plan.MovesX

	plan.NameReserve = EstimateWidth(name, geo.NameFontSize)
	plan.EndTextReserve = EstimateWidth(endText, geo.EndTextFontSize)
	if name != "" && endText != "" {
		plan.Gap = geo.Gap
	}

	plan.Width = plan.StartWidth + plan.MovesWidth + plan.EndWidth +
		plan.NameReserve + plan.EndTextReserve + plan.Gap
	plan.MiddleCount = ceilDiv(plan.Width-plan.StartWidth-plan.EndWidth, geo.TileWidth)

	if name != "" {
		maxWidth := plan.Width - 2*geo.TextPadding
		if endText != "" {
			maxWidth -= plan.EndTextReserve + plan.Gap
		}
		plan.Name = TextPlacement{
			Text:     name,
			X:        geo.TextPadding,
			Baseline: geo.AnnotationBaseline,
			MaxWidth: maxWidth,
			FontSize: geo.NameFontSize,
			Align:    AlignLeft,
		}
	}

	if endText != "" {
		maxWidth := plan.Width - 2*geo.TextPadding
		if name != "" {
			maxWidth -= plan.NameReserve + plan.Gap
		}
		plan.EndText = TextPlacement{
			Text:     endText,
			X:        plan.Width - geo.TextPadding,
			Baseline: geo.AnnotationBaseline,
			MaxWidth: maxWidth,
			FontSize: geo.EndTextFontSize,
			Align:    AlignRight,
		}
	}

	return plan
}

func ceilDiv(n, d int) int {
	if n <= 0 || d <= 0 {
		return 0
	}
	return (n + d - 1) / d
}
