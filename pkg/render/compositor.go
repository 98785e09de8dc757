package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	// Registers the PNG decoder for image.Decode.
	_ "image/png"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/yaklabco/tekkenmd/pkg/assets"
)

// ComposeReport describes what was drawn differently from the plan.
type ComposeReport struct {
	// MissingBackground lists background segments replaced by a solid fill.
	MissingBackground []string

	// Degraded lists token indices whose icon could not be decoded and
	// were drawn as text in their reserved slot.
	Degraded []int

	// NameFontSize and EndTextFontSize are the sizes after shrink-to-fit,
	// zero when the annotation is absent.
	NameFontSize    int
	EndTextFontSize int

	// TextErrors holds failures to obtain a font face; the affected text
	// is not drawn.
	TextErrors []string
}

// Compose draws the plan onto dst in a fixed order: start segment, middle
// tiles, end segment, name, end text, then every token at its offset.
// Missing or undecodable assets never abort composition.
func Compose(
	dst draw.Image,
	plan LayoutPlan,
	tokens []ResolvedToken,
	assetBytes map[string][]byte,
	fonts *Fonts,
	style Style,
) ComposeReport {
	style = style.withDefaults()

	var fontErr error
	if fonts == nil {
		fonts, fontErr = DefaultFonts()
	}
	c := &compositor{
		dst:     dst,
		plan:    plan,
		geo:     plan.Geometry,
		assets:  assetBytes,
		decoded: make(map[string]image.Image),
		faces:   newFaceCache(fonts, fontErr),
		style:   style,
	}
	defer c.faces.close()

	if fontErr != nil {
		c.report.TextErrors = append(c.report.TextErrors, fontErr.Error())
	}

	c.drawBackground()
	c.drawAnnotation(plan.Name, style.Name, &c.report.NameFontSize)
	c.drawAnnotation(plan.EndText, style.EndText, &c.report.EndTextFontSize)

	for i, tok := range tokens {
		if i >= len(plan.Offsets) {
			break
		}
		c.drawToken(i, tok)
	}

	return c.report
}

type compositor struct {
	dst     draw.Image
	plan    LayoutPlan
	geo     Geometry
	assets  map[string][]byte
	decoded map[string]image.Image
	faces   *faceCache
	style   Style
	report  ComposeReport
}

// decode decodes an asset once per composition.
func (c *compositor) decode(path string) (image.Image, error) {
	if img, ok := c.decoded[path]; ok {
		return img, nil
	}

	data, ok := c.assets[path]
	if !ok || len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", assets.ErrNotFound, path)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	c.decoded[path] = img
	return img, nil
}

func (c *compositor) drawBackground() {
	height := c.plan.Height

	c.drawSegment(assets.BackgroundStart, image.Rect(0, 0, c.plan.StartWidth, height))

	for i := range c.plan.MiddleCount {
		x := c.plan.StartWidth + i*c.plan.TileWidth
		c.drawSegment(assets.BackgroundMiddle, image.Rect(x, 0, x+c.plan.TileWidth, height))
	}

	endX := c.plan.Width - c.plan.EndWidth
	c.drawSegment(assets.BackgroundEnd, image.Rect(endX, 0, c.plan.Width, height))
}

func (c *compositor) drawSegment(path string, rect image.Rectangle) {
	if rect.Empty() {
		return
	}

	img, err := c.decode(path)
	if err != nil {
		if !c.missing(path) {
			c.report.MissingBackground = append(c.report.MissingBackground, path)
		}
		draw.Draw(c.dst, rect, image.NewUniform(c.style.Background), image.Point{}, draw.Src)
		return
	}

	xdraw.BiLinear.Scale(c.dst, rect, img, img.Bounds(), draw.Src, nil)
}

func (c *compositor) missing(path string) bool {
	for _, p := range c.report.MissingBackground {
		if p == path {
			return true
		}
	}
	return false
}

func (c *compositor) drawAnnotation(p TextPlacement, col color.Color, size *int) {
	if !p.Present() {
		return
	}

	face, fitted, err := FitFace(c.faces, p.Text, p.FontSize, c.geo.MinFontSize, p.MaxWidth)
	if err != nil {
		c.report.TextErrors = append(c.report.TextErrors, err.Error())
		return
	}
	*size = fitted

	x := p.X
	if p.Align == AlignRight {
		x -= MeasureWidth(face, p.Text)
	}
	c.drawText(face, p.Text, x, p.Baseline, col)
}

func (c *compositor) drawToken(i int, tok ResolvedToken) {
	x := c.plan.Offsets[i]

	if tok.Kind == KindIcon {
		img, err := c.decode(tok.AssetPath)
		if err == nil {
			width := c.geo.IconSize
			if tok.IsNarrow() {
				width /= 2
			}
			rect := image.Rect(x, c.geo.IconTop, x+width, c.geo.IconTop+c.geo.IconSize)
			xdraw.CatmullRom.Scale(c.dst, rect, img, img.Bounds(), draw.Over, nil)
			return
		}
		c.report.Degraded = append(c.report.Degraded, i)
	}

	face, err := c.faces.Face(c.geo.FallbackFontSize)
	if err != nil {
		c.report.TextErrors = append(c.report.TextErrors, err.Error())
		return
	}
	c.drawText(face, tok.Text(), x+c.geo.FallbackPadding/2, c.geo.FallbackBaseline, c.style.Fallback)
}

func (c *compositor) drawText(face font.Face, text string, x, baseline int, col color.Color) {
	d := &font.Drawer{
		Dst:  c.dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(text)
}
