package render

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

var errNoFonts = errors.New("no fonts loaded")

// textDPI makes one point equal one pixel, so sizes are pixel heights.
const textDPI = 72

// Fonts holds a parsed typeface. It is safe for concurrent use; faces it
// creates are not and belong to a single render.
type Fonts struct {
	font *opentype.Font
}

//nolint:gochecknoglobals // Parsed once, read-only afterwards.
var defaultFonts = sync.OnceValues(func() (*Fonts, error) {
	return ParseFonts(gobold.TTF)
})

// DefaultFonts returns the embedded Go Bold typeface.
func DefaultFonts() (*Fonts, error) {
	return defaultFonts()
}

// ParseFonts parses TrueType or OpenType font data.
func ParseFonts(data []byte) (*Fonts, error) {
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Fonts{font: parsed}, nil
}

// LoadFonts reads and parses a font file.
func LoadFonts(path string) (*Fonts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}

	fonts, err := ParseFonts(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fonts, nil
}

// Face creates a new face at size pixels.
func (f *Fonts) Face(size int) (font.Face, error) {
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     textDPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	return face, nil
}

// faceCache memoizes faces by size for the duration of one render.
type faceCache struct {
	fonts   *Fonts
	loadErr error
	faces   map[int]font.Face
}

// newFaceCache creates a cache over fonts. loadErr is the reason fonts is
// nil, if known.
func newFaceCache(fonts *Fonts, loadErr error) *faceCache {
	return &faceCache{fonts: fonts, loadErr: loadErr, faces: make(map[int]font.Face)}
}

// Face implements FaceSource.
func (c *faceCache) Face(size int) (font.Face, error) {
	if face, ok := c.faces[size]; ok {
		return face, nil
	}
	if c.fonts == nil {
		if c.loadErr != nil {
			return nil, fmt.Errorf("%w: %w", errNoFonts, c.loadErr)
		}
		return nil, errNoFonts
	}

	face, err := c.fonts.Face(size)
	if err != nil {
		return nil, err
	}
	c.faces[size] = face
	return face, nil
}

func (c *faceCache) close() {
	for size, face := range c.faces {
		_ = face.Close()
		delete(c.faces, size)
	}
}
