package render

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFaceCache_KeepsLoadError(t *testing.T) {
	t.Parallel()

	errBroken := errors.New("font table truncated")

	_, err := newFaceCache(nil, errBroken).Face(17)
	require.ErrorIs(t, err, errNoFonts)
	require.ErrorIs(t, err, errBroken)

	_, err = newFaceCache(nil, nil).Face(17)
	require.ErrorIs(t, err, errNoFonts)
}

func TestCompose_ReportsDefaultFontFailure(t *testing.T) {
	// Replaces the package default fonts.
	errBroken := errors.New("font table truncated")
	original := defaultFonts
	defaultFonts = func() (*Fonts, error) { return nil, errBroken }
	t.Cleanup(func() { defaultFonts = original })

	geo := DefaultGeometry()
	tokens := ResolveTokens(nil)
	plan := Plan(tokens, "Jin", "", geo)
	dst := image.NewRGBA(image.Rect(0, 0, plan.Width, plan.Height))

	report := Compose(dst, plan, tokens, nil, nil, DefaultStyle())

	require.Len(t, report.TextErrors, 2)
	assert.Equal(t, errBroken.Error(), report.TextErrors[0])
	assert.Contains(t, report.TextErrors[1], errBroken.Error())
	assert.Zero(t, report.NameFontSize)
}
