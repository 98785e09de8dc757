package render_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/tekkenmd/pkg/assets"
	"github.com/yaklabco/tekkenmd/pkg/notation"
	"github.com/yaklabco/tekkenmd/pkg/render"
)

func newTestRenderer(t *testing.T, opts ...render.Option) (*render.Renderer, *recordingFetcher) {
	t.Helper()

	fetcher := &recordingFetcher{next: assets.NewFSFetcher(testStore(t))}
	return render.New(fetcher, opts...), fetcher
}

func tokenTexts(tokens []render.ResolvedToken) []string {
	texts := make([]string, len(tokens))
	for i, tok := range tokens {
		texts[i] = tok.Text()
	}
	return texts
}

func rgbaAt(t *testing.T, img image.Image, x, y int) color.RGBA {
	t.Helper()

	r, g, b, a := img.At(x, y).RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

func TestRender_FourButtons(t *testing.T) {
	t.Parallel()

	r, _ := newTestRenderer(t)
	res, err := r.Render(context.Background(), "1,2,3,4")
	require.NoError(t, err)

	geo := render.DefaultGeometry()
	assert.Equal(t, geo.StartWidth+4*geo.TileWidth+geo.EndWidth, res.Plan.Width)
	assert.Equal(t, image.Rect(0, 0, res.Plan.Width, geo.Height), res.Image.Bounds())

	for _, tok := range res.Tokens {
		assert.Equal(t, render.KindIcon, tok.Kind, tok.Text())
		assert.Equal(t, notation.ClassAttack, tok.Class, tok.Text())
	}
	assert.Empty(t, res.Report.Degraded)
	assert.Empty(t, res.Report.MissingBackground)

	bg := rgbaAt(t, res.Image, 5, 5)
	assert.Equal(t, uint8(0xff), bg.B)
	assert.Less(t, bg.G, uint8(0x10))

	icon := rgbaAt(t, res.Image, res.Plan.Offsets[0]+geo.IconSize/2, geo.IconTop+geo.IconSize/2)
	assert.Greater(t, icon.G, uint8(0xf0))
	assert.Less(t, icon.B, uint8(0x10))
}

func TestRender_NameAndHeldDirection(t *testing.T) {
	t.Parallel()

	r, fetcher := newTestRenderer(t)
	res, err := r.Render(context.Background(), `"Jin", 1+2, D`)
	require.NoError(t, err)

	assert.Equal(t, "Jin", res.Notation.Name)
	require.Len(t, res.Tokens, 2)

	assert.Equal(t, notation.ClassAttack, res.Tokens[0].Class)
	assert.Equal(t, "attack-buttons/1+2.png", res.Tokens[0].AssetPath)
	assert.Equal(t, notation.ClassHold, res.Tokens[1].Class)
	assert.Equal(t, "hold-direction/d.png", res.Tokens[1].AssetPath)
	assert.Contains(t, fetcher.requested(), "hold-direction/d.png")

	assert.Equal(t, render.DefaultGeometry().NameFontSize, res.Report.NameFontSize)
	assert.Zero(t, res.Report.EndTextFontSize)
}

func TestRender_ExpandsMotionShorthand(t *testing.T) {
	t.Parallel()

	r, _ := newTestRenderer(t)
	res, err := r.Render(context.Background(), "qcf")
	require.NoError(t, err)

	assert.Equal(t, []string{"d", "df", "f"}, tokenTexts(res.Tokens))
	for _, tok := range res.Tokens {
		assert.Equal(t, notation.ClassPress, tok.Class)
		assert.Equal(t, render.KindIcon, tok.Kind)
	}
}

func TestRender_ExpansionDisabled(t *testing.T) {
	t.Parallel()

	r, _ := newTestRenderer(t, render.WithExpandMotions(false))
	res, err := r.Render(context.Background(), "qcf")
	require.NoError(t, err)

	require.Len(t, res.Tokens, 1)
	assert.Equal(t, "press-direction/qcf.png", res.Tokens[0].AssetPath)
	assert.Equal(t, render.KindText, res.Tokens[0].Kind)
}

func TestRender_UnknownTokenFallsBackToText(t *testing.T) {
	t.Parallel()

	r, _ := newTestRenderer(t)
	res, err := r.Render(context.Background(), "1,xyz,2")
	require.NoError(t, err)

	require.Len(t, res.Tokens, 3)
	assert.Equal(t, render.KindIcon, res.Tokens[0].Kind)
	assert.Equal(t, render.KindText, res.Tokens[1].Kind)
	assert.Equal(t, render.KindIcon, res.Tokens[2].Kind)

	geo := render.DefaultGeometry()
	textAdvance := render.EstimateWidth("xyz", geo.FallbackFontSize) + geo.FallbackPadding
	assert.Equal(t, []int{geo.TileWidth, textAdvance, geo.TileWidth}, res.Plan.Advances)
	assert.Equal(t, geo.StartWidth+2*geo.TileWidth+textAdvance+geo.EndWidth, res.Plan.Width)
}

func TestRender_UndecodableIconDegradesInPlace(t *testing.T) {
	t.Parallel()

	store := testStore(t)
	store["attack-buttons/1.png"].Data = []byte("not a png")

	r := render.New(assets.NewFSFetcher(store))
	res, err := r.Render(context.Background(), "1,2")
	require.NoError(t, err)

	geo := render.DefaultGeometry()
	assert.Equal(t, render.KindIcon, res.Tokens[0].Kind)
	assert.Equal(t, []int{geo.TileWidth, geo.TileWidth}, res.Plan.Advances)
	assert.Equal(t, []int{0}, res.Report.Degraded)
}

func TestRender_MissingBackgroundIsFilled(t *testing.T) {
	t.Parallel()

	style := render.DefaultStyle()
	style.Background = color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}

	r := render.New(assets.Missing, render.WithStyle(style))
	res, err := r.Render(context.Background(), "1")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		assets.BackgroundStart, assets.BackgroundMiddle, assets.BackgroundEnd,
	}, res.Report.MissingBackground)
	assert.Equal(t, render.KindText, res.Tokens[0].Kind)
	assert.Equal(t, color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}, rgbaAt(t, res.Image, 2, 2))
}

func TestRender_FetchesEachAssetOnce(t *testing.T) {
	t.Parallel()

	r, fetcher := newTestRenderer(t)
	_, err := r.Render(context.Background(), "1,1,1,f,f")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		assets.BackgroundStart,
		assets.BackgroundMiddle,
		assets.BackgroundEnd,
		"attack-buttons/1.png",
		"press-direction/f.png",
	}, fetcher.requested())
}

func TestRender_SharedCache(t *testing.T) {
	t.Parallel()

	inner := &recordingFetcher{next: assets.NewFSFetcher(testStore(t))}
	r := render.New(assets.NewCache(inner))

	_, err := r.Render(context.Background(), "1,2")
	require.NoError(t, err)
	first := len(inner.requested())

	_, err = r.Render(context.Background(), "2,1")
	require.NoError(t, err)
	assert.Len(t, inner.requested(), first)
}

func TestRender_NoSurface(t *testing.T) {
	t.Parallel()

	t.Run("oversized canvas", func(t *testing.T) {
		t.Parallel()

		geo := render.DefaultGeometry()
		geo.Height = render.MaxSurfaceSide + 1

		r, _ := newTestRenderer(t, render.WithGeometry(geo))
		_, err := r.Render(context.Background(), "1")
		require.ErrorIs(t, err, render.ErrNoSurface)
	})

	t.Run("allocator refuses", func(t *testing.T) {
		t.Parallel()

		var gotW, gotH int
		refuse := func(w, h int) (draw.Image, error) {
			gotW, gotH = w, h
			return nil, render.ErrNoSurface
		}

		r, _ := newTestRenderer(t, render.WithSurface(refuse))
		_, err := r.Render(context.Background(), "1,2")
		require.ErrorIs(t, err, render.ErrNoSurface)
		assert.Equal(t, 220, gotW)
		assert.Equal(t, 121, gotH)
	})

	t.Run("default allocator bounds", func(t *testing.T) {
		t.Parallel()

		_, err := render.NewRGBASurface(0, 10)
		require.ErrorIs(t, err, render.ErrNoSurface)
		_, err = render.NewRGBASurface(render.MaxSurfaceSide+1, 10)
		require.ErrorIs(t, err, render.ErrNoSurface)

		img, err := render.NewRGBASurface(10, 10)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 10, 10), img.Bounds())
	})
}

func TestRender_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, _ := newTestRenderer(t)
	_, err := r.Render(ctx, "1")
	require.ErrorIs(t, err, context.Canceled)
}

func TestRender_CancelledDuringFetch(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	fetcher := assets.FetcherFunc(func(ctx context.Context, _ string) ([]byte, error) {
		cancel()
		<-ctx.Done()
		return nil, ctx.Err()
	})

	_, err := render.New(fetcher).Render(ctx, "1,2")
	require.ErrorIs(t, err, context.Canceled)
}

func TestRender_EmptySource(t *testing.T) {
	t.Parallel()

	r, _ := newTestRenderer(t)
	res, err := r.Render(context.Background(), "")
	require.NoError(t, err)

	geo := render.DefaultGeometry()
	assert.Equal(t, geo.StartWidth+geo.EndWidth, res.Plan.Width)
	assert.Empty(t, res.Tokens)
}

func TestRender_Concurrent(t *testing.T) {
	t.Parallel()

	r := render.New(assets.NewCache(assets.NewFSFetcher(testStore(t))), render.WithFetchConcurrency(2))
	sources := []string{"1,2,3", `"Jin", 1+2, D "Launcher!"`, "qcf, 2", "[, 1, ]", "1,xyz,2"}

	var wg sync.WaitGroup
	for range 4 {
		for _, source := range sources {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, err := r.Render(context.Background(), source)
				assert.NoError(t, err)
				if res != nil {
					assert.Equal(t, res.Plan.Width, res.Image.Bounds().Dx())
				}
			}()
		}
	}
	wg.Wait()
}

func TestRenderPNG(t *testing.T) {
	t.Parallel()

	r, _ := newTestRenderer(t)

	var buf bytes.Buffer
	res, err := r.RenderPNG(context.Background(), `"Kazuya", f, n, d, df, 2 "EWGF"`, &buf)
	require.NoError(t, err)

	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, res.Image.Bounds(), decoded.Bounds())
	assert.Equal(t, "EWGF", res.Notation.EndText)
	assert.Positive(t, res.Report.EndTextFontSize)
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	r := render.New(nil, render.WithOptions(render.Options{}))
	opts := r.Options()

	assert.Equal(t, render.DefaultGeometry(), opts.Geometry)
	assert.Equal(t, render.DefaultFetchConcurrency, opts.FetchConcurrency)
	assert.NotNil(t, opts.NewSurface)
	assert.NotNil(t, opts.Style.Background)

	res, err := r.Render(context.Background(), "1")
	require.NoError(t, err)
	assert.Len(t, res.Report.MissingBackground, 3)
}
