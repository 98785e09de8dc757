package render_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/tekkenmd/pkg/assets"
	"github.com/yaklabco/tekkenmd/pkg/notation"
	"github.com/yaklabco/tekkenmd/pkg/render"
)

// pngBytes encodes a solid w×h image.
func pngBytes(t testing.TB, w, h int, c color.Color) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// testStore returns an asset store holding the background segments, the
// canonical buttons, the common directions and the misc glyphs.
func testStore(t testing.TB) fstest.MapFS {
	t.Helper()

	blue := color.RGBA{B: 0xff, A: 0xff}
	green := color.RGBA{G: 0xff, A: 0xff}
	icon := pngBytes(t, 8, 8, green)

	fsys := fstest.MapFS{
		assets.BackgroundStart:  {Data: pngBytes(t, 4, 4, blue)},
		assets.BackgroundMiddle: {Data: pngBytes(t, 4, 4, blue)},
		assets.BackgroundEnd:    {Data: pngBytes(t, 4, 4, blue)},
	}

	for _, combo := range notation.CanonicalButtons() {
		fsys[notation.DirAttack+"/"+combo+".png"] = &fstest.MapFile{Data: icon}
	}
	for _, dir := range []string{"f", "b", "d", "u", "df", "db", "uf", "ub"} {
		fsys[notation.DirPress+"/"+dir+".png"] = &fstest.MapFile{Data: icon}
		fsys[notation.DirHold+"/"+dir+".png"] = &fstest.MapFile{Data: icon}
	}
	for _, sym := range []string{"-", "[", "]"} {
		fsys[notation.DirMisc+"/"+sym+".png"] = &fstest.MapFile{Data: icon}
	}

	return fsys
}

// recordingFetcher records every requested path.
type recordingFetcher struct {
	next assets.Fetcher

	mu    sync.Mutex
	paths []string
}

func (f *recordingFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	f.mu.Lock()
	f.paths = append(f.paths, path)
	f.mu.Unlock()
	return f.next.Fetch(ctx, path)
}

func (f *recordingFetcher) requested() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.paths...)
}

func resolve(source string) []render.ResolvedToken {
	return render.ResolveTokens(notation.Expand(notation.Parse(source).Tokens))
}
