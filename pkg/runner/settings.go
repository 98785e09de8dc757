package runner

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/yaklabco/tekkenmd/pkg/assets"
	"github.com/yaklabco/tekkenmd/pkg/config"
	"github.com/yaklabco/tekkenmd/pkg/render"
)

// Geometry returns the render geometry with the configured layout
// overrides applied to the defaults.
func Geometry(layout config.LayoutConfig) (render.Geometry, error) {
	geo := render.DefaultGeometry()

	override(&geo.StartWidth, layout.StartWidth)
	override(&geo.TileWidth, layout.TileWidth)
	override(&geo.EndWidth, layout.EndWidth)
	override(&geo.Height, layout.Height)
	override(&geo.Gap, layout.Gap)
	override(&geo.NameFontSize, layout.NameFontSize)
	override(&geo.EndTextFontSize, layout.EndTextFontSize)
	override(&geo.FallbackFontSize, layout.FallbackFontSize)
	override(&geo.MinFontSize, layout.MinFontSize)

	if err := geo.Validate(); err != nil {
		return render.Geometry{}, fmt.Errorf("layout: %w", err)
	}
	return geo, nil
}

// Style returns the render style with the configured colours applied to
// the defaults.
func Style(colors config.ColorsConfig) (render.Style, error) {
	style := render.DefaultStyle()

	fields := []struct {
		name  string
		value string
		dst   *color.Color
	}{
		{"name", colors.Name, &style.Name},
		{"end_text", colors.EndText, &style.EndText},
		{"fallback", colors.Fallback, &style.Fallback},
		{"background", colors.Background, &style.Background},
	}

	for _, f := range fields {
		if f.value == "" {
			continue
		}
		c, err := render.ParseColor(f.value)
		if err != nil {
			return render.Style{}, fmt.Errorf("colors.%s: %w", f.name, err)
		}
		*f.dst = c
	}

	return style, nil
}

// NewRenderer builds a Renderer from cfg. Assets are read from the
// configured directory through a shared cache; relative paths resolve
// against baseDir.
func NewRenderer(cfg *config.Config, baseDir string, opts ...render.Option) (*render.Renderer, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	geo, err := Geometry(cfg.Layout)
	if err != nil {
		return nil, err
	}

	style, err := Style(cfg.Colors)
	if err != nil {
		return nil, err
	}

	base := []render.Option{
		render.WithGeometry(geo),
		render.WithStyle(style),
		render.WithExpandMotions(cfg.ExpandMotionsEnabled()),
	}

	if cfg.FontFile != "" {
		fonts, err := render.LoadFonts(resolvePath(baseDir, cfg.FontFile))
		if err != nil {
			return nil, fmt.Errorf("font_file: %w", err)
		}
		base = append(base, render.WithFonts(fonts))
	}

	fetcher := assets.NewCache(assets.NewDirFetcher(AssetsDir(cfg, baseDir)))

	return render.New(fetcher, append(base, opts...)...), nil
}

// AssetsDir returns the icon tree directory of cfg, resolved against
// baseDir.
func AssetsDir(cfg *config.Config, baseDir string) string {
	dir := config.DefaultAssetsDir
	if cfg != nil && cfg.AssetsDir != "" {
		dir = cfg.AssetsDir
	}
	return resolvePath(baseDir, dir)
}

func override(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func resolvePath(base, path string) string {
	if path == "" || filepath.IsAbs(path) || base == "" {
		return path
	}
	return filepath.Join(base, path)
}
