package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/tekkenmd/internal/logging"
	"github.com/yaklabco/tekkenmd/pkg/assets"
	"github.com/yaklabco/tekkenmd/pkg/notation"
)

// MaxSurfaceSide is the largest width or height the default surface accepts.
const MaxSurfaceSide = 16384

// DefaultFetchConcurrency bounds concurrent asset fetches per render.
const DefaultFetchConcurrency = 8

// ErrNoSurface indicates that no drawable surface could be obtained.
var ErrNoSurface = errors.New("no drawable surface")

// SurfaceFunc allocates a drawing surface of the given size.
type SurfaceFunc func(width, height int) (draw.Image, error)

// NewRGBASurface is the default SurfaceFunc.
func NewRGBASurface(width, height int) (draw.Image, error) {
	if width <= 0 || height <= 0 || width > MaxSurfaceSide || height > MaxSurfaceSide {
		return nil, fmt.Errorf("%w: %dx%d", ErrNoSurface, width, height)
	}
	return image.NewRGBA(image.Rect(0, 0, width, height)), nil
}

// Options configures a Renderer.
type Options struct {
	// Geometry holds layout dimensions. Defaults to DefaultGeometry().
	Geometry Geometry

	// Style holds text and fill colours. Defaults to DefaultStyle().
	Style Style

	// Fonts is the typeface for all text. Nil means DefaultFonts().
	Fonts *Fonts

	// ExpandMotions expands shorthand motions such as qcf before resolution.
	ExpandMotions bool

	// FetchConcurrency bounds concurrent asset fetches.
	// 0 or negative means DefaultFetchConcurrency.
	FetchConcurrency int

	// NewSurface allocates the canvas. Nil means NewRGBASurface.
	NewSurface SurfaceFunc

	// Logger receives debug output when the render context carries no
	// logger. Nil means the default logger.
	Logger *log.Logger
}

// DefaultOptions returns the standard rendering options.
func DefaultOptions() Options {
	return Options{
		Geometry:         DefaultGeometry(),
		Style:            DefaultStyle(),
		ExpandMotions:    true,
		FetchConcurrency: DefaultFetchConcurrency,
		NewSurface:       NewRGBASurface,
	}
}

// Option modifies Options.
type Option func(*Options)

// WithOptions replaces all options at once.
func WithOptions(opts Options) Option {
	return func(o *Options) { *o = opts }
}

// WithGeometry sets the layout dimensions.
func WithGeometry(geo Geometry) Option {
	return func(o *Options) { o.Geometry = geo }
}

// WithStyle sets the colours.
func WithStyle(style Style) Option {
	return func(o *Options) { o.Style = style }
}

// WithFonts sets the typeface.
func WithFonts(fonts *Fonts) Option {
	return func(o *Options) { o.Fonts = fonts }
}

// WithExpandMotions toggles shorthand motion expansion.
func WithExpandMotions(expand bool) Option {
	return func(o *Options) { o.ExpandMotions = expand }
}

// WithFetchConcurrency bounds concurrent asset fetches.
func WithFetchConcurrency(n int) Option {
	return func(o *Options) { o.FetchConcurrency = n }
}

// WithSurface sets the surface allocator.
func WithSurface(fn SurfaceFunc) Option {
	return func(o *Options) { o.NewSurface = fn }
}

// WithLogger sets the debug logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// Renderer turns notation source into images. It is safe for concurrent
// use; each call owns its surface.
type Renderer struct {
	fetcher assets.Fetcher
	opts    Options
}

// New creates a Renderer that loads assets through fetcher.
func New(fetcher assets.Fetcher, opts ...Option) *Renderer {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	if options.Geometry == (Geometry{}) {
		options.Geometry = DefaultGeometry()
	}
	options.Style = options.Style.withDefaults()
	if options.NewSurface == nil {
		options.NewSurface = NewRGBASurface
	}
	if options.FetchConcurrency <= 0 {
		options.FetchConcurrency = DefaultFetchConcurrency
	}
	if fetcher == nil {
		fetcher = assets.Missing
	}

	return &Renderer{fetcher: fetcher, opts: options}
}

// Options returns the effective options.
func (r *Renderer) Options() Options {
	return r.opts
}

// Result is the outcome of one render.
type Result struct {
	Image    draw.Image
	Plan     LayoutPlan
	Tokens   []ResolvedToken
	Notation notation.Notation
	Report   ComposeReport
}

// Render parses source, fetches assets, plans the layout and composites the
// image. Unknown tokens and missing assets degrade to text; the only hard
// failures are ErrNoSurface, font errors and context cancellation.
func (r *Renderer) Render(ctx context.Context, source string) (*Result, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("render: %w", ctx.Err())
	default:
	}

	logger := r.logger(ctx)

	fonts, err := r.fonts()
	if err != nil {
		return nil, err
	}

	parsed := notation.Parse(source)
	tokens := parsed.Tokens
	if r.opts.ExpandMotions {
		tokens = notation.Expand(tokens)
	}

	resolved := ResolveTokens(tokens)
	for _, tok := range resolved {
		if tok.Class == notation.ClassAttack && !notation.IsCanonicalButtons(tok.Text()) {
			logger.Debug("non-canonical button combination", logging.FieldToken, tok.Text())
		}
	}

	fetched, err := r.fetchAll(ctx, logger, resolved)
	if err != nil {
		return nil, err
	}

	for i := range resolved {
		if resolved[i].Kind != KindIcon {
			continue
		}
		if _, ok := fetched[resolved[i].AssetPath]; !ok {
			resolved[i].Kind = KindText
		}
	}

	plan := Plan(resolved, parsed.Name, parsed.EndText, r.opts.Geometry)

	surface, err := r.opts.NewSurface(plan.Width, plan.Height)
	if err != nil {
		return nil, fmt.Errorf("allocate %dx%d surface: %w", plan.Width, plan.Height, err)
	}
	if surface == nil {
		return nil, fmt.Errorf("allocate %dx%d surface: %w", plan.Width, plan.Height, ErrNoSurface)
	}

	report := Compose(surface, plan, resolved, fetched, fonts, r.opts.Style)
	for _, idx := range report.Degraded {
		logger.Debug("icon degraded to text",
			logging.FieldToken, resolved[idx].Text(),
			logging.FieldAsset, resolved[idx].AssetPath)
	}
	for _, path := range report.MissingBackground {
		logger.Debug("background segment missing", logging.FieldAsset, path)
	}

	logger.Debug("rendered notation",
		logging.FieldWidth, plan.Width,
		logging.FieldHeight, plan.Height,
		logging.FieldFiles, len(fetched))

	return &Result{
		Image:    surface,
		Plan:     plan,
		Tokens:   resolved,
		Notation: parsed,
		Report:   report,
	}, nil
}

// RenderPNG renders source and writes the image to w as PNG.
func (r *Renderer) RenderPNG(ctx context.Context, source string, w io.Writer) (*Result, error) {
	res, err := r.Render(ctx, source)
	if err != nil {
		return nil, err
	}

	if err := EncodePNG(w, res.Image); err != nil {
		return nil, err
	}
	return res, nil
}

// EncodePNG writes img to w as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// logger prefers the logger of the render context, which carries the
// caller's fields, over the configured one.
func (r *Renderer) logger(ctx context.Context) *log.Logger {
	return logging.FromContextOr(ctx, r.opts.Logger)
}

func (r *Renderer) fonts() (*Fonts, error) {
	if r.opts.Fonts != nil {
		return r.opts.Fonts, nil
	}

	fonts, err := DefaultFonts()
	if err != nil {
		return nil, fmt.Errorf("load default font: %w", err)
	}
	return fonts, nil
}

// fetchAll loads every distinct icon and the background segments
// concurrently. Missing assets are omitted from the result; only context
// cancellation is an error.
func (r *Renderer) fetchAll(ctx context.Context, logger *log.Logger, tokens []ResolvedToken) (map[string][]byte, error) {
	paths := assetPaths(tokens)

	var mu sync.Mutex
	fetched := make(map[string][]byte, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.FetchConcurrency)

	for _, path := range paths {
		g.Go(func() error {
			data, err := r.fetcher.Fetch(gctx, path)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logger.Debug("asset unavailable", logging.FieldAsset, path, logging.FieldError, err)
				return nil
			}
			if len(data) == 0 {
				logger.Debug("asset empty", logging.FieldAsset, path)
				return nil
			}

			mu.Lock()
			fetched[path] = data
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch assets: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetch assets: %w", err)
	}

	return fetched, nil
}

// assetPaths returns the background segments followed by every distinct
// icon path in sorted order.
func assetPaths(tokens []ResolvedToken) []string {
	seen := make(map[string]struct{})
	var icons []string
	for _, tok := range tokens {
		if tok.Kind != KindIcon || tok.AssetPath == "" {
			continue
		}
		if _, ok := seen[tok.AssetPath]; ok {
			continue
		}
		seen[tok.AssetPath] = struct{}{}
		icons = append(icons, tok.AssetPath)
	}
	sort.Strings(icons)

	paths := []string{assets.BackgroundStart, assets.BackgroundMiddle, assets.BackgroundEnd}
	return append(paths, icons...)
}
