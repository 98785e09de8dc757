package runner

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/tekkenmd/internal/logging"
	"github.com/yaklabco/tekkenmd/pkg/fsutil"
	"github.com/yaklabco/tekkenmd/pkg/manifest"
	"github.com/yaklabco/tekkenmd/pkg/mdblock"
	"github.com/yaklabco/tekkenmd/pkg/notation"
	"github.com/yaklabco/tekkenmd/pkg/render"
)

// imageHashLen is the number of hex digits of the content hash used in
// image names.
const imageHashLen = 16

// Runner renders the notation blocks of Markdown files.
type Runner struct {
	// Renderer turns notation into images. It is shared by all workers.
	Renderer *render.Renderer

	// Extractor finds the notation blocks in a file.
	Extractor *mdblock.Extractor
}

// New creates a new Runner. A nil extractor looks for the default fence
// language.
func New(renderer *render.Renderer, extractor *mdblock.Extractor) *Runner {
	if extractor == nil {
		extractor = mdblock.New(mdblock.DefaultLanguage)
	}
	return &Runner{Renderer: renderer, Extractor: extractor}
}

// build holds the state shared by the workers of one run.
type build struct {
	runner  *Runner
	opts    Options
	workDir string
	outDir  string
	logger  *log.Logger

	// claimed records image names already handled by a worker, so that
	// identical blocks are written and counted once.
	claimed sync.Map
}

// Run discovers files under opts.Paths and processes them concurrently.
// It returns a deterministic collection of FileOutcome values and aggregate stats.
//
// The runner:
//   - Discovers files matching the options criteria
//   - Renders every notation block using a worker pool
//   - Writes content-addressed images and embeds links when asked
//   - Updates the manifest and prunes stale images when asked
//   - Respects context cancellation
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if r.Renderer == nil {
		return nil, errors.New("runner: no renderer")
	}

	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	opts.WorkingDir = workDir

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	b := &build{
		runner:  r,
		opts:    opts,
		workDir: workDir,
		outDir:  opts.effectiveOutDir(workDir),
		logger:  logger,
	}

	result := &Result{
		Files:  make([]FileOutcome, 0, len(files)),
		OutDir: b.outDir,
		DryRun: opts.DryRun,
	}
	result.Stats.FilesDiscovered = len(files)

	logger.Debug("discovered files",
		logging.FieldFilesDiscovered, len(files),
		logging.FieldOutDir, b.outDir,
		logging.FieldDryRun, opts.DryRun)

	if len(files) > 0 {
		b.process(ctx, files, result)
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	if err := b.updateManifest(ctx, result); err != nil {
		result.Errors = append(result.Errors, err)
	}

	return result, nil
}

// process runs the worker pool over files and accumulates outcomes in
// file order.
func (b *build) process(ctx context.Context, files []string, result *Result) {
	jobs := b.opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	// Don't use more workers than files.
	if jobs > len(files) {
		jobs = len(files)
	}

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup

	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.worker(ctx, workCh, outCh)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Workers finish out of order.
	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}
}

// worker processes files from workCh and sends outcomes to outCh.
func (b *build) worker(ctx context.Context, workCh <-chan string, outCh chan<- FileOutcome) {
	for path := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := b.processFile(ctx, path)

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// processFile renders every block of one file and embeds links.
func (b *build) processFile(ctx context.Context, path string) FileOutcome {
	outcome := FileOutcome{Path: path, RelPath: relSlash(b.workDir, path)}
	ctx, logger := logging.WithFields(logging.WithLogger(ctx, b.logger), logging.FieldPath, outcome.RelPath)

	content, snap, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	blocks, err := b.runner.Extractor.Extract(ctx, content)
	if err != nil {
		outcome.Error = fmt.Errorf("extract %s: %w", outcome.RelPath, err)
		return outcome
	}

	links := make([]mdblock.Link, 0, len(blocks))
	for _, block := range blocks {
		blockOutcome, parsed := b.renderBlock(ctx, block)
		if ctx.Err() != nil {
			outcome.Error = fmt.Errorf("render %s: %w", outcome.RelPath, ctx.Err())
			return outcome
		}

		outcome.Blocks = append(outcome.Blocks, blockOutcome)
		if blockOutcome.Failed() {
			logger.Warn("block failed",
				logging.FieldLine, block.Line,
				logging.FieldError, blockOutcome.Error)
			continue
		}

		links = append(links, mdblock.Link{
			Block:  block,
			Alt:    AltText(b.opts.effectiveAltText(), parsed),
			Target: linkTarget(filepath.Dir(path), b.outDir, blockOutcome.Image),
		})
	}

	if !b.opts.Embed || len(links) == 0 {
		return outcome
	}

	embedded, err := mdblock.Embed(content, links)
	if err != nil {
		outcome.Error = fmt.Errorf("embed %s: %w", outcome.RelPath, err)
		return outcome
	}
	outcome.LinksInserted = embedded.Inserted
	outcome.LinksUpdated = embedded.Updated

	if !embedded.Changed() {
		return outcome
	}
	if b.opts.DryRun {
		outcome.Modified = true
		return outcome
	}

	backedUp, err := fsutil.CreateBackup(ctx, path, b.opts.Backups)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.BackupWritten = backedUp

	if err := snap.Replace(ctx, embedded.Content); err != nil {
		outcome.Error = fmt.Errorf("embed %s: %w", outcome.RelPath, err)
		return outcome
	}
	outcome.Modified = true

	logger.Debug("embedded image links",
		logging.FieldBlock, len(links),
		logging.FieldFilesModified, 1)

	return outcome
}

// renderBlock renders one block and writes its image.
func (b *build) renderBlock(ctx context.Context, block mdblock.Block) (BlockOutcome, notation.Notation) {
	ctx, logger := logging.WithFields(ctx, logging.FieldLine, block.Line)

	outcome := BlockOutcome{
		Index:  block.Index,
		Line:   block.Line,
		Source: block.Source,
	}

	res, err := b.runner.Renderer.Render(ctx, block.Source)
	if err != nil {
		outcome.Error = err
		return outcome, notation.Notation{}
	}

	var buf bytes.Buffer
	if err := render.EncodePNG(&buf, res.Image); err != nil {
		outcome.Error = err
		return outcome, res.Notation
	}

	outcome.Image = ImageName(b.opts.ImagePrefix, buf.Bytes())
	outcome.Width = res.Plan.Width
	outcome.Height = res.Plan.Height
	outcome.TextTokens = textTokens(res)

	if _, loaded := b.claimed.LoadOrStore(outcome.Image, struct{}{}); loaded {
		return outcome, res.Notation
	}

	imagePath := filepath.Join(b.outDir, outcome.Image)
	if b.opts.DryRun {
		_, statErr := os.Stat(imagePath)
		outcome.Written = errors.Is(statErr, fs.ErrNotExist)
		return outcome, res.Notation
	}

	written, err := fsutil.WriteOnce(ctx, imagePath, buf.Bytes(), 0)
	if err != nil {
		outcome.Error = fmt.Errorf("write image: %w", err)
		return outcome, res.Notation
	}
	outcome.Written = written

	if written {
		logger.Debug("wrote image",
			logging.FieldImage, outcome.Image,
			logging.FieldWidth, outcome.Width,
			logging.FieldHeight, outcome.Height)
	}

	return outcome, res.Notation
}

// updateManifest records this run's images and prunes stale ones.
func (b *build) updateManifest(ctx context.Context, result *Result) error {
	manifestPath := filepath.Join(b.outDir, manifest.FileName)

	prev, err := manifest.Load(manifestPath)
	if err != nil {
		b.logger.Warn("ignoring unreadable manifest", logging.FieldPath, manifestPath, logging.FieldError, err)
		prev = manifest.New()
	}

	next := prev.Clone()
	for _, f := range result.Files {
		if f.Error != nil {
			continue
		}

		images := f.Images()
		if hasFailedBlock(f) {
			// Keep the previous images of a partially failed file so a
			// transient failure does not prune them.
			images = append(images, prev.Files[f.RelPath]...)
		}
		next.Set(f.RelPath, images)
	}

	for file := range prev.Files {
		if _, err := os.Stat(filepath.Join(b.workDir, filepath.FromSlash(file))); errors.Is(err, fs.ErrNotExist) {
			next.Remove(file)
		}
	}

	stale := next.Stale(prev)
	next.SetOrphans(stale)

	if b.opts.Prune {
		pruned, err := manifest.Prune(b.outDir, stale, b.opts.DryRun)
		result.Pruned = pruned
		result.Stats.ImagesPruned = len(pruned)
		if err != nil {
			return err
		}
		for _, img := range pruned {
			b.logger.Debug("pruned image", logging.FieldImage, img, logging.FieldDryRun, b.opts.DryRun)
		}
		next.SetOrphans(nil)
	}

	if b.opts.DryRun || (len(next.Files) == 0 && len(next.Orphans) == 0 && len(prev.Files) == 0) {
		return nil
	}

	if err := next.Save(ctx, manifestPath); err != nil {
		return err
	}
	return nil
}

func hasFailedBlock(f FileOutcome) bool {
	for _, block := range f.Blocks {
		if block.Failed() {
			return true
		}
	}
	return false
}

func textTokens(res *render.Result) int {
	n := len(res.Report.Degraded)
	for _, tok := range res.Tokens {
		if tok.Kind == render.KindText {
			n++
		}
	}
	return n
}

// ImageName returns the content-addressed file name of an encoded image.
func ImageName(prefix string, png []byte) string {
	sum := sha256.Sum256(png)
	return prefix + hex.EncodeToString(sum[:])[:imageHashLen] + ".png"
}

// AltText fills the {name}, {notation} and {end} placeholders of template.
func AltText(template string, n notation.Notation) string {
	return strings.NewReplacer(
		"{name}", n.Name,
		"{notation}", strings.Join(n.Texts(), ", "),
		"{end}", n.EndText,
	).Replace(template)
}

// linkTarget returns the slash-separated path of image relative to the
// directory of the Markdown file.
func linkTarget(fileDir, outDir, image string) string {
	target := filepath.Join(outDir, image)
	if rel, err := filepath.Rel(fileDir, target); err == nil {
		target = rel
	}
	return filepath.ToSlash(target)
}

func relSlash(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
