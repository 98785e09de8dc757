package cli_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/tekkenmd/internal/cli"
	"github.com/yaklabco/tekkenmd/pkg/mdblock"
)

const comboDoc = "# Jin\n\n```tekken\n\"Jin\", 1+2, d, df, 2\n```\n"

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// newProject creates a directory with an icon asset tree, an empty
// project config and the given Markdown files.
func newProject(t *testing.T, docs map[string]string) string {
	t.Helper()

	dir := t.TempDir()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{G: 0xff, A: 0xff}}, image.Point{}, draw.Src)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	for _, name := range []string{
		"background/start.png", "background/middle.png", "background/end.png",
		"attack-buttons/1.png", "attack-buttons/2.png", "attack-buttons/1+2.png",
		"press-direction/d.png", "press-direction/df.png", "press-direction/f.png",
	} {
		path := filepath.Join(dir, "assets", filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tekkenmd.yml"), []byte("out_dir: images\n"), 0o644))

	for name, content := range docs {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	return dir
}

// execute runs the root command with args and returns stdout, stderr and
// the command error.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo())

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func pngFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*.png"))
	require.NoError(t, err)
	return matches
}

func TestIntegration_BuildEmbed(t *testing.T) {
	t.Parallel()

	dir := newProject(t, map[string]string{"docs/jin.md": comboDoc})

	stdout, _, err := execute(t, "", "build", "-C", dir, "--color", "never", "--embed")
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 block rendered in 1 file, 1 image written, 1 file updated")

	images := pngFiles(t, filepath.Join(dir, "images"))
	require.Len(t, images, 1)

	content, err := os.ReadFile(filepath.Join(dir, "docs", "jin.md"))
	require.NoError(t, err)
	want := "![1+2, d, df, 2](../images/" + filepath.Base(images[0]) + ") " + mdblock.Marker
	assert.Contains(t, string(content), want)

	// A second build leaves everything in place.
	stdout, _, err = execute(t, "", "build", "-C", dir, "--color", "never", "--embed")
	require.NoError(t, err)
	assert.Contains(t, stdout, "0 images written")
	assert.NotContains(t, stdout, "updated")
}

func TestIntegration_BuildJSON(t *testing.T) {
	t.Parallel()

	dir := newProject(t, map[string]string{
		"a.md": comboDoc,
		"b.md": "no blocks\n",
	})

	stdout, _, err := execute(t, "", "build", "-C", dir, "--format", "json", "--dry-run")
	require.NoError(t, err)

	var report struct {
		DryRun bool `json:"dry_run"`
		Files  []struct {
			Path   string `json:"path"`
			Blocks []struct {
				Line   int    `json:"line"`
				Image  string `json:"image"`
				Height int    `json:"height"`
			} `json:"blocks"`
		} `json:"files"`
		Summary struct {
			FilesProcessed int `json:"files_processed"`
			BlocksRendered int `json:"blocks_rendered"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))

	assert.True(t, report.DryRun)
	assert.Equal(t, 2, report.Summary.FilesProcessed)
	assert.Equal(t, 1, report.Summary.BlocksRendered)
	require.Len(t, report.Files, 2)
	assert.Equal(t, "a.md", report.Files[0].Path)
	require.Len(t, report.Files[0].Blocks, 1)
	assert.Equal(t, 3, report.Files[0].Blocks[0].Line)
	assert.Equal(t, 121, report.Files[0].Blocks[0].Height)

	assert.NoDirExists(t, filepath.Join(dir, "images"), "dry run writes nothing")
}

func TestIntegration_BuildFailuresExitCode(t *testing.T) {
	t.Parallel()

	// Too many tokens for the largest allowed surface.
	huge := "```tekken\n" + strings.Repeat("1, ", 400) + "2\n```\n"
	dir := newProject(t, map[string]string{"huge.md": huge, "ok.md": comboDoc})

	stdout, _, err := execute(t, "", "build", "-C", dir, "--color", "never")
	require.ErrorIs(t, err, cli.ErrBuildFailures)
	assert.Equal(t, cli.ExitBuildFailures, cli.ExitCode(err))
	assert.Contains(t, stdout, "huge.md:1  error")
	assert.Contains(t, stdout, "1 failed")
	assert.Len(t, pngFiles(t, filepath.Join(dir, "images")), 1)
}

func TestIntegration_BuildOutDirFlag(t *testing.T) {
	t.Parallel()

	dir := newProject(t, map[string]string{"jin.md": comboDoc})

	_, _, err := execute(t, "", "build", "-C", dir, "--out-dir", "static/img")
	require.NoError(t, err)
	assert.Len(t, pngFiles(t, filepath.Join(dir, "static", "img")), 1)
}

func TestIntegration_BuildMissingPath(t *testing.T) {
	t.Parallel()

	dir := newProject(t, nil)

	_, _, err := execute(t, "", "build", "-C", dir, "missing.md")
	require.Error(t, err)
	assert.Equal(t, cli.ExitIOError, cli.ExitCode(err))
}

func TestIntegration_BuildInvalidConfig(t *testing.T) {
	t.Parallel()

	dir := newProject(t, nil)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tekkenmd.yml"), []byte("backups:\n  mode: cloud\n"), 0o644))

	_, _, err := execute(t, "", "build", "-C", dir)
	require.Error(t, err)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCode(err))
}

func TestIntegration_UnknownFlag(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "", "build", "--no-such-flag")
	require.ErrorIs(t, err, cli.ErrUsage)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}

func TestIntegration_BuildInvalidFormat(t *testing.T) {
	t.Parallel()

	dir := newProject(t, nil)

	_, _, err := execute(t, "", "build", "-C", dir, "--format", "sarif")
	require.ErrorIs(t, err, cli.ErrUsage)
}

func TestIntegration_RenderToFile(t *testing.T) {
	t.Parallel()

	dir := newProject(t, nil)

	_, _, err := execute(t, "", "render", "-C", dir, `"Jin", 1+2, d`, "-o", "out/jin.png")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out", "jin.png"))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 121, img.Bounds().Dy())
}

func TestIntegration_RenderToStdout(t *testing.T) {
	t.Parallel()

	dir := newProject(t, nil)

	stdout, _, err := execute(t, "", "render", "-C", dir, "1, 2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, string(pngSignature)))

	img, err := png.Decode(strings.NewReader(stdout))
	require.NoError(t, err)
	assert.Equal(t, 110+2*50+10, img.Bounds().Dx())
}

func TestIntegration_RenderFromStdin(t *testing.T) {
	t.Parallel()

	dir := newProject(t, nil)

	expanded, _, err := execute(t, "qcf, 1\n", "render", "-C", dir)
	require.NoError(t, err)
	expandedImg, err := png.Decode(strings.NewReader(expanded))
	require.NoError(t, err)
	assert.Equal(t, 110+4*50+10, expandedImg.Bounds().Dx(), "qcf expands to three directions")

	literal, _, err := execute(t, "qcf, 1\n", "render", "-C", dir, "--no-expand", "-")
	require.NoError(t, err)
	literalImg, err := png.Decode(strings.NewReader(literal))
	require.NoError(t, err)
	assert.Less(t, literalImg.Bounds().Dx(), expandedImg.Bounds().Dx())
}

func TestIntegration_RenderEmptyNotation(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "   \n", "render")
	require.ErrorIs(t, err, cli.ErrUsage)
}

func TestIntegration_RenderTooManyArgs(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "", "render", "1", "2")
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, _, err := execute(t, "", "init", "-C", dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, ".tekkenmd.yml"))

	_, _, err = execute(t, "", "init", "-C", dir)
	require.ErrorIs(t, err, cli.ErrUsage, "existing file is kept without --force")

	_, _, err = execute(t, "", "init", "-C", dir, "--force", "--full")
	require.NoError(t, err)

	_, _, err = execute(t, "", "init", "-C", dir, "--format", "toml")
	require.NoError(t, err)
	content, err := os.ReadFile(filepath.Join(dir, ".tekkenmd.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "fence_language")

	_, _, err = execute(t, "", "init", "-C", dir, "--format", "json")
	require.ErrorIs(t, err, cli.ErrUsage)
}

func TestIntegration_InitThenBuild(t *testing.T) {
	t.Parallel()

	dir := newProject(t, map[string]string{"jin.md": comboDoc})
	require.NoError(t, os.Remove(filepath.Join(dir, ".tekkenmd.yml")))

	_, _, err := execute(t, "", "init", "-C", dir, "--full")
	require.NoError(t, err)

	_, _, err = execute(t, "", "build", "-C", dir)
	require.NoError(t, err)
	assert.Len(t, pngFiles(t, filepath.Join(dir, "images")), 1)
}
