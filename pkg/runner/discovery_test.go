package runner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"

	"github.com/yaklabco/tekkenmd/pkg/runner"
)

func writeTree(t *testing.T, dir string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(dir, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("setup mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("# notes\n"), 0o644); err != nil {
			t.Fatalf("setup write: %v", err)
		}
	}
}

func relAll(t *testing.T, dir string, files []string) []string {
	t.Helper()
	out := make([]string, len(files))
	for i, f := range files {
		rel, err := filepath.Rel(dir, f)
		if err != nil {
			t.Fatalf("rel: %v", err)
		}
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func TestDiscover_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "jin.md")
	mdFile := filepath.Join(dir, "jin.md")

	files, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{mdFile},
		WorkingDir: dir,
	})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if len(files) != 1 || files[0] != mdFile {
		t.Fatalf("expected [%s], got %v", mdFile, files)
	}
}

func TestDiscover_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir,
		"readme.md",
		"characters/jin.md",
		"characters/kazuya.markdown",
		"src/main.go",
		"notes.txt",
	)

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	want := []string{"characters/jin.md", "characters/kazuya.markdown", "readme.md"}
	if got := relAll(t, dir, files); !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDiscover_SkipsHiddenAndVendored(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir,
		"guide.md",
		".hidden.md",
		".obsidian/notes.md",
		"node_modules/pkg/readme.md",
		"vendor/lib/readme.md",
	)

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if got := relAll(t, dir, files); !slices.Equal(got, []string{"guide.md"}) {
		t.Errorf("got %v, want only guide.md", got)
	}

	files, err = runner.Discover(context.Background(), runner.Options{WorkingDir: dir, IncludeVendored: true})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	want := []string{"guide.md", "node_modules/pkg/readme.md", "vendor/lib/readme.md"}
	if got := relAll(t, dir, files); !slices.Equal(got, want) {
		t.Errorf("with vendored: got %v, want %v", got, want)
	}
}

func TestDiscover_Globs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir,
		"guide.md",
		"drafts/wip.md",
		"characters/jin.md",
		"characters/jin.draft.md",
		"characters/old/heihachi.md",
	)

	tests := []struct {
		name    string
		include []string
		exclude []string
		want    []string
	}{
		{
			name:    "exclude directory",
			exclude: []string{"drafts/**"},
			want:    []string{"characters/jin.draft.md", "characters/jin.md", "characters/old/heihachi.md", "guide.md"},
		},
		{
			name:    "exclude base name anywhere",
			exclude: []string{"*.draft.md"},
			want:    []string{"characters/jin.md", "characters/old/heihachi.md", "drafts/wip.md", "guide.md"},
		},
		{
			name:    "exclude nested with double star",
			exclude: []string{"**/old/**"},
			want:    []string{"characters/jin.draft.md", "characters/jin.md", "drafts/wip.md", "guide.md"},
		},
		{
			name:    "include only",
			include: []string{"characters/*.md"},
			want:    []string{"characters/jin.draft.md", "characters/jin.md"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			files, err := runner.Discover(context.Background(), runner.Options{
				WorkingDir:   dir,
				IncludeGlobs: tt.include,
				ExcludeGlobs: tt.exclude,
			})
			if err != nil {
				t.Fatalf("Discover() error = %v", err)
			}
			if got := relAll(t, dir, files); !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDiscover_CustomExtensions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "a.md", "b.mdx")

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: dir,
		Extensions: []string{".MDX"},
	})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if got := relAll(t, dir, files); !slices.Equal(got, []string{"b.mdx"}) {
		t.Errorf("got %v", got)
	}
}

func TestDiscover_DeduplicatesOverlappingPaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "docs/a.md", "docs/b.md")

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: dir,
		Paths:      []string{"docs", "docs/a.md", "."},
	})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(files) != 2 {
		t.Errorf("expected 2 files, got %v", files)
	}
}

func TestDiscover_NonExistentPath(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: t.TempDir(),
		Paths:      []string{"missing"},
	})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestDiscover_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Discover(ctx, runner.Options{WorkingDir: t.TempDir()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestDiscover_DirectorySymlinks(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}

	dir := t.TempDir()
	target := t.TempDir()
	writeTree(t, dir, "a.md")
	writeTree(t, target, "linked.md")

	if err := os.Symlink(target, filepath.Join(dir, "shared")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(files) != 1 {
		t.Errorf("directory symlinks are not followed by default, got %v", files)
	}

	files, err = runner.Discover(context.Background(), runner.Options{WorkingDir: dir, FollowSymlinks: true})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(files) != 2 {
		t.Errorf("expected linked file with FollowSymlinks, got %v", files)
	}
}

func TestDefaultExtensions(t *testing.T) {
	t.Parallel()

	if got := runner.DefaultExtensions(); !slices.Equal(got, []string{".md", ".markdown"}) {
		t.Errorf("DefaultExtensions() = %v", got)
	}
}
