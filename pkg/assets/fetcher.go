// Package assets provides the byte-level icon asset fetch capability used by
// the renderer. Assets are addressed by logical slash-separated paths such as
// "attack-buttons/1+2.png" or "background/start.png".
package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
)

// Background segment paths.
const (
	BackgroundStart  = "background/start.png"
	BackgroundMiddle = "background/middle.png"
	BackgroundEnd    = "background/end.png"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrNotFound indicates the asset does not exist in the store.
	ErrNotFound = errors.New("asset not found")

	// ErrInvalidPath indicates the logical path is not a clean relative path.
	ErrInvalidPath = errors.New("invalid asset path")
)

// Fetcher loads raw asset bytes by logical path.
// Implementations must be safe for concurrent use.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, path string) ([]byte, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, path string) ([]byte, error) {
	return f(ctx, path)
}

// FSFetcher reads assets from an fs.FS.
type FSFetcher struct {
	fsys fs.FS
}

// NewFSFetcher creates a fetcher backed by fsys.
func NewFSFetcher(fsys fs.FS) *FSFetcher {
	return &FSFetcher{fsys: fsys}
}

// NewDirFetcher creates a fetcher reading from the directory dir.
func NewDirFetcher(dir string) *FSFetcher {
	return NewFSFetcher(os.DirFS(dir))
}

// Fetch implements Fetcher.
func (f *FSFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("fetch %s: %w", name, ctx.Err())
	default:
	}

	clean, err := CleanPath(name)
	if err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(f.fsys, clean)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, clean)
		}
		return nil, fmt.Errorf("read asset %s: %w", clean, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrNotFound, clean)
	}

	return data, nil
}

// CleanPath validates a logical asset path and returns it in canonical form.
// Leading slashes are dropped; paths escaping the store root are rejected.
func CleanPath(name string) (string, error) {
	trimmed := strings.TrimLeft(name, "/")
	if trimmed == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}

	clean := path.Clean(trimmed)
	if !fs.ValidPath(clean) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}

	return clean, nil
}

// Missing is a Fetcher that never finds anything.
// Rendering against it produces text fallbacks on a plain background.
//
//nolint:gochecknoglobals // Stateless sentinel fetcher.
var Missing Fetcher = FetcherFunc(func(_ context.Context, name string) ([]byte, error) {
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
})
