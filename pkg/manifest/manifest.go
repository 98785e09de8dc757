// Package manifest records which images each Markdown file produced, so that
// images no longer referenced by any file can be pruned.
package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/yaklabco/tekkenmd/pkg/fsutil"
)

// FileName is the manifest's name inside the output directory.
const FileName = ".tekkenmd-manifest.mp"

// SchemaVersion is bumped whenever the encoded layout changes. A manifest
// with another version is discarded on load.
const SchemaVersion uint16 = 1

// Manifest maps Markdown files to the image files generated for them.
// Keys are slash-separated paths relative to the build root; image names are
// relative to the output directory. Orphans are images that lost their last
// reference without being pruned. A Manifest is not safe for concurrent
// mutation.
type Manifest struct {
	Schema  uint16              `msgpack:"schema"`
	Files   map[string][]string `msgpack:"files"`
	Orphans []string            `msgpack:"orphans,omitempty"`
}

// New returns an empty manifest.
func New() *Manifest {
	return &Manifest{Schema: SchemaVersion, Files: make(map[string][]string)}
}

// Load reads the manifest at path. A missing file or one written with a
// different schema yields an empty manifest.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(), nil
		}
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	m, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// Decode parses an encoded manifest.
func Decode(data []byte) (*Manifest, error) {
	var m Manifest
	if err := msgpack.NewDecoder(bytes.NewReader(data)).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if m.Schema != SchemaVersion {
		return New(), nil
	}
	if m.Files == nil {
		m.Files = make(map[string][]string)
	}
	return &m, nil
}

// Encode serializes the manifest.
func (m *Manifest) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the manifest atomically.
func (m *Manifest) Save(ctx context.Context, path string) error {
	data, err := m.Encode()
	if err != nil {
		return err
	}
	if _, err := fsutil.WriteAtomicIfChanged(ctx, path, data, 0); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}
	return nil
}

// Set records the images of one Markdown file, replacing earlier entries.
// A file without images is removed.
func (m *Manifest) Set(file string, images []string) {
	if len(images) == 0 {
		delete(m.Files, file)
		return
	}

	sorted := slices.Clone(images)
	sort.Strings(sorted)
	m.Files[file] = slices.Compact(sorted)
}

// Remove drops the entry of a Markdown file.
func (m *Manifest) Remove(file string) {
	delete(m.Files, file)
}

// Images returns every image referenced by any file, sorted.
func (m *Manifest) Images() []string {
	set := make(map[string]struct{})
	for _, images := range m.Files {
		for _, img := range images {
			set[img] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for img := range set {
		out = append(out, img)
	}
	sort.Strings(out)
	return out
}

// Clone returns a deep copy.
func (m *Manifest) Clone() *Manifest {
	out := New()
	for file, images := range m.Files {
		out.Files[file] = slices.Clone(images)
	}
	out.Orphans = slices.Clone(m.Orphans)
	return out
}

// Stale returns the images of prev, orphans included, that m no longer
// references, sorted.
func (m *Manifest) Stale(prev *Manifest) []string {
	current := make(map[string]struct{})
	for _, img := range m.Images() {
		current[img] = struct{}{}
	}

	candidates := append(prev.Images(), prev.Orphans...)
	sort.Strings(candidates)

	var stale []string
	for _, img := range slices.Compact(candidates) {
		if _, ok := current[img]; !ok {
			stale = append(stale, img)
		}
	}
	return stale
}

// SetOrphans records images kept on disk without any reference.
func (m *Manifest) SetOrphans(images []string) {
	if len(images) == 0 {
		m.Orphans = nil
		return
	}

	sorted := slices.Clone(images)
	sort.Strings(sorted)
	m.Orphans = slices.Compact(sorted)
}

// Prune deletes the named images from dir and returns those that existed.
// Names escaping dir are skipped. With dryRun set nothing is deleted and
// the images that would be removed are returned.
func Prune(dir string, images []string, dryRun bool) ([]string, error) {
	var removed []string

	for _, img := range images {
		if !filepath.IsLocal(filepath.FromSlash(img)) {
			continue
		}
		path := filepath.Join(dir, filepath.FromSlash(img))

		if dryRun {
			if _, err := os.Stat(path); err == nil {
				removed = append(removed, img)
			}
			continue
		}

		ok, err := fsutil.RemoveIfExists(path)
		if err != nil {
			return removed, fmt.Errorf("prune: %w", err)
		}
		if ok {
			removed = append(removed, img)
		}
	}

	return removed, nil
}
