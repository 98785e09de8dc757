package manifest_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/yaklabco/tekkenmd/pkg/manifest"
)

func TestSaveLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", manifest.FileName)

	m := manifest.New()
	m.Set("docs/jin.md", []string{"tekken-b.png", "tekken-a.png", "tekken-a.png"})
	m.Set("docs/kazuya.md", []string{"tekken-c.png"})
	require.NoError(t, m.Save(context.Background(), path))

	loaded, err := manifest.Load(path)
	require.NoError(t, err)
	assert.Equal(t, manifest.SchemaVersion, loaded.Schema)
	assert.Equal(t, []string{"tekken-a.png", "tekken-b.png"}, loaded.Files["docs/jin.md"])
	assert.Equal(t, []string{"tekken-a.png", "tekken-b.png", "tekken-c.png"}, loaded.Images())
}

func TestLoad_Missing(t *testing.T) {
	t.Parallel()

	m, err := manifest.Load(filepath.Join(t.TempDir(), manifest.FileName))
	require.NoError(t, err)
	assert.Empty(t, m.Files)
}

func TestLoad_Corrupt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), manifest.FileName)
	require.NoError(t, os.WriteFile(path, []byte{0xc1}, 0o600))

	_, err := manifest.Load(path)
	require.Error(t, err)
}

func TestDecode_OtherSchemaIsDiscarded(t *testing.T) {
	t.Parallel()

	data, err := msgpack.Marshal(&manifest.Manifest{
		Schema: manifest.SchemaVersion + 1,
		Files:  map[string][]string{"a.md": {"x.png"}},
	})
	require.NoError(t, err)

	m, err := manifest.Decode(data)
	require.NoError(t, err)
	assert.Empty(t, m.Files)
}

func TestEncode_IsDeterministic(t *testing.T) {
	t.Parallel()

	m := manifest.New()
	for _, f := range []string{"c.md", "a.md", "b.md"} {
		m.Set(f, []string{f + ".png"})
	}

	first, err := m.Encode()
	require.NoError(t, err)
	second, err := m.Clone().Encode()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestStale(t *testing.T) {
	t.Parallel()

	prev := manifest.New()
	prev.Set("a.md", []string{"1.png", "shared.png"})
	prev.Set("b.md", []string{"2.png", "shared.png"})

	next := prev.Clone()
	next.Set("a.md", []string{"3.png"})
	next.Remove("gone.md")

	assert.Equal(t, []string{"1.png"}, next.Stale(prev))

	next.Set("b.md", nil)
	assert.Equal(t, []string{"1.png", "2.png", "shared.png"}, next.Stale(prev))
}

func TestPrune(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"old.png", "keep.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}
	outside := filepath.Join(filepath.Dir(dir), "outside.png")

	images := []string{"old.png", "missing.png", "../outside.png"}

	removed, err := manifest.Prune(dir, images, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.png"}, removed)
	assert.FileExists(t, filepath.Join(dir, "old.png"))

	removed, err = manifest.Prune(dir, images, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.png"}, removed)
	assert.NoFileExists(t, filepath.Join(dir, "old.png"))
	assert.FileExists(t, filepath.Join(dir, "keep.png"))
	assert.NoFileExists(t, outside)
}

func TestStale_IncludesOrphans(t *testing.T) {
	t.Parallel()

	prev := manifest.New()
	prev.Set("a.md", []string{"tekken-a.png", "tekken-b.png"})
	prev.SetOrphans([]string{"tekken-old.png", "tekken-a.png", "tekken-old.png"})
	assert.Equal(t, []string{"tekken-a.png", "tekken-old.png"}, prev.Orphans)

	next := prev.Clone()
	next.Set("a.md", []string{"tekken-a.png"})

	assert.Equal(t, []string{"tekken-b.png", "tekken-old.png"}, next.Stale(prev))

	next.SetOrphans(nil)
	assert.Nil(t, next.Orphans)
	assert.Len(t, prev.Orphans, 2, "clone does not share orphans")
}

func TestOrphans_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), manifest.FileName)

	m := manifest.New()
	m.SetOrphans([]string{"tekken-x.png"})
	require.NoError(t, m.Save(context.Background(), path))

	loaded, err := manifest.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"tekken-x.png"}, loaded.Orphans)
	assert.Empty(t, loaded.Images())
}
