package util

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCache(t *testing.T) FileCache {
	t.Helper()
	fc := NewFileCache(slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { fc.Close() })
	return fc
}

func TestFileCacheRead(t *testing.T) {
	fc := testCache(t)

	path := filepath.Join(t.TempDir(), "a.js")
	require.NoError(t, os.WriteFile(path, []byte("import x from 'm';\n"), 0o644))

	data, err := fc.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "import x from 'm';\n", string(data))
}

func TestFileCacheHitOnSecondRead(t *testing.T) {
	fc := testCache(t)

	path := filepath.Join(t.TempDir(), "a.js")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := fc.Read(path)
	require.NoError(t, err)
	_, err = fc.Read(path)
	require.NoError(t, err)

	stats := fc.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.FilesCached)
}

func TestFileCacheEmptyFile(t *testing.T) {
	fc := testCache(t)

	path := filepath.Join(t.TempDir(), "empty.js")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	data, err := fc.Read(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestFileCacheMissingFile(t *testing.T) {
	fc := testCache(t)

	_, err := fc.Read(filepath.Join(t.TempDir(), "nope.js"))
	assert.Error(t, err)
}

func TestFileCacheEvict(t *testing.T) {
	fc := testCache(t)

	path := filepath.Join(t.TempDir(), "a.js")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	data, err := fc.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	fc.Evict(path)
	require.NoError(t, os.WriteFile(path, []byte("new"), 0o644))

	data, err = fc.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestFileCacheConcurrentReads(t *testing.T) {
	fc := testCache(t)

	dir := t.TempDir()
	paths := make([]string, 8)
	for i := range paths {
		paths[i] = filepath.Join(dir, string(rune('a'+i))+".js")
		require.NoError(t, os.WriteFile(paths[i], []byte("content"), 0o644))
	}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			data, err := fc.Read(paths[i%len(paths)])
			assert.NoError(t, err)
			assert.Equal(t, "content", string(data))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8, fc.Stats().FilesCached)
}

func TestFileCacheCloseClears(t *testing.T) {
	fc := testCache(t)

	path := filepath.Join(t.TempDir(), "a.js")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	_, err := fc.Read(path)
	require.NoError(t, err)

	require.NoError(t, fc.Close())
	assert.Equal(t, 0, fc.Stats().FilesCached)
}
