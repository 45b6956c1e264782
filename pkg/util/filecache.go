// Source files are read through a memory-mapped cache so repeated
// conversions of the same file (watch mode, MCP calls) skip the read
// syscall path. Files that cannot be mapped fall back to os.ReadFile.
package util

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/edsrzf/mmap-go"
)

// FileCache provides read access to source files backed by mmap. Safe for
// concurrent use. Close must be called to unmap cached files; the byte
// slices returned by Read are invalid afterwards.
type FileCache interface {
	// Read returns the file contents. The slice may alias mapped memory
	// and must not be modified or retained past Close.
	Read(path string) ([]byte, error)

	// Evict drops a cached file, unmapping it. Used when the watcher sees
	// a file change on disk.
	Evict(path string)

	// Stats returns hit and miss counters.
	Stats() FileCacheStats

	Close() error
}

// FileCacheStats tracks cache effectiveness.
type FileCacheStats struct {
	Hits         int64
	Misses       int64
	MmapFailures int64
	FilesCached  int
}

type mappedFile struct {
	data mmap.MMap
	file *os.File
}

func (m *mappedFile) close() error {
	var err error
	if m.data != nil {
		err = m.data.Unmap()
	}
	if m.file != nil {
		if cerr := m.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

type fileCache struct {
	mu       sync.RWMutex
	mapped   map[string]*mappedFile
	fallback map[string][]byte

	statsMu sync.Mutex
	stats   FileCacheStats

	logger *slog.Logger
}

// NewFileCache creates an empty cache logging through logger (slog.Default
// when nil).
func NewFileCache(logger *slog.Logger) FileCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &fileCache{
		mapped:   make(map[string]*mappedFile),
		fallback: make(map[string][]byte),
		logger:   logger,
	}
}

func (fc *fileCache) Read(path string) ([]byte, error) {
	fc.mu.RLock()
	if mf, ok := fc.mapped[path]; ok {
		fc.mu.RUnlock()
		fc.hit()
		return mf.data, nil
	}
	if data, ok := fc.fallback[path]; ok {
		fc.mu.RUnlock()
		fc.hit()
		return data, nil
	}
	fc.mu.RUnlock()

	fc.mu.Lock()
	defer fc.mu.Unlock()

	// Another goroutine may have loaded it while we waited.
	if mf, ok := fc.mapped[path]; ok {
		fc.hit()
		return mf.data, nil
	}
	if data, ok := fc.fallback[path]; ok {
		fc.hit()
		return data, nil
	}
	fc.miss()

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	// Zero-length files cannot be mapped.
	if stat.Size() == 0 {
		file.Close()
		fc.fallback[path] = []byte{}
		return []byte{}, nil
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		file.Close()
		fc.mmapFailure()
		fc.logger.Debug("mmap failed, reading whole file", "path", path, "error", err)

		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("read %s: %w", path, readErr)
		}
		fc.fallback[path] = raw
		return raw, nil
	}

	fc.mapped[path] = &mappedFile{data: data, file: file}
	return data, nil
}

func (fc *fileCache) Evict(path string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if mf, ok := fc.mapped[path]; ok {
		if err := mf.close(); err != nil {
			fc.logger.Warn("failed to unmap file", "path", path, "error", err)
		}
		delete(fc.mapped, path)
	}
	delete(fc.fallback, path)
}

func (fc *fileCache) Stats() FileCacheStats {
	fc.mu.RLock()
	cached := len(fc.mapped) + len(fc.fallback)
	fc.mu.RUnlock()

	fc.statsMu.Lock()
	defer fc.statsMu.Unlock()
	stats := fc.stats
	stats.FilesCached = cached
	return stats
}

func (fc *fileCache) Close() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	var firstErr error
	for path, mf := range fc.mapped {
		if err := mf.close(); err != nil {
			fc.logger.Warn("failed to unmap file", "path", path, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("unmap %s: %w", path, err)
			}
		}
	}
	fc.mapped = make(map[string]*mappedFile)
	fc.fallback = make(map[string][]byte)
	return firstErr
}

func (fc *fileCache) hit() {
	fc.statsMu.Lock()
	fc.stats.Hits++
	fc.statsMu.Unlock()
}

func (fc *fileCache) miss() {
	fc.statsMu.Lock()
	fc.stats.Misses++
	fc.statsMu.Unlock()
}

func (fc *fileCache) mmapFailure() {
	fc.statsMu.Lock()
	fc.stats.MmapFailures++
	fc.statsMu.Unlock()
}
