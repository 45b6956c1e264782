// Package transformer runs the full conversion pipeline: read source, parse
// it to a syntax tree, rewrite module syntax into a loader call, print the
// result. File-level results are memoized in an LRU cache keyed by path,
// size and modification time, so watch mode and repeated MCP calls skip
// unchanged files.
package transformer

import (
	"fmt"
	"log/slog"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"

	"amdify/pkg/convert"
	"amdify/pkg/parser"
	"amdify/pkg/printer"
	"amdify/pkg/util"
)

const defaultCacheSize = 1024

// Options configures a Transformer. Zero values get defaults.
type Options struct {
	Logger    *slog.Logger
	CacheSize int
}

type cacheKey struct {
	path    string
	size    int64
	modTime int64
}

// Transformer converts ESM source to loader-call form. Safe for concurrent
// use; Close releases the underlying parsers and mapped files.
type Transformer struct {
	parsers *parser.Manager
	files   util.FileCache
	cache   *lru.Cache[cacheKey, string]
	logger  *slog.Logger
}

func New(opts Options) (*Transformer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	size := opts.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[cacheKey, string](size)
	if err != nil {
		return nil, fmt.Errorf("create result cache: %w", err)
	}
	return &Transformer{
		parsers: parser.NewManager(logger),
		files:   util.NewFileCache(logger),
		cache:   cache,
		logger:  logger,
	}, nil
}

// TransformSource converts source text and returns the printed result.
func (t *Transformer) TransformSource(source []byte, lang parser.Language, tsx bool) (string, error) {
	program, err := t.parsers.Parse(source, lang, tsx)
	if err != nil {
		return "", fmt.Errorf("parse: %w", err)
	}
	convert.Convert(program)
	return printer.Print(program), nil
}

// TransformFile converts the file at path. Results are cached until the
// file's size or mtime changes.
func (t *Transformer) TransformFile(path string) (string, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	key := cacheKey{path: path, size: stat.Size(), modTime: stat.ModTime().UnixNano()}
	if out, ok := t.cache.Get(key); ok {
		t.logger.Debug("cache hit", "path", path)
		return out, nil
	}

	source, err := t.files.Read(path)
	if err != nil {
		return "", err
	}
	program, err := t.parsers.ParseFile(source, path)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", path, err)
	}
	convert.Convert(program)
	out := printer.Print(program)

	t.cache.Add(key, out)
	return out, nil
}

// Dependencies parses source and reports the loader dependencies its import
// declarations resolve to, without converting.
func (t *Transformer) Dependencies(source []byte, lang parser.Language, tsx bool) ([]convert.Dependency, error) {
	program, err := t.parsers.Parse(source, lang, tsx)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return convert.Dependencies(program), nil
}

// Invalidate drops cached state for a path. The next TransformFile rereads
// the file from disk.
func (t *Transformer) Invalidate(path string) {
	t.files.Evict(path)
	for _, key := range t.cache.Keys() {
		if key.path == path {
			t.cache.Remove(key)
		}
	}
}

// Close releases parser pools and unmaps cached files.
func (t *Transformer) Close() {
	t.parsers.Close()
	if err := t.files.Close(); err != nil {
		t.logger.Warn("closing file cache", "error", err)
	}
}
