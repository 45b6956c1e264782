// Package parser turns JavaScript and TypeScript source text into the syntax
// tree the converter operates on. Tree-sitter does the text-to-CST work; the
// builder in this package lifts the CST into ast nodes.
package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	tsjavascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tstypescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"amdify/pkg/ast"
	"amdify/pkg/util"
)

type poolKey struct {
	lang Language
	tsx  bool
}

// Manager owns per-grammar parser pools, created lazily on first use. It is
// safe for concurrent use; up to pool-size goroutines can parse the same
// grammar simultaneously. Close must be called to free parser resources.
type Manager struct {
	mu     sync.RWMutex
	pools  map[poolKey]*pool
	logger *slog.Logger
}

// NewManager returns a Manager logging through logger (slog.Default when
// nil).
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		pools:  make(map[poolKey]*pool),
		logger: logger,
	}
}

// Parse parses source with the given grammar and lifts the result into an
// ast.Program. tsx selects the TSX variant and only matters for TypeScript.
//
// A source with syntax errors still produces a tree; the unparseable parts
// surface as Raw nodes.
func (m *Manager) Parse(source []byte, lang Language, tsx bool) (*ast.Program, error) {
	tree, err := m.parseTree(source, lang, tsx)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		m.logger.Warn("source contains parse errors", "language", lang.String())
	}
	return buildProgram(root, source), nil
}

// ParseFile parses source using the grammar its path implies.
func (m *Manager) ParseFile(source []byte, path string) (*ast.Program, error) {
	lang := DetectLanguage(path)
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("unsupported file extension: %s", path)
	}
	return m.Parse(source, lang, IsTSX(path))
}

// Close frees every pooled parser. The Manager cannot be used afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.pools {
		p.close()
	}
	m.pools = make(map[poolKey]*pool)
}

func (m *Manager) parseTree(source []byte, lang Language, tsx bool) (*ts.Tree, error) {
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("cannot parse unknown language")
	}

	p, err := m.poolFor(lang, tsx)
	if err != nil {
		return nil, err
	}
	parser, err := p.acquire()
	if err != nil {
		return nil, fmt.Errorf("acquire parser: %w", err)
	}
	tree := parser.Parse(source, nil)
	p.release(parser)

	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned no tree")
	}
	return tree, nil
}

// poolFor returns the pool for a grammar, creating it on first use with
// double-checked locking.
func (m *Manager) poolFor(lang Language, tsx bool) (*pool, error) {
	key := poolKey{lang: lang, tsx: tsx}

	m.mu.RLock()
	p, ok := m.pools[key]
	m.mu.RUnlock()
	if ok {
		return p, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok = m.pools[key]; ok {
		return p, nil
	}

	ptr, err := grammar(lang, tsx)
	if err != nil {
		return nil, err
	}
	p = newPool(ptr, util.PoolSize(), m.logger)
	m.pools[key] = p
	m.logger.Debug("created parser pool", "language", lang.String(), "tsx", tsx)
	return p, nil
}

func grammar(lang Language, tsx bool) (unsafe.Pointer, error) {
	switch lang {
	case LanguageJavaScript:
		return tsjavascript.Language(), nil
	case LanguageTypeScript:
		if tsx {
			return tstypescript.LanguageTSX(), nil
		}
		return tstypescript.LanguageTypescript(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang.String())
	}
}
