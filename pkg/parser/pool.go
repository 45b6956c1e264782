package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// pool holds reusable tree-sitter parsers for one grammar. Parsers are
// created lazily up to max; acquire blocks when all are in use. Channel
// operations make acquire/release safe for concurrent callers.
type pool struct {
	free    chan *ts.Parser
	langPtr unsafe.Pointer
	max     int

	mu      sync.Mutex
	created int
	closed  bool

	logger *slog.Logger
}

func newPool(langPtr unsafe.Pointer, max int, logger *slog.Logger) *pool {
	return &pool{
		free:    make(chan *ts.Parser, max),
		langPtr: langPtr,
		max:     max,
		logger:  logger,
	}
}

func (p *pool) acquire() (*ts.Parser, error) {
	select {
	case parser := <-p.free:
		return parser, nil
	default:
	}

	p.mu.Lock()
	if p.created < p.max {
		defer p.mu.Unlock()
		parser := ts.NewParser()
		if parser == nil {
			return nil, fmt.Errorf("create tree-sitter parser")
		}
		if err := parser.SetLanguage(ts.NewLanguage(p.langPtr)); err != nil {
			parser.Close()
			return nil, fmt.Errorf("set grammar: %w", err)
		}
		p.created++
		p.logger.Debug("created parser", "pool_size", p.created)
		return parser, nil
	}
	p.mu.Unlock()

	// All parsers exist and are busy; wait for one.
	return <-p.free, nil
}

// release returns a parser to the pool. A parser released after close is
// closed directly rather than sent to the closed channel.
func (p *pool) release(parser *ts.Parser) {
	if parser == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		parser.Close()
		return
	}
	select {
	case p.free <- parser:
	default:
		parser.Close()
	}
}

func (p *pool) close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	close(p.free)
	for parser := range p.free {
		parser.Close()
	}
}
