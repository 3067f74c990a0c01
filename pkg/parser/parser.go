// Package parser owns the tree-sitter parsers used to read component
// sources. Parsers are pooled per grammar so extraction workers can parse
// concurrently.
package parser

import (
	"fmt"
	"log/slog"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/propgen/pkg/util"
)

// Manager manages pooled tree-sitter parsers for every supported grammar.
//
// Pools are created lazily on first use. Callers own the returned trees and
// must Close them; the Manager itself must be closed via Close.
//
// Example:
//
//	manager := parser.NewManager(logger, 0)
//	defer manager.Close()
//
//	tree, err := manager.ParseFile(src, "Button.tsx")
//	if err != nil {
//	    return err
//	}
//	defer tree.Close()
type Manager struct {
	pools    map[Grammar]*parserPool
	poolSize int
	mutex    sync.RWMutex
	logger   *slog.Logger

	parses int
}

// NewManager creates a Manager. poolSize <= 0 sizes each pool with
// util.GetOptimalPoolSize so it matches the extraction worker count.
func NewManager(logger *slog.Logger, poolSize int) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		pools:    make(map[Grammar]*parserPool),
		poolSize: util.GetOptimalPoolSizeWithOverride(poolSize),
		logger:   logger,
	}
}

// Parse parses source with grammar g. Trees containing syntax errors are
// still returned; the scanner works with partial trees.
func (m *Manager) Parse(source []byte, g Grammar) (*ts.Tree, error) {
	if g == GrammarUnknown {
		return nil, fmt.Errorf("cannot parse unknown grammar")
	}

	m.mutex.Lock()
	m.parses++
	m.mutex.Unlock()

	pool, err := m.pool(g)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool for %s: %w", g, err)
	}
	p, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire parser: %w", err)
	}
	tree := p.Parse(source, nil)
	pool.release(p)

	if tree == nil {
		return nil, fmt.Errorf("parser returned nil tree")
	}
	if tree.RootNode().HasError() {
		m.logger.Debug("parse tree contains errors", "grammar", g.String())
	}
	return tree, nil
}

// ParseFile parses source with the grammar matching path's extension.
func (m *Manager) ParseFile(source []byte, path string) (*ts.Tree, error) {
	g := GrammarFor(path)
	if g == GrammarUnknown {
		return nil, fmt.Errorf("unsupported file extension: %s", path)
	}
	return m.Parse(source, g)
}

// Close releases every pooled parser.
func (m *Manager) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	closed := 0
	for _, pool := range m.pools {
		closed += pool.close()
	}
	m.pools = make(map[Grammar]*parserPool)
	m.logger.Debug("closed parser manager", "parsers_closed", closed, "parses", m.parses)
	return nil
}

func (m *Manager) pool(g Grammar) (*parserPool, error) {
	m.mutex.RLock()
	pool, ok := m.pools[g]
	m.mutex.RUnlock()
	if ok {
		return pool, nil
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	if pool, ok = m.pools[g]; ok {
		return pool, nil
	}
	ptr, err := g.language()
	if err != nil {
		return nil, err
	}
	pool = newParserPool(g, ptr, m.poolSize, m.logger)
	m.pools[g] = pool
	return pool, nil
}

// Stats reports parser usage.
type Stats struct {
	ParsersCreated int
	ParsesCalled   int
}

// Stats returns a snapshot of parser usage.
func (m *Manager) Stats() Stats {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	s := Stats{ParsesCalled: m.parses}
	for _, pool := range m.pools {
		s.ParsersCreated += pool.createdCount()
	}
	return s
}
