package scanner

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/propgen/pkg/metadata"
	"github.com/gnana997/propgen/pkg/parser"
	"github.com/gnana997/propgen/pkg/util"
)

// DefaultResultCacheSize bounds the per-file resolved component cache.
const DefaultResultCacheSize = 4096

// Scanner runs discovery, extraction and resolution over a source tree.
// A Scanner may be reused across runs; unchanged files are served from
// its result cache.
type Scanner struct {
	pm      *parser.Manager
	cache   *util.SourceCache
	results *lru.Cache[string, cachedComponent]
	log     *slog.Logger
}

// cachedComponent is a resolved component and the file state it was
// resolved from.
type cachedComponent struct {
	modTime   time.Time
	size      int64
	component metadata.Component
}

// NewScanner creates a scanner with its parser pools and caches.
func NewScanner(logger *slog.Logger, cfg ScanConfig) (*Scanner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cache, err := util.NewSourceCache(util.DefaultSourceCacheSize, logger)
	if err != nil {
		return nil, err
	}
	results, err := lru.New[string, cachedComponent](DefaultResultCacheSize)
	if err != nil {
		cache.Close()
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}
	return &Scanner{
		pm:      parser.NewManager(logger, util.GetOptimalPoolSizeWithOverride(cfg.Workers)),
		cache:   cache,
		results: results,
		log:     logger,
	}, nil
}

// Run scans root and returns its components sorted by path.
func (s *Scanner) Run(root string, cfg ScanConfig) ([]metadata.Component, ScanStats, error) {
	totalStart := time.Now()
	stats := ScanStats{}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to resolve root: %w", err)
	}

	discoveryStart := time.Now()
	files, err := DiscoverFiles(absRoot, cfg)
	if err != nil {
		return nil, stats, fmt.Errorf("discovery failed: %w", err)
	}
	stats.FilesDiscovered = len(files)
	stats.DiscoveryTimeMs = time.Since(discoveryStart).Milliseconds()

	s.log.Info("discovery complete", "files", len(files), "ms", stats.DiscoveryTimeMs)

	var components []metadata.Component
	var pending []string
	for _, f := range files {
		if c, ok := s.cached(f); ok {
			components = append(components, c)
			stats.FilesCached++
			continue
		}
		pending = append(pending, f)
	}

	extractionStart := time.Now()
	results, skipped, failed := ExtractAll(pending, s.pm, s.cache, cfg, s.log)
	stats.FilesExtracted = len(results)
	stats.FilesSkipped = skipped
	stats.FilesFailed = failed
	stats.ExtractionTimeMs = time.Since(extractionStart).Milliseconds()

	s.log.Info("extraction complete",
		"extracted", len(results), "cached", stats.FilesCached,
		"skipped", skipped, "failed", failed, "ms", stats.ExtractionTimeMs)

	for i := range results {
		c := resolveFile(absRoot, &results[i])
		s.store(c)
		components = append(components, c)
	}

	metadata.SortByPath(components)
	stats.Components = len(components)
	for _, c := range components {
		stats.PropsResolved += len(c.Props)
	}
	stats.TotalTimeMs = time.Since(totalStart).Milliseconds()

	s.log.Info("scan complete",
		"components", stats.Components, "props", stats.PropsResolved, "ms", stats.TotalTimeMs)

	return components, stats, nil
}

// ScanFile extracts and resolves a single file. root is used for the
// component's relative path and may be empty.
func (s *Scanner) ScanFile(root, path string, cfg ScanConfig) (*metadata.Component, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	if root != "" {
		if root, err = filepath.Abs(root); err != nil {
			return nil, fmt.Errorf("failed to resolve root: %w", err)
		}
	}
	fr, err := extractCached(s.pm, s.cache, abs, cfg.IgnoreProps)
	if err != nil {
		return nil, err
	}
	c := resolveFile(root, fr)
	return &c, nil
}

// Invalidate drops cached state for path so the next run re-reads it.
func (s *Scanner) Invalidate(path string) {
	s.results.Remove(path)
	s.cache.Invalidate(path)
}

// Close releases parser pools and cached file mappings.
func (s *Scanner) Close() error {
	s.results.Purge()
	if err := s.pm.Close(); err != nil {
		return err
	}
	return s.cache.Close()
}

func (s *Scanner) cached(path string) (metadata.Component, bool) {
	entry, ok := s.results.Get(path)
	if !ok {
		return metadata.Component{}, false
	}
	info, err := os.Stat(path)
	if err != nil || !info.ModTime().Equal(entry.modTime) || info.Size() != entry.size {
		s.results.Remove(path)
		return metadata.Component{}, false
	}
	return entry.component, true
}

func (s *Scanner) store(c metadata.Component) {
	info, err := os.Stat(c.FilePath)
	if err != nil {
		return
	}
	s.results.Add(c.FilePath, cachedComponent{
		modTime:   info.ModTime(),
		size:      info.Size(),
		component: c,
	})
}

// resolveFile turns extracted props into resolved metadata.
func resolveFile(root string, fr *FileResult) metadata.Component {
	filename := metadata.Filename(fr.FilePath)
	c := metadata.Component{
		Name:          fr.Component,
		Filename:      filename,
		FilePath:      fr.FilePath,
		DefaultExport: fr.DefaultExport,
		Props:         make([]metadata.Prop, 0, len(fr.Props)),
	}
	if c.Name == "" {
		c.Name = metadata.ComponentName(filename)
	}
	if root != "" {
		if rel, err := filepath.Rel(root, fr.FilePath); err == nil {
			c.RelPath = filepath.ToSlash(rel)
		}
	}
	for _, p := range fr.Props {
		in := metadata.Input{
			Name:        p.Name,
			Type:        p.Type,
			Required:    p.Required,
			Description: p.Description,
		}
		if p.Default != nil {
			value := p.Default.Value
			in.Default = &value
			in.Computed = p.Default.Computed
		}
		c.Props = append(c.Props, metadata.ResolveProp(in))
	}
	return c
}
