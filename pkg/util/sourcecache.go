package util

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/edsrzf/mmap-go"
	lru "github.com/hashicorp/golang-lru/v2"
)

// SourceCache keeps recently read component sources memory-mapped.
//
// Entries are keyed by path and revalidated against the file's size and
// modification time on every Acquire, so edits picked up by the watcher are
// re-read. Eviction is LRU bounded by the configured file count. A mapping evicted while a
// caller still holds it is unmapped on the final Release.
type SourceCache struct {
	entries *lru.Cache[string, *Source]
	mu      sync.Mutex
	logger  *slog.Logger

	statsMu sync.Mutex
	stats   SourceCacheStats
}

// SourceCacheStats tracks cache behaviour.
type SourceCacheStats struct {
	Hits         int64
	Misses       int64
	Stale        int64
	Evictions    int64
	MmapFailures int64
	Cached       int
}

// Source is an acquired file body. Data must not be used after Release.
type Source struct {
	Path    string
	Data    []byte
	ModTime time.Time
	Size    int64

	mapped  mmap.MMap
	file    *os.File
	refs    int
	evicted bool
	cache   *SourceCache
}

// DefaultSourceCacheSize bounds the number of mapped files.
const DefaultSourceCacheSize = 2048

// NewSourceCache creates a cache holding at most maxFiles mappings.
// maxFiles <= 0 uses DefaultSourceCacheSize.
func NewSourceCache(maxFiles int, logger *slog.Logger) (*SourceCache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if maxFiles <= 0 {
		maxFiles = DefaultSourceCacheSize
	}
	sc := &SourceCache{logger: logger}
	entries, err := lru.NewWithEvict(maxFiles, sc.onEvict)
	if err != nil {
		return nil, fmt.Errorf("failed to create source cache: %w", err)
	}
	sc.entries = entries
	return sc, nil
}

// Acquire returns the current contents of path. The caller must Release it.
func (sc *SourceCache) Acquire(path string) (*Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %q: %w", path, err)
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()

	if src, ok := sc.entries.Get(path); ok {
		if src.Size == info.Size() && src.ModTime.Equal(info.ModTime()) {
			src.refs++
			sc.record(func(s *SourceCacheStats) { s.Hits++ })
			return src, nil
		}
		sc.record(func(s *SourceCacheStats) { s.Stale++ })
		sc.entries.Remove(path)
	}

	sc.record(func(s *SourceCacheStats) { s.Misses++ })
	src, err := sc.load(path)
	if err != nil {
		return nil, err
	}
	src.refs = 1
	sc.entries.Add(path, src)
	return src, nil
}

// ReadFile returns a copy of path's contents through the cache.
func (sc *SourceCache) ReadFile(path string) ([]byte, error) {
	src, err := sc.Acquire(path)
	if err != nil {
		return nil, err
	}
	defer src.Release()
	out := make([]byte, len(src.Data))
	copy(out, src.Data)
	return out, nil
}

// Invalidate drops path from the cache.
func (sc *SourceCache) Invalidate(path string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.entries.Remove(path)
}

// Release returns the source to the cache.
func (s *Source) Release() {
	if s == nil || s.cache == nil {
		return
	}
	s.cache.mu.Lock()
	defer s.cache.mu.Unlock()
	s.refs--
	if s.refs <= 0 && s.evicted {
		s.unmap(s.cache.logger)
	}
}

// Stats returns a snapshot of cache counters.
func (sc *SourceCache) Stats() SourceCacheStats {
	sc.statsMu.Lock()
	stats := sc.stats
	sc.statsMu.Unlock()
	stats.Cached = sc.entries.Len()
	return stats
}

// Close unmaps every entry that is not currently held.
func (sc *SourceCache) Close() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.entries.Purge()
	stats := sc.Stats()
	sc.logger.Debug("source cache closed",
		"hits", stats.Hits,
		"misses", stats.Misses,
		"evictions", stats.Evictions)
	return nil
}

// onEvict runs under sc.mu: the LRU only evicts from Add, Remove and Purge.
func (sc *SourceCache) onEvict(_ string, src *Source) {
	sc.record(func(s *SourceCacheStats) { s.Evictions++ })
	src.evicted = true
	if src.refs <= 0 {
		src.unmap(sc.logger)
	}
}

func (sc *SourceCache) load(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat %q: %w", path, err)
	}
	src := &Source{Path: path, ModTime: info.ModTime(), Size: info.Size(), cache: sc}

	// Zero-length files cannot be mapped.
	if info.Size() == 0 {
		f.Close()
		src.Data = []byte{}
		return src, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		sc.logger.Warn("mmap failed, using fallback", "file", path, "error", err)
		sc.record(func(s *SourceCacheStats) { s.MmapFailures++ })
		f.Close()
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read %q: %w", path, readErr)
		}
		src.Data = data
		return src, nil
	}
	src.mapped = m
	src.file = f
	src.Data = m
	return src, nil
}

func (s *Source) unmap(logger *slog.Logger) {
	if s.mapped != nil {
		if err := s.mapped.Unmap(); err != nil {
			logger.Warn("failed to unmap file", "path", s.Path, "error", err)
		}
		s.mapped = nil
	}
	if s.file != nil {
		s.file.Close()
		s.file = nil
	}
	s.Data = nil
}

func (sc *SourceCache) record(fn func(*SourceCacheStats)) {
	sc.statsMu.Lock()
	fn(&sc.stats)
	sc.statsMu.Unlock()
}
