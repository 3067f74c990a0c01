package scanner

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/propgen/pkg/metadata"
	"github.com/gnana997/propgen/pkg/parser"
	"github.com/gnana997/propgen/pkg/util"
)

// ErrNoComponent is returned by ExtractFile when a file declares no
// React component.
var ErrNoComponent = errors.New("no component found")

// ExtractFile parses source and returns the props of the component the
// file declares. ignore lists prop-name substrings to drop.
func ExtractFile(pm *parser.Manager, path string, source []byte, ignore []string) (*FileResult, error) {
	tree, err := pm.ParseFile(source, path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	idx := newFileIndex(root, source)
	comp := pickComponent(detectComponents(root, idx))
	if comp == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrNoComponent)
	}

	props := idx.componentProps(root, comp)
	props = filterIgnored(props, ignore)

	return &FileResult{
		FilePath:      path,
		Component:     comp.name,
		Kind:          comp.kind,
		DefaultExport: comp.defaultExport,
		Props:         props,
	}, nil
}

// componentProps combines the declared props type with the defaults found
// in defaultProps objects and destructuring. Destructuring wins over
// defaultProps when both name a prop.
func (idx *fileIndex) componentProps(root *ts.Node, comp *componentDecl) []ExtractedProp {
	typeNode := comp.propsType
	if typeNode == nil && comp.fn != nil {
		if param := firstParam(comp.fn); param != nil {
			typeNode = typeOf(param.ChildByFieldName("type"))
		}
	}
	props := idx.propsMembers(typeNode, 0)
	typed := len(props) > 0

	var defaults []namedDefault
	if obj := idx.staticDefaultProps(comp.class); obj != nil {
		defaults = append(defaults, idx.objectDefaults(obj)...)
	}
	for _, name := range []string{comp.aliasOf, comp.name} {
		if obj := idx.defaultPropsObject(root, name); obj != nil {
			defaults = append(defaults, idx.objectDefaults(obj)...)
		}
	}
	defaults = append(defaults, idx.destructuredDefaults(comp)...)

	for _, nd := range defaults {
		i := indexOfProp(props, nd.name)
		switch {
		case i >= 0:
			if nd.def != nil {
				props[i].Default = nd.def
			}
		case nd.def != nil || !typed:
			// Untyped components only declare props through their defaults
			// and destructuring.
			props = append(props, ExtractedProp{Name: nd.name, Default: nd.def})
		}
	}
	return props
}

// destructuredDefaults reads defaults from the render function's first
// parameter pattern, or from `const {...} = props` in its body. Class
// components are read from `const {...} = this.props` in render.
func (idx *fileIndex) destructuredDefaults(comp *componentDecl) []namedDefault {
	if comp.fn != nil {
		param := firstParam(comp.fn)
		pattern := paramPattern(param)
		if pattern == nil {
			return nil
		}
		if pattern.Kind() == "object_pattern" {
			return idx.patternDefaults(pattern)
		}
		if pattern.Kind() == "identifier" {
			return idx.bodyDefaults(comp.fn.ChildByFieldName("body"), idx.text(pattern))
		}
		return nil
	}
	if comp.class != nil {
		for _, member := range namedChildren(comp.class.ChildByFieldName("body")) {
			if member.Kind() != "method_definition" || idx.text(member.ChildByFieldName("name")) != "render" {
				continue
			}
			return idx.bodyDefaults(member.ChildByFieldName("body"), "this.props")
		}
	}
	return nil
}

func indexOfProp(props []ExtractedProp, name string) int {
	for i := range props {
		if props[i].Name == name {
			return i
		}
	}
	return -1
}

func filterIgnored(props []ExtractedProp, ignore []string) []ExtractedProp {
	if len(ignore) == 0 {
		return props
	}
	out := props[:0]
	for _, p := range props {
		if !metadata.IgnoredProp(p.Name, ignore) {
			out = append(out, p)
		}
	}
	return out
}

// ExtractAll runs ExtractFile on each file in parallel, reading sources
// through cache. Files without a component are counted as skipped; other
// errors are logged and counted as failed without stopping the pipeline.
func ExtractAll(
	files []string,
	pm *parser.Manager,
	cache *util.SourceCache,
	cfg ScanConfig,
	logger *slog.Logger,
) (results []FileResult, skipped, failed int) {
	if len(files) == 0 {
		return nil, 0, 0
	}
	if logger == nil {
		logger = slog.Default()
	}

	numWorkers := util.GetOptimalPoolSizeWithOverride(cfg.Workers)
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	paths := make(chan string, numWorkers*2)
	type resultOrError struct {
		result *FileResult
		err    error
		file   string
	}
	out := make(chan resultOrError, numWorkers)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range paths {
				fr, err := extractCached(pm, cache, path, cfg.IgnoreProps)
				out <- resultOrError{result: fr, err: err, file: path}
			}
		}()
	}

	go func() {
		for _, f := range files {
			paths <- f
		}
		close(paths)
		wg.Wait()
		close(out)
	}()

	for r := range out {
		switch {
		case errors.Is(r.err, ErrNoComponent):
			logger.Debug("no component in file", "file", r.file)
			skipped++
		case r.err != nil:
			logger.Warn("extraction failed", "file", r.file, "error", r.err)
			failed++
		default:
			results = append(results, *r.result)
		}
	}
	return results, skipped, failed
}

func extractCached(pm *parser.Manager, cache *util.SourceCache, path string, ignore []string) (*FileResult, error) {
	src, err := cache.Acquire(path)
	if err != nil {
		return nil, err
	}
	defer src.Release()
	return ExtractFile(pm, path, src.Data, ignore)
}
