package parser

import (
	"fmt"
	"path/filepath"
	"strings"
	"unsafe"

	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Grammar selects the tree-sitter grammar used for a component source.
type Grammar int

const (
	// GrammarTSX is TypeScript with JSX (.tsx).
	GrammarTSX Grammar = iota
	// GrammarTypeScript is plain TypeScript (.ts, .mts, .cts).
	GrammarTypeScript
	// GrammarJavaScript covers .js and .jsx; the JS grammar parses JSX natively.
	GrammarJavaScript
	// GrammarUnknown marks an unsupported file.
	GrammarUnknown
)

func (g Grammar) String() string {
	switch g {
	case GrammarTSX:
		return "tsx"
	case GrammarTypeScript:
		return "typescript"
	case GrammarJavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

// GrammarFor picks the grammar from a file extension.
func GrammarFor(path string) Grammar {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsx":
		return GrammarTSX
	case ".ts", ".mts", ".cts":
		return GrammarTypeScript
	case ".js", ".jsx", ".mjs", ".cjs":
		return GrammarJavaScript
	default:
		return GrammarUnknown
	}
}

// Grammars lists every supported grammar.
func Grammars() []Grammar {
	return []Grammar{GrammarTSX, GrammarTypeScript, GrammarJavaScript}
}

func (g Grammar) language() (unsafe.Pointer, error) {
	switch g {
	case GrammarTSX:
		return ts_typescript.LanguageTSX(), nil
	case GrammarTypeScript:
		return ts_typescript.LanguageTypescript(), nil
	case GrammarJavaScript:
		return ts_javascript.Language(), nil
	default:
		return nil, fmt.Errorf("unsupported grammar: %s", g)
	}
}
