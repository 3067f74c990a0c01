package parser

import (
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestGrammarFor(t *testing.T) {
	tests := []struct {
		path string
		want Grammar
	}{
		{"Button.tsx", GrammarTSX},
		{"src/BUTTON.TSX", GrammarTSX},
		{"hooks.ts", GrammarTypeScript},
		{"mod.mts", GrammarTypeScript},
		{"Card.jsx", GrammarJavaScript},
		{"legacy.js", GrammarJavaScript},
		{"styles.css", GrammarUnknown},
		{"README", GrammarUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, GrammarFor(tt.path))
		})
	}
}

func TestParseFile(t *testing.T) {
	manager := NewManager(testLogger(), 2)
	defer manager.Close()

	sources := map[string]string{
		"Button.tsx": `export const Button = (props: { label: string }) => <button>{props.label}</button>;`,
		"util.ts":    `export const x: number = 1;`,
		"Card.jsx":   `export function Card({ title = 'x' }) { return <div>{title}</div>; }`,
	}
	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			tree, err := manager.ParseFile([]byte(src), name)
			require.NoError(t, err)
			defer tree.Close()
			root := tree.RootNode()
			assert.Equal(t, "program", root.Kind())
			assert.False(t, root.HasError())
		})
	}

	_, err := manager.ParseFile([]byte("a {}"), "styles.css")
	assert.Error(t, err)
}

func TestParse_TSXHasJSX(t *testing.T) {
	manager := NewManager(testLogger(), 0)
	defer manager.Close()

	tree, err := manager.Parse([]byte(`const a = <div className="x" />;`), GrammarTSX)
	require.NoError(t, err)
	defer tree.Close()
	assert.Contains(t, tree.RootNode().ToSexp(), "jsx_self_closing_element")
}

func TestParse_PartialTreeOnSyntaxError(t *testing.T) {
	manager := NewManager(testLogger(), 0)
	defer manager.Close()

	tree, err := manager.Parse([]byte(`export const = ;`), GrammarTypeScript)
	require.NoError(t, err)
	defer tree.Close()
	assert.True(t, tree.RootNode().HasError())
}

func TestLazyPools(t *testing.T) {
	manager := NewManager(testLogger(), 4)
	defer manager.Close()

	assert.Equal(t, Stats{}, manager.Stats())

	for i := 0; i < 3; i++ {
		tree, err := manager.Parse([]byte("const x = 1;"), GrammarTypeScript)
		require.NoError(t, err)
		tree.Close()
	}
	stats := manager.Stats()
	assert.Equal(t, 1, stats.ParsersCreated, "sequential parses reuse one parser")
	assert.Equal(t, 3, stats.ParsesCalled)
}

func TestConcurrentParsing(t *testing.T) {
	const poolSize = 4
	manager := NewManager(testLogger(), poolSize)
	defer manager.Close()

	const perGrammar = 20
	var wg sync.WaitGroup
	errs := make(chan error, perGrammar*len(Grammars()))
	for _, g := range Grammars() {
		for i := 0; i < perGrammar; i++ {
			wg.Add(1)
			go func(g Grammar) {
				defer wg.Done()
				tree, err := manager.Parse([]byte("const x = 1;"), g)
				if err != nil {
					errs <- err
					return
				}
				tree.Close()
			}(g)
		}
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("parse failed: %v", err)
	}
	stats := manager.Stats()
	assert.LessOrEqual(t, stats.ParsersCreated, poolSize*len(Grammars()))
	assert.Equal(t, perGrammar*len(Grammars()), stats.ParsesCalled)
}
