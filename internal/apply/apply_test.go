package apply

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/srclift/srep/rewrite"
	"github.com/srclift/srep/rewrite/query"
	"github.com/srclift/srep/scanner"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for path, content := range files {
		fullPath := filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
	}
	return root
}

func TestFindPaths(t *testing.T) {
	t.Parallel()
	logger, _ := zap.NewProduction()
	root := writeFiles(t, map[string]string{
		"a.ts":     "console.log(x);\n",
		"sub/b.ts": "f();\nconsole.log(y + 1);\n",
		"c.txt":    "console.log(z);\n",
	})

	results, err := FindPaths(context.Background(), logger, "console.log(:[args])", []string{root}, Options{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, filepath.Join(root, "a.ts"), results[0].Path)
	require.Len(t, results[0].Matches, 1)
	assert.Equal(t, "console.log(x)", results[0].Matches[0].Text)
	assert.Equal(t, map[string]string{"args": "x"}, results[0].Matches[0].Captures)

	assert.Equal(t, filepath.Join(root, "sub", "b.ts"), results[1].Path)
	require.Len(t, results[1].Matches, 1)
	assert.Equal(t, map[string]string{"args": "y + 1"}, results[1].Matches[0].Captures)
}

func TestFindPathsBadPattern(t *testing.T) {
	t.Parallel()
	logger, _ := zap.NewProduction()
	_, err := FindPaths(context.Background(), logger, "f(:[x", []string{t.TempDir()}, Options{})
	assert.ErrorIs(t, err, query.ErrUnterminated)
}

func TestFindPathsDeduplicatesRoots(t *testing.T) {
	t.Parallel()
	logger, _ := zap.NewProduction()
	root := writeFiles(t, map[string]string{
		"sub/b.ts": "console.log(y);\n",
	})

	paths := []string{root, filepath.Join(root, "sub")}
	results, err := FindPaths(context.Background(), logger, "console.log(:[args])", paths, Options{})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestFindPathsCancelled(t *testing.T) {
	t.Parallel()
	logger, _ := zap.NewProduction()
	root := writeFiles(t, map[string]string{"a.ts": "x;\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FindPaths(ctx, logger, "x", []string{root}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRewritePathsDryRun(t *testing.T) {
	t.Parallel()
	logger, _ := zap.NewProduction()
	content := "var x = 1;\nvar y = 2;\n"
	root := writeFiles(t, map[string]string{"app.ts": content})
	rules := []rewrite.Rule{{Name: "var-to-let", Match: "var ", Rewrite: "let "}}

	results, err := RewritePaths(context.Background(), logger, rules, []string{root}, Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, filepath.Join(root, "app.ts"), res.Path)
	assert.Equal(t, "let x = 1;\nlet y = 2;\n", res.Output)
	assert.Equal(t, 2, res.ChangeCount())
	assert.False(t, res.Written)

	onDisk, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, content, string(onDisk))
}

func TestRewritePathsWrite(t *testing.T) {
	t.Parallel()
	logger, _ := zap.NewProduction()
	root := writeFiles(t, map[string]string{"app.ts": "var x = 1;\n"})
	rules := []rewrite.Rule{{Name: "var-to-let", Match: "var ", Rewrite: "let "}}

	results, err := RewritePaths(context.Background(), logger, rules, []string{root}, Options{Write: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Written)

	onDisk, err := os.ReadFile(results[0].Path)
	require.NoError(t, err)
	assert.Equal(t, "let x = 1;\n", string(onDisk))
}

func TestRewritePathsNoChanges(t *testing.T) {
	t.Parallel()
	logger, _ := zap.NewProduction()
	root := writeFiles(t, map[string]string{"app.ts": "let x = 1;\n"})
	rules := []rewrite.Rule{{Name: "drop-log", Match: "console.log(:[_]);", Rewrite: ""}}

	results, err := RewritePaths(context.Background(), logger, rules, []string{root}, Options{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRewritePathsRuleError(t *testing.T) {
	t.Parallel()
	logger, _ := zap.NewProduction()
	root := writeFiles(t, map[string]string{"app.ts": "let x = 1;\n"})
	rules := []rewrite.Rule{{Name: "broken", Match: "f(:[x", Rewrite: ""}}

	_, err := RewritePaths(context.Background(), logger, rules, []string{root}, Options{})
	assert.ErrorIs(t, err, query.ErrUnterminated)
}

func TestOptionsWorkers(t *testing.T) {
	t.Parallel()
	assert.Equal(t, runtime.NumCPU(), Options{}.workers())
	assert.Equal(t, 3, Options{Workers: 3}.workers())
}

func TestMatchesAny(t *testing.T) {
	t.Parallel()
	root := writeFiles(t, map[string]string{"a.ts": "x;\n"})
	targets := []watchTarget{{root: root, scan: scanner.New(root)}}

	assert.True(t, matchesAny(targets, filepath.Join(root, "a.ts")))
	assert.False(t, matchesAny(targets, filepath.Join(root, "a.md")))
	assert.False(t, matchesAny(targets, "/elsewhere/a.ts"))
	assert.True(t, matchesAny([]watchTarget{{root: "/tmp/one.txt"}}, "/tmp/one.txt"))
}
