package transformer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amdify/pkg/parser"
)

func testTransformer(t *testing.T) *Transformer {
	t.Helper()
	tr, err := New(Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	require.NoError(t, err)
	t.Cleanup(tr.Close)
	return tr
}

func TestTransformSource(t *testing.T) {
	tr := testTransformer(t)

	out, err := tr.TransformSource([]byte("import foo from 'a';\nfoo.run();\n"), parser.LanguageJavaScript, false)
	require.NoError(t, err)

	want := "define(['a'], function (foo) {\n" +
		"  'use strict';\n" +
		"  foo.run();\n" +
		"});\n"
	assert.Equal(t, want, out)
}

func TestTransformSourceGroupedNamedImports(t *testing.T) {
	tr := testTransformer(t)

	source := "import { x } from 'm';\nimport { y } from 'm';\nx();\ny(x);\n"
	out, err := tr.TransformSource([]byte(source), parser.LanguageJavaScript, false)
	require.NoError(t, err)

	want := "define(['m'], function (a) {\n" +
		"  'use strict';\n" +
		"  a.x();\n" +
		"  a.y(a.x);\n" +
		"});\n"
	assert.Equal(t, want, out)
}

func TestTransformSourceExportOnly(t *testing.T) {
	tr := testTransformer(t)

	out, err := tr.TransformSource([]byte("export const answer = 42;\n"), parser.LanguageJavaScript, false)
	require.NoError(t, err)

	want := "define(function () {\n" +
		"  'use strict';\n" +
		"  const answer = 42;\n" +
		"  return { answer: answer };\n" +
		"});\n"
	assert.Equal(t, want, out)
}

func TestTransformSourceNoModuleSyntax(t *testing.T) {
	tr := testTransformer(t)

	out, err := tr.TransformSource([]byte("const a = 1;\na;\n"), parser.LanguageJavaScript, false)
	require.NoError(t, err)
	assert.Equal(t, "const a = 1;\na;\n", out)
}

func TestTransformSourceIdempotent(t *testing.T) {
	tr := testTransformer(t)

	once, err := tr.TransformSource([]byte("import foo from 'a';\nfoo();\n"), parser.LanguageJavaScript, false)
	require.NoError(t, err)
	twice, err := tr.TransformSource([]byte(once), parser.LanguageJavaScript, false)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestTransformFileUsesCache(t *testing.T) {
	tr := testTransformer(t)

	path := filepath.Join(t.TempDir(), "mod.js")
	require.NoError(t, os.WriteFile(path, []byte("import foo from 'a';\nfoo();\n"), 0o644))

	first, err := tr.TransformFile(path)
	require.NoError(t, err)
	second, err := tr.TransformFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTransformFileDetectsChange(t *testing.T) {
	tr := testTransformer(t)

	path := filepath.Join(t.TempDir(), "mod.js")
	require.NoError(t, os.WriteFile(path, []byte("import foo from 'a';\nfoo();\n"), 0o644))

	first, err := tr.TransformFile(path)
	require.NoError(t, err)
	assert.Contains(t, first, "define(['a']")

	tr.Invalidate(path)
	require.NoError(t, os.WriteFile(path, []byte("import bar from 'b';\nbar();\n"), 0o644))
	// Size differs, so the stale cache entry cannot be hit even if the
	// mtime granularity hides the rewrite.
	second, err := tr.TransformFile(path)
	require.NoError(t, err)
	assert.Contains(t, second, "define(['b']")
}

func TestDependencies(t *testing.T) {
	tr := testTransformer(t)

	deps, err := tr.Dependencies([]byte("import foo from 'a';\nimport 'b';\n"), parser.LanguageJavaScript, false)
	require.NoError(t, err)
	require.Len(t, deps, 2)
	assert.Equal(t, "a", deps[0].Element)
	assert.Equal(t, "foo", deps[0].Param)
	assert.Equal(t, "b", deps[1].Element)
	assert.Empty(t, deps[1].Param)
}

func TestRunnerOutDir(t *testing.T) {
	tr := testTransformer(t)

	root := t.TempDir()
	sub := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "a.js"), []byte("import x from 'm';\nx();\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.js"), []byte("export default 1;\n"), 0o644))

	outDir := t.TempDir()
	runner := NewRunner(tr, RunnerOptions{
		Mode:   WriteOutDir,
		OutDir: outDir,
		Root:   root,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	files, err := Discover(root, nil)
	require.NoError(t, err)
	require.Len(t, files, 2)

	stats, err := runner.Run(context.Background(), files)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Converted)
	assert.Equal(t, int64(0), stats.Failed)

	converted, err := os.ReadFile(filepath.Join(outDir, "src", "a.js"))
	require.NoError(t, err)
	assert.Contains(t, string(converted), "define(['m'], function (x)")

	converted, err = os.ReadFile(filepath.Join(outDir, "b.js"))
	require.NoError(t, err)
	assert.Contains(t, string(converted), "return 1;")
}

func TestRunnerInPlace(t *testing.T) {
	tr := testTransformer(t)

	root := t.TempDir()
	path := filepath.Join(root, "a.js")
	require.NoError(t, os.WriteFile(path, []byte("import x from 'm';\nx();\n"), 0o644))

	runner := NewRunner(tr, RunnerOptions{
		Mode:   WriteInPlace,
		Root:   root,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	stats, err := runner.Run(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Converted)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "define(['m']")
	assert.NotContains(t, string(data), "import x")
}

func TestRunnerStdoutSingleWorker(t *testing.T) {
	tr := testTransformer(t)

	runner := NewRunner(tr, RunnerOptions{Mode: WriteStdout, Workers: 8})
	assert.Equal(t, 1, runner.opts.Workers)
}

func TestRunnerStdoutOrdered(t *testing.T) {
	tr := testTransformer(t)
	dir := t.TempDir()

	first := filepath.Join(dir, "first.js")
	second := filepath.Join(dir, "second.js")
	require.NoError(t, os.WriteFile(first, []byte("import one from 'one';\none.go();\n"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("import two from 'two';\ntwo.go();\n"), 0o644))

	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	orig := os.Stdout
	os.Stdout = pw
	defer func() { os.Stdout = orig }()

	runner := NewRunner(tr, RunnerOptions{Mode: WriteStdout, Root: dir})
	_, runErr := runner.Run(context.Background(), []string{first, second})

	os.Stdout = orig
	require.NoError(t, pw.Close())
	out, err := io.ReadAll(pr)
	require.NoError(t, err)
	require.NoError(t, runErr)

	one := strings.Index(string(out), "define(['one']")
	two := strings.Index(string(out), "define(['two']")
	require.GreaterOrEqual(t, one, 0)
	require.GreaterOrEqual(t, two, 0)
	assert.Less(t, one, two)
}

func TestRunnerReportsFailures(t *testing.T) {
	tr := testTransformer(t)

	runner := NewRunner(tr, RunnerOptions{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	stats, err := runner.Run(context.Background(), []string{filepath.Join(t.TempDir(), "missing.js")})
	assert.Error(t, err)
	assert.Equal(t, int64(1), stats.Failed)
}

func TestWatcherReconvertsOnChange(t *testing.T) {
	tr := testTransformer(t)

	root := t.TempDir()
	outDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	runner := NewRunner(tr, RunnerOptions{
		Mode:   WriteOutDir,
		OutDir: outDir,
		Root:   root,
		Logger: logger,
	})

	w, err := NewWatcher(runner, 20*time.Millisecond, logger)
	require.NoError(t, err)
	require.NoError(t, w.Start(root))
	defer w.Stop()

	path := filepath.Join(root, "fresh.js")
	require.NoError(t, os.WriteFile(path, []byte("import x from 'm';\nx();\n"), 0o644))

	dest := filepath.Join(outDir, "fresh.js")
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(dest)
		return err == nil && len(data) > 0
	}, 3*time.Second, 25*time.Millisecond)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "define(['m']")
}
