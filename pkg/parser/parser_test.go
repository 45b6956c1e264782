package parser

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tsjavascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"

	"amdify/pkg/ast"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(m.Close)
	return m
}

func parseJS(t *testing.T, source string) *ast.Program {
	t.Helper()
	p, err := testManager(t).Parse([]byte(source), LanguageJavaScript, false)
	require.NoError(t, err)
	return p
}

func TestPoolReleaseAfterClose(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := newPool(tsjavascript.Language(), 2, logger)

	parser, err := p.acquire()
	require.NoError(t, err)

	p.close()
	require.NotPanics(t, func() { p.release(parser) })
	require.NotPanics(t, p.close)
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		path string
		want Language
	}{
		{"app.js", LanguageJavaScript},
		{"app.jsx", LanguageJavaScript},
		{"app.mjs", LanguageJavaScript},
		{"app.cjs", LanguageJavaScript},
		{"app.ts", LanguageTypeScript},
		{"app.tsx", LanguageTypeScript},
		{"app.mts", LanguageTypeScript},
		{"APP.JS", LanguageJavaScript},
		{"app.go", LanguageUnknown},
		{"noext", LanguageUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectLanguage(tt.path), tt.path)
	}
}

func TestIsTSX(t *testing.T) {
	assert.True(t, IsTSX("c.tsx"))
	assert.False(t, IsTSX("c.ts"))
	assert.False(t, IsTSX("c.jsx"))
}

func TestParseLanguage(t *testing.T) {
	assert.Equal(t, LanguageJavaScript, ParseLanguage("js"))
	assert.Equal(t, LanguageJavaScript, ParseLanguage("JavaScript"))
	assert.Equal(t, LanguageTypeScript, ParseLanguage("ts"))
	assert.Equal(t, LanguageUnknown, ParseLanguage("python"))
}

func TestParseDefaultImport(t *testing.T) {
	p := parseJS(t, "import foo from 'a';\n")
	require.Len(t, p.Body, 1)

	imp, ok := p.Body[0].(*ast.ImportDeclaration)
	require.True(t, ok)
	assert.Equal(t, "a", imp.Source.Value)
	assert.Equal(t, "'a'", imp.Source.Raw)

	require.Len(t, imp.Specifiers, 1)
	spec, ok := imp.Specifiers[0].(*ast.ImportDefaultSpecifier)
	require.True(t, ok)
	assert.Equal(t, "foo", spec.Local.Name)
}

func TestParseNamedImports(t *testing.T) {
	p := parseJS(t, "import { x, y as localY } from 'm';\n")
	imp := p.Body[0].(*ast.ImportDeclaration)
	require.Len(t, imp.Specifiers, 2)

	first := imp.Specifiers[0].(*ast.ImportSpecifier)
	assert.Equal(t, "x", first.Imported.Name)
	assert.Equal(t, "x", first.Local.Name)

	second := imp.Specifiers[1].(*ast.ImportSpecifier)
	assert.Equal(t, "y", second.Imported.Name)
	assert.Equal(t, "localY", second.Local.Name)
}

func TestParseNamespaceImport(t *testing.T) {
	p := parseJS(t, "import * as everything from 'm';\n")
	imp := p.Body[0].(*ast.ImportDeclaration)
	require.Len(t, imp.Specifiers, 1)

	spec := imp.Specifiers[0].(*ast.ImportNamespaceSpecifier)
	assert.Equal(t, "everything", spec.Local.Name)
}

func TestParseSideEffectImport(t *testing.T) {
	p := parseJS(t, "import 'polyfill';\n")
	imp := p.Body[0].(*ast.ImportDeclaration)
	assert.Equal(t, "polyfill", imp.Source.Value)
	assert.Empty(t, imp.Specifiers)
}

func TestParseExportDefaultExpression(t *testing.T) {
	p := parseJS(t, "export default 42;\n")
	exp := p.Body[0].(*ast.ExportDefaultDeclaration)

	lit, ok := exp.Declaration.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, "42", lit.Raw)
}

func TestParseExportDefaultFunction(t *testing.T) {
	p := parseJS(t, "export default function f() {}\n")
	exp := p.Body[0].(*ast.ExportDefaultDeclaration)

	fn, ok := exp.Declaration.(*ast.FunctionDeclaration)
	require.True(t, ok)
	assert.Equal(t, "f", fn.ID.Name)
}

func TestParseExportNamedDeclaration(t *testing.T) {
	p := parseJS(t, "export const a = 1;\n")
	exp := p.Body[0].(*ast.ExportNamedDeclaration)

	decl, ok := exp.Declaration.(*ast.VariableDeclaration)
	require.True(t, ok)
	assert.Equal(t, "const", decl.Kind)
	require.Len(t, decl.Declarations, 1)
	assert.Equal(t, "a", decl.Declarations[0].ID.(*ast.Identifier).Name)
}

func TestParseExportClause(t *testing.T) {
	p := parseJS(t, "export { a, b as c };\n")
	exp := p.Body[0].(*ast.ExportNamedDeclaration)
	require.Len(t, exp.Specifiers, 2)

	assert.Equal(t, "a", exp.Specifiers[0].Local.Name)
	assert.Equal(t, "a", exp.Specifiers[0].Exported.Name)
	assert.Equal(t, "b", exp.Specifiers[1].Local.Name)
	assert.Equal(t, "c", exp.Specifiers[1].Exported.Name)
}

func TestParseStatements(t *testing.T) {
	p := parseJS(t, `
const a = 1;
let b;
function f(x, y) { return x + y; }
if (a) { f(a, b); } else { b = 0; }
for (let i = 0; i < 10; i++) { f(i, i); }
while (a) { b++; }
`)
	require.Len(t, p.Body, 6)
	assert.IsType(t, &ast.VariableDeclaration{}, p.Body[0])
	assert.IsType(t, &ast.VariableDeclaration{}, p.Body[1])
	assert.IsType(t, &ast.FunctionDeclaration{}, p.Body[2])
	assert.IsType(t, &ast.IfStatement{}, p.Body[3])
	assert.IsType(t, &ast.ForStatement{}, p.Body[4])
	assert.IsType(t, &ast.WhileStatement{}, p.Body[5])
}

func TestParseExpressions(t *testing.T) {
	p := parseJS(t, "foo.bar(baz[0], x + 1, cond ? a : b, ...rest);\n")
	stmt := p.Body[0].(*ast.ExpressionStatement)
	call := stmt.Expression.(*ast.CallExpression)

	member := call.Callee.(*ast.MemberExpression)
	assert.Equal(t, "foo", member.Object.(*ast.Identifier).Name)
	assert.Equal(t, "bar", member.Property.(*ast.Identifier).Name)
	assert.False(t, member.Computed)

	require.Len(t, call.Arguments, 4)
	sub := call.Arguments[0].(*ast.MemberExpression)
	assert.True(t, sub.Computed)
	assert.IsType(t, &ast.BinaryExpression{}, call.Arguments[1])
	assert.IsType(t, &ast.ConditionalExpression{}, call.Arguments[2])
	assert.IsType(t, &ast.SpreadElement{}, call.Arguments[3])
}

func TestParseObjectLiteral(t *testing.T) {
	p := parseJS(t, "const o = { a: 1, b };\n")
	decl := p.Body[0].(*ast.VariableDeclaration)
	obj := decl.Declarations[0].Init.(*ast.ObjectExpression)
	require.Len(t, obj.Properties, 2)

	assert.False(t, obj.Properties[0].Shorthand)
	assert.True(t, obj.Properties[1].Shorthand)
}

func TestParseTemplateStringFallsBackToRaw(t *testing.T) {
	p := parseJS(t, "const s = `hi ${name}`;\n")
	decl := p.Body[0].(*ast.VariableDeclaration)

	raw, ok := decl.Declarations[0].Init.(*ast.Raw)
	require.True(t, ok)
	assert.Equal(t, "`hi ${name}`", raw.Text)
}

func TestParseUnsupportedStatementFallsBackToRaw(t *testing.T) {
	source := "try { risky(); } catch (e) { handle(e); }\n"
	p := parseJS(t, source)
	require.Len(t, p.Body, 1)

	raw, ok := p.Body[0].(*ast.Raw)
	require.True(t, ok)
	assert.Contains(t, raw.Text, "try {")
	assert.Contains(t, raw.Text, "catch (e)")
}

func TestParseCommentsDropped(t *testing.T) {
	p := parseJS(t, "// leading\nconst a = 1; /* inline */\n")
	require.Len(t, p.Body, 1)
	assert.IsType(t, &ast.VariableDeclaration{}, p.Body[0])
}

func TestParseFileUnknownExtension(t *testing.T) {
	_, err := testManager(t).ParseFile([]byte("const a = 1;"), "file.py")
	assert.Error(t, err)
}

func TestParseTypeScript(t *testing.T) {
	source := "import foo from 'a';\nconst n: number = 1;\nfoo(n);\n"
	p, err := testManager(t).Parse([]byte(source), LanguageTypeScript, false)
	require.NoError(t, err)

	require.NotEmpty(t, p.Body)
	assert.IsType(t, &ast.ImportDeclaration{}, p.Body[0])
}

func TestConcurrentParsing(t *testing.T) {
	m := testManager(t)
	source := []byte("import foo from 'a';\nfoo.run();\n")

	done := make(chan error, 16)
	for i := 0; i < 16; i++ {
		go func() {
			_, err := m.Parse(source, LanguageJavaScript, false)
			done <- err
		}()
	}
	for i := 0; i < 16; i++ {
		require.NoError(t, <-done)
	}
}
