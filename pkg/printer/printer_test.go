package printer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"amdify/pkg/ast"
)

func ident(name string) *ast.Identifier {
	return &ast.Identifier{Name: name}
}

func TestPrintExpressions(t *testing.T) {
	tests := []struct {
		name string
		node ast.Node
		want string
	}{
		{"identifier", ident("foo"), "foo"},
		{"string literal", &ast.Literal{Value: "hi"}, "'hi'"},
		{"string literal raw wins", &ast.Literal{Value: "hi", Raw: `"hi"`}, `"hi"`},
		{"escaped string", &ast.Literal{Value: "it's"}, `'it\'s'`},
		{"number", &ast.Literal{Value: 42}, "42"},
		{"float", &ast.Literal{Value: 1.5}, "1.5"},
		{"bool", &ast.Literal{Value: true}, "true"},
		{"null", &ast.Literal{Value: nil}, "null"},
		{
			"member access",
			&ast.MemberExpression{Object: ident("a"), Property: ident("b")},
			"a.b",
		},
		{
			"computed member",
			&ast.MemberExpression{Object: ident("a"), Property: &ast.Literal{Value: 0}, Computed: true},
			"a[0]",
		},
		{
			"call",
			&ast.CallExpression{Callee: ident("f"), Arguments: []ast.Expression{ident("x"), ident("y")}},
			"f(x, y)",
		},
		{
			"new",
			&ast.NewExpression{Callee: ident("T"), Arguments: []ast.Expression{ident("x")}},
			"new T(x)",
		},
		{
			"array",
			&ast.ArrayExpression{Elements: []ast.Expression{&ast.Literal{Value: 1}, &ast.Literal{Value: 2}}},
			"[1, 2]",
		},
		{
			"empty object",
			&ast.ObjectExpression{},
			"{}",
		},
		{
			"object with keyed property",
			&ast.ObjectExpression{Properties: []*ast.Property{
				{Key: ident("a"), Value: ident("a")},
			}},
			"{ a: a }",
		},
		{
			"object with shorthand property",
			&ast.ObjectExpression{Properties: []*ast.Property{
				{Key: ident("a"), Value: ident("a"), Shorthand: true},
			}},
			"{ a }",
		},
		{
			"binary",
			&ast.BinaryExpression{Operator: "+", Left: ident("a"), Right: ident("b")},
			"a + b",
		},
		{
			"nested binary parenthesized",
			&ast.BinaryExpression{
				Operator: "*",
				Left:     &ast.BinaryExpression{Operator: "+", Left: ident("a"), Right: ident("b")},
				Right:    ident("c"),
			},
			"(a + b) * c",
		},
		{
			"unary word operator",
			&ast.UnaryExpression{Operator: "typeof", Prefix: true, Argument: ident("a")},
			"typeof a",
		},
		{
			"postfix update",
			&ast.UnaryExpression{Operator: "++", Argument: ident("i")},
			"i++",
		},
		{
			"conditional",
			&ast.ConditionalExpression{Test: ident("a"), Consequent: ident("b"), Alternate: ident("c")},
			"a ? b : c",
		},
		{
			"spread",
			&ast.SpreadElement{Argument: ident("rest")},
			"...rest",
		},
		{
			"arrow with expression body",
			&ast.ArrowFunctionExpression{
				Params: []ast.Expression{ident("x")},
				Body:   &ast.BinaryExpression{Operator: "+", Left: ident("x"), Right: &ast.Literal{Value: 1}},
			},
			"(x) => (x + 1)",
		},
		{
			"raw passthrough",
			&ast.Raw{Text: "`tpl ${x}`"},
			"`tpl ${x}`",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Print(tt.node))
		})
	}
}

func TestPrintBareRawHasNoTrailingNewline(t *testing.T) {
	assert.Equal(t, "a ?? b", Print(&ast.Raw{Text: "a ?? b"}))
}

func TestPrintRawStatementKeepsTrailingNewline(t *testing.T) {
	prog := &ast.Program{Body: []ast.Statement{&ast.Raw{Text: "try { f(); } catch (e) {}"}}}
	assert.Equal(t, "try { f(); } catch (e) {}\n", Print(prog))
}

func TestPrintStatements(t *testing.T) {
	tests := []struct {
		name string
		stmt ast.Statement
		want string
	}{
		{
			"directive",
			&ast.ExpressionStatement{
				Expression: &ast.Literal{Value: "use strict", Raw: "'use strict'"},
				Directive:  "use strict",
			},
			"'use strict';\n",
		},
		{
			"variable declaration",
			&ast.VariableDeclaration{Kind: "const", Declarations: []*ast.VariableDeclarator{
				{ID: ident("a"), Init: &ast.Literal{Value: 1}},
				{ID: ident("b"), Init: &ast.Literal{Value: 2}},
			}},
			"const a = 1, b = 2;\n",
		},
		{
			"uninitialized declaration",
			&ast.VariableDeclaration{Kind: "let", Declarations: []*ast.VariableDeclarator{
				{ID: ident("a")},
			}},
			"let a;\n",
		},
		{
			"empty return",
			&ast.ReturnStatement{},
			"return;\n",
		},
		{
			"return value",
			&ast.ReturnStatement{Argument: ident("x")},
			"return x;\n",
		},
		{
			"function declaration",
			&ast.FunctionDeclaration{
				ID:     ident("f"),
				Params: []ast.Expression{ident("x")},
				Body: &ast.BlockStatement{Body: []ast.Statement{
					&ast.ReturnStatement{Argument: ident("x")},
				}},
			},
			"function f(x) {\n  return x;\n}\n",
		},
		{
			"if else",
			&ast.IfStatement{
				Test: ident("ok"),
				Consequent: &ast.BlockStatement{Body: []ast.Statement{
					&ast.ExpressionStatement{Expression: &ast.CallExpression{Callee: ident("yes")}},
				}},
				Alternate: &ast.BlockStatement{Body: []ast.Statement{
					&ast.ExpressionStatement{Expression: &ast.CallExpression{Callee: ident("no")}},
				}},
			},
			"if (ok) {\n  yes();\n} else {\n  no();\n}\n",
		},
		{
			"while",
			&ast.WhileStatement{
				Test: ident("ok"),
				Body: &ast.BlockStatement{},
			},
			"while (ok) {}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Print(tt.stmt))
		})
	}
}

func TestStatementLeadingFunctionExpressionParenthesized(t *testing.T) {
	stmt := &ast.ExpressionStatement{Expression: &ast.FunctionExpression{
		Body: &ast.BlockStatement{},
	}}
	assert.Equal(t, "(function () {});\n", Print(stmt))
}

func TestNestedIndentation(t *testing.T) {
	p := &ast.Program{Body: []ast.Statement{
		&ast.ExpressionStatement{Expression: &ast.CallExpression{
			Callee: ident("define"),
			Arguments: []ast.Expression{
				&ast.FunctionExpression{Body: &ast.BlockStatement{Body: []ast.Statement{
					&ast.IfStatement{
						Test: ident("ok"),
						Consequent: &ast.BlockStatement{Body: []ast.Statement{
							&ast.ReturnStatement{Argument: &ast.Literal{Value: 1}},
						}},
					},
				}}},
			},
		}},
	}}

	want := "define(function () {\n" +
		"  if (ok) {\n" +
		"    return 1;\n" +
		"  }\n" +
		"});\n"
	assert.Equal(t, want, Print(p))
}

func TestUnconvertedModuleDeclarationPrintsComment(t *testing.T) {
	p := &ast.Program{Body: []ast.Statement{
		&ast.ImportDeclaration{Source: &ast.Literal{Value: "m"}},
	}}
	assert.Contains(t, Print(p), "/* unsupported module declaration */")
}
