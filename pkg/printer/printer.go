// Package printer serializes a syntax tree back to JavaScript source text.
//
// Output is deterministic: two-space indentation, single-quoted strings,
// semicolon-terminated statements. Raw nodes print their original source
// verbatim, so undecomposed constructs round-trip unchanged.
package printer

import (
	"fmt"
	"strconv"
	"strings"

	"amdify/pkg/ast"
)

// Print serializes node to JavaScript text. Statements and programs end with
// a trailing newline; expressions do not. A bare Raw node prints its text
// verbatim with no newline; inside a program it prints as a statement.
func Print(node ast.Node) string {
	p := &printer{}
	switch n := node.(type) {
	case *ast.Program:
		p.stmts(n.Body)
	case *ast.Raw:
		p.write(n.Text)
	case ast.Statement:
		p.stmt(n)
	default:
		p.node(node)
	}
	return p.sb.String()
}

type printer struct {
	sb     strings.Builder
	indent int
}

func (p *printer) write(s string) {
	p.sb.WriteString(s)
}

func (p *printer) line(s string) {
	p.pad()
	p.write(s)
	p.write("\n")
}

func (p *printer) pad() {
	for i := 0; i < p.indent; i++ {
		p.write("  ")
	}
}

func (p *printer) stmts(body []ast.Statement) {
	for _, s := range body {
		p.stmt(s)
	}
}

func (p *printer) stmt(s ast.Statement) {
	switch t := s.(type) {
	case *ast.ExpressionStatement:
		if t.Directive != "" {
			p.line("'" + t.Directive + "';")
			return
		}
		p.pad()
		// An expression statement must not begin with `function` or `{`.
		switch t.Expression.(type) {
		case *ast.FunctionExpression, *ast.ObjectExpression:
			p.write("(")
			p.node(t.Expression)
			p.write(")")
		default:
			p.node(t.Expression)
		}
		p.write(";\n")
	case *ast.VariableDeclaration:
		p.pad()
		p.variableDeclaration(t)
		p.write(";\n")
	case *ast.FunctionDeclaration:
		p.pad()
		p.functionHead(t.Async, t.Generator, t.ID, t.Params)
		p.block(t.Body)
		p.write("\n")
	case *ast.ClassDeclaration:
		p.pad()
		p.classHead(t)
		p.write("\n")
	case *ast.ReturnStatement:
		p.pad()
		if t.Argument == nil {
			p.write("return;\n")
			return
		}
		p.write("return ")
		p.node(t.Argument)
		p.write(";\n")
	case *ast.BlockStatement:
		p.pad()
		p.block(t)
		p.write("\n")
	case *ast.IfStatement:
		p.pad()
		p.write("if (")
		p.node(t.Test)
		p.write(") ")
		p.nestedStmt(t.Consequent)
		if t.Alternate != nil {
			p.write(" else ")
			p.nestedStmt(t.Alternate)
		}
		p.write("\n")
	case *ast.ForStatement:
		p.pad()
		p.write("for (")
		if d, ok := t.Init.(*ast.VariableDeclaration); ok {
			p.variableDeclaration(d)
		} else if e, ok := t.Init.(ast.Expression); ok && e != nil {
			p.node(e)
		}
		p.write("; ")
		if t.Test != nil {
			p.node(t.Test)
		}
		p.write("; ")
		if t.Update != nil {
			p.node(t.Update)
		}
		p.write(") ")
		p.nestedStmt(t.Body)
		p.write("\n")
	case *ast.WhileStatement:
		p.pad()
		p.write("while (")
		p.node(t.Test)
		p.write(") ")
		p.nestedStmt(t.Body)
		p.write("\n")
	case *ast.Raw:
		p.line(t.Text)
	case *ast.ImportDeclaration, *ast.ExportDefaultDeclaration, *ast.ExportNamedDeclaration:
		// Conversion strips these; printing an unconverted tree keeps going.
		p.line("/* unsupported module declaration */")
	default:
		p.line(fmt.Sprintf("/* unsupported statement %s */", s.Type()))
	}
}

// nestedStmt prints a statement used as a loop or branch body without the
// leading indentation (the header already wrote it).
func (p *printer) nestedStmt(s ast.Statement) {
	if b, ok := s.(*ast.BlockStatement); ok {
		p.block(b)
		return
	}
	var inner printer
	inner.indent = p.indent
	inner.stmt(s)
	p.write(strings.TrimSuffix(strings.TrimLeft(inner.sb.String(), " "), "\n"))
}

func (p *printer) block(b *ast.BlockStatement) {
	if b == nil || len(b.Body) == 0 {
		p.write("{}")
		return
	}
	p.write("{\n")
	p.indent++
	p.stmts(b.Body)
	p.indent--
	p.pad()
	p.write("}")
}

func (p *printer) variableDeclaration(d *ast.VariableDeclaration) {
	p.write(d.Kind)
	p.write(" ")
	for i, dec := range d.Declarations {
		if i > 0 {
			p.write(", ")
		}
		p.node(dec.ID)
		if dec.Init != nil {
			p.write(" = ")
			p.node(dec.Init)
		}
	}
}

func (p *printer) functionHead(async, generator bool, id *ast.Identifier, params []ast.Expression) {
	if async {
		p.write("async ")
	}
	p.write("function")
	if generator {
		p.write("*")
	}
	p.write(" ")
	if id != nil {
		p.write(id.Name)
	}
	p.write("(")
	p.exprList(params)
	p.write(") ")
}

func (p *printer) classHead(c *ast.ClassDeclaration) {
	p.write("class")
	if c.ID != nil {
		p.write(" ")
		p.write(c.ID.Name)
	}
	if c.SuperClass != nil {
		p.write(" extends ")
		p.node(c.SuperClass)
	}
	p.write(" ")
	if c.Body != nil {
		p.write(c.Body.Text)
	} else {
		p.write("{}")
	}
}

func (p *printer) exprList(list []ast.Expression) {
	for i, e := range list {
		if i > 0 {
			p.write(", ")
		}
		p.node(e)
	}
}

func (p *printer) node(n ast.Node) {
	switch t := n.(type) {
	case *ast.Identifier:
		p.write(t.Name)
	case *ast.Literal:
		p.write(literalText(t))
	case *ast.Raw:
		p.write(t.Text)
	case *ast.MemberExpression:
		p.memberTarget(t.Object)
		if t.Computed {
			p.write("[")
			p.node(t.Property)
			p.write("]")
		} else {
			p.write(".")
			p.node(t.Property)
		}
	case *ast.CallExpression:
		p.memberTarget(t.Callee)
		p.write("(")
		p.exprList(t.Arguments)
		p.write(")")
	case *ast.NewExpression:
		p.write("new ")
		p.memberTarget(t.Callee)
		p.write("(")
		p.exprList(t.Arguments)
		p.write(")")
	case *ast.ArrayExpression:
		p.write("[")
		p.exprList(t.Elements)
		p.write("]")
	case *ast.ObjectExpression:
		if len(t.Properties) == 0 {
			p.write("{}")
			return
		}
		p.write("{ ")
		for i, prop := range t.Properties {
			if i > 0 {
				p.write(", ")
			}
			p.property(prop)
		}
		p.write(" }")
	case *ast.FunctionExpression:
		p.functionHead(t.Async, t.Generator, t.ID, t.Params)
		p.block(t.Body)
	case *ast.FunctionDeclaration:
		// A declaration in expression position (a returned default export)
		// prints as a function expression.
		p.functionHead(t.Async, t.Generator, t.ID, t.Params)
		p.block(t.Body)
	case *ast.ClassDeclaration:
		p.classHead(t)
	case *ast.ArrowFunctionExpression:
		if t.Async {
			p.write("async ")
		}
		p.write("(")
		p.exprList(t.Params)
		p.write(") => ")
		if b, ok := t.Body.(*ast.BlockStatement); ok {
			p.block(b)
		} else if e, ok := t.Body.(ast.Expression); ok {
			p.operand(e)
		}
	case *ast.BinaryExpression:
		p.operand(t.Left)
		p.write(" " + t.Operator + " ")
		p.operand(t.Right)
	case *ast.UnaryExpression:
		if t.Prefix {
			p.write(t.Operator)
			if isWordOperator(t.Operator) {
				p.write(" ")
			}
			p.operand(t.Argument)
		} else {
			p.operand(t.Argument)
			p.write(t.Operator)
		}
	case *ast.AssignmentExpression:
		p.node(t.Left)
		p.write(" " + t.Operator + " ")
		p.node(t.Right)
	case *ast.ConditionalExpression:
		p.operand(t.Test)
		p.write(" ? ")
		p.operand(t.Consequent)
		p.write(" : ")
		p.operand(t.Alternate)
	case *ast.SpreadElement:
		p.write("...")
		p.node(t.Argument)
	default:
		p.write(fmt.Sprintf("/* unsupported %s */", n.Type()))
	}
}

// operand prints a sub-expression, parenthesizing forms whose precedence
// could otherwise change meaning. Extra parentheses are harmless; dropped
// ones are not.
func (p *printer) operand(e ast.Expression) {
	switch e.(type) {
	case *ast.BinaryExpression, *ast.ConditionalExpression,
		*ast.AssignmentExpression, *ast.ArrowFunctionExpression:
		p.write("(")
		p.node(e)
		p.write(")")
	default:
		p.node(e)
	}
}

// memberTarget prints a call or member target, parenthesizing function
// literals and other low-precedence forms.
func (p *printer) memberTarget(e ast.Expression) {
	switch e.(type) {
	case *ast.FunctionExpression, *ast.ArrowFunctionExpression,
		*ast.BinaryExpression, *ast.ConditionalExpression,
		*ast.AssignmentExpression, *ast.ObjectExpression:
		p.write("(")
		p.node(e)
		p.write(")")
	default:
		p.node(e)
	}
}

func (p *printer) property(prop *ast.Property) {
	if prop.Shorthand {
		if k, ok := prop.Key.(*ast.Identifier); ok {
			if v, ok := prop.Value.(*ast.Identifier); ok && v.Name == k.Name {
				p.write(k.Name)
				return
			}
		}
	}
	if prop.Computed {
		p.write("[")
		p.node(prop.Key)
		p.write("]")
	} else {
		p.node(prop.Key)
	}
	p.write(": ")
	p.node(prop.Value)
}

func literalText(lit *ast.Literal) string {
	if lit.Raw != "" {
		return lit.Raw
	}
	switch v := lit.Value.(type) {
	case string:
		return quote(v)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return "null"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// quote renders a single-quoted JavaScript string literal.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			sb.WriteString(`\'`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}

func isWordOperator(op string) bool {
	switch op {
	case "typeof", "void", "delete", "await":
		return true
	}
	return false
}
