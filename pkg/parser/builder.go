package parser

import (
	"strconv"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"amdify/pkg/ast"
)

// builder lifts a tree-sitter CST into ast nodes. It decomposes the
// statement and expression kinds the converter and the identifier rewriter
// need; anything else becomes an ast.Raw carrying the original source slice,
// which prints verbatim and is opaque to the rewrite passes.
type builder struct {
	src []byte
}

func buildProgram(root *ts.Node, source []byte) *ast.Program {
	b := &builder{src: source}
	program := &ast.Program{}
	for _, child := range namedChildren(root) {
		switch child.Kind() {
		case "comment", "hash_bang_line":
			continue
		}
		if s := b.statement(child); s != nil {
			program.Body = append(program.Body, s)
		}
	}
	return program
}

func (b *builder) text(n *ts.Node) string {
	return n.Utf8Text(b.src)
}

func (b *builder) raw(n *ts.Node) *ast.Raw {
	return &ast.Raw{Text: b.text(n)}
}

func namedChildren(n *ts.Node) []*ts.Node {
	count := n.NamedChildCount()
	out := make([]*ts.Node, 0, count)
	for i := uint(0); i < count; i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}

func hasToken(n *ts.Node, token string) bool {
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		if n.Child(i).Kind() == token {
			return true
		}
	}
	return false
}

// --- statements ---

func (b *builder) statement(n *ts.Node) ast.Statement {
	switch n.Kind() {
	case "import_statement":
		return b.importStatement(n)
	case "export_statement":
		return b.exportStatement(n)
	case "lexical_declaration", "variable_declaration":
		return b.variableDeclaration(n)
	case "function_declaration", "generator_function_declaration":
		return b.functionDeclaration(n)
	case "class_declaration":
		return b.classDeclaration(n)
	case "expression_statement":
		if inner := n.NamedChild(0); inner != nil {
			return &ast.ExpressionStatement{Expression: b.expression(inner)}
		}
		return nil
	case "return_statement":
		stmt := &ast.ReturnStatement{}
		if arg := n.NamedChild(0); arg != nil {
			stmt.Argument = b.expression(arg)
		}
		return stmt
	case "statement_block":
		return b.block(n)
	case "if_statement":
		return b.ifStatement(n)
	case "for_statement":
		return b.forStatement(n)
	case "while_statement":
		return b.whileStatement(n)
	case "empty_statement":
		return nil
	default:
		return b.raw(n)
	}
}

func (b *builder) importStatement(n *ts.Node) ast.Statement {
	source := n.ChildByFieldName("source")
	if source == nil {
		return b.raw(n)
	}
	decl := &ast.ImportDeclaration{Source: b.stringLiteral(source)}

	for _, child := range namedChildren(n) {
		if child.Kind() != "import_clause" {
			continue
		}
		for _, spec := range namedChildren(child) {
			switch spec.Kind() {
			case "identifier":
				decl.Specifiers = append(decl.Specifiers, &ast.ImportDefaultSpecifier{
					Local: &ast.Identifier{Name: b.text(spec)},
				})
			case "namespace_import":
				if local := spec.NamedChild(0); local != nil {
					decl.Specifiers = append(decl.Specifiers, &ast.ImportNamespaceSpecifier{
						Local: &ast.Identifier{Name: b.text(local)},
					})
				}
			case "named_imports":
				for _, item := range namedChildren(spec) {
					if item.Kind() != "import_specifier" {
						continue
					}
					name := item.ChildByFieldName("name")
					if name == nil {
						continue
					}
					imported := &ast.Identifier{Name: b.text(name)}
					local := imported
					if alias := item.ChildByFieldName("alias"); alias != nil {
						local = &ast.Identifier{Name: b.text(alias)}
					}
					decl.Specifiers = append(decl.Specifiers, &ast.ImportSpecifier{
						Imported: imported,
						Local:    local,
					})
				}
			}
		}
	}
	return decl
}

func (b *builder) exportStatement(n *ts.Node) ast.Statement {
	if hasToken(n, "default") {
		if value := n.ChildByFieldName("value"); value != nil {
			return &ast.ExportDefaultDeclaration{Declaration: b.expression(value)}
		}
		if decl := n.ChildByFieldName("declaration"); decl != nil {
			return &ast.ExportDefaultDeclaration{Declaration: b.statement(decl)}
		}
		return b.raw(n)
	}
	if hasToken(n, "*") {
		// Star re-exports are outside the conversion contract.
		return b.raw(n)
	}
	for _, child := range namedChildren(n) {
		if child.Kind() == "namespace_export" {
			return b.raw(n)
		}
	}

	if decl := n.ChildByFieldName("declaration"); decl != nil {
		inner := b.statement(decl)
		if _, ok := inner.(*ast.Raw); ok {
			// TS-only declaration forms round-trip whole.
			return b.raw(n)
		}
		return &ast.ExportNamedDeclaration{Declaration: inner}
	}

	named := &ast.ExportNamedDeclaration{}
	if source := n.ChildByFieldName("source"); source != nil {
		named.Source = b.stringLiteral(source)
	}
	for _, child := range namedChildren(n) {
		if child.Kind() != "export_clause" {
			continue
		}
		for _, item := range namedChildren(child) {
			if item.Kind() != "export_specifier" {
				continue
			}
			name := item.ChildByFieldName("name")
			if name == nil {
				continue
			}
			local := &ast.Identifier{Name: b.text(name)}
			exported := local
			if alias := item.ChildByFieldName("alias"); alias != nil {
				exported = &ast.Identifier{Name: b.text(alias)}
			}
			named.Specifiers = append(named.Specifiers, &ast.ExportSpecifier{
				Local:    local,
				Exported: exported,
			})
		}
	}
	return named
}

func (b *builder) variableDeclaration(n *ts.Node) ast.Statement {
	kind := "var"
	if first := n.Child(0); first != nil {
		kind = first.Kind() // var, let or const token
	}
	decl := &ast.VariableDeclaration{Kind: kind}
	for _, child := range namedChildren(n) {
		if child.Kind() != "variable_declarator" {
			continue
		}
		d := &ast.VariableDeclarator{}
		if name := child.ChildByFieldName("name"); name != nil {
			if name.Kind() == "identifier" {
				d.ID = &ast.Identifier{Name: b.text(name)}
			} else {
				d.ID = b.raw(name) // destructuring pattern
			}
		}
		if value := child.ChildByFieldName("value"); value != nil {
			d.Init = b.expression(value)
		}
		decl.Declarations = append(decl.Declarations, d)
	}
	return decl
}

func (b *builder) functionDeclaration(n *ts.Node) ast.Statement {
	decl := &ast.FunctionDeclaration{
		Async:     hasToken(n, "async"),
		Generator: n.Kind() == "generator_function_declaration",
	}
	if name := n.ChildByFieldName("name"); name != nil {
		decl.ID = &ast.Identifier{Name: b.text(name)}
	}
	decl.Params = b.parameters(n.ChildByFieldName("parameters"))
	if body := n.ChildByFieldName("body"); body != nil {
		decl.Body = b.block(body)
	}
	return decl
}

func (b *builder) classDeclaration(n *ts.Node) ast.Statement {
	decl := &ast.ClassDeclaration{}
	if name := n.ChildByFieldName("name"); name != nil {
		decl.ID = &ast.Identifier{Name: b.text(name)}
	}
	for _, child := range namedChildren(n) {
		if child.Kind() == "class_heritage" {
			if super := child.NamedChild(0); super != nil {
				decl.SuperClass = b.expression(super)
			}
		}
	}
	if body := n.ChildByFieldName("body"); body != nil {
		decl.Body = b.raw(body)
	}
	return decl
}

func (b *builder) block(n *ts.Node) *ast.BlockStatement {
	block := &ast.BlockStatement{}
	for _, child := range namedChildren(n) {
		if child.Kind() == "comment" {
			continue
		}
		if s := b.statement(child); s != nil {
			block.Body = append(block.Body, s)
		}
	}
	return block
}

func (b *builder) ifStatement(n *ts.Node) ast.Statement {
	stmt := &ast.IfStatement{}
	if cond := n.ChildByFieldName("condition"); cond != nil {
		stmt.Test = b.condition(cond)
	}
	if cons := n.ChildByFieldName("consequence"); cons != nil {
		stmt.Consequent = b.statement(cons)
	}
	if alt := n.ChildByFieldName("alternative"); alt != nil {
		// else_clause wraps the alternate statement
		if inner := alt.NamedChild(0); inner != nil {
			stmt.Alternate = b.statement(inner)
		}
	}
	return stmt
}

func (b *builder) forStatement(n *ts.Node) ast.Statement {
	stmt := &ast.ForStatement{}
	if init := n.ChildByFieldName("initializer"); init != nil {
		switch init.Kind() {
		case "lexical_declaration", "variable_declaration":
			stmt.Init = b.variableDeclaration(init)
		case "expression_statement":
			if inner := init.NamedChild(0); inner != nil {
				stmt.Init = b.expression(inner)
			}
		case "empty_statement":
		default:
			stmt.Init = b.expression(init)
		}
	}
	if cond := n.ChildByFieldName("condition"); cond != nil {
		switch cond.Kind() {
		case "expression_statement":
			if inner := cond.NamedChild(0); inner != nil {
				stmt.Test = b.expression(inner)
			}
		case "empty_statement":
		default:
			stmt.Test = b.expression(cond)
		}
	}
	if inc := n.ChildByFieldName("increment"); inc != nil {
		stmt.Update = b.expression(inc)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		stmt.Body = b.statement(body)
	}
	return stmt
}

func (b *builder) whileStatement(n *ts.Node) ast.Statement {
	stmt := &ast.WhileStatement{}
	if cond := n.ChildByFieldName("condition"); cond != nil {
		stmt.Test = b.condition(cond)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		stmt.Body = b.statement(body)
	}
	return stmt
}

// condition unwraps the parenthesized_expression tree-sitter puts around
// if/while conditions.
func (b *builder) condition(n *ts.Node) ast.Expression {
	if n.Kind() == "parenthesized_expression" {
		if inner := n.NamedChild(0); inner != nil {
			return b.expression(inner)
		}
	}
	return b.expression(n)
}

// --- expressions ---

func (b *builder) expression(n *ts.Node) ast.Expression {
	switch n.Kind() {
	case "identifier", "property_identifier", "shorthand_property_identifier",
		"private_property_identifier", "this", "super", "undefined":
		return &ast.Identifier{Name: b.text(n)}
	case "number":
		text := b.text(n)
		lit := &ast.Literal{Raw: text}
		if v, err := strconv.ParseFloat(text, 64); err == nil {
			lit.Value = v
		}
		return lit
	case "string":
		return b.stringLiteral(n)
	case "true":
		return &ast.Literal{Value: true, Raw: "true"}
	case "false":
		return &ast.Literal{Value: false, Raw: "false"}
	case "null":
		return &ast.Literal{Value: nil, Raw: "null"}
	case "member_expression":
		expr := &ast.MemberExpression{}
		if obj := n.ChildByFieldName("object"); obj != nil {
			expr.Object = b.expression(obj)
		}
		if prop := n.ChildByFieldName("property"); prop != nil {
			expr.Property = b.expression(prop)
		}
		return expr
	case "subscript_expression":
		expr := &ast.MemberExpression{Computed: true}
		if obj := n.ChildByFieldName("object"); obj != nil {
			expr.Object = b.expression(obj)
		}
		if idx := n.ChildByFieldName("index"); idx != nil {
			expr.Property = b.expression(idx)
		}
		return expr
	case "call_expression":
		args := n.ChildByFieldName("arguments")
		if args == nil || args.Kind() != "arguments" {
			return b.raw(n) // tagged template call
		}
		expr := &ast.CallExpression{}
		if callee := n.ChildByFieldName("function"); callee != nil {
			expr.Callee = b.expression(callee)
		}
		for _, arg := range namedChildren(args) {
			expr.Arguments = append(expr.Arguments, b.expression(arg))
		}
		return expr
	case "new_expression":
		expr := &ast.NewExpression{}
		if callee := n.ChildByFieldName("constructor"); callee != nil {
			expr.Callee = b.expression(callee)
		}
		if args := n.ChildByFieldName("arguments"); args != nil {
			for _, arg := range namedChildren(args) {
				expr.Arguments = append(expr.Arguments, b.expression(arg))
			}
		}
		return expr
	case "object":
		return b.objectExpression(n)
	case "array":
		expr := &ast.ArrayExpression{}
		for _, el := range namedChildren(n) {
			if el.Kind() == "comment" {
				continue
			}
			expr.Elements = append(expr.Elements, b.expression(el))
		}
		return expr
	case "arrow_function":
		return b.arrowFunction(n)
	case "function_expression", "function", "generator_function":
		return b.functionExpression(n)
	case "binary_expression":
		return b.operatorExpression(n, func(op string, left, right ast.Expression) ast.Expression {
			return &ast.BinaryExpression{Operator: op, Left: left, Right: right}
		})
	case "assignment_expression":
		expr := &ast.AssignmentExpression{Operator: "="}
		if left := n.ChildByFieldName("left"); left != nil {
			expr.Left = b.expression(left)
		}
		if right := n.ChildByFieldName("right"); right != nil {
			expr.Right = b.expression(right)
		}
		return expr
	case "augmented_assignment_expression":
		return b.operatorExpression(n, func(op string, left, right ast.Expression) ast.Expression {
			return &ast.AssignmentExpression{Operator: op, Left: left, Right: right}
		})
	case "unary_expression":
		expr := &ast.UnaryExpression{Prefix: true}
		if op := n.ChildByFieldName("operator"); op != nil {
			expr.Operator = b.text(op)
		}
		if arg := n.ChildByFieldName("argument"); arg != nil {
			expr.Argument = b.expression(arg)
		}
		return expr
	case "update_expression":
		expr := &ast.UnaryExpression{}
		op := n.ChildByFieldName("operator")
		arg := n.ChildByFieldName("argument")
		if op != nil {
			expr.Operator = b.text(op)
		}
		if arg != nil {
			expr.Argument = b.expression(arg)
			if op != nil {
				expr.Prefix = op.StartByte() < arg.StartByte()
			}
		}
		return expr
	case "await_expression":
		expr := &ast.UnaryExpression{Operator: "await", Prefix: true}
		if arg := n.NamedChild(0); arg != nil {
			expr.Argument = b.expression(arg)
		}
		return expr
	case "ternary_expression":
		expr := &ast.ConditionalExpression{}
		if test := n.ChildByFieldName("condition"); test != nil {
			expr.Test = b.expression(test)
		}
		if cons := n.ChildByFieldName("consequence"); cons != nil {
			expr.Consequent = b.expression(cons)
		}
		if alt := n.ChildByFieldName("alternative"); alt != nil {
			expr.Alternate = b.expression(alt)
		}
		return expr
	case "parenthesized_expression":
		if inner := n.NamedChild(0); inner != nil {
			return b.expression(inner)
		}
		return b.raw(n)
	case "spread_element":
		expr := &ast.SpreadElement{}
		if arg := n.NamedChild(0); arg != nil {
			expr.Argument = b.expression(arg)
		}
		return expr
	case "as_expression", "non_null_expression", "satisfies_expression":
		// TS wrappers around a plain expression
		if inner := n.NamedChild(0); inner != nil {
			return b.expression(inner)
		}
		return b.raw(n)
	default:
		return b.raw(n)
	}
}

func (b *builder) operatorExpression(n *ts.Node, build func(op string, left, right ast.Expression) ast.Expression) ast.Expression {
	var op string
	var left, right ast.Expression
	if o := n.ChildByFieldName("operator"); o != nil {
		op = b.text(o)
	}
	if l := n.ChildByFieldName("left"); l != nil {
		left = b.expression(l)
	}
	if r := n.ChildByFieldName("right"); r != nil {
		right = b.expression(r)
	}
	return build(op, left, right)
}

func (b *builder) objectExpression(n *ts.Node) ast.Expression {
	expr := &ast.ObjectExpression{}
	for _, child := range namedChildren(n) {
		switch child.Kind() {
		case "comment":
		case "pair":
			prop := &ast.Property{}
			if key := child.ChildByFieldName("key"); key != nil {
				if key.Kind() == "computed_property_name" {
					prop.Computed = true
					if inner := key.NamedChild(0); inner != nil {
						prop.Key = b.expression(inner)
					}
				} else {
					prop.Key = b.expression(key)
				}
			}
			if value := child.ChildByFieldName("value"); value != nil {
				prop.Value = b.expression(value)
			}
			expr.Properties = append(expr.Properties, prop)
		case "shorthand_property_identifier":
			name := b.text(child)
			expr.Properties = append(expr.Properties, &ast.Property{
				Key:       &ast.Identifier{Name: name},
				Value:     &ast.Identifier{Name: name},
				Shorthand: true,
			})
		default:
			// methods, getters, spread: keep the whole literal verbatim
			return b.raw(n)
		}
	}
	return expr
}

func (b *builder) arrowFunction(n *ts.Node) ast.Expression {
	expr := &ast.ArrowFunctionExpression{Async: hasToken(n, "async")}
	if param := n.ChildByFieldName("parameter"); param != nil {
		expr.Params = []ast.Expression{&ast.Identifier{Name: b.text(param)}}
	} else {
		expr.Params = b.parameters(n.ChildByFieldName("parameters"))
	}
	if body := n.ChildByFieldName("body"); body != nil {
		if body.Kind() == "statement_block" {
			expr.Body = b.block(body)
		} else {
			expr.Body = b.expression(body)
		}
	}
	return expr
}

func (b *builder) functionExpression(n *ts.Node) ast.Expression {
	expr := &ast.FunctionExpression{
		Async:     hasToken(n, "async"),
		Generator: n.Kind() == "generator_function",
	}
	if name := n.ChildByFieldName("name"); name != nil {
		expr.ID = &ast.Identifier{Name: b.text(name)}
	}
	expr.Params = b.parameters(n.ChildByFieldName("parameters"))
	if body := n.ChildByFieldName("body"); body != nil {
		expr.Body = b.block(body)
	}
	return expr
}

func (b *builder) parameters(n *ts.Node) []ast.Expression {
	if n == nil {
		return nil
	}
	var params []ast.Expression
	for _, child := range namedChildren(n) {
		switch child.Kind() {
		case "comment":
		case "identifier":
			params = append(params, &ast.Identifier{Name: b.text(child)})
		case "required_parameter", "optional_parameter":
			// TS parameter wrapper; use the pattern when it is a plain name
			if pat := child.ChildByFieldName("pattern"); pat != nil && pat.Kind() == "identifier" && child.ChildByFieldName("type") == nil && child.ChildByFieldName("value") == nil {
				params = append(params, &ast.Identifier{Name: b.text(pat)})
			} else {
				params = append(params, b.raw(child))
			}
		default:
			params = append(params, b.raw(child))
		}
	}
	return params
}

// stringLiteral lifts a tree-sitter string node, preserving the original
// quoting in Raw.
func (b *builder) stringLiteral(n *ts.Node) *ast.Literal {
	var value strings.Builder
	for _, frag := range namedChildren(n) {
		switch frag.Kind() {
		case "string_fragment":
			value.WriteString(b.text(frag))
		case "escape_sequence":
			value.WriteString(unescape(b.text(frag)))
		}
	}
	return &ast.Literal{Value: value.String(), Raw: b.text(n)}
}

func unescape(seq string) string {
	if len(seq) < 2 || seq[0] != '\\' {
		return seq
	}
	switch seq[1] {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case '\'', '"', '\\', '`':
		return seq[1:]
	default:
		return seq[1:]
	}
}
