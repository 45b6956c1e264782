package ast

// Visitor carries the per-node callbacks for Replace. Enter runs pre-order
// (top-down), Leave post-order (bottom-up). Returning nil keeps the node;
// returning a node replaces it. A replacement made by Enter has its subtree
// visited, a replacement made by Leave does not.
type Visitor struct {
	Enter func(Node) Node
	Leave func(Node) Node
}

// Replace performs one traversal of the tree rooted at root, mutating child
// links in place as the visitor directs, and returns the (possibly replaced)
// root.
func Replace(root Node, v Visitor) Node {
	return apply(root, &v)
}

// Walk visits every node in pre-order without replacing anything.
func Walk(root Node, fn func(Node)) {
	Replace(root, Visitor{Enter: func(n Node) Node {
		fn(n)
		return nil
	}})
}

// Find returns all nodes of type T in document order.
func Find[T Node](root Node) []T {
	var out []T
	Walk(root, func(n Node) {
		if t, ok := n.(T); ok {
			out = append(out, t)
		}
	})
	return out
}

// Has reports whether any node of type T exists under root.
func Has[T Node](root Node) bool {
	found := false
	Walk(root, func(n Node) {
		if _, ok := n.(T); ok {
			found = true
		}
	})
	return found
}

// Remove deletes every statement matching the predicate, in place, from all
// statement sequences under root.
func Remove(root Node, match func(Node) bool) {
	Replace(root, Visitor{Enter: func(n Node) Node {
		switch t := n.(type) {
		case *Program:
			t.Body = filterStmts(t.Body, match)
		case *BlockStatement:
			t.Body = filterStmts(t.Body, match)
		}
		return nil
	}})
}

// Prepend inserts s at the start of the top-level body.
func (p *Program) Prepend(s Statement) {
	p.Body = append([]Statement{s}, p.Body...)
}

// Append inserts s at the end of the top-level body.
func (p *Program) Append(s Statement) {
	p.Body = append(p.Body, s)
}

// Wrap replaces the entire top-level body with whatever fn returns for it.
func (p *Program) Wrap(fn func(body []Statement) []Statement) {
	p.Body = fn(p.Body)
}

func filterStmts(stmts []Statement, match func(Node) bool) []Statement {
	out := stmts[:0]
	for _, s := range stmts {
		if !match(s) {
			out = append(out, s)
		}
	}
	return out
}

func apply(n Node, v *Visitor) Node {
	if n == nil {
		return nil
	}
	if v.Enter != nil {
		if r := v.Enter(n); r != nil {
			n = r
		}
	}
	applyChildren(n, v)
	if v.Leave != nil {
		if r := v.Leave(n); r != nil {
			n = r
		}
	}
	return n
}

func applyExpr(e Expression, v *Visitor) Expression {
	if e == nil {
		return nil
	}
	return apply(e, v).(Expression)
}

func applyStmt(s Statement, v *Visitor) Statement {
	if s == nil {
		return nil
	}
	return apply(s, v).(Statement)
}

func applyNode(n Node, v *Visitor) Node {
	if n == nil {
		return nil
	}
	return apply(n, v)
}

// applyIdent visits an *Identifier-typed field. A visitor may only replace it
// with another identifier; anything else keeps the original, since the owning
// slot cannot hold a general expression.
func applyIdent(id *Identifier, v *Visitor) *Identifier {
	if id == nil {
		return nil
	}
	if r, ok := apply(id, v).(*Identifier); ok {
		return r
	}
	return id
}

func applyExprs(list []Expression, v *Visitor) {
	for i := range list {
		list[i] = applyExpr(list[i], v)
	}
}

func applyStmts(list []Statement, v *Visitor) {
	for i := range list {
		list[i] = applyStmt(list[i], v)
	}
}

func applyChildren(n Node, v *Visitor) {
	switch t := n.(type) {
	case *Program:
		applyStmts(t.Body, v)
	case *ImportDeclaration:
		for i := range t.Specifiers {
			t.Specifiers[i] = applyNode(t.Specifiers[i], v)
		}
		if t.Source != nil {
			apply(t.Source, v)
		}
	case *ImportDefaultSpecifier:
		t.Local = applyIdent(t.Local, v)
	case *ImportNamespaceSpecifier:
		t.Local = applyIdent(t.Local, v)
	case *ImportSpecifier:
		t.Imported = applyIdent(t.Imported, v)
		t.Local = applyIdent(t.Local, v)
	case *ExportDefaultDeclaration:
		t.Declaration = applyNode(t.Declaration, v)
	case *ExportNamedDeclaration:
		t.Declaration = applyStmt(t.Declaration, v)
		for _, s := range t.Specifiers {
			apply(s, v)
		}
		if t.Source != nil {
			apply(t.Source, v)
		}
	case *ExportSpecifier:
		t.Local = applyIdent(t.Local, v)
		t.Exported = applyIdent(t.Exported, v)
	case *VariableDeclaration:
		for _, d := range t.Declarations {
			apply(d, v)
		}
	case *VariableDeclarator:
		t.ID = applyExpr(t.ID, v)
		t.Init = applyExpr(t.Init, v)
	case *FunctionDeclaration:
		t.ID = applyIdent(t.ID, v)
		applyExprs(t.Params, v)
		if t.Body != nil {
			apply(t.Body, v)
		}
	case *ClassDeclaration:
		t.ID = applyIdent(t.ID, v)
		t.SuperClass = applyExpr(t.SuperClass, v)
	case *MemberExpression:
		t.Object = applyExpr(t.Object, v)
		t.Property = applyExpr(t.Property, v)
	case *ObjectExpression:
		for _, p := range t.Properties {
			apply(p, v)
		}
	case *Property:
		t.Key = applyExpr(t.Key, v)
		t.Value = applyExpr(t.Value, v)
	case *ArrayExpression:
		applyExprs(t.Elements, v)
	case *CallExpression:
		t.Callee = applyExpr(t.Callee, v)
		applyExprs(t.Arguments, v)
	case *NewExpression:
		t.Callee = applyExpr(t.Callee, v)
		applyExprs(t.Arguments, v)
	case *ExpressionStatement:
		t.Expression = applyExpr(t.Expression, v)
	case *ReturnStatement:
		t.Argument = applyNode(t.Argument, v)
	case *BlockStatement:
		applyStmts(t.Body, v)
	case *FunctionExpression:
		t.ID = applyIdent(t.ID, v)
		applyExprs(t.Params, v)
		if t.Body != nil {
			apply(t.Body, v)
		}
	case *ArrowFunctionExpression:
		applyExprs(t.Params, v)
		t.Body = applyNode(t.Body, v)
	case *BinaryExpression:
		t.Left = applyExpr(t.Left, v)
		t.Right = applyExpr(t.Right, v)
	case *UnaryExpression:
		t.Argument = applyExpr(t.Argument, v)
	case *AssignmentExpression:
		t.Left = applyExpr(t.Left, v)
		t.Right = applyExpr(t.Right, v)
	case *ConditionalExpression:
		t.Test = applyExpr(t.Test, v)
		t.Consequent = applyExpr(t.Consequent, v)
		t.Alternate = applyExpr(t.Alternate, v)
	case *SpreadElement:
		t.Argument = applyExpr(t.Argument, v)
	case *IfStatement:
		t.Test = applyExpr(t.Test, v)
		t.Consequent = applyStmt(t.Consequent, v)
		t.Alternate = applyStmt(t.Alternate, v)
	case *ForStatement:
		t.Init = applyNode(t.Init, v)
		t.Test = applyExpr(t.Test, v)
		t.Update = applyExpr(t.Update, v)
		t.Body = applyStmt(t.Body, v)
	case *WhileStatement:
		t.Test = applyExpr(t.Test, v)
		t.Body = applyStmt(t.Body, v)
	case *Identifier, *Literal, *Raw:
		// leaves
	}
}
