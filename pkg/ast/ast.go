// Package ast defines the syntax tree the converter operates on, together
// with the generic query and mutation primitives (Find, Has, Remove, Replace,
// Prepend, Append, Wrap) the transform passes compose against.
//
// The shape follows the ESTree naming for the node kinds the converter cares
// about. Constructs the parser does not decompose round-trip through a Raw
// node carrying the original source text verbatim.
package ast

// Node is any syntax tree node.
type Node interface {
	// Type returns the ESTree-style node type name.
	Type() string
}

// Statement is a node that can appear in a statement position.
type Statement interface {
	Node
	stmtNode()
}

// Expression is a node that can appear in an expression position.
type Expression interface {
	Node
	exprNode()
}

// Program is the top-level ordered statement sequence. The converter mutates
// it in place; the caller owns it before and after conversion.
type Program struct {
	Body []Statement
}

func (*Program) Type() string { return "Program" }

// ImportDeclaration is `import ... from 'source'` or a bare `import 'source'`.
// Specifiers holds ImportDefaultSpecifier, ImportNamespaceSpecifier and
// ImportSpecifier nodes in source order; it is empty for side-effect imports.
type ImportDeclaration struct {
	Source     *Literal
	Specifiers []Node
}

func (*ImportDeclaration) Type() string { return "ImportDeclaration" }
func (*ImportDeclaration) stmtNode()    {}

// ImportDefaultSpecifier binds a module's default export to Local.
type ImportDefaultSpecifier struct {
	Local *Identifier
}

func (*ImportDefaultSpecifier) Type() string { return "ImportDefaultSpecifier" }

// ImportNamespaceSpecifier binds all of a module's exports to Local
// (`import * as ns from ...`).
type ImportNamespaceSpecifier struct {
	Local *Identifier
}

func (*ImportNamespaceSpecifier) Type() string { return "ImportNamespaceSpecifier" }

// ImportSpecifier binds one named export. Imported is the name inside the
// dependency module, Local the binding in this module; they are equal unless
// the import was renamed with `as`.
type ImportSpecifier struct {
	Imported *Identifier
	Local    *Identifier
}

func (*ImportSpecifier) Type() string { return "ImportSpecifier" }

// ExportDefaultDeclaration wraps the module's default export. Declaration is
// an Expression for `export default <expr>` and a FunctionDeclaration or
// ClassDeclaration for the declaration forms.
type ExportDefaultDeclaration struct {
	Declaration Node
}

func (*ExportDefaultDeclaration) Type() string { return "ExportDefaultDeclaration" }
func (*ExportDefaultDeclaration) stmtNode()    {}

// ExportNamedDeclaration is either `export <declaration>` (Declaration set,
// Specifiers empty) or `export { a, b as c }` (Specifiers set). Source is
// non-nil for re-exports (`export { a } from 'mod'`).
type ExportNamedDeclaration struct {
	Declaration Statement
	Specifiers  []*ExportSpecifier
	Source      *Literal
}

func (*ExportNamedDeclaration) Type() string { return "ExportNamedDeclaration" }
func (*ExportNamedDeclaration) stmtNode()    {}

// ExportSpecifier names one export in an export clause. Exported differs from
// Local only for `export { a as c }`.
type ExportSpecifier struct {
	Local    *Identifier
	Exported *Identifier
}

func (*ExportSpecifier) Type() string { return "ExportSpecifier" }

// VariableDeclaration is a `var`/`let`/`const` statement.
type VariableDeclaration struct {
	Kind         string
	Declarations []*VariableDeclarator
}

func (*VariableDeclaration) Type() string { return "VariableDeclaration" }
func (*VariableDeclaration) stmtNode()    {}

// VariableDeclarator is one `id = init` entry of a VariableDeclaration.
// ID is an Identifier for simple bindings and Raw for destructuring patterns.
type VariableDeclarator struct {
	ID   Expression
	Init Expression
}

func (*VariableDeclarator) Type() string { return "VariableDeclarator" }

// FunctionDeclaration is a named (or, as a default export, anonymous)
// function statement.
type FunctionDeclaration struct {
	ID        *Identifier
	Params    []Expression
	Body      *BlockStatement
	Async     bool
	Generator bool
}

func (*FunctionDeclaration) Type() string { return "FunctionDeclaration" }
func (*FunctionDeclaration) stmtNode()    {}

// ClassDeclaration is a class statement. The class body is not decomposed;
// Body holds its original source text including the braces.
type ClassDeclaration struct {
	ID         *Identifier
	SuperClass Expression
	Body       *Raw
}

func (*ClassDeclaration) Type() string { return "ClassDeclaration" }
func (*ClassDeclaration) stmtNode()    {}

// Identifier is a name reference or binding.
type Identifier struct {
	Name string
}

func (*Identifier) Type() string { return "Identifier" }
func (*Identifier) exprNode()    {}

// Literal is a primitive literal. Raw preserves the source spelling and wins
// over Value when printing; synthesized literals leave Raw empty.
type Literal struct {
	Value any
	Raw   string
}

func (*Literal) Type() string { return "Literal" }
func (*Literal) exprNode()    {}

// MemberExpression is `object.property` (or `object[property]` when
// Computed).
type MemberExpression struct {
	Object   Expression
	Property Expression
	Computed bool
}

func (*MemberExpression) Type() string { return "MemberExpression" }
func (*MemberExpression) exprNode()    {}

// ObjectExpression is an object literal.
type ObjectExpression struct {
	Properties []*Property
}

func (*ObjectExpression) Type() string { return "ObjectExpression" }
func (*ObjectExpression) exprNode()    {}

// Property is one key/value entry of an ObjectExpression.
type Property struct {
	Key       Expression
	Value     Expression
	Shorthand bool
	Computed  bool
}

func (*Property) Type() string { return "Property" }

// ArrayExpression is an array literal.
type ArrayExpression struct {
	Elements []Expression
}

func (*ArrayExpression) Type() string { return "ArrayExpression" }
func (*ArrayExpression) exprNode()    {}

// CallExpression is `callee(arguments...)`.
type CallExpression struct {
	Callee    Expression
	Arguments []Expression
}

func (*CallExpression) Type() string { return "CallExpression" }
func (*CallExpression) exprNode()    {}

// NewExpression is `new callee(arguments...)`.
type NewExpression struct {
	Callee    Expression
	Arguments []Expression
}

func (*NewExpression) Type() string { return "NewExpression" }
func (*NewExpression) exprNode()    {}

// ExpressionStatement wraps an expression in statement position. Directive is
// set for directive prologue entries such as "use strict".
type ExpressionStatement struct {
	Expression Expression
	Directive  string
}

func (*ExpressionStatement) Type() string { return "ExpressionStatement" }
func (*ExpressionStatement) stmtNode()    {}

// ReturnStatement returns Argument (nil for a bare `return`). Argument is a
// Node rather than an Expression because a converted default export returns
// its function or class declaration directly.
type ReturnStatement struct {
	Argument Node
}

func (*ReturnStatement) Type() string { return "ReturnStatement" }
func (*ReturnStatement) stmtNode()    {}

// BlockStatement is a braced statement sequence.
type BlockStatement struct {
	Body []Statement
}

func (*BlockStatement) Type() string { return "BlockStatement" }
func (*BlockStatement) stmtNode()    {}

// FunctionExpression is a function literal.
type FunctionExpression struct {
	ID        *Identifier
	Params    []Expression
	Body      *BlockStatement
	Async     bool
	Generator bool
}

func (*FunctionExpression) Type() string { return "FunctionExpression" }
func (*FunctionExpression) exprNode()    {}

// ArrowFunctionExpression is an arrow function. Body is a BlockStatement or,
// for the concise form, an Expression.
type ArrowFunctionExpression struct {
	Params []Expression
	Body   Node
	Async  bool
}

func (*ArrowFunctionExpression) Type() string { return "ArrowFunctionExpression" }
func (*ArrowFunctionExpression) exprNode()    {}

// BinaryExpression covers binary and logical operators.
type BinaryExpression struct {
	Operator string
	Left     Expression
	Right    Expression
}

func (*BinaryExpression) Type() string { return "BinaryExpression" }
func (*BinaryExpression) exprNode()    {}

// UnaryExpression is a prefix or postfix unary operator application.
type UnaryExpression struct {
	Operator string
	Prefix   bool
	Argument Expression
}

func (*UnaryExpression) Type() string { return "UnaryExpression" }
func (*UnaryExpression) exprNode()    {}

// AssignmentExpression is `left op right` where op is `=` or a compound
// assignment operator.
type AssignmentExpression struct {
	Operator string
	Left     Expression
	Right    Expression
}

func (*AssignmentExpression) Type() string { return "AssignmentExpression" }
func (*AssignmentExpression) exprNode()    {}

// ConditionalExpression is `test ? consequent : alternate`.
type ConditionalExpression struct {
	Test       Expression
	Consequent Expression
	Alternate  Expression
}

func (*ConditionalExpression) Type() string { return "ConditionalExpression" }
func (*ConditionalExpression) exprNode()    {}

// SpreadElement is `...argument` in call arguments and literals.
type SpreadElement struct {
	Argument Expression
}

func (*SpreadElement) Type() string { return "SpreadElement" }
func (*SpreadElement) exprNode()    {}

// IfStatement is `if (test) consequent [else alternate]`.
type IfStatement struct {
	Test       Expression
	Consequent Statement
	Alternate  Statement
}

func (*IfStatement) Type() string { return "IfStatement" }
func (*IfStatement) stmtNode()    {}

// ForStatement is a classic three-clause for loop. Init is a
// VariableDeclaration or an Expression; any clause may be nil.
type ForStatement struct {
	Init   Node
	Test   Expression
	Update Expression
	Body   Statement
}

func (*ForStatement) Type() string { return "ForStatement" }
func (*ForStatement) stmtNode()    {}

// WhileStatement is `while (test) body`.
type WhileStatement struct {
	Test Expression
	Body Statement
}

func (*WhileStatement) Type() string { return "WhileStatement" }
func (*WhileStatement) stmtNode()    {}

// Raw carries a verbatim slice of the original source for constructs the
// parser does not decompose. It prints as-is and is opaque to traversal.
type Raw struct {
	Text string
}

func (*Raw) Type() string { return "Raw" }
func (*Raw) stmtNode()    {}
func (*Raw) exprNode()    {}
