// Package convert rewrites a module expressed with declarative import/export
// statements into an equivalent module expressed as one call to an AMD-style
// define loader: an array of module-specifier literals plus a factory whose
// parameters bind those specifiers positionally, or a zero-argument factory
// returning the exported value(s) when there are no imports.
//
// The rewrite is a synchronous sequence of whole-tree passes over a tree the
// caller owns; each pass completes before the next starts and the tree is
// mutated in place. The input is assumed well formed: no validation happens
// here, and a module declaring both a default and a named export is outside
// the contract.
package convert

import "amdify/pkg/ast"

// Convert rewrites the program in place. Priority order: a module with any
// import declaration takes the full dependency-array path regardless of its
// exports; an import-free module with a default or named export becomes a
// zero-parameter factory; a module with neither is left untouched.
//
// The output contains no import/export nodes, so running Convert on its own
// output is a no-op.
func Convert(program *ast.Program) {
	switch {
	case ast.Has[*ast.ImportDeclaration](program):
		convertImports(program)
	case ast.Has[*ast.ExportDefaultDeclaration](program):
		buildDefaultReturn(program)
		assembleFactoryCall(program)
	case ast.Has[*ast.ExportNamedDeclaration](program):
		buildNamedReturn(program)
		assembleFactoryCall(program)
	}
}

func convertImports(program *ast.Program) {
	imports := ast.Find[*ast.ImportDeclaration](program)
	pairs := resolveDependencies(imports)

	ast.Remove(program, func(n ast.Node) bool {
		_, ok := n.(*ast.ImportDeclaration)
		return ok
	})
	rewriteGroupedReferences(program, pairs)

	switch {
	case ast.Has[*ast.ExportDefaultDeclaration](program):
		buildDefaultReturn(program)
	case ast.Has[*ast.ExportNamedDeclaration](program):
		buildNamedReturn(program)
	}

	assembleLoaderCall(program, pairs)
}
