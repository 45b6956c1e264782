package convert

import "amdify/pkg/ast"

// buildDefaultReturn replaces the module's ExportDefaultDeclaration with a
// return statement whose argument is the wrapped declaration or expression.
// The wrapper itself is discarded: an anonymous function or class value
// becomes the returned value without also remaining a named statement.
func buildDefaultReturn(program *ast.Program) {
	ast.Replace(program, ast.Visitor{Enter: func(n ast.Node) ast.Node {
		if d, ok := n.(*ast.ExportDefaultDeclaration); ok {
			return &ast.ReturnStatement{Argument: d.Declaration}
		}
		return nil
	}})
}

// buildNamedReturn converts every ExportNamedDeclaration into entries of one
// returned object expression, appended as the final statement.
//
// Specifier-only clauses (`export { a, b as c }`) contribute shorthand
// properties keyed by the specifier's local name; the export rename is
// deliberately not reflected in the key. Declaration-backed exports keep the
// underlying declaration as an ordinary statement and contribute one keyed
// property per declared name.
func buildNamedReturn(program *ast.Program) {
	var props []*ast.Property

	ast.Replace(program, ast.Visitor{Enter: func(n ast.Node) ast.Node {
		d, ok := n.(*ast.ExportNamedDeclaration)
		if !ok {
			return nil
		}
		switch decl := d.Declaration.(type) {
		case nil:
			for _, s := range d.Specifiers {
				props = append(props, &ast.Property{
					Key:       &ast.Identifier{Name: s.Local.Name},
					Value:     &ast.Identifier{Name: s.Local.Name},
					Shorthand: true,
				})
			}
			return nil // wrapper removed below, no statement remains
		case *ast.VariableDeclaration:
			for _, dec := range decl.Declarations {
				if id, ok := dec.ID.(*ast.Identifier); ok {
					props = append(props, keyedProperty(id.Name))
				}
			}
			return decl
		case *ast.FunctionDeclaration:
			props = append(props, keyedProperty(decl.ID.Name))
			return decl
		case *ast.ClassDeclaration:
			props = append(props, keyedProperty(decl.ID.Name))
			return decl
		}
		return nil
	}})

	ast.Remove(program, func(n ast.Node) bool {
		_, ok := n.(*ast.ExportNamedDeclaration)
		return ok
	})

	program.Append(&ast.ReturnStatement{
		Argument: &ast.ObjectExpression{Properties: props},
	})
}

func keyedProperty(name string) *ast.Property {
	return &ast.Property{
		Key:   &ast.Identifier{Name: name},
		Value: &ast.Identifier{Name: name},
	}
}
