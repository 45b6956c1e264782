package convert

import "amdify/pkg/ast"

// rewriteGroupedReferences rewrites every bare reference to a grouped-import
// name into a param.name member access. The traversal is bottom-up so a
// freshly built member expression is never revisited as part of its own
// replacement's subtree.
//
// Identifiers in non-reference positions (a non-computed member property, a
// non-computed object key) must stay bare. Children are visited before their
// parent's Leave, so the parent undoes the rewrite in those slots.
func rewriteGroupedReferences(program *ast.Program, pairs []Dependency) {
	targets := make(map[string]string)
	for _, p := range pairs {
		if p.Name != "" {
			targets[p.Name] = p.Param
		}
	}
	if len(targets) == 0 {
		return
	}

	restore := func(e ast.Expression) ast.Expression {
		m, ok := e.(*ast.MemberExpression)
		if !ok || m.Computed {
			return e
		}
		obj, ok := m.Object.(*ast.Identifier)
		if !ok {
			return e
		}
		prop, ok := m.Property.(*ast.Identifier)
		if !ok || targets[prop.Name] != obj.Name {
			return e
		}
		return prop
	}

	ast.Replace(program, ast.Visitor{Leave: func(n ast.Node) ast.Node {
		switch t := n.(type) {
		case *ast.Identifier:
			param, ok := targets[t.Name]
			if !ok {
				return nil
			}
			return &ast.MemberExpression{
				Object:   &ast.Identifier{Name: param},
				Property: &ast.Identifier{Name: t.Name},
			}
		case *ast.MemberExpression:
			if !t.Computed {
				t.Property = restore(t.Property)
			}
		case *ast.Property:
			if !t.Computed {
				t.Key = restore(t.Key)
			}
		}
		return nil
	}})
}
