package convert

import "amdify/pkg/ast"

// Dependency is one record of the loader's dependency list.
//
// Element is always the module specifier. Param is the factory parameter the
// specifier binds to; it is empty only for a side-effect import. Name is set
// only when two or more unrenamed named imports of the same specifier share
// one synthetic parameter: it is the original bare local name that must be
// rewritten to Param.Name wherever referenced.
type Dependency struct {
	Element string `json:"element"`
	Param   string `json:"param,omitempty"`
	Name    string `json:"name,omitempty"`
}

// resolverState is threaded through one resolution run. The memo guarantees
// that all unrenamed named specifiers of the same module share exactly one
// synthetic parameter; excluded grows with every allocation so later
// allocations cannot collide with earlier ones.
type resolverState struct {
	memo     map[string]string
	excluded map[string]struct{}
}

// Dependencies walks the module's top-level import declarations once and
// returns the flat dependency list, in declaration order, specifier order
// within a declaration. The tree is not mutated.
func Dependencies(program *ast.Program) []Dependency {
	return resolveDependencies(ast.Find[*ast.ImportDeclaration](program))
}

func resolveDependencies(imports []*ast.ImportDeclaration) []Dependency {
	st := &resolverState{
		memo:     make(map[string]string),
		excluded: importNames(imports),
	}

	var pairs []Dependency
	for _, imp := range imports {
		source := specifierText(imp.Source)
		if len(imp.Specifiers) == 0 {
			pairs = append(pairs, Dependency{Element: source})
			continue
		}
		for _, spec := range imp.Specifiers {
			switch s := spec.(type) {
			case *ast.ImportDefaultSpecifier:
				pairs = append(pairs, Dependency{Element: source, Param: s.Local.Name})
			case *ast.ImportNamespaceSpecifier:
				pairs = append(pairs, Dependency{Element: source, Param: s.Local.Name})
			case *ast.ImportSpecifier:
				if s.Imported.Name != s.Local.Name {
					// Renamed imports bind directly under the local alias.
					pairs = append(pairs, Dependency{Element: source, Param: s.Local.Name})
					continue
				}
				pairs = append(pairs, Dependency{
					Element: source,
					Param:   st.paramFor(source),
					Name:    s.Local.Name,
				})
			}
		}
	}
	return pairs
}

// paramFor returns the synthetic parameter shared by all unrenamed named
// imports of source, allocating it on first use.
func (st *resolverState) paramFor(source string) string {
	if param, ok := st.memo[source]; ok {
		return param
	}
	param := Allocate(st.excluded)
	st.excluded[param] = struct{}{}
	st.memo[source] = param
	return param
}

// importNames collects every identifier name appearing among the import
// declarations. The allocator must exclude all of them.
func importNames(imports []*ast.ImportDeclaration) map[string]struct{} {
	names := make(map[string]struct{})
	for _, imp := range imports {
		ast.Walk(imp, func(n ast.Node) {
			if id, ok := n.(*ast.Identifier); ok {
				names[id.Name] = struct{}{}
			}
		})
	}
	return names
}

func specifierText(lit *ast.Literal) string {
	if lit == nil {
		return ""
	}
	if s, ok := lit.Value.(string); ok {
		return s
	}
	return ""
}
