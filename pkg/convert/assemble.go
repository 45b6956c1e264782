package convert

import "amdify/pkg/ast"

const loaderName = "define"

// strictDirective returns the 'use strict' prologue statement every factory
// body starts with.
func strictDirective() ast.Statement {
	return &ast.ExpressionStatement{
		Expression: &ast.Literal{Value: "use strict", Raw: "'use strict'"},
		Directive:  "use strict",
	}
}

// dedupeDependencies collapses pairs sharing the same (element, param) key,
// keeping first-occurrence order. Distinct params under the same element stay
// distinct: a default import and a grouped named import of one specifier
// yield two array entries bound to two parameters.
func dedupeDependencies(pairs []Dependency) []Dependency {
	seen := make(map[[2]string]struct{}, len(pairs))
	out := make([]Dependency, 0, len(pairs))
	for _, p := range pairs {
		key := [2]string{p.Element, p.Param}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

// assembleLoaderCall replaces the whole top-level body with a single
// define([...], function (...) { body }) expression statement. The array
// lists every deduplicated element; the parameter list matches it restricted
// to pairs that bind a parameter.
func assembleLoaderCall(program *ast.Program, pairs []Dependency) {
	deps := dedupeDependencies(pairs)

	elements := make([]ast.Expression, 0, len(deps))
	var params []ast.Expression
	for _, d := range deps {
		elements = append(elements, &ast.Literal{Value: d.Element})
		if d.Param != "" {
			params = append(params, &ast.Identifier{Name: d.Param})
		}
	}

	program.Prepend(strictDirective())
	program.Wrap(func(body []ast.Statement) []ast.Statement {
		return []ast.Statement{&ast.ExpressionStatement{
			Expression: &ast.CallExpression{
				Callee: &ast.Identifier{Name: loaderName},
				Arguments: []ast.Expression{
					&ast.ArrayExpression{Elements: elements},
					&ast.FunctionExpression{
						Params: params,
						Body:   &ast.BlockStatement{Body: body},
					},
				},
			},
		}}
	})
}

// assembleFactoryCall replaces the top-level body with a define(function () {
// body }) expression statement for the import-free export paths.
func assembleFactoryCall(program *ast.Program) {
	program.Prepend(strictDirective())
	program.Wrap(func(body []ast.Statement) []ast.Statement {
		return []ast.Statement{&ast.ExpressionStatement{
			Expression: &ast.CallExpression{
				Callee: &ast.Identifier{Name: loaderName},
				Arguments: []ast.Expression{
					&ast.FunctionExpression{
						Body: &ast.BlockStatement{Body: body},
					},
				},
			},
		}}
	})
}
