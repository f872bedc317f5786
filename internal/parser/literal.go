package parser

import "github.com/flowscript/flowscript/internal/ast"

// tryBuildFunctionLit recognizes the shape `(params), { body }, (returns)` -
// a 3-element comma sequence whose middle element is a record and whose
// outer two elements are each a name (typed or untyped) or a tuple of
// names - and
// builds a dedicated ast.FunctionLit node for it (§3 "FunctionDef").
func tryBuildFunctionLit(items []ast.Node) (*ast.FunctionLit, bool) {
	if len(items) != 3 {
		return nil, false
	}
	body, ok := items[1].(*ast.Dict)
	if !ok {
		return nil, false
	}
	params, ok := toParamList(items[0])
	if !ok {
		return nil, false
	}
	returns, ok := toParamList(items[2])
	if !ok {
		return nil, false
	}
	return &ast.FunctionLit{
		Sp:      spanBetween(items[0].Span(), items[2].Span()),
		Params:  params,
		Body:    body,
		Returns: returns,
	}, true
}

// toParamList converts a single TypedVar or Var, or a (possibly empty)
// Tuple of TypedVars and Vars, into a []ast.Param. Anything else fails the function-literal shape.
func toParamList(n ast.Node) ([]ast.Param, bool) {
	switch v := n.(type) {
	case *ast.TypedVar:
		return []ast.Param{{Name: v.Name, Type: v.Type}}, true
	case *ast.Var:
		return []ast.Param{{Name: v.Name}}, true
	case *ast.Tuple:
		var out []ast.Param
		for _, it := range v.Items {
			switch e := it.(type) {
			case *ast.TypedVar:
				out = append(out, ast.Param{Name: e.Name, Type: e.Type})
			case *ast.Var:
				out = append(out, ast.Param{Name: e.Name})
			default:
				return nil, false
			}
		}
		return out, true
	default:
		return nil, false
	}
}
