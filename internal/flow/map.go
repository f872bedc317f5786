package flow

import (
	"github.com/flowscript/flowscript/internal/ast"
	"github.com/flowscript/flowscript/internal/herrors"
	"github.com/flowscript/flowscript/internal/scope"
	"github.com/flowscript/flowscript/internal/value"
)

// runMap implements `map(items, step)` (§4.5): the dual of foreach for
// plain transformation. Same item enumeration as foreach (a list, or a
// dict's values in key order), but a non-list/dict input passes through
// unchanged instead of raising a TypeError.
func runMap(args []ast.Node, sc *scope.Scope, h Host) (value.Value, *herrors.Diagnostic) {
	if len(args) < 2 {
		return value.Nil, herrors.At(herrors.CallError, ast.Span{}, "map requires (items, step)")
	}
	itemsVal, diag := h.Eval(args[0], sc)
	if diag != nil {
		return value.Nil, diag
	}

	var items []value.Value
	switch itemsVal.Kind() {
	case value.List:
		items = itemsVal.List()
	case value.Dict:
		d := itemsVal.DictVal()
		for _, k := range d.Keys() {
			v, _ := d.Get(k)
			items = append(items, v)
		}
	default:
		return buildEnvelope(true, itemsVal, nil, "map"), nil
	}

	results := make([]value.Value, 0, len(items))
	for _, item := range items {
		out, diag := h.InvokeStepWithInput(args[1], item, sc)
		if diag != nil {
			return value.Nil, diag
		}
		results = append(results, value.UnwrapData(out))
	}
	return buildEnvelope(true, value.NewList(results), nil, "map"), nil
}
