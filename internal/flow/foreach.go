package flow

import (
	"github.com/flowscript/flowscript/internal/ast"
	"github.com/flowscript/flowscript/internal/herrors"
	"github.com/flowscript/flowscript/internal/scope"
	"github.com/flowscript/flowscript/internal/value"
)

// runForeach implements `foreach(items, step)` (§4.5): apply step to each
// item of items (a list, or a dict's values in key order), collecting
// results in order.
func runForeach(args []ast.Node, sc *scope.Scope, h Host) (value.Value, *herrors.Diagnostic) {
	if len(args) < 2 {
		return value.Nil, herrors.At(herrors.CallError, ast.Span{}, "foreach requires (items, step)")
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
		return value.Nil, herrors.At(herrors.TypeError, args[0].Span(), "foreach expects a list or dict, got "+itemsVal.Kind().String())
	}

	results := make([]value.Value, 0, len(items))
	for _, item := range items {
		out, diag := h.InvokeStepWithInput(args[1], item, sc)
		if diag != nil {
			return value.Nil, diag
		}
		results = append(results, value.UnwrapData(out))
	}
	return buildEnvelope(true, value.NewList(results), nil, "foreach"), nil
}
