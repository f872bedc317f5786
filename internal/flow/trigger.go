package flow

import (
	"github.com/flowscript/flowscript/internal/ast"
	"github.com/flowscript/flowscript/internal/herrors"
	"github.com/flowscript/flowscript/internal/scope"
	"github.com/flowscript/flowscript/internal/value"
)

// runTrigger implements `trigger(name)` (§4.5): suspend until an external
// event of that name arrives (published via the evaluator's EventBus,
// typically by the scheduler or an embedding host), returning its payload.
// Cancellation-safe: a cancelled context unsubscribes and returns a
// CallError envelope instead of blocking forever.
func runTrigger(args []ast.Node, sc *scope.Scope, h Host) (value.Value, *herrors.Diagnostic) {
	if len(args) < 1 {
		return value.Nil, herrors.At(herrors.CallError, ast.Span{}, "trigger requires an event name")
	}
	nameVal, diag := h.Eval(args[0], sc)
	if diag != nil {
		return value.Nil, diag
	}
	name := nameVal.Str()
	if nameVal.Kind() != value.String {
		name = nameVal.Inspect()
	}

	bus := h.Bus()
	ch := bus.Subscribe(name)
	select {
	case payload := <-ch:
		return buildEnvelope(true, payload, nil, "trigger"), nil
	case <-h.Context().Done():
		bus.Unsubscribe(name, ch)
		return value.NewFailureEnvelope("CallError", "trigger cancelled before an event arrived", "trigger", ""), nil
	}
}
