package flow

import (
	"github.com/flowscript/flowscript/internal/ast"
	"github.com/flowscript/flowscript/internal/herrors"
	"github.com/flowscript/flowscript/internal/scope"
	"github.com/flowscript/flowscript/internal/value"
)

// runFallback implements `fallback(primary, secondary)` (§4.5): run
// primary; if it fails, run secondary and return its result verbatim (no
// error-list union, unlike catch).
func runFallback(steps []ast.Node, sc *scope.Scope, h Host) (value.Value, *herrors.Diagnostic) {
	if len(steps) < 2 {
		return value.Nil, herrors.At(herrors.CallError, ast.Span{}, "fallback requires (primary, secondary)")
	}
	primary, diag := h.InvokeStep(steps[0], sc)
	if diag != nil {
		return value.Nil, diag
	}
	if value.Succeeded(primary) {
		return primary, nil
	}
	return h.InvokeStep(steps[1], sc)
}
