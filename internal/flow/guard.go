package flow

import (
	"github.com/flowscript/flowscript/internal/ast"
	"github.com/flowscript/flowscript/internal/herrors"
	"github.com/flowscript/flowscript/internal/scope"
	"github.com/flowscript/flowscript/internal/value"
)

// runGuard implements `guard(expr)` (§4.5): evaluate a predicate expression
// over the current scope; success iff truthy.
func runGuard(args []ast.Node, sc *scope.Scope, h Host) (value.Value, *herrors.Diagnostic) {
	if len(args) < 1 {
		return value.Nil, herrors.At(herrors.CallError, ast.Span{}, "guard requires a predicate expression")
	}
	v, diag := h.Eval(args[0], sc)
	if diag != nil {
		return value.Nil, diag
	}
	return buildEnvelope(v.Truthy(), v, nil, "guard"), nil
}
