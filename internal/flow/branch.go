package flow

import (
	"github.com/flowscript/flowscript/internal/ast"
	"github.com/flowscript/flowscript/internal/herrors"
	"github.com/flowscript/flowscript/internal/scope"
	"github.com/flowscript/flowscript/internal/value"
)

// runBranch implements `branch(outcome, on_success, on_failure)` (§4.5):
// the outcome step runs first, and its envelope's success field decides
// which of the remaining two steps runs next. The outcome to branch on
// is named explicitly as this combinator's first argument, since this
// evaluator has no implicit "most recent pipeline output" accumulator.
func runBranch(args []ast.Node, sc *scope.Scope, h Host) (value.Value, *herrors.Diagnostic) {
	if len(args) < 3 {
		return value.Nil, herrors.At(herrors.CallError, ast.Span{}, "branch requires (outcome, on_success, on_failure)")
	}
	outcome, diag := h.InvokeStep(args[0], sc)
	if diag != nil {
		return value.Nil, diag
	}
	if value.Succeeded(outcome) {
		return h.InvokeStep(args[1], sc)
	}
	return h.InvokeStep(args[2], sc)
}
