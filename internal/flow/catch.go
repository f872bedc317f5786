package flow

import (
	"github.com/flowscript/flowscript/internal/ast"
	"github.com/flowscript/flowscript/internal/herrors"
	"github.com/flowscript/flowscript/internal/scope"
	"github.com/flowscript/flowscript/internal/value"
)

// runCatch implements `catch(try, fallback)` (§4.5): run try; on failure,
// run fallback with the failed attempt's errors bound into scope as
// `errors`, then union both attempts' error lists into the result.
func runCatch(steps []ast.Node, sc *scope.Scope, h Host) (value.Value, *herrors.Diagnostic) {
	if len(steps) < 2 {
		return value.Nil, herrors.At(herrors.CallError, ast.Span{}, "catch requires (try, fallback)")
	}

	tried, diag := h.InvokeStep(steps[0], sc)
	if diag != nil {
		return value.Nil, diag
	}
	if value.Succeeded(tried) {
		return tried, nil
	}

	errScope := scope.NewEnclosed(sc)
	errScope.Bind("errors", value.NewList(value.Errors(tried)))
	caught, diag := h.InvokeStep(steps[1], errScope)
	if diag != nil {
		return value.Nil, diag
	}

	allErrs := append(append([]value.Value{}, value.Errors(tried)...), value.Errors(caught)...)
	return buildEnvelope(value.Succeeded(caught), value.UnwrapData(caught), allErrs, "catch"), nil
}
