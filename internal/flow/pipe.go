package flow

import (
	"github.com/flowscript/flowscript/internal/ast"
	"github.com/flowscript/flowscript/internal/herrors"
	"github.com/flowscript/flowscript/internal/scope"
	"github.com/flowscript/flowscript/internal/value"
)

// runPipe implements the explicit-call form `pipe(s1, ..., sN)` (§4.5),
// the same sequential/short-circuiting semantics as the `|>` operator
// (internal/evaluator's evalPipe) but over step nodes passed as call
// arguments instead of infix stages.
func runPipe(steps []ast.Node, sc *scope.Scope, h Host) (value.Value, *herrors.Diagnostic) {
	if len(steps) == 0 {
		return value.Nil, nil
	}
	cur, diag := h.InvokeStep(steps[0], sc)
	if diag != nil {
		return value.Nil, diag
	}
	for _, step := range steps[1:] {
		if value.IsEnvelope(cur) && !value.Succeeded(cur) {
			return cur, nil
		}
		input := value.UnwrapData(cur)
		out, diag := h.InvokeStepWithInput(step, input, sc)
		if diag != nil {
			return value.Nil, diag
		}
		cur = out
	}
	return cur, nil
}
