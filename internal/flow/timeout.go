package flow

import (
	"context"
	"time"

	"github.com/flowscript/flowscript/internal/ast"
	"github.com/flowscript/flowscript/internal/herrors"
	"github.com/flowscript/flowscript/internal/scope"
	"github.com/flowscript/flowscript/internal/value"
)

type stepOutcome struct {
	v    value.Value
	diag *herrors.Diagnostic
}

// runTimeout implements `timeout(step, seconds)` (§4.5): run step; if it
// does not complete within seconds, the step is abandoned (its goroutine
// keeps running to completion but its result is discarded, matching the
// evaluator's single-threaded-per-record contract - see §4.5's
// cancellation-safety note) and a TimeoutError envelope is returned.
func runTimeout(args []ast.Node, sc *scope.Scope, h Host) (value.Value, *herrors.Diagnostic) {
	if len(args) < 1 {
		return value.Nil, herrors.At(herrors.CallError, ast.Span{}, "timeout requires a step")
	}
	seconds, diag := evalFloatArg(nodeAt(args, 1), sc, h, 30.0)
	if diag != nil {
		return value.Nil, diag
	}

	ctx, cancel := context.WithTimeout(h.Context(), time.Duration(seconds*float64(time.Second)))
	defer cancel()

	done := make(chan stepOutcome, 1)
	go func() {
		v, diag := h.InvokeStep(args[0], sc)
		done <- stepOutcome{v, diag}
	}()

	select {
	case out := <-done:
		if out.diag != nil {
			return value.Nil, out.diag
		}
		return out.v, nil
	case <-ctx.Done():
		return value.NewFailureEnvelope("TimeoutError", "step did not complete within the configured timeout", "timeout", ""), nil
	}
}
