package flow

import (
	"context"

	"github.com/flowscript/flowscript/internal/ast"
	"github.com/flowscript/flowscript/internal/herrors"
	"github.com/flowscript/flowscript/internal/scope"
	"github.com/flowscript/flowscript/internal/value"
)

// runRace implements `race(s1, ..., sN)` (§4.5): run every step in
// parallel, return the first to complete, and cancel the rest.
func runRace(steps []ast.Node, sc *scope.Scope, h Host) (value.Value, *herrors.Diagnostic) {
	if len(steps) == 0 {
		return value.Nil, nil
	}

	ctx, cancel := context.WithCancel(h.Context())
	defer cancel()

	winner := make(chan stepOutcome, len(steps))
	for _, step := range steps {
		step := step
		go func() {
			select {
			case <-ctx.Done():
				return
			default:
			}
			v, diag := h.InvokeStep(step, sc)
			select {
			case winner <- stepOutcome{v, diag}:
			case <-ctx.Done():
			}
		}()
	}

	out := <-winner
	cancel()
	if out.diag != nil {
		return value.Nil, out.diag
	}
	return out.v, nil
}
