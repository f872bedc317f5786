package flow

import (
	"golang.org/x/sync/errgroup"

	"github.com/flowscript/flowscript/internal/ast"
	"github.com/flowscript/flowscript/internal/herrors"
	"github.com/flowscript/flowscript/internal/scope"
	"github.com/flowscript/flowscript/internal/value"
)

// runBatch implements `batch(s1, ..., sN)` (§4.5): run every step in
// parallel, aggregate successes and failures; success iff no failures.
func runBatch(steps []ast.Node, sc *scope.Scope, h Host) (value.Value, *herrors.Diagnostic) {
	if len(steps) == 0 {
		return buildEnvelope(true, value.NewList(nil), nil, "batch"), nil
	}

	results := make([]value.Value, len(steps))
	var g errgroup.Group
	for i, step := range steps {
		i, step := i, step
		g.Go(func() error {
			out, diag := h.InvokeStep(step, sc)
			if diag != nil {
				results[i] = value.NewFailureEnvelope(string(diag.Kind), diag.Message, "batch", "")
				return nil
			}
			results[i] = out
			return nil
		})
	}
	_ = g.Wait()

	var successes, failures []value.Value
	for _, r := range results {
		if value.Succeeded(r) {
			successes = append(successes, value.UnwrapData(r))
		} else {
			failures = append(failures, value.Errors(r)...)
		}
	}
	return buildEnvelope(len(failures) == 0, value.NewList(successes), failures, "batch"), nil
}
