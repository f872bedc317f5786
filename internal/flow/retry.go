package flow

import (
	"time"

	"github.com/flowscript/flowscript/internal/ast"
	"github.com/flowscript/flowscript/internal/herrors"
	"github.com/flowscript/flowscript/internal/scope"
	"github.com/flowscript/flowscript/internal/value"
)

// runRetry implements `retry(step, attempts, delay)` (§4.5): up to
// `attempts` evaluations with a linear delay (seconds) between attempts;
// the last outcome (success or failure) is returned.
func runRetry(args []ast.Node, sc *scope.Scope, h Host) (value.Value, *herrors.Diagnostic) {
	if len(args) < 1 {
		return value.Nil, herrors.At(herrors.CallError, ast.Span{}, "retry requires a step")
	}
	attempts, diag := evalIntArg(nodeAt(args, 1), sc, h, 3)
	if diag != nil {
		return value.Nil, diag
	}
	if attempts < 1 {
		attempts = 1
	}
	delay, diag := evalFloatArg(nodeAt(args, 2), sc, h, 1.0)
	if diag != nil {
		return value.Nil, diag
	}

	var last value.Value
	for attempt := int64(0); attempt < attempts; attempt++ {
		select {
		case <-h.Context().Done():
			return buildEnvelope(false, value.Nil, nil, "retry"), nil
		default:
		}

		out, diag := h.InvokeStep(args[0], sc)
		if diag != nil {
			return value.Nil, diag
		}
		last = out
		if value.Succeeded(out) {
			return out, nil
		}
		if attempt < attempts-1 && delay > 0 {
			timer := time.NewTimer(time.Duration(delay * float64(time.Second)))
			select {
			case <-timer.C:
			case <-h.Context().Done():
				timer.Stop()
				return last, nil
			}
		}
	}
	return last, nil
}

func nodeAt(nodes []ast.Node, i int) ast.Node {
	if i < len(nodes) {
		return nodes[i]
	}
	return nil
}
