package flow

import (
	"context"
	"sync"
	"time"

	"github.com/flowscript/flowscript/internal/ast"
	"github.com/flowscript/flowscript/internal/herrors"
	"github.com/flowscript/flowscript/internal/scope"
	"github.com/flowscript/flowscript/internal/value"
)

// ThrottleState tracks the last-execution time per step identifier, the
// persistent state `throttle` (§4.5) rate-limits against across calls.
type ThrottleState struct {
	mu   sync.Mutex
	last map[string]time.Time
}

// NewThrottleState creates an empty throttle table.
func NewThrottleState() *ThrottleState {
	return &ThrottleState{last: make(map[string]time.Time)}
}

// wait blocks, if necessary, until rateLimit has elapsed since id's last
// recorded execution, then records the new execution time.
func (t *ThrottleState) wait(ctx context.Context, id string, rateLimit time.Duration) {
	t.mu.Lock()
	last, ok := t.last[id]
	t.mu.Unlock()

	if ok {
		if elapsed := time.Since(last); elapsed < rateLimit {
			timer := time.NewTimer(rateLimit - elapsed)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
			}
		}
	}

	t.mu.Lock()
	t.last[id] = time.Now()
	t.mu.Unlock()
}

// runThrottle implements `throttle(step, ms)` (§4.5): rate-limit per-step
// identifier (the step's callee name), waiting if the last execution was
// more recent than ms ago.
func runThrottle(args []ast.Node, sc *scope.Scope, h Host) (value.Value, *herrors.Diagnostic) {
	if len(args) < 1 {
		return value.Nil, herrors.At(herrors.CallError, ast.Span{}, "throttle requires a step")
	}
	ms, diag := evalIntArg(nodeAt(args, 1), sc, h, 1000)
	if diag != nil {
		return value.Nil, diag
	}

	h.Throttle().wait(h.Context(), stepIdentifier(args[0]), time.Duration(ms)*time.Millisecond)
	return h.InvokeStep(args[0], sc)
}

func stepIdentifier(n ast.Node) string {
	switch s := n.(type) {
	case *ast.Call:
		return stepIdentifier(s.Callee)
	case *ast.Var:
		return s.Name
	default:
		return "<step>"
	}
}
