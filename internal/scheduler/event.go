package scheduler

import (
	"context"
	"time"

	"github.com/flowscript/flowscript/internal/ast"
	"github.com/flowscript/flowscript/internal/scope"
	"github.com/flowscript/flowscript/internal/trigger"
	"github.com/flowscript/flowscript/internal/value"
)

// runEventLoop implements §4.6's "Event loop" exactly.
func (s *Scheduler) runEventLoop(ctx context.Context, t trigger.Trigger) {
	call := &ast.Call{Sp: t.Callee.Span(), Callee: t.Callee, Args: eventArgs(t)}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		result, diag := s.eval.Eval(call, t.Scope)
		if diag != nil {
			s.log.Error("event trigger poll failed", "error", diag.Message)
			if !sleepOrDone(ctx, 5*time.Second) {
				return
			}
			continue
		}

		if value.Succeeded(result) {
			data := value.UnwrapData(result)
			if !data.IsNull() && matchesEvent(t.Match, data) {
				eventScope := scope.NewEnclosed(t.Scope)
				eventScope.Bind("@event", data)
				if _, diag := s.eval.Eval(t.Action, eventScope); diag != nil {
					s.log.Warn("event trigger action failed", "error", diag.Message)
					if !sleepOrDone(ctx, 5*time.Second) {
						return
					}
					continue
				}
				continue
			}
		}

		if !sleepOrDone(ctx, time.Second) {
			return
		}
	}
}

// matchesEvent reports whether event data should fire the trigger's action.
// An empty pattern always matches (the pre-existing "any non-null data"
// behavior); otherwise the glob pattern is matched against the event's
// "key" field if data is a dict, or against data itself.
func matchesEvent(pattern string, data value.Value) bool {
	if pattern == "" {
		return true
	}
	subject := data
	if data.Kind() == value.Dict {
		if k, present := data.DictVal().Get("key"); present {
			subject = k
		}
	}
	str := subject.Str()
	if subject.Kind() != value.String {
		str = subject.Inspect()
	}
	return trigger.WildcardMatch(str, pattern)
}

func eventArgs(t trigger.Trigger) []ast.Arg {
	args := make([]ast.Arg, 0, len(t.PosArgs)+len(t.KwArgs))
	for _, n := range t.PosArgs {
		args = append(args, ast.Arg{Value: n})
	}
	for name, n := range t.KwArgs {
		args = append(args, ast.Arg{Name: name, Value: n})
	}
	return args
}

// sleepOrDone sleeps for d, returning false early if ctx is cancelled.
func sleepOrDone(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
