// Package evaluator implements the tree-walking evaluator/resolver (§4.4):
// name resolution, typed declarations, pipe semantics, user-defined
// function invocation, and the bounded evaluation stack backing
// RecursionError.
package evaluator

import (
	"context"
	"fmt"

	"github.com/flowscript/flowscript/internal/ast"
	"github.com/flowscript/flowscript/internal/flow"
	"github.com/flowscript/flowscript/internal/herrors"
	"github.com/flowscript/flowscript/internal/registry"
	"github.com/flowscript/flowscript/internal/scope"
	"github.com/flowscript/flowscript/internal/trigger"
	"github.com/flowscript/flowscript/internal/types"
	"github.com/flowscript/flowscript/internal/value"
)

// DefaultMaxDepth is the default evaluation stack bound before a
// RecursionError is raised (§4.4 "Expression stack").
const DefaultMaxDepth = 1000

// Evaluator holds the read-only collaborators (host registry, custom type
// table) and per-run mutable state (evaluation stack, discovered
// triggers) for one `evaluate` invocation. It also implements
// flow.Host, letting the combinator layer (§4.5) call back into
// expression/step evaluation without internal/flow importing this package.
type Evaluator struct {
	Registry *registry.Registry
	Types    *types.Registry
	MaxDepth int
	Ctx           context.Context
	Events        *flow.EventBus
	ThrottleState *flow.ThrottleState

	stack    []herrors.Frame
	triggers []trigger.Trigger
}

// New creates an Evaluator over the given host registry and custom-type
// table.
func New(reg *registry.Registry, ty *types.Registry) *Evaluator {
	return &Evaluator{
		Registry:      reg,
		Types:         ty,
		MaxDepth:      DefaultMaxDepth,
		Ctx:           context.Background(),
		Events:        flow.NewEventBus(),
		ThrottleState: flow.NewThrottleState(),
	}
}

// Context returns the cancellation context combinators (timeout, race)
// should honour (§4.5 "cancellation-safe").
func (e *Evaluator) Context() context.Context { return e.Ctx }

// Bus returns the evaluator's event bus, used by the `trigger(name)`
// combinator (§4.5) to suspend for an externally published event.
func (e *Evaluator) Bus() *flow.EventBus { return e.Events }

// Throttle returns the evaluator's rate-limit state, used by the
// `throttle` combinator (§4.5).
func (e *Evaluator) Throttle() *flow.ThrottleState { return e.ThrottleState }

// Evaluate is the entry point described in §4.4: `evaluate(ast,
// initial_scope) -> (Value, Vec<Trigger>)`.
func (e *Evaluator) Evaluate(root *ast.Dict, initial *scope.Scope) (value.Value, []trigger.Trigger, *herrors.Diagnostic) {
	e.stack = nil
	e.triggers = nil
	v, diag := e.evalRecord(root, initial)
	if diag != nil {
		return v, e.triggers, diag.WithStack(e.stack)
	}
	return v, e.triggers, nil
}

// EvaluateInto merges root's top-level bindings directly into sc (§4.4
// "Record evaluation"), reusing this evaluator's in-flight stack and
// appending to its already-discovered triggers rather than resetting them
// the way Evaluate does for a fresh top-level run. Used by the `include`
// host function to merge another parsed source's bindings into the
// calling scope mid-evaluation.
func (e *Evaluator) EvaluateInto(root *ast.Dict, sc *scope.Scope) (value.Value, *herrors.Diagnostic) {
	return e.evalRecord(root, sc)
}

func (e *Evaluator) pushFrame(n ast.Node) *herrors.Diagnostic {
	if len(e.stack) >= e.MaxDepth {
		return herrors.At(herrors.RecursionError, n.Span(), fmt.Sprintf("maximum evaluation depth %d exceeded", e.MaxDepth)).WithStack(e.stack)
	}
	e.stack = append(e.stack, herrors.Frame{NodeKind: nodeKind(n), Span: n.Span()})
	return nil
}

func (e *Evaluator) popFrame() {
	e.stack = e.stack[:len(e.stack)-1]
}

func nodeKind(n ast.Node) string {
	return fmt.Sprintf("%T", n)
}
