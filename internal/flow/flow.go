// Package flow implements the flow combinator layer (§4.5): pipe, catch,
// fallback, switch, branch, retry, timeout, throttle, batch, race, foreach,
// map, guard, and trigger. Combinators are co-recursive with the evaluator: each
// accepts unevaluated AST step nodes and composes their evaluation through
// the Host interface, rather than through the plain host-function registry,
// since a step's arguments must stay lazy (a retried step must be
// re-evaluated from source on every attempt, not evaluated once up front).
package flow

import (
	"context"

	"github.com/flowscript/flowscript/internal/ast"
	"github.com/flowscript/flowscript/internal/herrors"
	"github.com/flowscript/flowscript/internal/scope"
	"github.com/flowscript/flowscript/internal/value"
)

// Host is the evaluator-side surface combinators call back into. It is
// satisfied by *evaluator.Evaluator; defining it here (rather than
// importing internal/evaluator) keeps the dependency direction evaluator
// -> flow, matching how the evaluator already owns pipe/call dispatch.
type Host interface {
	// Eval evaluates an arbitrary expression node (guard predicates,
	// switch conditions) in the given scope.
	Eval(n ast.Node, sc *scope.Scope) (value.Value, *herrors.Diagnostic)
	// InvokeStep runs a step node with no implicit input.
	InvokeStep(stage ast.Node, sc *scope.Scope) (value.Value, *herrors.Diagnostic)
	// InvokeStepWithInput runs a step node with input prepended as its
	// first positional argument.
	InvokeStepWithInput(stage ast.Node, input value.Value, sc *scope.Scope) (value.Value, *herrors.Diagnostic)
	// Context returns the cancellation context in effect for this
	// evaluation (§4.5 "cancellation-safe").
	Context() context.Context
	// Bus returns the event bus backing the `trigger(name)` combinator.
	Bus() *EventBus
	// Throttle returns the rate-limit state backing the `throttle`
	// combinator.
	Throttle() *ThrottleState
}

// names is the reserved set of combinator identifiers (§4.5). A call whose
// callee is one of these is always dispatched here rather than resolved
// through the host registry or scope chain - they are language-level
// special forms, not ordinary functions.
var names = map[string]bool{
	"pipe": true, "catch": true, "fallback": true, "switch": true,
	"branch": true, "retry": true, "timeout": true, "throttle": true,
	"batch": true, "race": true, "foreach": true, "map": true,
	"guard": true, "trigger": true,
}

// Dispatch resolves name as a combinator call. handled reports whether name
// was in fact a combinator; when false, the caller should fall back to its
// ordinary call-resolution path.
func Dispatch(name string, call *ast.Call, sc *scope.Scope, h Host) (value.Value, *herrors.Diagnostic, bool) {
	if !names[name] {
		return value.Nil, nil, false
	}

	pos := call.PosArgs()
	var out value.Value
	var diag *herrors.Diagnostic

	switch name {
	case "pipe":
		out, diag = runPipe(pos, sc, h)
	case "catch":
		out, diag = runCatch(pos, sc, h)
	case "fallback":
		out, diag = runFallback(pos, sc, h)
	case "switch":
		out, diag = runSwitch(pos, sc, h)
	case "branch":
		out, diag = runBranch(pos, sc, h)
	case "retry":
		out, diag = runRetry(pos, sc, h)
	case "timeout":
		out, diag = runTimeout(pos, sc, h)
	case "throttle":
		out, diag = runThrottle(pos, sc, h)
	case "batch":
		out, diag = runBatch(pos, sc, h)
	case "race":
		out, diag = runRace(pos, sc, h)
	case "foreach":
		out, diag = runForeach(pos, sc, h)
	case "map":
		out, diag = runMap(pos, sc, h)
	case "guard":
		out, diag = runGuard(pos, sc, h)
	case "trigger":
		out, diag = runTrigger(pos, sc, h)
	default:
		return value.Nil, herrors.At(herrors.RuntimeError, call.Sp, "unimplemented combinator "+name), true
	}
	if diag != nil {
		return value.Nil, diag, true
	}
	return ensureEnvelope(out), nil, true
}

// ensureEnvelope implements §4.5's "each combinator returns a transaction
// envelope": a step result that is already an envelope passes through
// unchanged; any other value is wrapped as a successful one.
func ensureEnvelope(v value.Value) value.Value {
	if value.IsEnvelope(v) {
		return v
	}
	return value.NewSuccessEnvelope(v, "", "")
}

// buildEnvelope constructs a transaction envelope directly from an
// already-materialised error-value list (as returned by value.Errors),
// for combinators (catch, batch) that union error lists from prior
// envelopes rather than reporting a single new ErrorReport.
func buildEnvelope(success bool, data value.Value, errs []value.Value, action string) value.Value {
	d := value.NewOrderedMap()
	d.Set(value.FieldSuccess, value.NewBool(success))
	d.Set(value.FieldData, data)
	d.Set(value.FieldErrors, value.NewList(errs))
	d.Set(value.FieldAction, value.NewString(action))
	d.Set(value.FieldIdentifier, value.NewString(""))
	return value.NewDict(d)
}

func evalIntArg(n ast.Node, sc *scope.Scope, h Host, fallback int64) (int64, *herrors.Diagnostic) {
	if n == nil {
		return fallback, nil
	}
	v, diag := h.Eval(n, sc)
	if diag != nil {
		return 0, diag
	}
	if v.Kind() == value.Int {
		return v.Int(), nil
	}
	if v.Kind() == value.Float {
		return int64(v.Float()), nil
	}
	return fallback, nil
}

func evalFloatArg(n ast.Node, sc *scope.Scope, h Host, fallback float64) (float64, *herrors.Diagnostic) {
	if n == nil {
		return fallback, nil
	}
	v, diag := h.Eval(n, sc)
	if diag != nil {
		return 0, diag
	}
	if v.IsNumeric() {
		return v.AsFloat64(), nil
	}
	return fallback, nil
}
