package evaluator

import (
	"strings"

	"github.com/flowscript/flowscript/internal/ast"
	"github.com/flowscript/flowscript/internal/flow"
	"github.com/flowscript/flowscript/internal/herrors"
	"github.com/flowscript/flowscript/internal/registry"
	"github.com/flowscript/flowscript/internal/scope"
	"github.com/flowscript/flowscript/internal/types"
	"github.com/flowscript/flowscript/internal/value"
)

type calleeKind int

const (
	calleeHost calleeKind = iota
	calleeFunction
)

type resolvedCallee struct {
	kind  calleeKind
	entry *registry.Entry
	fn    *value.FunctionDef
}

// evalCall implements §4.4 "Call evaluation": arguments are evaluated in
// textual order, the callee is resolved per §4.3, and the call is
// dispatched to either a host function or a user-defined FunctionDef.
func (e *Evaluator) evalCall(c *ast.Call, sc *scope.Scope) (value.Value, *herrors.Diagnostic) {
	if v, ok := c.Callee.(*ast.Var); ok {
		if out, diag, handled := flow.Dispatch(v.Name, c, sc, e); handled {
			return out, diag
		}
	}

	pos, kw, diag := e.evalArgs(c.Args, sc)
	if diag != nil {
		return value.Nil, diag
	}
	callee, diag := e.resolveCallee(c.Callee, sc)
	if diag != nil {
		return value.Nil, diag
	}
	return e.dispatchCallee(callee, pos, kw, sc, c.Sp)
}

func (e *Evaluator) evalArgs(args []ast.Arg, sc *scope.Scope) ([]value.Value, map[string]value.Value, *herrors.Diagnostic) {
	var pos []value.Value
	kw := map[string]value.Value{}
	for _, a := range args {
		v, diag := e.evalExpr(a.Value, sc)
		if diag != nil {
			return nil, nil, diag
		}
		if a.Name == "" {
			pos = append(pos, v)
		} else {
			kw[a.Name] = v
		}
	}
	return pos, kw, nil
}

// resolveCallee implements the call-position resolution cascade of §4.3:
// registry (exact, possibly dotted, name) first, then the scope chain with
// dotted names walked as field access, then a type-name fallback (which is
// never itself callable, so it only improves the diagnostic).
func (e *Evaluator) resolveCallee(n ast.Node, sc *scope.Scope) (resolvedCallee, *herrors.Diagnostic) {
	v, ok := n.(*ast.Var)
	if !ok {
		val, diag := e.evalExpr(n, sc)
		if diag != nil {
			return resolvedCallee{}, diag
		}
		if val.Kind() != value.Function {
			return resolvedCallee{}, herrors.At(herrors.CallError, n.Span(), "value is not callable")
		}
		return resolvedCallee{kind: calleeFunction, fn: val.Func()}, nil
	}

	name := v.Name
	if entry, ok := e.Registry.Lookup(name); ok {
		return resolvedCallee{kind: calleeHost, entry: entry}, nil
	}

	segs := strings.Split(name, ".")
	if cur, ok := sc.Get(segs[0]); ok {
		for _, seg := range segs[1:] {
			if cur.Kind() != value.Dict {
				return resolvedCallee{}, herrors.NameErr(v.Sp, name)
			}
			next, ok := cur.DictVal().Get(seg)
			if !ok {
				return resolvedCallee{}, herrors.NameErr(v.Sp, name)
			}
			cur = next
		}
		if cur.Kind() == value.Function {
			return resolvedCallee{kind: calleeFunction, fn: cur.Func()}, nil
		}
		return resolvedCallee{}, herrors.At(herrors.CallError, v.Sp, "'"+name+"' is not callable")
	}

	if _, ok := types.LookupBuiltin(segs[0]); ok {
		return resolvedCallee{}, herrors.At(herrors.CallError, v.Sp, "type name '"+name+"' is not callable")
	}
	if _, ok := e.Types.Lookup(segs[0]); ok {
		return resolvedCallee{}, herrors.At(herrors.CallError, v.Sp, "type name '"+name+"' is not callable")
	}
	return resolvedCallee{}, herrors.NameErr(v.Sp, name)
}

func (e *Evaluator) dispatchCallee(callee resolvedCallee, pos []value.Value, kw map[string]value.Value, sc *scope.Scope, sp ast.Span) (value.Value, *herrors.Diagnostic) {
	switch callee.kind {
	case calleeHost:
		return e.invokeHost(callee.entry, pos, kw, sc), nil
	case calleeFunction:
		return e.invokeFunction(callee.fn, pos, kw, sp)
	default:
		return value.Nil, herrors.At(herrors.CallError, sp, "unresolved callee")
	}
}

func (e *Evaluator) invokeHost(entry *registry.Entry, pos []value.Value, kw map[string]value.Value, sc *scope.Scope) (result value.Value) {
	defer func() {
		if r := recover(); r != nil {
			result = value.NewFailureEnvelope("CallError", "host function panicked", entry.Name, "")
		}
	}()
	args := registry.Args{Pos: pos, Kw: kw}
	if entry.AcceptsContext {
		args.Ctx = sc
	}
	return entry.Fn(args)
}

// invokeFunction implements the user-defined-function half of §4.4 "Call
// evaluation": a fresh scope over the function's captured closure,
// positional-then-keyword parameter binding with type checks, body
// evaluation, and result assembly from the declared `returns` names.
func (e *Evaluator) invokeFunction(fn *value.FunctionDef, pos []value.Value, kw map[string]value.Value, callSp ast.Span) (value.Value, *herrors.Diagnostic) {
	outer, _ := fn.Closure.(*scope.Scope)
	callScope := scope.NewEnclosed(outer)

	if len(pos) > len(fn.Params) {
		return value.Nil, herrors.At(herrors.CallError, callSp, "too many positional arguments")
	}

	for i, p := range fn.Params {
		var arg value.Value
		var has bool
		if i < len(pos) {
			arg, has = pos[i], true
		} else if kwv, ok := kw[p.Name]; ok {
			arg, has = kwv, true
		}
		if !has {
			return value.Nil, herrors.At(herrors.CallError, callSp, "missing argument '"+p.Name+"'")
		}
		if p.Type != "" {
			coerced, diag := types.CheckAssignable(callSp, p.Type, arg, e.Types)
			if diag != nil {
				return value.Nil, diag
			}
			arg = coerced
		}
		callScope.Bind(p.Name, arg)
	}

	if _, diag := e.evalRecord(fn.Body, callScope); diag != nil {
		return value.Nil, diag
	}

	if len(fn.Returns) == 1 {
		v, ok := callScope.Get(fn.Returns[0].Name)
		if !ok {
			return value.Nil, herrors.NameErr(callSp, fn.Returns[0].Name)
		}
		return v, nil
	}

	results := make([]value.Value, len(fn.Returns))
	for i, r := range fn.Returns {
		v, ok := callScope.Get(r.Name)
		if !ok {
			return value.Nil, herrors.NameErr(callSp, r.Name)
		}
		results[i] = v
	}
	return value.NewList(results), nil
}

// evalPipe implements §4.4 "Pipe semantics".
func (e *Evaluator) evalPipe(p *ast.Pipe, sc *scope.Scope) (value.Value, *herrors.Diagnostic) {
	cur, diag := e.evalExpr(p.Stages[0], sc)
	if diag != nil {
		return value.Nil, diag
	}
	for _, stage := range p.Stages[1:] {
		if value.IsEnvelope(cur) && !value.Succeeded(cur) {
			return cur, nil
		}
		input := value.UnwrapData(cur)
		out, diag := e.InvokeStepWithInput(stage, input, sc)
		if diag != nil {
			return value.Nil, diag
		}
		cur = out
	}
	return cur, nil
}

// Eval evaluates an arbitrary expression node in sc. Exported for
// internal/flow, whose combinators need to evaluate guard predicates and
// switch conditions co-recursively with the evaluator (§4.5).
func (e *Evaluator) Eval(n ast.Node, sc *scope.Scope) (value.Value, *herrors.Diagnostic) {
	return e.evalExpr(n, sc)
}

// InvokeStep runs a step node (§4.5's "a triple (callee, pos_args, kw_args)
// or a direct callable") with no implicit input: a bare Call evaluates its
// own written arguments; a bare Var or FunctionLit is invoked with zero
// arguments; anything else evaluates as a literal step value.
func (e *Evaluator) InvokeStep(stage ast.Node, sc *scope.Scope) (value.Value, *herrors.Diagnostic) {
	return e.invokeStep(stage, sc, false, value.Nil)
}

// InvokeStepWithInput runs a step node with input prepended as its first
// positional argument (the pipe-chaining shape used by `pipe`/`foreach`).
func (e *Evaluator) InvokeStepWithInput(stage ast.Node, input value.Value, sc *scope.Scope) (value.Value, *herrors.Diagnostic) {
	return e.invokeStep(stage, sc, true, input)
}

func (e *Evaluator) invokeStep(stage ast.Node, sc *scope.Scope, withInput bool, input value.Value) (value.Value, *herrors.Diagnostic) {
	switch s := stage.(type) {
	case *ast.Call:
		pos, kw, diag := e.evalArgs(s.Args, sc)
		if diag != nil {
			return value.Nil, diag
		}
		if withInput {
			pos = append([]value.Value{input}, pos...)
		}
		callee, diag := e.resolveCallee(s.Callee, sc)
		if diag != nil {
			return value.Nil, diag
		}
		return e.dispatchCallee(callee, pos, kw, sc, s.Sp)
	case *ast.Var:
		callee, diag := e.resolveCallee(s, sc)
		if diag != nil {
			return value.Nil, diag
		}
		var pos []value.Value
		if withInput {
			pos = []value.Value{input}
		}
		return e.dispatchCallee(callee, pos, nil, sc, s.Sp)
	case *ast.FunctionLit:
		fnVal, diag := e.evalExpr(s, sc)
		if diag != nil {
			return value.Nil, diag
		}
		var pos []value.Value
		if withInput {
			pos = []value.Value{input}
		}
		return e.invokeFunction(fnVal.Func(), pos, nil, s.Sp)
	default:
		return e.evalExpr(stage, sc)
	}
}
