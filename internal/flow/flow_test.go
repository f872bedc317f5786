package flow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowscript/flowscript/internal/ast"
	"github.com/flowscript/flowscript/internal/herrors"
	"github.com/flowscript/flowscript/internal/scope"
	"github.com/flowscript/flowscript/internal/value"
)

// fakeHost is a minimal Host stub: steps are identified by the Var name of
// a call node and dispatched to a registered Go closure, bypassing real
// AST evaluation so combinator logic can be tested in isolation.
type fakeHost struct {
	ctx      context.Context
	bus      *EventBus
	throttle *ThrottleState
	steps    map[string]func() value.Value
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		ctx:      context.Background(),
		bus:      NewEventBus(),
		throttle: NewThrottleState(),
		steps:    map[string]func() value.Value{},
	}
}

func stepName(n ast.Node) string {
	switch s := n.(type) {
	case *ast.Call:
		return stepName(s.Callee)
	case *ast.Var:
		return s.Name
	default:
		return ""
	}
}

func stepNode(name string) ast.Node {
	return &ast.Call{Callee: &ast.Var{Name: name}}
}

func (f *fakeHost) Eval(n ast.Node, sc *scope.Scope) (value.Value, *herrors.Diagnostic) {
	switch x := n.(type) {
	case *ast.Bool:
		return value.NewBool(x.Value), nil
	case *ast.Number:
		return value.NewInt(x.Int), nil
	case *ast.Var:
		if v, ok := sc.Get(x.Name); ok {
			return v, nil
		}
	}
	return value.Nil, nil
}

func (f *fakeHost) InvokeStep(n ast.Node, sc *scope.Scope) (value.Value, *herrors.Diagnostic) {
	fn, ok := f.steps[stepName(n)]
	if !ok {
		return value.Nil, herrors.At(herrors.CallError, ast.Span{}, "unknown test step "+stepName(n))
	}
	return fn(), nil
}

func (f *fakeHost) InvokeStepWithInput(n ast.Node, input value.Value, sc *scope.Scope) (value.Value, *herrors.Diagnostic) {
	return f.InvokeStep(n, sc)
}

func (f *fakeHost) Context() context.Context { return f.ctx }
func (f *fakeHost) Bus() *EventBus           { return f.bus }
func (f *fakeHost) Throttle() *ThrottleState { return f.throttle }

func ok(data value.Value) value.Value { return value.NewSuccessEnvelope(data, "", "") }
func fail(msg string) value.Value     { return value.NewFailureEnvelope("CallError", msg, "", "") }

func TestPipeShortCircuitsOnFailure(t *testing.T) {
	h := newFakeHost()
	calls := 0
	h.steps["a"] = func() value.Value { return fail("boom") }
	h.steps["b"] = func() value.Value { calls++; return ok(value.NewInt(1)) }

	out, diag := runPipe([]ast.Node{stepNode("a"), stepNode("b")}, scope.New(), h)
	require.Nil(t, diag)
	assert.False(t, value.Succeeded(out))
	assert.Equal(t, 0, calls, "pipe must not run later stages after a failure")
}

func TestCatchRunsFallbackWithUnionedErrors(t *testing.T) {
	h := newFakeHost()
	h.steps["try"] = func() value.Value { return fail("try failed") }
	h.steps["recover"] = func() value.Value { return ok(value.NewInt(7)) }

	out, diag := runCatch([]ast.Node{stepNode("try"), stepNode("recover")}, scope.New(), h)
	require.Nil(t, diag)
	assert.True(t, value.Succeeded(out))
	assert.Equal(t, int64(7), value.UnwrapData(out).Int())
	assert.Len(t, value.Errors(out), 1)
}

func TestFallbackReturnsSecondaryOnFailure(t *testing.T) {
	h := newFakeHost()
	h.steps["primary"] = func() value.Value { return fail("down") }
	h.steps["secondary"] = func() value.Value { return ok(value.NewInt(2)) }

	out, diag := runFallback([]ast.Node{stepNode("primary"), stepNode("secondary")}, scope.New(), h)
	require.Nil(t, diag)
	assert.Equal(t, int64(2), value.UnwrapData(out).Int())
}

func TestSwitchDefaultBranch(t *testing.T) {
	h := newFakeHost()
	h.steps["one"] = func() value.Value { return ok(value.NewInt(1)) }
	h.steps["ninetynine"] = func() value.Value { return ok(value.NewInt(99)) }

	dict := &ast.Dict{Items: []ast.Node{
		&ast.Pair{Key: &ast.String{Value: "1 == 2"}, Value: stepNode("one")},
		&ast.Pair{Key: &ast.String{Value: "true"}, Value: stepNode("ninetynine")},
	}}
	out, diag := runSwitch([]ast.Node{dict}, scope.New(), h)
	require.Nil(t, diag)
	assert.Equal(t, int64(99), value.UnwrapData(out).Int())
}

func TestGuardSuccessIffTruthy(t *testing.T) {
	h := newFakeHost()
	out, diag := runGuard([]ast.Node{&ast.Bool{Value: true}}, scope.New(), h)
	require.Nil(t, diag)
	assert.True(t, value.Succeeded(out))

	out, diag = runGuard([]ast.Node{&ast.Bool{Value: false}}, scope.New(), h)
	require.Nil(t, diag)
	assert.False(t, value.Succeeded(out))
}

func TestRetrySucceedsOnThirdAttempt(t *testing.T) {
	h := newFakeHost()
	attempts := 0
	h.steps["flaky"] = func() value.Value {
		attempts++
		if attempts < 3 {
			return fail("not yet")
		}
		return ok(value.NewInt(42))
	}

	out, diag := runRetry([]ast.Node{stepNode("flaky"), &ast.Number{Int: 5}, &ast.Number{Int: 0}}, scope.New(), h)
	require.Nil(t, diag)
	assert.True(t, value.Succeeded(out))
	assert.Equal(t, int64(42), value.UnwrapData(out).Int())
	assert.Equal(t, 3, attempts)
}

func TestForeachCollectsResultsInOrder(t *testing.T) {
	h := newFakeHost()
	h.steps["double"] = func() value.Value { return ok(value.NewInt(0)) }

	sc := scope.New()
	sc.Bind("items", value.NewList([]value.Value{value.NewInt(1), value.NewInt(2), value.NewInt(3)}))
	out, diag := runForeach([]ast.Node{&ast.Var{Name: "items"}, stepNode("double")}, sc, h)
	require.Nil(t, diag)
	assert.True(t, value.Succeeded(out))
	assert.Len(t, value.UnwrapData(out).List(), 3)
}

func TestMapCollectsResultsInOrder(t *testing.T) {
	h := newFakeHost()
	h.steps["double"] = func() value.Value { return ok(value.NewInt(0)) }

	sc := scope.New()
	sc.Bind("items", value.NewList([]value.Value{value.NewInt(1), value.NewInt(2), value.NewInt(3)}))
	out, diag := runMap([]ast.Node{&ast.Var{Name: "items"}, stepNode("double")}, sc, h)
	require.Nil(t, diag)
	assert.True(t, value.Succeeded(out))
	assert.Len(t, value.UnwrapData(out).List(), 3)
}

func TestMapPassesThroughNonContainerInput(t *testing.T) {
	h := newFakeHost()
	h.steps["double"] = func() value.Value { return ok(value.NewInt(0)) }

	sc := scope.New()
	sc.Bind("n", value.NewInt(5))
	out, diag := runMap([]ast.Node{&ast.Var{Name: "n"}, stepNode("double")}, sc, h)
	require.Nil(t, diag)
	assert.True(t, value.Succeeded(out))
	assert.Equal(t, int64(5), value.UnwrapData(out).Int())
}

func TestBatchAggregatesSuccessesAndFailures(t *testing.T) {
	h := newFakeHost()
	h.steps["a"] = func() value.Value { return ok(value.NewInt(1)) }
	h.steps["b"] = func() value.Value { return fail("nope") }

	out, diag := runBatch([]ast.Node{stepNode("a"), stepNode("b")}, scope.New(), h)
	require.Nil(t, diag)
	assert.False(t, value.Succeeded(out))
	assert.Len(t, value.Errors(out), 1)
}
