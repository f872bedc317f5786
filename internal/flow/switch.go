package flow

import (
	"fmt"

	"github.com/flowscript/flowscript/internal/ast"
	"github.com/flowscript/flowscript/internal/herrors"
	"github.com/flowscript/flowscript/internal/parser"
	"github.com/flowscript/flowscript/internal/scope"
	"github.com/flowscript/flowscript/internal/value"
)

// runSwitch implements `switch({cond: step, ..., true: default})` (§4.5):
// conditions are evaluated in source order under the current scope; the
// first truthy guard's step runs. Each condition key is a string holding
// an embedded expression (e.g. `"tag == 'a'"`) that is parsed fresh and
// evaluated against sc; `"true"` is conventionally the default branch.
func runSwitch(steps []ast.Node, sc *scope.Scope, h Host) (value.Value, *herrors.Diagnostic) {
	if len(steps) < 1 {
		return value.Nil, herrors.At(herrors.CallError, ast.Span{}, "switch requires a dict of condition:step pairs")
	}
	dict, ok := steps[0].(*ast.Dict)
	if !ok {
		return value.Nil, herrors.At(herrors.CallError, steps[0].Span(), "switch's argument must be a dict literal")
	}

	for _, item := range dict.Items {
		pair, ok := item.(*ast.Pair)
		if !ok {
			continue
		}
		cond, ok := conditionText(pair.Key)
		if !ok {
			continue
		}
		truthy, diag := evalCondition(cond, pair.Key.Span(), sc, h)
		if diag != nil {
			return value.Nil, diag
		}
		if truthy {
			return h.InvokeStep(pair.Value, sc)
		}
	}
	return value.Nil, nil
}

func conditionText(key ast.Node) (string, bool) {
	switch k := key.(type) {
	case *ast.String:
		return k.Value, true
	case *ast.Bool:
		if k.Value {
			return "true", true
		}
		return "false", true
	default:
		return "", false
	}
}

func evalCondition(src string, sp ast.Span, sc *scope.Scope, h Host) (bool, *herrors.Diagnostic) {
	expr, errs := parser.ParseExpression(src)
	if len(errs) > 0 {
		return false, herrors.At(herrors.SyntaxError, sp, fmt.Sprintf("invalid switch condition %q: %s", src, errs[0].Message))
	}
	v, diag := h.Eval(expr, sc)
	if diag != nil {
		return false, diag
	}
	return v.Truthy(), nil
}
