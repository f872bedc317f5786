package evaluator

import (
	"fmt"

	"github.com/flowscript/flowscript/internal/ast"
	"github.com/flowscript/flowscript/internal/herrors"
	"github.com/flowscript/flowscript/internal/scope"
	"github.com/flowscript/flowscript/internal/value"
)

// evalExpr evaluates any expression-position AST node, pushing/popping an
// evaluation-stack frame around it for diagnostics and recursion bounding.
func (e *Evaluator) evalExpr(n ast.Node, sc *scope.Scope) (value.Value, *herrors.Diagnostic) {
	if diag := e.pushFrame(n); diag != nil {
		return value.Nil, diag
	}
	defer e.popFrame()

	switch x := n.(type) {
	case *ast.Number:
		if x.Float {
			return value.NewFloat(x.Flt), nil
		}
		return value.NewInt(x.Int), nil
	case *ast.String:
		return value.NewString(x.Value), nil
	case *ast.Bool:
		return value.NewBool(x.Value), nil
	case *ast.Any:
		return value.Nil, nil
	case *ast.Var:
		return e.resolveVar(x, sc)
	case *ast.TypedVar:
		return e.resolveVar(&ast.Var{Sp: x.Sp, Name: x.Name}, sc)
	case *ast.List:
		items := make([]value.Value, len(x.Items))
		for i, it := range x.Items {
			v, diag := e.evalExpr(it, sc)
			if diag != nil {
				return value.Nil, diag
			}
			items[i] = v
		}
		return value.NewList(items), nil
	case *ast.Tuple:
		items := make([]value.Value, len(x.Items))
		for i, it := range x.Items {
			v, diag := e.evalExpr(it, sc)
			if diag != nil {
				return value.Nil, diag
			}
			items[i] = v
		}
		return value.NewList(items), nil
	case *ast.Dict:
		return e.evalRecord(x, scope.NewEnclosed(sc))
	case *ast.FunctionLit:
		return value.NewFunction(&value.FunctionDef{
			Params:  x.Params,
			Body:    x.Body,
			Returns: x.Returns,
			Closure: sc.Snapshot(),
		}), nil
	case *ast.BinOp:
		return e.evalBinOp(x, sc)
	case *ast.UnaryOp:
		return e.evalUnaryOp(x, sc)
	case *ast.Pipe:
		return e.evalPipe(x, sc)
	case *ast.Call:
		return e.evalCall(x, sc)
	default:
		return value.Nil, herrors.At(herrors.RuntimeError, n.Span(), fmt.Sprintf("cannot evaluate %T", n))
	}
}

// resolveVar implements the plain (non-call-position) half of §4.3 "Name
// resolution": walk the scope chain, then field-access through the chain
// for dotted names. Call-position resolution (host registry, type names)
// lives in resolveCallee.
func (e *Evaluator) resolveVar(v *ast.Var, sc *scope.Scope) (value.Value, *herrors.Diagnostic) {
	segs := splitDotted(v.Name)
	cur, ok := sc.Get(segs[0])
	if !ok {
		return value.Nil, herrors.NameErr(v.Sp, v.Name)
	}
	for _, seg := range segs[1:] {
		if cur.Kind() != value.Dict {
			return value.Nil, herrors.NameErr(v.Sp, v.Name)
		}
		next, ok := cur.DictVal().Get(seg)
		if !ok {
			return value.Nil, herrors.NameErr(v.Sp, v.Name)
		}
		cur = next
	}
	return cur, nil
}

func splitDotted(name string) []string {
	var out []string
	start := 0
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			out = append(out, name[start:i])
			start = i + 1
		}
	}
	out = append(out, name[start:])
	return out
}
