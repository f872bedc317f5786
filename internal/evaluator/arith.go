package evaluator

import (
	"math"

	"github.com/flowscript/flowscript/internal/ast"
	"github.com/flowscript/flowscript/internal/herrors"
	"github.com/flowscript/flowscript/internal/scope"
	"github.com/flowscript/flowscript/internal/value"
)

// evalBinOp dispatches a binary operator by symbol (§4.4 "Expression
// evaluation"). `and`/`or` short-circuit; arithmetic follows numeric
// promotion; comparisons accept numerics (ordering) or any kind (equality).
func (e *Evaluator) evalBinOp(b *ast.BinOp, sc *scope.Scope) (value.Value, *herrors.Diagnostic) {
	switch b.Op {
	case "and":
		left, diag := e.evalExpr(b.Left, sc)
		if diag != nil {
			return value.Nil, diag
		}
		if !left.Truthy() {
			return left, nil
		}
		return e.evalExpr(b.Right, sc)
	case "or":
		left, diag := e.evalExpr(b.Left, sc)
		if diag != nil {
			return value.Nil, diag
		}
		if left.Truthy() {
			return left, nil
		}
		return e.evalExpr(b.Right, sc)
	}

	left, diag := e.evalExpr(b.Left, sc)
	if diag != nil {
		return value.Nil, diag
	}
	right, diag := e.evalExpr(b.Right, sc)
	if diag != nil {
		return value.Nil, diag
	}

	switch b.Op {
	case "==":
		return value.NewBool(value.Equal(left, right)), nil
	case "!=":
		return value.NewBool(!value.Equal(left, right)), nil
	case ">", "<", ">=", "<=":
		return compare(b.Sp, b.Op, left, right)
	case "+", "-", "*", "/", "%", "^":
		return arithmetic(b.Sp, b.Op, left, right)
	default:
		return value.Nil, herrors.At(herrors.RuntimeError, b.Sp, "unknown operator "+b.Op)
	}
}

func (e *Evaluator) evalUnaryOp(u *ast.UnaryOp, sc *scope.Scope) (value.Value, *herrors.Diagnostic) {
	operand, diag := e.evalExpr(u.Operand, sc)
	if diag != nil {
		return value.Nil, diag
	}
	switch u.Op {
	case "not":
		return value.NewBool(!operand.Truthy()), nil
	case "-":
		if !operand.IsNumeric() {
			return value.Nil, herrors.At(herrors.TypeError, u.Sp, "unary '-' requires a number, got "+operand.Kind().String())
		}
		if operand.Kind() == value.Int {
			if operand.Int() == math.MinInt64 {
				return value.Nil, herrors.At(herrors.ArithmeticError, u.Sp, "integer overflow negating minimum int64")
			}
			return value.NewInt(-operand.Int()), nil
		}
		return value.NewFloat(-operand.Float()), nil
	default:
		return value.Nil, herrors.At(herrors.RuntimeError, u.Sp, "unknown unary operator "+u.Op)
	}
}

func compare(sp ast.Span, op string, a, b value.Value) (value.Value, *herrors.Diagnostic) {
	var lt, eq bool
	switch {
	case a.IsNumeric() && b.IsNumeric():
		af, bf := a.AsFloat64(), b.AsFloat64()
		lt, eq = af < bf, af == bf
	case a.Kind() == value.String && b.Kind() == value.String:
		lt, eq = a.Str() < b.Str(), a.Str() == b.Str()
	default:
		return value.Nil, herrors.At(herrors.TypeError, sp, "cannot order "+a.Kind().String()+" and "+b.Kind().String())
	}
	switch op {
	case ">":
		return value.NewBool(!lt && !eq), nil
	case "<":
		return value.NewBool(lt), nil
	case ">=":
		return value.NewBool(!lt), nil
	case "<=":
		return value.NewBool(lt || eq), nil
	default:
		return value.Nil, herrors.At(herrors.RuntimeError, sp, "unknown comparison "+op)
	}
}

// arithmetic implements §4.4's numeric-promotion rule (int op int -> int;
// either float -> float) with checked integer arithmetic: overflow and
// division/modulo by zero raise ArithmeticError rather than wrapping.
func arithmetic(sp ast.Span, op string, a, b value.Value) (value.Value, *herrors.Diagnostic) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return value.Nil, herrors.At(herrors.TypeError, sp, "arithmetic requires numbers, got "+a.Kind().String()+" and "+b.Kind().String())
	}
	if a.Kind() == value.Int && b.Kind() == value.Int {
		return intArith(sp, op, a.Int(), b.Int())
	}
	return floatArith(sp, op, a.AsFloat64(), b.AsFloat64())
}

func intArith(sp ast.Span, op string, a, b int64) (value.Value, *herrors.Diagnostic) {
	switch op {
	case "+":
		r := a + b
		if (b > 0 && r < a) || (b < 0 && r > a) {
			return value.Nil, herrors.At(herrors.ArithmeticError, sp, "integer overflow in addition")
		}
		return value.NewInt(r), nil
	case "-":
		r := a - b
		if (b < 0 && r < a) || (b > 0 && r > a) {
			return value.Nil, herrors.At(herrors.ArithmeticError, sp, "integer overflow in subtraction")
		}
		return value.NewInt(r), nil
	case "*":
		if a == 0 || b == 0 {
			return value.NewInt(0), nil
		}
		if a == math.MinInt64 && b == -1 {
			return value.Nil, herrors.At(herrors.ArithmeticError, sp, "integer overflow in multiplication")
		}
		r := a * b
		if r/b != a {
			return value.Nil, herrors.At(herrors.ArithmeticError, sp, "integer overflow in multiplication")
		}
		return value.NewInt(r), nil
	case "/":
		if b == 0 {
			return value.Nil, herrors.At(herrors.ArithmeticError, sp, "division by zero")
		}
		if a == math.MinInt64 && b == -1 {
			return value.Nil, herrors.At(herrors.ArithmeticError, sp, "integer overflow in division")
		}
		if a%b == 0 {
			return value.NewInt(a / b), nil
		}
		return value.NewFloat(float64(a) / float64(b)), nil
	case "%":
		if b == 0 {
			return value.Nil, herrors.At(herrors.ArithmeticError, sp, "modulo by zero")
		}
		return value.NewInt(a % b), nil
	case "^":
		if b < 0 {
			return value.NewFloat(math.Pow(float64(a), float64(b))), nil
		}
		result := int64(1)
		for i := int64(0); i < b; i++ {
			next := result * a
			if a != 0 && next/a != result {
				return value.Nil, herrors.At(herrors.ArithmeticError, sp, "integer overflow in exponentiation")
			}
			result = next
		}
		return value.NewInt(result), nil
	default:
		return value.Nil, herrors.At(herrors.RuntimeError, sp, "unknown arithmetic operator "+op)
	}
}

func floatArith(sp ast.Span, op string, a, b float64) (value.Value, *herrors.Diagnostic) {
	switch op {
	case "+":
		return value.NewFloat(a + b), nil
	case "-":
		return value.NewFloat(a - b), nil
	case "*":
		return value.NewFloat(a * b), nil
	case "/":
		if b == 0 {
			return value.Nil, herrors.At(herrors.ArithmeticError, sp, "division by zero")
		}
		return value.NewFloat(a / b), nil
	case "%":
		if b == 0 {
			return value.Nil, herrors.At(herrors.ArithmeticError, sp, "modulo by zero")
		}
		return value.NewFloat(math.Mod(a, b)), nil
	case "^":
		return value.NewFloat(math.Pow(a, b)), nil
	default:
		return value.Nil, herrors.At(herrors.RuntimeError, sp, "unknown arithmetic operator "+op)
	}
}
