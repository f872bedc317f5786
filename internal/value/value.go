// Package value implements the runtime's Value union (§3 DATA MODEL): an
// eight-variant sum type plus the conventional transaction-envelope shape
// host functions return. It deliberately holds no reference to the
// evaluator or scope packages; a FunctionDef closes over a ScopeRef so the
// dependency points the other way (scope depends on value, not the reverse).
package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/flowscript/flowscript/internal/ast"
)

// Kind tags which variant a Value holds.
type Kind int

const (
	Null Kind = iota
	Bool
	Int
	Float
	String
	List
	Dict
	Function
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "str"
	case List:
		return "list"
	case Dict:
		return "dict"
	case Function:
		return "function"
	default:
		return "unknown"
	}
}

// ScopeRef is the narrow read interface a FunctionDef needs from whatever
// scope captured it. internal/scope.Scope implements this.
type ScopeRef interface {
	Get(name string) (Value, bool)
}

// FunctionDef is the immutable triple (params, body, returns) described in
// §3. Functions are values: they may be bound, passed to combinators, and
// piped through, but they are not closures over mutable state - Closure is
// the lexical scope snapshotted at definition time.
type FunctionDef struct {
	Params  []ast.Param
	Body    *ast.Dict
	Returns []ast.Param
	Closure ScopeRef
	Name    string // best-effort, for diagnostics; empty for anonymous literals
}

// Value is the tagged union the evaluator operates on.
type Value struct {
	kind Kind

	b bool
	i int64
	f float64
	s string
	l []Value
	d *OrderedMap
	fn *FunctionDef
}

func (v Value) Kind() Kind { return v.kind }

// Nil is the shared null value.
var Nil = Value{kind: Null}

func NewBool(b bool) Value    { return Value{kind: Bool, b: b} }
func NewInt(i int64) Value    { return Value{kind: Int, i: i} }
func NewFloat(f float64) Value { return Value{kind: Float, f: f} }
func NewString(s string) Value { return Value{kind: String, s: s} }
func NewList(items []Value) Value {
	return Value{kind: List, l: items}
}
func NewDict(d *OrderedMap) Value { return Value{kind: Dict, d: d} }
func NewFunction(fn *FunctionDef) Value { return Value{kind: Function, fn: fn} }

func (v Value) IsNull() bool { return v.kind == Null }
func (v Value) Bool() bool   { return v.b }
func (v Value) Int() int64   { return v.i }
func (v Value) Float() float64 { return v.f }
func (v Value) Str() string  { return v.s }
func (v Value) List() []Value { return v.l }
func (v Value) DictVal() *OrderedMap { return v.d }
func (v Value) Func() *FunctionDef { return v.fn }

// Truthy implements the runtime's notion of truthiness for guard
// expressions and `and`/`or` short-circuiting: null and false are falsy,
// zero numbers and empty strings/lists/dicts are falsy, everything else
// (including any function value) is truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case Null:
		return false
	case Bool:
		return v.b
	case Int:
		return v.i != 0
	case Float:
		return v.f != 0
	case String:
		return v.s != ""
	case List:
		return len(v.l) > 0
	case Dict:
		return v.d != nil && v.d.Len() > 0
	default:
		return true
	}
}

// AsFloat64 widens an Int or Float value for numeric-promotion arithmetic.
func (v Value) AsFloat64() float64 {
	if v.kind == Int {
		return float64(v.i)
	}
	return v.f
}

// IsNumeric reports whether v is an Int or Float.
func (v Value) IsNumeric() bool { return v.kind == Int || v.kind == Float }

// Equal implements value equality used by `==`/`!=`.
// Numeric comparisons promote across Int/Float.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		if a.IsNumeric() && b.IsNumeric() {
			return a.AsFloat64() == b.AsFloat64()
		}
		return false
	}
	switch a.kind {
	case Null:
		return true
	case Bool:
		return a.b == b.b
	case Int:
		return a.i == b.i
	case Float:
		return a.f == b.f
	case String:
		return a.s == b.s
	case List:
		if len(a.l) != len(b.l) {
			return false
		}
		for i := range a.l {
			if !Equal(a.l[i], b.l[i]) {
				return false
			}
		}
		return true
	case Dict:
		if a.d.Len() != b.d.Len() {
			return false
		}
		for _, k := range a.d.Keys() {
			av, _ := a.d.Get(k)
			bv, ok := b.d.Get(k)
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case Function:
		return a.fn == b.fn
	default:
		return false
	}
}

// Inspect renders v for logging and error messages, matching the DSL's own
// literal syntax where practical.
func (v Value) Inspect() string {
	switch v.kind {
	case Null:
		return "null"
	case Bool:
		return strconv.FormatBool(v.b)
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Float:
		if math.Trunc(v.f) == v.f && !math.IsInf(v.f, 0) {
			return strconv.FormatFloat(v.f, 'f', 1, 64)
		}
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case String:
		return strconv.Quote(v.s)
	case List:
		parts := make([]string, len(v.l))
		for i, it := range v.l {
			parts[i] = it.Inspect()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case Dict:
		var sb strings.Builder
		sb.WriteByte('{')
		for i, k := range v.d.Keys() {
			if i > 0 {
				sb.WriteString(", ")
			}
			val, _ := v.d.Get(k)
			fmt.Fprintf(&sb, "%s: %s", k, val.Inspect())
		}
		sb.WriteByte('}')
		return sb.String()
	case Function:
		return fmt.Sprintf("<function %s/%d>", v.fn.Name, len(v.fn.Params))
	default:
		return "<?>"
	}
}
