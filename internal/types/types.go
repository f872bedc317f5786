// Package types implements the DSL's built-in type names, the custom-type
// side table, and the assignability/normalisation rules of §4.2 and §6.2.
package types

import (
	"math"
	"strings"
	"sync"

	"github.com/flowscript/flowscript/internal/ast"
	"github.com/flowscript/flowscript/internal/herrors"
	"github.com/flowscript/flowscript/internal/value"
)

// Builtin enumerates the fixed set of built-in type names (§4.2), after
// stripping size aliases (i8…i128, f16…f128) down to their base kind.
type Builtin int

const (
	BInt Builtin = iota
	BFloat
	BString
	BBool
	BDict
	BList
	BTuple
	BAny
	BFunction
	BNumber // int|float
	BUnknown
)

var builtinNames = map[string]Builtin{
	"int": BInt, "i8": BInt, "i16": BInt, "i32": BInt, "i64": BInt, "i128": BInt,
	"float": BFloat, "f16": BFloat, "f32": BFloat, "f64": BFloat, "f128": BFloat,
	"str": BString, "string": BString,
	"bool": BBool, "boolean": BBool,
	"dict":     BDict,
	"list":     BList, "array": BList,
	"tuple":    BTuple,
	"any":      BAny,
	"function": BFunction,
	"number":   BNumber,
}

// LookupBuiltin resolves a type name to its Builtin, or BUnknown if name is
// not one of the fixed built-in names (in which case it may be a custom
// type registered separately).
func LookupBuiltin(name string) (Builtin, bool) {
	b, ok := builtinNames[strings.ToLower(name)]
	if !ok {
		return BUnknown, false
	}
	return b, true
}

// FieldRule describes one schema field for normalisation (§6.2): its
// declared type, whether it is required, a default value, a generator
// function name (`time_now_utc`, `generate_identifier`), and a named
// converter applied before validation.
type FieldRule struct {
	Type      string
	Required  bool
	Default   *value.Value
	Function  string
	Converter string
}

// Schema is a declarative field-name -> rule map, the dict tree described
// in §4.2/§6.2.
type Schema map[string]FieldRule

// Generator produces a value for a schema field requesting one (e.g.
// `generate_identifier`, `time_now_utc`); registered by pkg/hostfns/idgen.
type Generator func() value.Value

// Registry is the runtime's side table of custom types: name -> Schema,
// plus the generator functions schema fields may request.
type Registry struct {
	mu         sync.RWMutex
	schemas    map[string]Schema
	generators map[string]Generator
}

// NewRegistry creates an empty custom-type table.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]Schema), generators: make(map[string]Generator)}
}

// RegisterType installs a custom type's schema (`register_type`, §6.4).
func (r *Registry) RegisterType(name string, schema Schema) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[name] = schema
}

// RegisterGenerator installs a named schema-field generator.
func (r *Registry) RegisterGenerator(name string, gen Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[name] = gen
}

// Lookup returns a custom type's schema.
func (r *Registry) Lookup(name string) (Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[name]
	return s, ok
}

func (r *Registry) generator(name string) (Generator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.generators[name]
	return g, ok
}

// CheckAssignable implements §4.2 "Assignability": `any` accepts anything,
// `number` accepts int or float, built-in types require strict structural
// match except that a whole-number float is coerced to int, and a custom
// type name triggers Normalize. sp is the declaration's span, used only to
// build the returned diagnostic.
func CheckAssignable(sp ast.Span, declaredType string, v value.Value, reg *Registry) (value.Value, *herrors.Diagnostic) {
	if declaredType == "" {
		return v, nil
	}
	if b, ok := LookupBuiltin(declaredType); ok {
		return checkBuiltinAssignable(sp, declaredType, b, v)
	}
	schema, ok := reg.Lookup(declaredType)
	if !ok {
		return v, herrors.At(herrors.TypeError, sp, "unknown type '"+declaredType+"'")
	}
	normalized, err := Normalize(v, schema, reg)
	if err != nil {
		return v, herrors.At(herrors.TypeError, sp, err.Error())
	}
	return normalized, nil
}

func checkBuiltinAssignable(sp ast.Span, name string, b Builtin, v value.Value) (value.Value, *herrors.Diagnostic) {
	switch b {
	case BAny:
		return v, nil
	case BNumber:
		if v.IsNumeric() {
			return v, nil
		}
	case BInt:
		if v.Kind() == value.Int {
			return v, nil
		}
		if v.Kind() == value.Float && isWholeNumber(v.Float()) {
			return value.NewInt(int64(v.Float())), nil
		}
	case BFloat:
		if v.Kind() == value.Float {
			return v, nil
		}
	case BString:
		if v.Kind() == value.String {
			return v, nil
		}
	case BBool:
		if v.Kind() == value.Bool {
			return v, nil
		}
	case BDict:
		if v.Kind() == value.Dict {
			return v, nil
		}
	case BList, BTuple:
		if v.Kind() == value.List {
			return v, nil
		}
	case BFunction:
		if v.Kind() == value.Function {
			return v, nil
		}
	}
	return v, herrors.TypeErr(sp, name, kindName(v), "")
}

func isWholeNumber(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && math.Trunc(f) == f
}

func kindName(v value.Value) string { return v.Kind().String() }
