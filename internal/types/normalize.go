package types

import (
	"fmt"

	"github.com/flowscript/flowscript/internal/ast"
	"github.com/flowscript/flowscript/internal/value"
)

// ValidationFailure reports which field of a schema rejected a value,
// mirroring the Cerberus-style `{field: [reasons]}` error map the original
// `normalize` subroutine raised (§6.2).
type ValidationFailure struct {
	Field  string
	Reason string
}

func (f *ValidationFailure) Error() string {
	return fmt.Sprintf("field '%s': %s", f.Field, f.Reason)
}

// Normalize validates and, where schema fields request it, populates or
// coerces v (expected to be a Dict) against schema, returning the
// normalised record (§6.2). Unknown fields present in v are passed through
// unchanged, matching the original's `allow_unknown=True` Cerberus policy.
func Normalize(v value.Value, schema Schema, reg *Registry) (value.Value, *ValidationFailure) {
	src := value.NewOrderedMap()
	if v.Kind() == value.Dict && v.DictVal() != nil {
		src = v.DictVal().Clone()
	}

	out := value.NewOrderedMap()
	for _, k := range src.Keys() {
		val, _ := src.Get(k)
		out.Set(k, val)
	}

	for field, rule := range schema {
		existing, present := out.Get(field)

		if !present && rule.Function != "" {
			if gen, ok := reg.generator(rule.Function); ok {
				out.Set(field, gen())
				present = true
			}
		}

		if !present && rule.Default != nil {
			out.Set(field, *rule.Default)
			present = true
		}

		if !present {
			if rule.Required {
				return v, &ValidationFailure{Field: field, Reason: "required field missing"}
			}
			continue
		}

		existing, _ = out.Get(field)

		if rule.Converter != "" {
			converted, err := Convert(existing, rule.Converter)
			if err != nil {
				return v, &ValidationFailure{Field: field, Reason: err.Error()}
			}
			existing = converted
			out.Set(field, existing)
		}

		if rule.Type != "" {
			coerced, diag := CheckAssignable(ast.Span{}, rule.Type, existing, reg)
			if diag != nil {
				return v, &ValidationFailure{Field: field, Reason: diag.Message}
			}
			out.Set(field, coerced)
		}
	}

	return value.NewDict(out), nil
}
