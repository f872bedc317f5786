package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowscript/flowscript/internal/ast"
	"github.com/flowscript/flowscript/internal/value"
)

func TestCheckAssignableAnyAcceptsAnything(t *testing.T) {
	reg := NewRegistry()
	v, diag := CheckAssignable(ast.Span{}, "any", value.NewString("x"), reg)
	require.Nil(t, diag)
	assert.Equal(t, "x", v.Str())
}

func TestCheckAssignableCoercesWholeFloatToInt(t *testing.T) {
	reg := NewRegistry()
	v, diag := CheckAssignable(ast.Span{}, "int", value.NewFloat(5.0), reg)
	require.Nil(t, diag)
	assert.Equal(t, int64(5), v.Int())
}

func TestCheckAssignableRejectsFractionalFloatForInt(t *testing.T) {
	reg := NewRegistry()
	_, diag := CheckAssignable(ast.Span{}, "int", value.NewFloat(5.5), reg)
	require.NotNil(t, diag)
	assert.Equal(t, "TypeError", string(diag.Kind))
}

func TestCheckAssignableNumberAcceptsIntOrFloat(t *testing.T) {
	reg := NewRegistry()
	_, d1 := CheckAssignable(ast.Span{}, "number", value.NewInt(1), reg)
	_, d2 := CheckAssignable(ast.Span{}, "number", value.NewFloat(1.5), reg)
	assert.Nil(t, d1)
	assert.Nil(t, d2)
	_, d3 := CheckAssignable(ast.Span{}, "number", value.NewString("x"), reg)
	assert.NotNil(t, d3)
}

func TestCheckAssignableUnknownTypeIsTypeError(t *testing.T) {
	reg := NewRegistry()
	_, diag := CheckAssignable(ast.Span{}, "nonexistent", value.NewInt(1), reg)
	require.NotNil(t, diag)
}

func TestNormalizeAppliesDefaultsAndGenerators(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterGenerator("generate_identifier", func() value.Value { return value.NewString("gen-1") })

	schema := Schema{
		"id":   FieldRule{Function: "generate_identifier"},
		"name": FieldRule{Type: "str", Required: true},
		"tier": FieldRule{Type: "str", Default: ptr(value.NewString("basic"))},
	}

	d := value.NewOrderedMap()
	d.Set("name", value.NewString("alice"))
	result, fail := Normalize(value.NewDict(d), schema, reg)
	require.Nil(t, fail)

	idVal, ok := result.DictVal().Get("id")
	require.True(t, ok)
	assert.Equal(t, "gen-1", idVal.Str())

	tierVal, ok := result.DictVal().Get("tier")
	require.True(t, ok)
	assert.Equal(t, "basic", tierVal.Str())
}

func TestNormalizeFailsOnMissingRequiredField(t *testing.T) {
	reg := NewRegistry()
	schema := Schema{"name": FieldRule{Type: "str", Required: true}}
	_, fail := Normalize(value.NewDict(value.NewOrderedMap()), schema, reg)
	require.NotNil(t, fail)
	assert.Equal(t, "name", fail.Field)
}

func TestConvertJSONRoundtrip(t *testing.T) {
	d := value.NewOrderedMap()
	d.Set("a", value.NewInt(1))
	encoded, err := Convert(value.NewDict(d), "json_encode")
	require.NoError(t, err)
	require.Equal(t, value.String, encoded.Kind())

	decoded, err := Convert(encoded, "json_decode")
	require.NoError(t, err)
	av, ok := decoded.DictVal().Get("a")
	require.True(t, ok)
	assert.Equal(t, int64(1), av.Int())
}

func ptr(v value.Value) *value.Value { return &v }
