package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruthy(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{Nil, false},
		{NewBool(false), false},
		{NewBool(true), true},
		{NewInt(0), false},
		{NewInt(1), true},
		{NewFloat(0), false},
		{NewString(""), false},
		{NewString("x"), true},
		{NewList(nil), false},
		{NewList([]Value{NewInt(1)}), true},
		{NewDict(NewOrderedMap()), false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.v.Truthy(), "Inspect=%s", c.v.Inspect())
	}
}

func TestEqualPromotesNumerics(t *testing.T) {
	assert.True(t, Equal(NewInt(3), NewFloat(3.0)))
	assert.False(t, Equal(NewInt(3), NewFloat(3.5)))
	assert.False(t, Equal(NewInt(3), NewString("3")))
}

func TestOrderedMapPreservesInsertionOrder(t *testing.T) {
	m := NewOrderedMap()
	m.Set("z", NewInt(1))
	m.Set("a", NewInt(2))
	m.Set("z", NewInt(3)) // update, not reorder
	require.Equal(t, []string{"z", "a"}, m.Keys())
	v, ok := m.Get("z")
	require.True(t, ok)
	assert.Equal(t, int64(3), v.Int())
}

func TestOrderedMapDelete(t *testing.T) {
	m := NewOrderedMap()
	m.Set("a", NewInt(1))
	m.Set("b", NewInt(2))
	m.Set("c", NewInt(3))
	m.Delete("b")
	assert.Equal(t, []string{"a", "c"}, m.Keys())
	_, ok := m.Get("b")
	assert.False(t, ok)
}

func TestEnvelopeRoundtrip(t *testing.T) {
	env := NewSuccessEnvelope(NewInt(42), "fetch", "req-1")
	require.True(t, IsEnvelope(env))
	assert.True(t, Succeeded(env))
	assert.Equal(t, int64(42), UnwrapData(env).Int())

	fail := NewFailureEnvelope("TimeoutError", "deadline exceeded", "fetch", "req-2")
	assert.False(t, Succeeded(fail))
	errs := Errors(fail)
	require.Len(t, errs, 1)
	kindVal, _ := errs[0].DictVal().Get("kind")
	assert.Equal(t, "TimeoutError", kindVal.Str())
}

func TestUnwrapDataIsIdentityForPlainValues(t *testing.T) {
	v := NewString("plain")
	assert.Equal(t, v, UnwrapData(v))
}

func TestIsEnvelopeRejectsPlainDicts(t *testing.T) {
	d := NewOrderedMap()
	d.Set("foo", NewInt(1))
	assert.False(t, IsEnvelope(NewDict(d)))
}
