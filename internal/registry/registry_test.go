package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowscript/flowscript/internal/value"
)

func TestRegisterAndLookup(t *testing.T) {
	r := New()
	r.Register("double", func(a Args) value.Value {
		return value.NewSuccessEnvelope(value.NewInt(a.Pos[0].Int()*2), "double", "")
	}, false, 1)

	e, ok := r.Lookup("double")
	require.True(t, ok)
	result := e.Fn(Args{Pos: []value.Value{value.NewInt(21)}})
	assert.Equal(t, int64(42), value.UnwrapData(result).Int())
}

func TestWrapBuildsFailureEnvelopeOnError(t *testing.T) {
	fn := Wrap("fetch", func(a Args) (value.Value, error) {
		return value.Nil, errors.New("boom")
	})
	result := fn(Args{})
	assert.False(t, value.Succeeded(result))
	errs := value.Errors(result)
	require.Len(t, errs, 1)
}

func TestWrapBuildsSuccessEnvelope(t *testing.T) {
	fn := Wrap("fetch", func(a Args) (value.Value, error) {
		return value.NewString("ok"), nil
	})
	result := fn(Args{})
	assert.True(t, value.Succeeded(result))
	assert.Equal(t, "ok", value.UnwrapData(result).Str())
}
