package yamlio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowscript/flowscript/internal/registry"
	"github.com/flowscript/flowscript/internal/value"
)

func TestDecodeParsesMapping(t *testing.T) {
	out := hostDecode(registry.Args{Pos: []value.Value{value.NewString("name: Ada\nage: 36\n")}})
	require.True(t, value.Succeeded(out))
	data := value.UnwrapData(out)
	name, _ := data.DictVal().Get("name")
	assert.Equal(t, "Ada", name.Str())
	age, _ := data.DictVal().Get("age")
	assert.Equal(t, int64(36), age.Int())
}

func TestEncodeThenDecodeRoundtrips(t *testing.T) {
	m := value.NewOrderedMap()
	m.Set("a", value.NewInt(1))
	encoded := hostEncode(registry.Args{Pos: []value.Value{value.NewDict(m)}})
	require.True(t, value.Succeeded(encoded))

	decoded := hostDecode(registry.Args{Pos: []value.Value{value.UnwrapData(encoded)}})
	require.True(t, value.Succeeded(decoded))
	v, _ := value.UnwrapData(decoded).DictVal().Get("a")
	assert.Equal(t, int64(1), v.Int())
}

func TestDecodeRejectsInvalidYAML(t *testing.T) {
	out := hostDecode(registry.Args{Pos: []value.Value{value.NewString("a: [unterminated")}})
	assert.False(t, value.Succeeded(out))
}
