package coredata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowscript/flowscript/internal/registry"
	"github.com/flowscript/flowscript/internal/value"
)

func dict(pairs ...[2]value.Value) value.Value {
	m := value.NewOrderedMap()
	for _, p := range pairs {
		m.Set(p[0].Str(), p[1])
	}
	return value.NewDict(m)
}

func TestGetTraversesDottedPath(t *testing.T) {
	inner := dict([2]value.Value{value.NewString("city"), value.NewString("Rome")})
	outer := dict([2]value.Value{value.NewString("address"), inner})

	out := hostGet(registry.Args{Pos: []value.Value{outer, value.NewString("address.city")}})
	require.True(t, value.Succeeded(out))
	assert.Equal(t, "Rome", value.UnwrapData(out).Str())
}

func TestGetReturnsDefaultWhenMissing(t *testing.T) {
	outer := dict()
	out := hostGet(registry.Args{
		Pos: []value.Value{outer, value.NewString("missing.field")},
		Kw:  map[string]value.Value{"default": value.NewString("fallback")},
	})
	require.True(t, value.Succeeded(out))
	assert.Equal(t, "fallback", value.UnwrapData(out).Str())
}

func TestGetWildcardMapsOverList(t *testing.T) {
	items := value.NewList([]value.Value{
		dict([2]value.Value{value.NewString("n"), value.NewInt(1)}),
		dict([2]value.Value{value.NewString("n"), value.NewInt(2)}),
	})
	out := hostGet(registry.Args{Pos: []value.Value{items, value.NewString("*.n")}})
	require.True(t, value.Succeeded(out))
	data := value.UnwrapData(out)
	require.Len(t, data.List(), 2)
	assert.Equal(t, int64(1), data.List()[0].Int())
	assert.Equal(t, int64(2), data.List()[1].Int())
}

func TestPutSetsNestedPath(t *testing.T) {
	out := hostPut(registry.Args{Pos: []value.Value{
		dict(), value.NewString("address.city"), value.NewString("Turin"),
	}})
	require.True(t, value.Succeeded(out))
	got := get(value.UnwrapData(out), "address.city", value.Nil)
	assert.Equal(t, "Turin", got.Str())
}

func TestPickAndFilterAreComplementary(t *testing.T) {
	src := dict(
		[2]value.Value{value.NewString("a"), value.NewInt(1)},
		[2]value.Value{value.NewString("b"), value.NewInt(2)},
	)
	keys := value.NewList([]value.Value{value.NewString("a")})

	picked := value.UnwrapData(hostPick(registry.Args{Pos: []value.Value{src, keys}}))
	assert.Equal(t, 1, picked.DictVal().Len())

	filtered := value.UnwrapData(hostFilter(registry.Args{Pos: []value.Value{src, keys}}))
	assert.Equal(t, 1, filtered.DictVal().Len())
	_, hasA := filtered.DictVal().Get("a")
	assert.False(t, hasA)
}

func TestMergeRightWins(t *testing.T) {
	left := dict([2]value.Value{value.NewString("a"), value.NewInt(1)})
	right := dict([2]value.Value{value.NewString("a"), value.NewInt(9)})
	out := value.UnwrapData(hostMerge(registry.Args{Pos: []value.Value{left, right}}))
	v, _ := out.DictVal().Get("a")
	assert.Equal(t, int64(9), v.Int())
}

func TestConcatJoinsLists(t *testing.T) {
	a := value.NewList([]value.Value{value.NewInt(1)})
	b := value.NewList([]value.Value{value.NewInt(2)})
	out := value.UnwrapData(hostConcat(registry.Args{Pos: []value.Value{a, b}}))
	assert.Len(t, out.List(), 2)
}

func TestConvertSha256(t *testing.T) {
	out := hostConvert(registry.Args{Pos: []value.Value{value.NewString("hello"), value.NewString("sha256")}})
	require.True(t, value.Succeeded(out))
	assert.Len(t, value.UnwrapData(out).Str(), 64)
}

func TestFormatInterpolatesVars(t *testing.T) {
	vars := dict([2]value.Value{value.NewString("name"), value.NewString("Ada")})
	out := hostFormat(registry.Args{Pos: []value.Value{value.NewString("hello {{ name }}"), vars}})
	require.True(t, value.Succeeded(out))
	assert.Equal(t, "hello Ada", value.UnwrapData(out).Str())
}
