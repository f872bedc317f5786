package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowscript/flowscript/internal/value"
)

func TestBindAndGetThroughParentChain(t *testing.T) {
	root := New()
	root.Bind("x", value.NewInt(1))

	child := NewEnclosed(root)
	child.Bind("y", value.NewInt(2))

	v, ok := child.Get("x")
	require.True(t, ok)
	assert.Equal(t, int64(1), v.Int())

	_, ok = root.Get("y")
	assert.False(t, ok, "parent must not see child bindings")
}

func TestRebindShadowsWithoutDuplicatingOrder(t *testing.T) {
	s := New()
	s.Bind("x", value.NewInt(1))
	s.Bind("x", value.NewInt(2))

	assert.Equal(t, []string{"x"}, s.LocalNames())
	v, _ := s.Get("x")
	assert.Equal(t, int64(2), v.Int())
}

func TestSnapshotIsolatesLaterBindings(t *testing.T) {
	s := New()
	s.Bind("x", value.NewInt(1))
	snap := s.Snapshot()
	s.Bind("y", value.NewInt(2))

	_, ok := snap.Get("y")
	assert.False(t, ok, "snapshot must not observe bindings added afterward")
	v, ok := snap.Get("x")
	require.True(t, ok)
	assert.Equal(t, int64(1), v.Int())
}

func TestGetLocalDoesNotConsultOuter(t *testing.T) {
	root := New()
	root.Bind("x", value.NewInt(1))
	child := NewEnclosed(root)

	_, ok := child.GetLocal("x")
	assert.False(t, ok)
}
