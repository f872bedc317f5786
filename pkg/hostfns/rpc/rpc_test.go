package rpc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowscript/flowscript/internal/registry"
	"github.com/flowscript/flowscript/internal/value"
)

func TestDialRejectsNonStringTarget(t *testing.T) {
	c := NewClient()
	out := c.hostDial(registry.Args{Pos: []value.Value{value.NewInt(1)}})
	assert.False(t, value.Succeeded(out))
}

func TestInvokeRejectsUnknownHandle(t *testing.T) {
	c := NewClient()
	out := c.hostInvoke(registry.Args{Pos: []value.Value{
		value.NewString("grpc-conn-1"),
		value.NewString("pkg.Service/Method"),
		value.NewDict(value.NewOrderedMap()),
	}})
	assert.False(t, value.Succeeded(out))
}

func TestFindMethodRejectsMalformedPath(t *testing.T) {
	c := NewClient()
	_, err := c.findMethod("not-a-method-path")
	assert.Error(t, err)
}

func TestCloseRejectsUnknownHandle(t *testing.T) {
	c := NewClient()
	out := c.hostClose(registry.Args{Pos: []value.Value{value.NewString("nope")}})
	assert.False(t, value.Succeeded(out))
}
