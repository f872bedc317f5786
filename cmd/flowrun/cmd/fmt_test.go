package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSourceIndentsNestedDict(t *testing.T) {
	out, err := formatSource(`{ a: 1; b: { c: 2 } }`)
	require.NoError(t, err)
	assert.Contains(t, out, "a: 1;\n")
	assert.Contains(t, out, "  b: {\n")
}

func TestFormatSourceRejectsSyntaxErrors(t *testing.T) {
	_, err := formatSource(`{ a: `)
	assert.Error(t, err)
}
