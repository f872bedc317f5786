package printer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowscript/flowscript/internal/parser"
)

func TestPrintIndentsNestedDicts(t *testing.T) {
	root, errs := parser.Parse(`{ a: 1; b: { c: 2 } }`)
	require.Empty(t, errs)

	out := New(DefaultOptions()).Print(root)
	assert.Contains(t, out, "a: 1;\n")
	assert.Contains(t, out, "  b: {\n")
	assert.Contains(t, out, "    c: 2;\n")
}

func TestPrintEmptyDict(t *testing.T) {
	root, errs := parser.Parse(`{}`)
	require.Empty(t, errs)
	out := New(DefaultOptions()).Print(root)
	assert.Equal(t, "{}\n", out)
}

func TestPrintIsIdempotentOnReparse(t *testing.T) {
	root, errs := parser.Parse(`{ x: 1; y: 2 }`)
	require.Empty(t, errs)
	first := New(DefaultOptions()).Print(root)

	reparsed, errs := parser.Parse(first)
	require.Empty(t, errs)
	second := New(DefaultOptions()).Print(reparsed)

	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first, "{\n"))
}
