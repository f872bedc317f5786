package cmd

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowscript/flowscript/internal/scope"
)

func TestReadSourcePrefersInlineEval(t *testing.T) {
	source, filename, err := readSource("{ x: 1 }", nil)
	require.NoError(t, err)
	assert.Equal(t, "{ x: 1 }", source)
	assert.Equal(t, "<eval>", filename)
}

func TestReadSourceRequiresFileOrEval(t *testing.T) {
	_, _, err := readSource("", nil)
	assert.Error(t, err)
}

func TestReadSourceReadsFile(t *testing.T) {
	path := t.TempDir() + "/script.flow"
	require.NoError(t, os.WriteFile(path, []byte("{ x: 1 }"), 0o644))

	source, filename, err := readSource("", []string{path})
	require.NoError(t, err)
	assert.Equal(t, "{ x: 1 }", source)
	assert.Equal(t, path, filename)
}

func TestNewRuntimeWiresAllHostModulesByDefault(t *testing.T) {
	rt, err := newRuntime("", "")
	require.NoError(t, err)

	root, errs := rt.Parse(`{ id: generate_identifier() }`)
	require.Empty(t, errs)
	_, _, diag := rt.Evaluate(root, scope.New())
	assert.Nil(t, diag)
}

func TestNewRuntimeResolvesIncludeRelativeToSourceDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/shared.flow", []byte(`{ greeting: "hi" }`), 0o644))

	rt, err := newRuntime("", dir+"/main.flow")
	require.NoError(t, err)

	root, errs := rt.Parse(`{ include("shared"); message: greeting }`)
	require.Empty(t, errs)
	result, _, diag := rt.Evaluate(root, scope.New())
	require.Nil(t, diag)
	v, ok := result.DictVal().Get("message")
	require.True(t, ok)
	assert.Equal(t, "hi", v.Str())
}
