package cmd

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadParseInputFromFile(t *testing.T) {
	path := t.TempDir() + "/script.flow"
	require.NoError(t, os.WriteFile(path, []byte("{ a: 1 }"), 0o644))

	source, filename, err := readParseInput([]string{path})
	require.NoError(t, err)
	assert.Equal(t, "{ a: 1 }", source)
	assert.Equal(t, path, filename)
}

func TestReadParseInputRejectsMissingFile(t *testing.T) {
	_, _, err := readParseInput([]string{"/no/such/file.flow"})
	assert.Error(t, err)
}
