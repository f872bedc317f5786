package flog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWarnIncludesLevelAndKeyValues(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	l.Warn("trigger action failed", "error", "boom")

	out := buf.String()
	assert.True(t, strings.Contains(out, "[WARN]"))
	assert.True(t, strings.Contains(out, "trigger action failed"))
	assert.True(t, strings.Contains(out, "error=boom"))
}

func TestNewDisablesColorForNonTerminalWriter(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	assert.False(t, l.color)
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
}
