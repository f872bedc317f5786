package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`max_depth: 500`))
	require.NoError(t, err)
	cfg.setDefaults()
	assert.Equal(t, 500, cfg.MaxDepth)
	assert.Equal(t, DefaultPollIntervalSeconds, cfg.Scheduler.PollIntervalSeconds)
	assert.Equal(t, DefaultErrorBackoffSeconds, cfg.Scheduler.ErrorBackoffSeconds)
}

func TestParseEmptyConfigGetsEvaluatorDefault(t *testing.T) {
	cfg, err := Parse([]byte(``))
	require.NoError(t, err)
	cfg.setDefaults()
	assert.Equal(t, 1000, cfg.MaxDepth)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("FLOWSCRIPT_MAX_DEPTH", "42")
	cfg, err := Parse([]byte(`max_depth: 500`))
	require.NoError(t, err)
	cfg.applyEnv()
	cfg.setDefaults()
	assert.Equal(t, 42, cfg.MaxDepth)
}

func TestHostModulesListParsed(t *testing.T) {
	cfg, err := Parse([]byte("host_modules:\n  - coredata\n  - idgen\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"coredata", "idgen"}, cfg.HostModules)
}
