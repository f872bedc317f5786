// Package config loads the runtime's ambient configuration: evaluation
// limits, scheduler backoff intervals, and the list of host function
// modules a pkg/runtime.Runtime should seed its registry with.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/flowscript/flowscript/internal/evaluator"
)

// RuntimeConfig is the top-level shape of a flowscript runtime config
// file, typically named flowscript.yaml.
type RuntimeConfig struct {
	// MaxDepth bounds the evaluator's expression stack (§4.4) before a
	// RecursionError diagnostic is raised. Zero means "use the
	// evaluator's built-in default".
	MaxDepth int `yaml:"max_depth,omitempty"`

	// Scheduler holds the trigger scheduler's poll and backoff
	// intervals (§4.6's Event loop).
	Scheduler SchedulerConfig `yaml:"scheduler,omitempty"`

	// HostModules lists the pkg/hostfns packages a Runtime should
	// register on startup (e.g. "coredata", "idgen", "yamlio", "rpc").
	// An embedder is free to register additional host functions beyond
	// this list; it only drives the default seeding.
	HostModules []string `yaml:"host_modules,omitempty"`
}

// SchedulerConfig holds values for the Event loop's poll cadence and error
// backoff. They are parsed, overridable from the environment and
// defaulted, but pkg/runtime does not pass them to internal/scheduler,
// whose Event loop always sleeps a fixed 1s after an empty poll and a
// fixed 5s after a failed poll or action.
type SchedulerConfig struct {
	// PollIntervalSeconds is the configured sleep after a poll that
	// returned no event. Defaults to 1.
	PollIntervalSeconds float64 `yaml:"poll_interval_seconds,omitempty"`

	// ErrorBackoffSeconds is the configured sleep after a polled callee
	// raises an error. Defaults to 5.
	ErrorBackoffSeconds float64 `yaml:"error_backoff_seconds,omitempty"`
}

// Default constants, mirroring internal/scheduler's hardcoded event-loop
// cadence (§4.6) so a zero-value SchedulerConfig behaves identically to
// not configuring the scheduler at all.
const (
	DefaultPollIntervalSeconds = 1.0
	DefaultErrorBackoffSeconds = 5.0
)

// Load reads and parses a RuntimeConfig from path, then applies
// FLOWSCRIPT_-prefixed environment variable overrides.
func Load(path string) (*RuntimeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.applyEnv()
	cfg.setDefaults()
	return cfg, nil
}

// Parse parses RuntimeConfig content from bytes without touching the
// environment or filesystem.
func Parse(data []byte) (*RuntimeConfig, error) {
	var cfg RuntimeConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv lets a deployment override file-based config without editing
// it, following the same override shape as a 12-factor deployment: an
// explicit env var always wins over the file.
func (c *RuntimeConfig) applyEnv() {
	if s := os.Getenv("FLOWSCRIPT_MAX_DEPTH"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			c.MaxDepth = n
		}
	}
	if s := os.Getenv("FLOWSCRIPT_POLL_INTERVAL_SECONDS"); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			c.Scheduler.PollIntervalSeconds = f
		}
	}
	if s := os.Getenv("FLOWSCRIPT_ERROR_BACKOFF_SECONDS"); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			c.Scheduler.ErrorBackoffSeconds = f
		}
	}
}

func (c *RuntimeConfig) setDefaults() {
	if c.MaxDepth <= 0 {
		c.MaxDepth = evaluator.DefaultMaxDepth
	}
	if c.Scheduler.PollIntervalSeconds <= 0 {
		c.Scheduler.PollIntervalSeconds = DefaultPollIntervalSeconds
	}
	if c.Scheduler.ErrorBackoffSeconds <= 0 {
		c.Scheduler.ErrorBackoffSeconds = DefaultErrorBackoffSeconds
	}
}
