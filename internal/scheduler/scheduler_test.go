package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowscript/flowscript/internal/evaluator"
	"github.com/flowscript/flowscript/internal/parser"
	"github.com/flowscript/flowscript/internal/registry"
	"github.com/flowscript/flowscript/internal/scope"
	"github.com/flowscript/flowscript/internal/trigger"
	"github.com/flowscript/flowscript/internal/types"
	"github.com/flowscript/flowscript/internal/value"
)

// S6 — Cron trigger (all-wildcard pattern fires on every tick).
func TestCronTriggerFiresAndStopsAfterShutdown(t *testing.T) {
	dict, errs := parser.Parse(`{ (*, *, *, *, *) : tick(); }`)
	require.Empty(t, errs)

	calls := 0
	reg := registry.New()
	reg.Register("tick", func(a registry.Args) value.Value {
		calls++
		return value.NewSuccessEnvelope(value.Nil, "tick", "")
	}, false, 0)

	ev := evaluator.New(reg, types.NewRegistry())
	_, triggers, diag := ev.Evaluate(dict, scope.New())
	require.Nil(t, diag)
	require.Len(t, triggers, 1)

	sched := New(ev, nil)
	sched.Start(triggers)
	time.Sleep(50 * time.Millisecond)
	sched.Shutdown()

	assert.GreaterOrEqual(t, calls, 1)
	after := calls
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, calls, "no further invocations after shutdown")
}

func TestMatchesEventWildcardPattern(t *testing.T) {
	assert.True(t, matchesEvent("", value.NewString("anything")))
	assert.True(t, matchesEvent("user.*", value.NewString("user.login")))
	assert.False(t, matchesEvent("user.*", value.NewString("order.created")))

	d := value.NewOrderedMap()
	d.Set("key", value.NewString("user.logout"))
	assert.True(t, matchesEvent("user.*", value.NewDict(d)))
}

func TestCronFieldMatching(t *testing.T) {
	wildcard := trigger.CronField{Wildcard: true}
	literal := trigger.CronField{Value: 5}
	assert.True(t, wildcard.Matches(0))
	assert.True(t, wildcard.Matches(59))
	assert.True(t, literal.Matches(5))
	assert.False(t, literal.Matches(6))
}
