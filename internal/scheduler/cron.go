package scheduler

import (
	"context"
	"time"

	"github.com/flowscript/flowscript/internal/trigger"
)

// runCronLoop implements §4.6's "Cron loop" exactly: each minute boundary,
// compute the current (minute, hour, day, month, weekday) tuple in local
// time, run the action if every non-wildcard field matches, then sleep
// until the next minute boundary (computed from the current second to
// avoid drift).
func (s *Scheduler) runCronLoop(ctx context.Context, t trigger.Trigger) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		now := time.Now()
		if cronMatches(t, now) {
			if _, diag := s.eval.Eval(t.Action, t.Scope); diag != nil {
				s.log.Warn("cron trigger action failed", "error", diag.Message)
			}
		}

		if !sleepOrDone(ctx, untilNextMinute(now)) {
			return
		}
	}
}

func cronMatches(t trigger.Trigger, now time.Time) bool {
	return t.Minute.Matches(now.Minute()) &&
		t.Hour.Matches(now.Hour()) &&
		t.Day.Matches(now.Day()) &&
		t.Month.Matches(int(now.Month())) &&
		t.Weekday.Matches(int(now.Weekday()))
}

func untilNextMinute(now time.Time) time.Duration {
	next := now.Truncate(time.Minute).Add(time.Minute)
	return next.Sub(now)
}
