// Package scheduler implements the trigger scheduler (§4.6): one
// independent logical task per registered Event or Cron trigger, run as a
// goroutine, with cooperative shutdown.
package scheduler

import (
	"context"
	"sync"

	"github.com/flowscript/flowscript/internal/evaluator"
	"github.com/flowscript/flowscript/internal/trigger"
)

// Scheduler owns one task per trigger produced by an evaluation, started
// off the program's trigger list and run for the process lifetime.
type Scheduler struct {
	eval *evaluator.Evaluator

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	log    Logger
}

// Logger is the minimal logging surface the scheduler needs; satisfied by
// internal/flog.Logger (kept decoupled so tests can pass a no-op stub).
type Logger interface {
	Warn(msg string, kv ...interface{})
	Error(msg string, kv ...interface{})
}

type nullLogger struct{}

func (nullLogger) Warn(string, ...interface{})  {}
func (nullLogger) Error(string, ...interface{}) {}

// New creates a Scheduler bound to ev. If log is nil, log output is
// discarded.
func New(ev *evaluator.Evaluator, log Logger) *Scheduler {
	if log == nil {
		log = nullLogger{}
	}
	return &Scheduler{eval: ev, log: log}
}

// Start launches one task per trigger and returns immediately; tasks run
// until Shutdown is called.
func (s *Scheduler) Start(triggers []trigger.Trigger) {
	s.mu.Lock()
	ctx, cancel := context.WithCancel(context.Background())
	s.ctx, s.cancel = ctx, cancel
	s.mu.Unlock()

	for _, t := range triggers {
		t := t
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			switch t.Kind {
			case trigger.EventKind:
				s.runEventLoop(ctx, t)
			case trigger.CronKind:
				s.runCronLoop(ctx, t)
			}
		}()
	}
}

// Shutdown signals cancellation to every task and awaits their cooperative
// exit (§4.6 "Shutdown").
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}
