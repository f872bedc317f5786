// Package registry implements the host function registry (§4.3, §6.1): a
// name -> callable surface host code installs functions into, which the
// evaluator consults during call resolution.
package registry

import (
	"sync"

	"github.com/flowscript/flowscript/internal/scope"
	"github.com/flowscript/flowscript/internal/value"
)

// Args bundles a host call's evaluated arguments.
type Args struct {
	Pos []value.Value
	Kw  map[string]value.Value
	// Ctx is the calling scope, present only when the callable's
	// AcceptsContext is true (§6.1 "may optionally receive the current
	// scope under the key `context`").
	Ctx *scope.Scope
}

// Func is a host callable. It is expected to return a transaction envelope
// (§3); use Wrap to adapt a plain (value, error)-returning Go function.
type Func func(Args) value.Value

// Entry describes one registered host function: its callable plus the
// signature metadata the evaluator and tooling can introspect.
type Entry struct {
	Name           string
	Fn             Func
	Arity          int // -1 for variadic
	KwParams       []string
	AcceptsContext bool
}

// Registry is the name -> Entry surface. It is safe for concurrent use:
// registration typically happens at startup while the scheduler and
// in-flight evaluations may already be resolving calls.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Register installs fn under name (`register(name, callable, accepts_ctx)`,
// §6.1). arity is -1 for variadic callables.
func (r *Registry) Register(name string, fn Func, acceptsCtx bool, arity int, kwParams ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = &Entry{Name: name, Fn: fn, Arity: arity, KwParams: kwParams, AcceptsContext: acceptsCtx}
}

// Lookup resolves a flat (possibly dotted) registered name directly. Partial
// dotted resolution (`svc.method` where only `svc` is registered as a
// record) is the evaluator's responsibility per §4.3 bullet 4.
func (r *Registry) Lookup(name string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

// Names returns every registered name, for tooling/introspection.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.entries))
	for n := range r.entries {
		out = append(out, n)
	}
	return out
}

// Wrap adapts a Go function returning (data, error) into a Func that always
// returns a transaction envelope: success wraps data, an error becomes a
// CallError failure envelope (§3, §6.1).
func Wrap(action string, fn func(Args) (value.Value, error)) Func {
	return func(a Args) value.Value {
		data, err := fn(a)
		if err != nil {
			return value.NewFailureEnvelope("CallError", err.Error(), action, "")
		}
		return value.NewSuccessEnvelope(data, action, "")
	}
}
