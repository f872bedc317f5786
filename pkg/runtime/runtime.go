// Package runtime is the single embedding surface for FlowScript:
// parsing, evaluation, function/type registration, and scheduler
// lifecycle behind one struct, so a host program never has to reach into
// internal/* directly.
package runtime

import (
	"context"
	"strings"

	"github.com/flowscript/flowscript/internal/ast"
	"github.com/flowscript/flowscript/internal/config"
	"github.com/flowscript/flowscript/internal/evaluator"
	"github.com/flowscript/flowscript/internal/flog"
	"github.com/flowscript/flowscript/internal/herrors"
	"github.com/flowscript/flowscript/internal/parser"
	"github.com/flowscript/flowscript/internal/registry"
	"github.com/flowscript/flowscript/internal/scheduler"
	"github.com/flowscript/flowscript/internal/scope"
	"github.com/flowscript/flowscript/internal/trigger"
	"github.com/flowscript/flowscript/internal/types"
	"github.com/flowscript/flowscript/internal/value"
)

// SourceLoader reads the raw contents of another source file by path, for
// the `include(path)` host function. The core evaluator does no
// filesystem I/O itself; a host program supplies this callback (typically
// backed by os.ReadFile) via WithSourceLoader.
type SourceLoader func(path string) (string, error)

// Runtime owns the host function registry, custom-type table, evaluator
// and (once something has been run) the trigger scheduler. The zero
// value is not usable; construct one with New.
type Runtime struct {
	registry *registry.Registry
	types    *types.Registry
	eval     *evaluator.Evaluator
	log      *flog.Logger
	cfg      *config.RuntimeConfig
	loader   SourceLoader

	sched *scheduler.Scheduler
}

// Option configures a Runtime at construction time.
type Option func(*Runtime)

// WithConfig applies a loaded RuntimeConfig's max-depth setting to the
// Runtime under construction. Its scheduler intervals are not applied.
func WithConfig(cfg *config.RuntimeConfig) Option {
	return func(r *Runtime) { r.cfg = cfg }
}

// WithLogger overrides the Runtime's default stderr logger.
func WithLogger(log *flog.Logger) Option {
	return func(r *Runtime) { r.log = log }
}

// WithSourceLoader installs the file-reading callback backing the
// `include(path)` host function. Without this option, `include` is not
// registered and the name resolves as an ordinary unknown identifier.
func WithSourceLoader(loader SourceLoader) Option {
	return func(r *Runtime) { r.loader = loader }
}

// New creates a Runtime with an empty host function registry and custom
// type table, ready for RegisterFunction/RegisterType calls before the
// first Parse/Evaluate/Run.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		registry: registry.New(),
		types:    types.NewRegistry(),
		log:      flog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.eval = evaluator.New(r.registry, r.types)
	if r.cfg != nil && r.cfg.MaxDepth > 0 {
		r.eval.MaxDepth = r.cfg.MaxDepth
	}
	if r.loader != nil {
		r.registry.Register("include", r.hostInclude, true, 1)
	}
	return r
}

// defaultIncludeExt is appended to an include path with no extension of
// its own, matching this project's .flow source file convention.
const defaultIncludeExt = ".flow"

// hostInclude implements the `include(path)` host function: it loads
// another source file through the configured SourceLoader, parses it, and
// merges its top-level bindings directly into the calling scope (§4.4),
// mirroring how a record's own items become visible to later items.
func (r *Runtime) hostInclude(a registry.Args) value.Value {
	const action = "include"
	if len(a.Pos) != 1 || a.Pos[0].Kind() != value.String {
		return value.NewFailureEnvelope(string(herrors.TypeError), "include expects a single path string", action, "")
	}
	if a.Ctx == nil {
		return value.NewFailureEnvelope(string(herrors.CallError), "include: no calling scope available", action, "")
	}

	path := a.Pos[0].Str()
	if !strings.Contains(path[strings.LastIndexAny(path, "/\\")+1:], ".") {
		path += defaultIncludeExt
	}

	src, err := r.loader(path)
	if err != nil {
		return value.NewFailureEnvelope(string(herrors.CallError), err.Error(), action, "")
	}

	root, errs := r.Parse(src)
	if len(errs) > 0 {
		return value.NewFailureEnvelope(string(errs[0].Kind), errs[0].Message, action, "")
	}

	result, diag := r.eval.EvaluateInto(root, a.Ctx)
	if diag != nil {
		return value.NewFailureEnvelope(string(diag.Kind), diag.Message, action, "")
	}
	return value.NewSuccessEnvelope(result, action, "")
}

// Parse implements §6.4's `parse(source) -> AST`.
func (r *Runtime) Parse(source string) (*ast.Dict, []*herrors.Diagnostic) {
	return parser.Parse(source)
}

// Evaluate implements §6.4's `evaluate(ast, scope) -> record Value + triggers`.
func (r *Runtime) Evaluate(root *ast.Dict, initial *scope.Scope) (value.Value, []trigger.Trigger, *herrors.Diagnostic) {
	return r.eval.Evaluate(root, initial)
}

// RegisterFunction implements §6.4/§6.1's `register(name, callable, accepts_ctx)`.
func (r *Runtime) RegisterFunction(name string, fn registry.Func, acceptsCtx bool, arity int, kwParams ...string) {
	r.registry.Register(name, fn, acceptsCtx, arity, kwParams...)
}

// Registry exposes the underlying host function registry so a pkg/hostfns
// package (which registers itself against *registry.Registry directly)
// can be wired into this Runtime without pkg/runtime needing to import
// every domain package itself.
func (r *Runtime) Registry() *registry.Registry { return r.registry }

// Types exposes the underlying custom-type registry for the same reason
// Registry does, needed by host modules that also install schema
// generators (e.g. pkg/hostfns/idgen).
func (r *Runtime) Types() *types.Registry { return r.types }

// RegisterType implements §6.4's `register_type(name, schema)`.
func (r *Runtime) RegisterType(name string, schema types.Schema) {
	r.types.RegisterType(name, schema)
}

// RegisterGenerator registers a named schema generator (§6.2's
// `time_now_utc`, `generate_identifier`), consumed by a custom type's
// schema fields.
func (r *Runtime) RegisterGenerator(name string, gen types.Generator) {
	r.types.RegisterGenerator(name, gen)
}

// Handle is the scheduler handle returned by Run and accepted by
// Shutdown (§6.4).
type Handle struct {
	sched      *scheduler.Scheduler
	numTrigger int
}

// Triggers reports how many Event/Cron triggers Run started under this
// handle. A CLI front end can use this to decide whether to keep the
// process alive after printing the evaluated record.
func (h *Handle) Triggers() int {
	if h == nil {
		return 0
	}
	return h.numTrigger
}

// Run implements §6.4's `run(source) -> record Value + scheduler handle`:
// parses and evaluates source against a fresh top-level scope, then
// starts any triggers it discovered running in the background.
func (r *Runtime) Run(ctx context.Context, source string) (value.Value, *Handle, *herrors.Diagnostic) {
	root, errs := r.Parse(source)
	if len(errs) > 0 {
		return value.Nil, nil, errs[0]
	}

	r.eval.Ctx = ctx
	result, triggers, diag := r.Evaluate(root, scope.New())
	if diag != nil {
		return value.Nil, nil, diag
	}

	sched := scheduler.New(r.eval, r.log)
	sched.Start(triggers)
	return result, &Handle{sched: sched, numTrigger: len(triggers)}, nil
}

// Shutdown implements §6.4's `shutdown(handle)`: cancels every trigger
// task started by Run and waits for their cooperative exit.
func (r *Runtime) Shutdown(h *Handle) {
	if h == nil || h.sched == nil {
		return
	}
	h.sched.Shutdown()
}
