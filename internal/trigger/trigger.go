// Package trigger defines the Trigger record the evaluator discovers
// during record evaluation (§4.4 "Trigger detection") and the scheduler
// consumes to run long-lived event/cron loops (§4.6).
package trigger

import (
	"regexp"
	"strings"

	"github.com/flowscript/flowscript/internal/ast"
	"github.com/flowscript/flowscript/internal/scope"
)

// Kind distinguishes the two trigger shapes (§3 "Trigger").
type Kind int

const (
	EventKind Kind = iota
	CronKind
)

// CronField is one position of a cron pattern: either a fixed value or the
// wildcard `*` (Wildcard=true, Value ignored).
type CronField struct {
	Wildcard bool
	Value    int
}

// Trigger is `(TriggerKind, ActionNode, CapturedScope)` (§3). For an Event
// trigger, Callee/PosArgs/KwArgs describe the call the scheduler re-invokes
// each poll; for a Cron trigger, the five CronField values describe the
// wall-clock pattern. Action is the expression evaluated (in a scope
// layered over Scope) when the trigger fires.
//
// Match, when non-empty, is an Event trigger's `match:` glob pattern
// (`*`/`?`): the scheduler only fires Action when the poll's event data
// matches it, rather than on any non-null data.
type Trigger struct {
	Kind Kind

	Callee  ast.Node
	PosArgs []ast.Node
	KwArgs  map[string]ast.Node
	Match   string

	Minute, Hour, Day, Month, Weekday CronField

	Action ast.Node
	Scope  *scope.Scope
}

// Matches reports whether the cron pattern matches the given wall-clock
// tuple (§4.6 "Cron loop" step 2: literal equal, `*` matches anything).
func (f CronField) Matches(v int) bool {
	return f.Wildcard || f.Value == v
}

// WildcardMatch reports whether subject matches a glob pattern whose only
// special characters are `*` (any run, including empty) and `?` (any one
// character), case-sensitive, the whole subject against the whole pattern.
func WildcardMatch(subject, pattern string) bool {
	var b strings.Builder
	b.WriteByte('^')
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteByte('$')
	re, err := regexp.Compile(b.String())
	if err != nil {
		return subject == pattern
	}
	return re.MatchString(subject)
}
