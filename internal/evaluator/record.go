package evaluator

import (
	"strconv"

	"github.com/flowscript/flowscript/internal/ast"
	"github.com/flowscript/flowscript/internal/herrors"
	"github.com/flowscript/flowscript/internal/scope"
	"github.com/flowscript/flowscript/internal/trigger"
	"github.com/flowscript/flowscript/internal/types"
	"github.com/flowscript/flowscript/internal/value"
)

// evalRecord implements §4.4 "Record evaluation": items run in source
// order, each becoming visible to later items in the same record; a pair
// whose key matches a trigger shape is collected into e.triggers instead
// of being bound as a field (§4.4 "Trigger detection").
func (e *Evaluator) evalRecord(d *ast.Dict, sc *scope.Scope) (value.Value, *herrors.Diagnostic) {
	result := value.NewOrderedMap()

	for _, item := range d.Items {
		switch n := item.(type) {
		case *ast.Declaration:
			v, diag := e.evalExpr(n.Value, sc)
			if diag != nil {
				return value.NewDict(result), diag
			}
			checked, diag := types.CheckAssignable(n.Sp, n.Target.Type, v, e.Types)
			if diag != nil {
				return value.NewDict(result), diag
			}
			sc.Bind(n.Target.Name, checked)
			result.Set(n.Target.Name, checked)

		case *ast.Pair:
			if trig, ok := e.detectTrigger(n, sc); ok {
				e.triggers = append(e.triggers, trig)
				continue
			}

			keyStr, diag := e.keyToString(n.Key, sc)
			if diag != nil {
				return value.NewDict(result), diag
			}
			v, diag := e.evalExpr(n.Value, sc)
			if diag != nil {
				return value.NewDict(result), diag
			}
			if tv, ok := n.Key.(*ast.TypedVar); ok {
				checked, diag := types.CheckAssignable(n.Sp, tv.Type, v, e.Types)
				if diag != nil {
					return value.NewDict(result), diag
				}
				v = checked
			}
			sc.Bind(keyStr, v)
			result.Set(keyStr, v)

		case *ast.Call:
			if _, diag := e.evalExpr(n, sc); diag != nil {
				return value.NewDict(result), diag
			}

		default:
			return value.NewDict(result), herrors.At(herrors.RuntimeError, item.Span(), "unrecognised record item")
		}
	}

	return value.NewDict(result), nil
}

// detectTrigger recognises the two trigger shapes of §3/§4.4: a call-node
// key (Event candidate) and a 5-element tuple key containing at least one
// wildcard `*` at a (minute, hour, day, month, weekday) position (Cron
// candidate). Any other key shape is an ordinary mapping.
func (e *Evaluator) detectTrigger(p *ast.Pair, sc *scope.Scope) (trigger.Trigger, bool) {
	if call, ok := p.Key.(*ast.Call); ok {
		kwArgs := call.KwArgs()
		match := ""
		if m, ok := kwArgs["match"].(*ast.String); ok {
			match = m.Value
			delete(kwArgs, "match")
		}
		return trigger.Trigger{
			Kind:    trigger.EventKind,
			Callee:  call.Callee,
			PosArgs: call.PosArgs(),
			KwArgs:  kwArgs,
			Match:   match,
			Action:  p.Value,
			Scope:   sc.Snapshot(),
		}, true
	}

	if tup, ok := p.Key.(*ast.Tuple); ok {
		if fields, ok := cronFields(tup); ok {
			return trigger.Trigger{
				Kind:    trigger.CronKind,
				Minute:  fields[0],
				Hour:    fields[1],
				Day:     fields[2],
				Month:   fields[3],
				Weekday: fields[4],
				Action:  p.Value,
				Scope:   sc.Snapshot(),
			}, true
		}
	}

	return trigger.Trigger{}, false
}

func cronFields(t *ast.Tuple) ([5]trigger.CronField, bool) {
	var out [5]trigger.CronField
	if len(t.Items) != 5 {
		return out, false
	}
	hasWildcard := false
	for i, it := range t.Items {
		switch v := it.(type) {
		case *ast.Any:
			out[i] = trigger.CronField{Wildcard: true}
			hasWildcard = true
		case *ast.String:
			// §8's S6 example writes the wildcard quoted, `("*", ...)`,
			// alongside §4.1's canonical bare-atom `*`; accept both spellings.
			if v.Value != "*" {
				return out, false
			}
			out[i] = trigger.CronField{Wildcard: true}
			hasWildcard = true
		case *ast.Number:
			if v.Float {
				return out, false
			}
			out[i] = trigger.CronField{Value: int(v.Int)}
		default:
			return out, false
		}
	}
	return out, hasWildcard
}

// keyToString normalises a mapping key node to the string it binds under
// (§4.4 "the key is normalised to a string").
func (e *Evaluator) keyToString(n ast.Node, sc *scope.Scope) (string, *herrors.Diagnostic) {
	switch k := n.(type) {
	case *ast.Var:
		return k.Name, nil
	case *ast.TypedVar:
		return k.Name, nil
	case *ast.String:
		return k.Value, nil
	case *ast.Bool:
		return strconv.FormatBool(k.Value), nil
	case *ast.Number:
		if k.Float {
			return strconv.FormatFloat(k.Flt, 'g', -1, 64), nil
		}
		return strconv.FormatInt(k.Int, 10), nil
	default:
		v, diag := e.evalExpr(n, sc)
		if diag != nil {
			return "", diag
		}
		return v.Inspect(), nil
	}
}
