// Package coredata provides the §4.3/§6.2 data-shape host functions:
// dotted-path access and mutation, named type conversion, and dict/list
// shape utilities, each implemented as a registry-callable returning a
// transaction envelope.
package coredata

import (
	"strconv"
	"strings"

	"github.com/flowscript/flowscript/internal/registry"
	"github.com/flowscript/flowscript/internal/types"
	"github.com/flowscript/flowscript/internal/value"
)

const action = "coredata"

// Register installs every coredata host function into reg.
func Register(reg *registry.Registry) {
	reg.Register("keys", hostKeys, false, 1)
	reg.Register("values", hostValues, false, 1)
	reg.Register("items", hostItems, false, 1)
	reg.Register("pick", hostPick, false, 2)
	reg.Register("filter", hostFilter, false, 2)
	reg.Register("merge", hostMerge, false, 2)
	reg.Register("concat", hostConcat, false, 2)
	reg.Register("get", hostGet, false, 2, "default")
	reg.Register("put", hostPut, false, 3)
	reg.Register("convert", hostConvert, false, 2)
	reg.Register("format", hostFormat, false, 1)
}

func ok(v value.Value) value.Value     { return value.NewSuccessEnvelope(v, action, "") }
func fail(msg string) value.Value      { return value.NewFailureEnvelope("CallError", msg, action, "") }
func valErr(msg string) value.Value    { return value.NewFailureEnvelope("ValidationError", msg, action, "") }
func typeErr(msg string) value.Value   { return value.NewFailureEnvelope("TypeError", msg, action, "") }

func hostKeys(a registry.Args) value.Value {
	if len(a.Pos) != 1 || a.Pos[0].Kind() != value.Dict {
		return typeErr("keys expects a single dict argument")
	}
	d := a.Pos[0].DictVal()
	items := make([]value.Value, 0, d.Len())
	for _, k := range d.Keys() {
		items = append(items, value.NewString(k))
	}
	return ok(value.NewList(items))
}

func hostValues(a registry.Args) value.Value {
	if len(a.Pos) != 1 || a.Pos[0].Kind() != value.Dict {
		return typeErr("values expects a single dict argument")
	}
	d := a.Pos[0].DictVal()
	items := make([]value.Value, 0, d.Len())
	for _, k := range d.Keys() {
		v, _ := d.Get(k)
		items = append(items, v)
	}
	return ok(value.NewList(items))
}

func hostItems(a registry.Args) value.Value {
	if len(a.Pos) != 1 || a.Pos[0].Kind() != value.Dict {
		return typeErr("items expects a single dict argument")
	}
	d := a.Pos[0].DictVal()
	items := make([]value.Value, 0, d.Len())
	for _, k := range d.Keys() {
		v, _ := d.Get(k)
		pair := value.NewOrderedMap()
		pair.Set("key", value.NewString(k))
		pair.Set("value", v)
		items = append(items, value.NewDict(pair))
	}
	return ok(value.NewList(items))
}

// pick(dict, [keys...]) returns a dict containing only the requested keys.
func hostPick(a registry.Args) value.Value {
	if len(a.Pos) != 2 || a.Pos[0].Kind() != value.Dict || a.Pos[1].Kind() != value.List {
		return typeErr("pick expects (dict, list of keys)")
	}
	src := a.Pos[0].DictVal()
	out := value.NewOrderedMap()
	for _, kv := range a.Pos[1].List() {
		if kv.Kind() != value.String {
			continue
		}
		if v, present := src.Get(kv.Str()); present {
			out.Set(kv.Str(), v)
		}
	}
	return ok(value.NewDict(out))
}

// filter(dict, [keys...]) returns a dict with the named keys excluded.
func hostFilter(a registry.Args) value.Value {
	if len(a.Pos) != 2 || a.Pos[0].Kind() != value.Dict || a.Pos[1].Kind() != value.List {
		return typeErr("filter expects (dict, list of keys)")
	}
	exclude := map[string]bool{}
	for _, kv := range a.Pos[1].List() {
		if kv.Kind() == value.String {
			exclude[kv.Str()] = true
		}
	}
	src := a.Pos[0].DictVal()
	out := value.NewOrderedMap()
	for _, k := range src.Keys() {
		if exclude[k] {
			continue
		}
		v, _ := src.Get(k)
		out.Set(k, v)
	}
	return ok(value.NewDict(out))
}

// merge(a, b) shallow-merges two dicts, b's keys winning on conflict.
func hostMerge(a registry.Args) value.Value {
	if len(a.Pos) != 2 || a.Pos[0].Kind() != value.Dict || a.Pos[1].Kind() != value.Dict {
		return typeErr("merge expects two dicts")
	}
	out := a.Pos[0].DictVal().Clone()
	right := a.Pos[1].DictVal()
	for _, k := range right.Keys() {
		v, _ := right.Get(k)
		out.Set(k, v)
	}
	return ok(value.NewDict(out))
}

// concat(a, b) concatenates two lists.
func hostConcat(a registry.Args) value.Value {
	if len(a.Pos) != 2 || a.Pos[0].Kind() != value.List || a.Pos[1].Kind() != value.List {
		return typeErr("concat expects two lists")
	}
	left, right := a.Pos[0].List(), a.Pos[1].List()
	out := make([]value.Value, 0, len(left)+len(right))
	out = append(out, left...)
	out = append(out, right...)
	return ok(value.NewList(out))
}

// hostGet implements `get(data, path, default=None)`: dotted path
// traversal over nested dicts/lists, with `*` on a list segment mapping
// the rest of the path over every element.
func hostGet(a registry.Args) value.Value {
	if len(a.Pos) < 2 || a.Pos[1].Kind() != value.String {
		return typeErr("get expects (data, path)")
	}
	def := value.Nil
	if d, present := a.Kw["default"]; present {
		def = d
	}
	return ok(get(a.Pos[0], a.Pos[1].Str(), def))
}

func get(data value.Value, path string, def value.Value) value.Value {
	if path == "" {
		return data
	}
	head, rest, hasRest := strings.Cut(path, ".")

	if head == "*" {
		if data.Kind() != value.List {
			return def
		}
		out := make([]value.Value, 0, len(data.List()))
		for _, item := range data.List() {
			r := ""
			if hasRest {
				r = rest
			}
			out = append(out, get(item, r, def))
		}
		return value.NewList(out)
	}

	var next value.Value
	found := false
	switch data.Kind() {
	case value.List:
		if n, err := strconv.Atoi(head); err == nil {
			items := data.List()
			if n < 0 {
				n += len(items)
			}
			if n >= 0 && n < len(items) {
				next, found = items[n], true
			}
		}
	case value.Dict:
		if v, present := data.DictVal().Get(head); present {
			next, found = v, true
		}
	}
	if !found {
		return def
	}
	if !hasRest {
		if next.IsNull() {
			return def
		}
		return next
	}
	return get(next, rest, def)
}

// hostPut implements a path-addressed set without per-field schema
// re-validation (schema validation in this runtime already happens
// through internal/types.Normalize at the declaration boundary; `put`
// here is the pure data-shape operation).
func hostPut(a registry.Args) value.Value {
	if len(a.Pos) != 3 || a.Pos[0].Kind() != value.Dict || a.Pos[1].Kind() != value.String {
		return typeErr("put expects (dict, path, value)")
	}
	root := a.Pos[0].DictVal().Clone()
	if err := put(root, a.Pos[1].Str(), a.Pos[2]); err != "" {
		return valErr(err)
	}
	return ok(value.NewDict(root))
}

func put(node *value.OrderedMap, path string, v value.Value) string {
	head, rest, hasRest := strings.Cut(path, ".")
	if head == "" {
		return "empty path segment"
	}
	if !hasRest {
		node.Set(head, v)
		return ""
	}
	child, present := node.Get(head)
	if !present || child.Kind() != value.Dict {
		child = value.NewDict(value.NewOrderedMap())
	}
	childMap := child.DictVal().Clone()
	if err := put(childMap, rest, v); err != "" {
		return err
	}
	node.Set(head, value.NewDict(childMap))
	return ""
}

func hostConvert(a registry.Args) value.Value {
	if len(a.Pos) != 2 || a.Pos[1].Kind() != value.String {
		return typeErr("convert expects (value, conversion name)")
	}
	out, err := types.Convert(a.Pos[0], a.Pos[1].Str())
	if err != nil {
		return valErr(err.Error())
	}
	return ok(out)
}

// hostFormat implements `format(target, constants)`: this runtime's host
// ABI has no keyword-splat equivalent for arbitrary template constants,
// so it accepts a single dict of named substitutions and performs
// `{{ name }}`-style interpolation.
func hostFormat(a registry.Args) value.Value {
	if len(a.Pos) == 0 || a.Pos[0].Kind() != value.String {
		return typeErr("format expects a template string")
	}
	vars := value.NewOrderedMap()
	if len(a.Pos) > 1 && a.Pos[1].Kind() == value.Dict {
		vars = a.Pos[1].DictVal()
	}
	return ok(value.NewString(render(a.Pos[0].Str(), vars)))
}

func stringify(v value.Value) string {
	if v.Kind() == value.String {
		return v.Str()
	}
	return v.Inspect()
}

func render(tmpl string, vars *value.OrderedMap) string {
	var b strings.Builder
	for {
		start := strings.Index(tmpl, "{{")
		if start < 0 {
			b.WriteString(tmpl)
			break
		}
		end := strings.Index(tmpl[start:], "}}")
		if end < 0 {
			b.WriteString(tmpl)
			break
		}
		end += start
		b.WriteString(tmpl[:start])
		name := strings.TrimSpace(tmpl[start+2 : end])
		if v, present := vars.Get(name); present {
			b.WriteString(stringify(v))
		}
		tmpl = tmpl[end+2:]
	}
	return b.String()
}
