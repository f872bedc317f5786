// Package yamlio implements the `yaml.decode`/`yaml.encode` host
// functions, via gopkg.in/yaml.v3, already used by internal/config for
// the same purpose at the ambient layer.
package yamlio

import (
	"gopkg.in/yaml.v3"

	"github.com/flowscript/flowscript/internal/registry"
	"github.com/flowscript/flowscript/internal/value"
)

const action = "yamlio"

// Register installs yaml.decode/yaml.encode under a dotted `yaml.`
// prefix, matching §4.3's dotted host-name convention.
func Register(reg *registry.Registry) {
	reg.Register("yaml.decode", hostDecode, false, 1)
	reg.Register("yaml.encode", hostEncode, false, 1)
}

func fail(msg string) value.Value {
	return value.NewFailureEnvelope("ValidationError", msg, action, "")
}

func hostDecode(a registry.Args) value.Value {
	if len(a.Pos) != 1 || a.Pos[0].Kind() != value.String {
		return value.NewFailureEnvelope("TypeError", "yaml.decode expects a string", action, "")
	}
	var raw interface{}
	if err := yaml.Unmarshal([]byte(a.Pos[0].Str()), &raw); err != nil {
		return fail("yaml.decode: " + err.Error())
	}
	return value.NewSuccessEnvelope(fromYAML(raw), action, "")
}

func hostEncode(a registry.Args) value.Value {
	if len(a.Pos) != 1 {
		return value.NewFailureEnvelope("TypeError", "yaml.encode expects one value", action, "")
	}
	b, err := yaml.Marshal(toYAML(a.Pos[0]))
	if err != nil {
		return fail("yaml.encode: " + err.Error())
	}
	return value.NewSuccessEnvelope(value.NewString(string(b)), action, "")
}

func fromYAML(raw interface{}) value.Value {
	switch x := raw.(type) {
	case nil:
		return value.Nil
	case bool:
		return value.NewBool(x)
	case int:
		return value.NewInt(int64(x))
	case int64:
		return value.NewInt(x)
	case float64:
		return value.NewFloat(x)
	case string:
		return value.NewString(x)
	case []interface{}:
		items := make([]value.Value, len(x))
		for i, it := range x {
			items[i] = fromYAML(it)
		}
		return value.NewList(items)
	case map[string]interface{}:
		m := value.NewOrderedMap()
		for k, v := range x {
			m.Set(k, fromYAML(v))
		}
		return value.NewDict(m)
	case map[interface{}]interface{}:
		m := value.NewOrderedMap()
		for k, v := range x {
			if ks, ok := k.(string); ok {
				m.Set(ks, fromYAML(v))
			}
		}
		return value.NewDict(m)
	default:
		return value.Nil
	}
}

func toYAML(v value.Value) interface{} {
	switch v.Kind() {
	case value.Null:
		return nil
	case value.Bool:
		return v.Bool()
	case value.Int:
		return v.Int()
	case value.Float:
		return v.Float()
	case value.String:
		return v.Str()
	case value.List:
		items := v.List()
		out := make([]interface{}, len(items))
		for i, it := range items {
			out[i] = toYAML(it)
		}
		return out
	case value.Dict:
		out := make(map[string]interface{})
		for _, k := range v.DictVal().Keys() {
			val, _ := v.DictVal().Get(k)
			out[k] = toYAML(val)
		}
		return out
	default:
		return nil
	}
}
