package types

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/flowscript/flowscript/internal/value"
)

// Convert applies one of a small set of named conversions, used both by
// schema field converters (§6.2) and the `convert` coredata host
// function. Supported names:
//
//	"json_decode": str  -> dict (json.Unmarshal)
//	"json_encode": dict -> str  (json.Marshal, indented)
//	"sha256":      str  -> str  (hex digest)
func Convert(v value.Value, name string) (value.Value, error) {
	switch name {
	case "json_decode":
		if v.Kind() != value.String {
			return v, fmt.Errorf("json_decode expects a string, got %s", v.Kind())
		}
		var raw interface{}
		if err := json.Unmarshal([]byte(v.Str()), &raw); err != nil {
			return v, fmt.Errorf("json_decode: %w", err)
		}
		return fromJSON(raw), nil
	case "json_encode":
		b, err := json.MarshalIndent(toJSON(v), "", "  ")
		if err != nil {
			return v, fmt.Errorf("json_encode: %w", err)
		}
		return value.NewString(string(b)), nil
	case "sha256":
		if v.Kind() != value.String {
			return v, fmt.Errorf("sha256 expects a string, got %s", v.Kind())
		}
		sum := sha256.Sum256([]byte(v.Str()))
		return value.NewString(hex.EncodeToString(sum[:])), nil
	case "":
		return v, nil
	default:
		return v, fmt.Errorf("unsupported conversion %q", name)
	}
}

func fromJSON(raw interface{}) value.Value {
	switch x := raw.(type) {
	case nil:
		return value.Nil
	case bool:
		return value.NewBool(x)
	case float64:
		if x == float64(int64(x)) {
			return value.NewInt(int64(x))
		}
		return value.NewFloat(x)
	case string:
		return value.NewString(x)
	case []interface{}:
		items := make([]value.Value, len(x))
		for i, it := range x {
			items[i] = fromJSON(it)
		}
		return value.NewList(items)
	case map[string]interface{}:
		m := value.NewOrderedMap()
		for k, v := range x {
			m.Set(k, fromJSON(v))
		}
		return value.NewDict(m)
	default:
		return value.Nil
	}
}

func toJSON(v value.Value) interface{} {
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
			out[i] = toJSON(it)
		}
		return out
	case value.Dict:
		out := make(map[string]interface{})
		for _, k := range v.DictVal().Keys() {
			val, _ := v.DictVal().Get(k)
			out[k] = toJSON(val)
		}
		return out
	default:
		return nil
	}
}
