// Package idgen implements §6.2's two built-in schema generators,
// `generate_identifier` and `time_now_utc`, backed by
// github.com/google/uuid, plus the matching callable host functions for
// direct use outside a schema.
package idgen

import (
	"time"

	"github.com/google/uuid"

	"github.com/flowscript/flowscript/internal/registry"
	"github.com/flowscript/flowscript/internal/types"
	"github.com/flowscript/flowscript/internal/value"
)

const action = "idgen"

// GenerateIdentifier returns a random UUIDv4 string, the value a custom
// type's `generate_identifier` schema field requests (§6.2, backing the
// transaction envelope's `identifier` field).
func GenerateIdentifier() value.Value {
	return value.NewString(uuid.NewString())
}

// TimeNowUTC returns the current instant as an RFC 3339 UTC string, the
// value a `time_now_utc` schema field requests.
func TimeNowUTC() value.Value {
	return value.NewString(time.Now().UTC().Format(time.RFC3339))
}

// RegisterGenerators installs both generators into a custom-type
// registry under the exact names §6.2 names them.
func RegisterGenerators(ty *types.Registry) {
	ty.RegisterGenerator("generate_identifier", GenerateIdentifier)
	ty.RegisterGenerator("time_now_utc", TimeNowUTC)
}

// Register installs callable equivalents into the host function
// registry, for scripts that want an identifier or timestamp outside a
// schema-driven declaration.
func Register(reg *registry.Registry) {
	reg.Register("generate_identifier", func(registry.Args) value.Value {
		return value.NewSuccessEnvelope(GenerateIdentifier(), action, "")
	}, false, 0)
	reg.Register("time_now_utc", func(registry.Args) value.Value {
		return value.NewSuccessEnvelope(TimeNowUTC(), action, "")
	}, false, 0)
}
