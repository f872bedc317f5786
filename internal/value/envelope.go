package value

// Envelope keys are the conventional field names every host function
// returns under (§3 "Transaction envelope"). An envelope is not a distinct
// Value kind - it is a Dict value whose shape matches this convention -
// which is why IsEnvelope inspects a Dict's keys rather than a
// separate tag.
const (
	FieldSuccess    = "success"
	FieldData       = "data"
	FieldErrors     = "errors"
	FieldAction     = "action"
	FieldIdentifier = "identifier"
)

// ErrorReport is one entry of an envelope's `errors` list.
type ErrorReport struct {
	Kind    string
	Message string
}

// ToValue renders an ErrorReport as a Dict value for storage in an
// envelope's `errors` field.
func (e ErrorReport) ToValue() Value {
	d := NewOrderedMap()
	d.Set("kind", NewString(e.Kind))
	d.Set("message", NewString(e.Message))
	return NewDict(d)
}

// NewEnvelope builds the conventional transaction-envelope record.
func NewEnvelope(success bool, data Value, errs []ErrorReport, action, identifier string) Value {
	d := NewOrderedMap()
	d.Set(FieldSuccess, NewBool(success))
	d.Set(FieldData, data)
	errVals := make([]Value, len(errs))
	for i, e := range errs {
		errVals[i] = e.ToValue()
	}
	d.Set(FieldErrors, NewList(errVals))
	d.Set(FieldAction, NewString(action))
	d.Set(FieldIdentifier, NewString(identifier))
	return NewDict(d)
}

// NewSuccessEnvelope is a convenience constructor for the common
// success-with-no-errors case.
func NewSuccessEnvelope(data Value, action, identifier string) Value {
	return NewEnvelope(true, data, nil, action, identifier)
}

// NewFailureEnvelope is a convenience constructor for a single-error failure.
func NewFailureEnvelope(kind, message, action, identifier string) Value {
	return NewEnvelope(false, Nil, []ErrorReport{{Kind: kind, Message: message}}, action, identifier)
}

// IsEnvelope reports whether v structurally matches the transaction
// envelope shape: a Dict carrying at least a boolean `success` field.
func IsEnvelope(v Value) bool {
	if v.Kind() != Dict {
		return false
	}
	sv, ok := v.DictVal().Get(FieldSuccess)
	return ok && sv.Kind() == Bool
}

// Succeeded reports whether v is an envelope whose `success` field is true.
// Non-envelope values are treated as trivially successful (§4.4 "Pipe
// semantics" only unwraps/short-circuits on envelopes).
func Succeeded(v Value) bool {
	if !IsEnvelope(v) {
		return true
	}
	sv, _ := v.DictVal().Get(FieldSuccess)
	return sv.Bool()
}

// UnwrapData returns v's `data` field if v is an envelope, otherwise v
// itself unchanged - the rule pipe stages use to thread a value forward.
func UnwrapData(v Value) Value {
	if !IsEnvelope(v) {
		return v
	}
	dv, ok := v.DictVal().Get(FieldData)
	if !ok {
		return Nil
	}
	return dv
}

// Errors returns the `errors` list of an envelope, or nil if v is not an
// envelope or carries none.
func Errors(v Value) []Value {
	if !IsEnvelope(v) {
		return nil
	}
	ev, ok := v.DictVal().Get(FieldErrors)
	if !ok || ev.Kind() != List {
		return nil
	}
	return ev.List()
}
