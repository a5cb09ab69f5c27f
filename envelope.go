package jsend

import (
	"bytes"
	"encoding/json"
	"reflect"
)

// Status is the value of the "status" discriminant.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFail    Status = "fail"
	StatusError   Status = "error"
)

// Valid reports whether s is one of the three JSend statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusSuccess, StatusFail, StatusError:
		return true
	default:
		return false
	}
}

// Class groups statuses the way transports usually treat them.
// It is advisory; nothing in this package depends on it.
type Class int

const (
	ClassUnknown Class = iota
	ClassSuccess
	ClassClientError
	ClassServerError
)

// Class returns the conventional outcome class: success is a success, fail is the
// caller's fault, error is the server's.
func (s Status) Class() Class {
	switch s {
	case StatusSuccess:
		return ClassSuccess
	case StatusFail:
		return ClassClientError
	case StatusError:
		return ClassServerError
	default:
		return ClassUnknown
	}
}

func (c Class) String() string {
	switch c {
	case ClassSuccess:
		return "success"
	case ClassClientError:
		return "client_error"
	case ClassServerError:
		return "server_error"
	default:
		return "unknown"
	}
}

// Envelope is one JSend response: a success, a fail or an error.
// The zero value has no status and is not a valid envelope.
type Envelope struct {
	status  Status
	data    any
	hasData bool
	message string
	code    int64
	hasCode bool
}

// Success wraps the result of a call. A nil data serializes as JSON null.
func Success(data any) Envelope {
	return Envelope{status: StatusSuccess, data: data, hasData: true}
}

// Fail reports a rejected call. data usually maps input field names to problems.
func Fail(data any) Envelope {
	return Envelope{status: StatusFail, data: data, hasData: true}
}

// ErrorOption sets an optional field of an error envelope.
type ErrorOption func(*Envelope)

// WithCode attaches a numeric error code.
func WithCode(code int64) ErrorOption {
	return func(e *Envelope) {
		e.code = code
		e.hasCode = true
	}
}

// WithData attaches extra error details. WithData(nil) emits "data":null.
func WithData(data any) ErrorOption {
	return func(e *Envelope) {
		e.data = data
		e.hasData = true
	}
}

// Error reports a failure while processing the call. An empty message is allowed.
func Error(message string, opts ...ErrorOption) Envelope {
	e := Envelope{status: StatusError, message: message}
	for _, opt := range opts {
		if opt != nil {
			opt(&e)
		}
	}
	return e
}

// Status returns the discriminant; empty for the zero Envelope.
func (e Envelope) Status() Status { return e.status }

func (e Envelope) IsSuccess() bool { return e.status == StatusSuccess }
func (e Envelope) IsFail() bool    { return e.status == StatusFail }
func (e Envelope) IsError() bool   { return e.status == StatusError }

// Data returns the payload. The bool reports whether the data member is present
// on the wire, not whether it is non-null: success and fail always carry data,
// so Success(nil).Data() returns (nil, true) and encodes as "data":null.
// The bool is false only for an error envelope built without data (and for the
// zero Envelope). Use data == nil to test for a null payload.
func (e Envelope) Data() (any, bool) {
	return e.data, e.hasData
}

// Message returns the error message; ok is false for success and fail.
func (e Envelope) Message() (string, bool) {
	if e.status != StatusError {
		return "", false
	}
	return e.message, true
}

// Code returns the error code, if one was set.
func (e Envelope) Code() (int64, bool) {
	if e.status != StatusError || !e.hasCode {
		return 0, false
	}
	return e.code, true
}

// DecodeData decodes the payload into v, which must be a pointer.
// It returns ErrNoData when the envelope carries no data.
func (e Envelope) DecodeData(v any) error {
	if !e.hasData {
		return ErrNoData
	}
	b, err := marshalValue(e.data)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// Equal reports whether e and other are the same variant with the same fields.
// Payloads are compared by their JSON form, so map[string]int{"a": 1} equals the
// map[string]any a decoder produced for {"a":1}.
func (e Envelope) Equal(other Envelope) bool {
	if e.status != other.status ||
		e.message != other.message ||
		e.hasCode != other.hasCode ||
		e.code != other.code ||
		e.hasData != other.hasData {
		return false
	}
	if !e.hasData {
		return true
	}
	return jsonEqual(e.data, other.data)
}

// String returns the canonical JSON text, or "{}" when the envelope cannot be encoded.
func (e Envelope) String() string {
	b, err := Encode(e)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func jsonEqual(a, b any) bool {
	na, err := normalize(a)
	if err != nil {
		return false
	}
	nb, err := normalize(b)
	if err != nil {
		return false
	}
	return reflect.DeepEqual(na, nb)
}

// normalize maps any marshalable value onto the generic decoder model.
func normalize(v any) (any, error) {
	b, err := marshalValue(v)
	if err != nil {
		return nil, err
	}
	return decodeValue(b)
}

func decodeValue(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
