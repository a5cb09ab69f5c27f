package jsend

import (
	"errors"
	"fmt"
)

// Kind classifies why a document was rejected by Decode.
type Kind int

const (
	KindMalformed           Kind = iota + 1 // not valid JSON
	KindWrongShape                          // valid JSON, but not an object
	KindMissingDiscriminant                 // no "status" key
	KindUnknownDiscriminant                 // "status" is not success, fail or error
	KindMissingField                        // a required field of the variant is absent
	KindWrongFieldType                      // a field has the wrong JSON type
)

func (k Kind) String() string {
	switch k {
	case KindMalformed:
		return "malformed"
	case KindWrongShape:
		return "wrong_shape"
	case KindMissingDiscriminant:
		return "missing_discriminant"
	case KindUnknownDiscriminant:
		return "unknown_discriminant"
	case KindMissingField:
		return "missing_field"
	case KindWrongFieldType:
		return "wrong_field_type"
	default:
		return "unknown"
	}
}

// Sentinels matched by errors.Is against a *DecodeError of the same Kind.
var (
	ErrMalformed           = errors.New("jsend: malformed json")
	ErrWrongShape          = errors.New("jsend: document is not a json object")
	ErrMissingDiscriminant = errors.New(`jsend: missing "status" field`)
	ErrUnknownDiscriminant = errors.New("jsend: unknown status")
	ErrMissingField        = errors.New("jsend: missing required field")
	ErrWrongFieldType      = errors.New("jsend: field has wrong type")
)

var (
	// ErrInvalidEnvelope is returned when encoding an Envelope without a status.
	ErrInvalidEnvelope = errors.New("jsend: envelope has no status")
	// ErrNoData is returned by DecodeData for an error envelope without data.
	ErrNoData = errors.New("jsend: envelope has no data")
)

func (k Kind) sentinel() error {
	switch k {
	case KindMalformed:
		return ErrMalformed
	case KindWrongShape:
		return ErrWrongShape
	case KindMissingDiscriminant:
		return ErrMissingDiscriminant
	case KindUnknownDiscriminant:
		return ErrUnknownDiscriminant
	case KindMissingField:
		return ErrMissingField
	case KindWrongFieldType:
		return ErrWrongFieldType
	default:
		return nil
	}
}

// DecodeError describes a rejected document.
type DecodeError struct {
	Kind Kind
	// Field names the offending field for KindMissingField and KindWrongFieldType.
	Field string
	// Status is the resolved variant, when decoding got that far.
	Status Status
	// Value holds the raw JSON of the rejected "status" for KindUnknownDiscriminant.
	Value string
	// Err is the underlying parser error, if any.
	Err error
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case KindMalformed:
		if e.Err != nil {
			return fmt.Sprintf("%v: %v", ErrMalformed, e.Err)
		}
		return ErrMalformed.Error()
	case KindUnknownDiscriminant:
		return fmt.Sprintf("%v %s", ErrUnknownDiscriminant, e.Value)
	case KindMissingField:
		return fmt.Sprintf("jsend: missing %q field for status %q", e.Field, e.Status)
	case KindWrongFieldType:
		return fmt.Sprintf("jsend: field %q has wrong type for status %q", e.Field, e.Status)
	default:
		if s := e.Kind.sentinel(); s != nil {
			return s.Error()
		}
		return "jsend: invalid document"
	}
}

// Is reports whether target is the sentinel for e.Kind.
func (e *DecodeError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

func (e *DecodeError) Unwrap() error { return e.Err }

// AsDecodeError extracts a *DecodeError from err's chain.
func AsDecodeError(err error) (*DecodeError, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
