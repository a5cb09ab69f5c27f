package jsend

import (
	"bytes"
	"encoding/json"
	"io"
)

// Decode parses a JSend document.
//
// Checks run in order: valid JSON, a JSON object, a "status" key, a known status, then the
// fields that status requires. "data" counts as present even when it is null. An error's
// "code" must be an integer that fits in an int64; a null code is treated as absent.
// Keys Decode does not know about are ignored.
//
// Payloads come back in the encoding/json generic model with numbers as json.Number.
// Use Envelope.DecodeData to get a typed value.
func Decode(b []byte) (Envelope, error) {
	if !json.Valid(b) {
		var v any
		err := json.Unmarshal(b, &v)
		return Envelope{}, &DecodeError{Kind: KindMalformed, Err: err}
	}
	b = bytes.TrimSpace(b)
	if b[0] != '{' {
		return Envelope{}, &DecodeError{Kind: KindWrongShape}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return Envelope{}, &DecodeError{Kind: KindMalformed, Err: err}
	}

	rawStatus, ok := fields["status"]
	if !ok {
		return Envelope{}, &DecodeError{Kind: KindMissingDiscriminant}
	}
	var status Status
	if !isJSONString(rawStatus) || json.Unmarshal(rawStatus, &status) != nil || !status.Valid() {
		return Envelope{}, &DecodeError{Kind: KindUnknownDiscriminant, Value: string(bytes.TrimSpace(rawStatus))}
	}

	switch status {
	case StatusSuccess, StatusFail:
		rawData, ok := fields["data"]
		if !ok {
			return Envelope{}, &DecodeError{Kind: KindMissingField, Field: "data", Status: status}
		}
		data, err := decodeValue(rawData)
		if err != nil {
			return Envelope{}, &DecodeError{Kind: KindMalformed, Status: status, Err: err}
		}
		return Envelope{status: status, data: data, hasData: true}, nil
	default:
		return decodeError(fields)
	}
}

func decodeError(fields map[string]json.RawMessage) (Envelope, error) {
	e := Envelope{status: StatusError}

	rawMsg, ok := fields["message"]
	if !ok {
		return Envelope{}, &DecodeError{Kind: KindMissingField, Field: "message", Status: StatusError}
	}
	if !isJSONString(rawMsg) {
		return Envelope{}, &DecodeError{Kind: KindWrongFieldType, Field: "message", Status: StatusError}
	}
	if err := json.Unmarshal(rawMsg, &e.message); err != nil {
		return Envelope{}, &DecodeError{Kind: KindWrongFieldType, Field: "message", Status: StatusError, Err: err}
	}

	if rawCode, ok := fields["code"]; ok && !isJSONNull(rawCode) {
		v, err := decodeValue(rawCode)
		n, isNum := v.(json.Number)
		if err != nil || !isNum {
			return Envelope{}, &DecodeError{Kind: KindWrongFieldType, Field: "code", Status: StatusError, Err: err}
		}
		code, err := n.Int64()
		if err != nil {
			return Envelope{}, &DecodeError{Kind: KindWrongFieldType, Field: "code", Status: StatusError, Err: err}
		}
		e.code = code
		e.hasCode = true
	}

	if rawData, ok := fields["data"]; ok {
		data, err := decodeValue(rawData)
		if err != nil {
			return Envelope{}, &DecodeError{Kind: KindMalformed, Status: StatusError, Err: err}
		}
		e.data = data
		e.hasData = true
	}
	return e, nil
}

// DecodeString is Decode for a string.
func DecodeString(s string) (Envelope, error) {
	return Decode([]byte(s))
}

// DecodeReader reads r to EOF and decodes the result.
func DecodeReader(r io.Reader) (Envelope, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return Envelope{}, err
	}
	return Decode(b)
}

// UnmarshalJSON implements json.Unmarshaler with the same rules as Decode.
// A JSON null leaves e unchanged, as encoding/json expects.
func (e *Envelope) UnmarshalJSON(b []byte) error {
	if isJSONNull(b) {
		return nil
	}
	env, err := Decode(b)
	if err != nil {
		return err
	}
	*e = env
	return nil
}

func isJSONString(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '"'
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
