package jsend

import (
	"bytes"
	"encoding/json"
)

type dataWire struct {
	Status Status          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

type errorWire struct {
	Status  Status          `json:"status"`
	Message string          `json:"message"`
	Code    *int64          `json:"code,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Encode returns the canonical JSON text of e:
//
//	{"status":"success","data":...}
//	{"status":"fail","data":...}
//	{"status":"error","message":...,"code":...,"data":...}
//
// code and data are left out of an error envelope that does not carry them. HTML
// characters are written as-is. Encode fails only when the payload itself cannot be
// marshaled, or with ErrInvalidEnvelope for the zero Envelope.
func Encode(e Envelope) ([]byte, error) {
	switch e.status {
	case StatusSuccess, StatusFail:
		data, err := marshalValue(e.data)
		if err != nil {
			return nil, err
		}
		return marshalValue(dataWire{Status: e.status, Data: data})
	case StatusError:
		w := errorWire{Status: e.status, Message: e.message}
		if e.hasCode {
			code := e.code
			w.Code = &code
		}
		if e.hasData {
			data, err := marshalValue(e.data)
			if err != nil {
				return nil, err
			}
			w.Data = data
		}
		return marshalValue(w)
	default:
		return nil, ErrInvalidEnvelope
	}
}

// MarshalJSON implements json.Marshaler.
func (e Envelope) MarshalJSON() ([]byte, error) {
	return Encode(e)
}

func marshalValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
