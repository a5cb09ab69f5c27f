// Package jsend implements the JSend response envelope.
//
// A JSend document is a JSON object whose "status" field selects one of three shapes:
//
//	{"status":"success","data":<any>}
//	{"status":"fail","data":<any>}
//	{"status":"error","message":<string>,"code":<integer, optional>,"data":<any, optional>}
//
// Build envelopes with Success, Fail and Error, serialize them with Encode (or
// json.Marshal), and parse documents back with Decode. Decode rejects anything that is
// not a well-formed JSend object with a *DecodeError whose Kind says what was wrong;
// unknown top-level keys are ignored.
//
//	b, _ := jsend.Encode(jsend.Fail(map[string]string{"title": "A title is required"}))
//	// {"status":"fail","data":{"title":"A title is required"}}
//
//	env, err := jsend.Decode(b)
//	if errors.Is(err, jsend.ErrMissingField) {
//		...
//	}
//
// Envelope values are immutable once constructed and may be shared between goroutines.
// Mapping a status to a transport code (HTTP 2xx/4xx/5xx) is left to the caller; see
// Status.Class for the conventional grouping.
package jsend
