package app

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/zx06/jsend"
	"github.com/zx06/jsend/internal/errors"
)

// EnvelopeInput 是 encode 命令与 jsend_encode 工具共用的输入。
// Data 为原始 JSON 文本，长度为 0 表示未提供。
type EnvelopeInput struct {
	Status  string
	Data    json.RawMessage
	Message string
	Code    *int64
}

// BuildEnvelope 校验输入并构造 envelope；所有参数错误都是 JSEND_CFG_INVALID。
func BuildEnvelope(in EnvelopeInput) (jsend.Envelope, *errors.XError) {
	status := jsend.Status(in.Status)
	if !status.Valid() {
		return jsend.Envelope{}, errors.New(errors.CodeCfgInvalid, "status must be success, fail or error",
			map[string]any{"status": in.Status})
	}

	var data any
	hasData := len(bytes.TrimSpace(in.Data)) > 0
	if hasData {
		v, xe := parseData(in.Data)
		if xe != nil {
			return jsend.Envelope{}, xe
		}
		data = v
	}

	if status != jsend.StatusError {
		if in.Message != "" {
			return jsend.Envelope{}, errors.New(errors.CodeCfgInvalid, "message is only allowed for error", map[string]any{"status": in.Status})
		}
		if in.Code != nil {
			return jsend.Envelope{}, errors.New(errors.CodeCfgInvalid, "code is only allowed for error", map[string]any{"status": in.Status})
		}
	}

	switch status {
	case jsend.StatusSuccess:
		return jsend.Success(data), nil
	case jsend.StatusFail:
		if !hasData {
			return jsend.Envelope{}, errors.New(errors.CodeCfgInvalid, "data is required for fail", nil)
		}
		return jsend.Fail(data), nil
	default:
		if in.Message == "" {
			return jsend.Envelope{}, errors.New(errors.CodeCfgInvalid, "message is required for error", nil)
		}
		var opts []jsend.ErrorOption
		if in.Code != nil {
			opts = append(opts, jsend.WithCode(*in.Code))
		}
		if hasData {
			opts = append(opts, jsend.WithData(data))
		}
		return jsend.Error(in.Message, opts...), nil
	}
}

// parseData 只接受单个 JSON 值，数字保留为 json.Number。
func parseData(raw []byte) (any, *errors.XError) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errors.Wrap(errors.CodeCfgInvalid, "data is not valid json", nil, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New(errors.CodeCfgInvalid, "data must be a single json value", nil)
	}
	return v, nil
}

// DecodeDocument 解码输入文档；失败时返回带 kind/field 的 JSEND_DOC_INVALID。
func DecodeDocument(doc []byte, source string) (jsend.Envelope, *errors.XError) {
	env, err := jsend.Decode(doc)
	if err != nil {
		var details map[string]any
		if source != "" {
			details = map[string]any{"source": source}
		}
		return jsend.Envelope{}, errors.FromDecodeError(err, details)
	}
	return env, nil
}

// Validation 是 validate 命令与 jsend_decode 工具的检查结果。
type Validation struct {
	Valid  bool         `json:"valid" yaml:"valid"`
	Status jsend.Status `json:"status" yaml:"status"`
}
