package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/zx06/jsend"
)

// XError 是结构化错误；输出层把它渲染成 JSend error envelope。
type XError struct {
	Code    Code           `json:"code" yaml:"code"`
	Message string         `json:"message" yaml:"message"`
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
	cause   error
}

func (e *XError) Error() string {
	if e == nil {
		return ""
	}
	if e.cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
}

func (e *XError) Unwrap() error { return e.cause }

func New(code Code, message string, details map[string]any) *XError {
	return &XError{Code: code, Message: message, Details: details}
}

func Wrap(code Code, message string, details map[string]any, cause error) *XError {
	return &XError{Code: code, Message: message, Details: details, cause: cause}
}

func As(err error) (*XError, bool) {
	var xe *XError
	if stderrors.As(err, &xe) {
		return xe, true
	}
	return nil, false
}

func AsOrWrap(err error) *XError {
	if xe, ok := As(err); ok {
		return xe
	}
	if _, ok := jsend.AsDecodeError(err); ok {
		return FromDecodeError(err, nil)
	}
	return Wrap(CodeInternal, err.Error(), nil, err)
}

// FromDecodeError 把 jsend 解码失败转换为 CodeDocInvalid，details 中带上 kind/field。
// extra 会合并进 details（例如 HTTP 状态码、输入来源）。
func FromDecodeError(err error, extra map[string]any) *XError {
	details := map[string]any{}
	for k, v := range extra {
		details[k] = v
	}
	de, ok := jsend.AsDecodeError(err)
	if !ok {
		return Wrap(CodeDocInvalid, "document is not valid jsend", details, err)
	}
	details["kind"] = de.Kind.String()
	if de.Field != "" {
		details["field"] = de.Field
	}
	if de.Status != "" {
		details["status"] = string(de.Status)
	}
	return Wrap(CodeDocInvalid, de.Error(), details, err)
}
