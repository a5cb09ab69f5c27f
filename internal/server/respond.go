package server

import (
	"net/http"

	"github.com/zx06/jsend"
)

// StatusFor 是演示服务的 HTTP 映射约定：success→200, fail→400, error→500。
// 核心库不规定这种映射，handler 可以传入自己的状态码覆盖。
func StatusFor(env jsend.Envelope) int {
	switch env.Status() {
	case jsend.StatusSuccess:
		return http.StatusOK
	case jsend.StatusFail:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteEnvelope 写出 JSend 响应体；httpStatus 为 0 时使用 StatusFor。
func WriteEnvelope(w http.ResponseWriter, httpStatus int, env jsend.Envelope) error {
	b, err := jsend.Encode(env)
	if err != nil {
		// 负载无法编码时退化为不带 data 的 error envelope
		env = jsend.Error("failed to encode response", jsend.WithCode(http.StatusInternalServerError))
		b, _ = jsend.Encode(env)
		httpStatus = http.StatusInternalServerError
	}
	if httpStatus == 0 {
		httpStatus = StatusFor(env)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(httpStatus)
	_, werr := w.Write(append(b, '\n'))
	if err != nil {
		return err
	}
	return werr
}
