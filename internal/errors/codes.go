package errors

// Code 是稳定错误码（字符串），CLI/MCP 输出的 error envelope 在 data.error_code 中携带。
// 只增不改、不复用旧含义。
type Code string

const (
	// Config / args
	CodeCfgNotFound    Code = "JSEND_CFG_NOT_FOUND"
	CodeCfgInvalid     Code = "JSEND_CFG_INVALID"
	CodeSecretNotFound Code = "JSEND_SECRET_NOT_FOUND"

	// SSH
	CodeSSHAuthFailed      Code = "JSEND_SSH_AUTH_FAILED"
	CodeSSHHostKeyMismatch Code = "JSEND_SSH_HOSTKEY_MISMATCH"
	CodeSSHDialFailed      Code = "JSEND_SSH_DIAL_FAILED"

	// Remote endpoints
	CodeHTTPFailed Code = "JSEND_HTTP_FAILED"

	// Documents that are not valid JSend
	CodeDocInvalid Code = "JSEND_DOC_INVALID"

	// Store backends of the demo server
	CodeDBDriverUnsupported Code = "JSEND_DB_DRIVER_UNSUPPORTED"
	CodeDBConnectFailed     Code = "JSEND_DB_CONNECT_FAILED"
	CodeDBExecFailed        Code = "JSEND_DB_EXEC_FAILED"

	// Internal
	CodeInternal Code = "JSEND_INTERNAL"
)

func AllCodes() []Code {
	return []Code{
		CodeCfgNotFound,
		CodeCfgInvalid,
		CodeSecretNotFound,
		CodeSSHAuthFailed,
		CodeSSHHostKeyMismatch,
		CodeSSHDialFailed,
		CodeHTTPFailed,
		CodeDocInvalid,
		CodeDBDriverUnsupported,
		CodeDBConnectFailed,
		CodeDBExecFailed,
		CodeInternal,
	}
}
