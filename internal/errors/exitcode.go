package errors

import "github.com/zx06/jsend"

// ExitCode 是进程退出码（稳定契约）。
type ExitCode int

const (
	ExitOK ExitCode = 0

	// 2: 参数/配置错误
	ExitConfig ExitCode = 2

	// 3: 连接错误（SSH/HTTP）
	ExitConnect ExitCode = 3

	// 4: 输入文档不是合法的 JSend
	ExitDocInvalid ExitCode = 4

	// 5: 存储后端错误
	ExitDB ExitCode = 5

	// 6/7: 远端返回了 fail / error envelope
	ExitRemoteFail  ExitCode = 6
	ExitRemoteError ExitCode = 7

	// 10: 内部错误
	ExitInternal ExitCode = 10
)

func ExitCodeFor(code Code) ExitCode {
	switch code {
	case CodeCfgNotFound, CodeCfgInvalid, CodeSecretNotFound:
		return ExitConfig
	case CodeSSHAuthFailed, CodeSSHHostKeyMismatch, CodeSSHDialFailed, CodeHTTPFailed:
		return ExitConnect
	case CodeDocInvalid:
		return ExitDocInvalid
	case CodeDBDriverUnsupported, CodeDBConnectFailed, CodeDBExecFailed:
		return ExitDB
	case CodeInternal:
		fallthrough
	default:
		return ExitInternal
	}
}

// ExitCodeForStatus 给 fetch 之类转发远端 envelope 的命令使用。
func ExitCodeForStatus(status jsend.Status) ExitCode {
	switch status {
	case jsend.StatusSuccess:
		return ExitOK
	case jsend.StatusFail:
		return ExitRemoteFail
	case jsend.StatusError:
		return ExitRemoteError
	default:
		return ExitDocInvalid
	}
}
