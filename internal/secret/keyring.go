package secret

import "strings"

// KeyringAPI 是对 OS keyring 的最小抽象，便于测试与跨平台。
// service 对应 keyring 的 service name，account 对应 user/account。
type KeyringAPI interface {
	Get(service, account string) (string, error)
	Set(service, account, value string) error
	Delete(service, account string) error
}

func defaultKeyring() KeyringAPI {
	return &osKeyring{}
}

// osKeyring 的 Get/Set/Delete 按平台实现，见 keyring_default.go / keyring_windows.go。
type osKeyring struct{}

// stripNullBytes 去掉 Windows 凭据管理器返回值中的 UTF-16 残留 null 字节。
func stripNullBytes(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}
