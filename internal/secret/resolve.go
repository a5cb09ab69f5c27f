package secret

import (
	"strings"

	"github.com/zx06/jsend/internal/errors"
)

const (
	keyringPrefix = "keyring:"

	// ServiceName 是 keyring 中所有 jsend 凭据共用的 service。
	ServiceName = "jsend"
)

// Options 控制 secret 解析行为。
type Options struct {
	AllowPlaintext bool       // 是否允许明文（默认 false）
	Keyring        KeyringAPI // 可注入的 keyring 实现（nil 则用默认）
}

// Resolve 解析 secret 值（token、dsn、ssh passphrase 共用）：
//  1. keyring:<account> → 从 keyring 读取（service 固定为 jsend）
//  2. 否则若为明文且允许明文 → 直接返回
//  3. 否则报错
//
// 空字符串视为未配置，直接返回空。
func Resolve(raw string, opts Options) (string, *errors.XError) {
	if raw == "" {
		return "", nil
	}
	if IsKeyringRef(raw) {
		service, account, xe := parseKeyringRef(strings.TrimPrefix(raw, keyringPrefix))
		if xe != nil {
			return "", xe
		}
		kr := opts.Keyring
		if kr == nil {
			kr = defaultKeyring()
		}
		val, err := kr.Get(service, account)
		if err != nil {
			return "", errors.Wrap(errors.CodeSecretNotFound, "failed to read secret from keyring",
				map[string]any{"service": service, "account": account}, err)
		}
		return val, nil
	}
	if opts.AllowPlaintext {
		return raw, nil
	}
	return "", errors.New(errors.CodeCfgInvalid, "plaintext secret not allowed; use keyring: reference or set allow_plaintext", nil)
}

func parseKeyringRef(ref string) (string, string, *errors.XError) {
	account := strings.TrimSpace(ref)
	if account == "" {
		return "", "", errors.New(errors.CodeCfgInvalid, "empty keyring reference", nil)
	}
	return ServiceName, account, nil
}

// IsKeyringRef 判断值是否为 keyring 引用。
func IsKeyringRef(s string) bool {
	return strings.HasPrefix(s, keyringPrefix)
}

// Redact 用于展示配置：keyring 引用原样保留，明文替换为 ***。
func Redact(raw string) string {
	if raw == "" || IsKeyringRef(raw) {
		return raw
	}
	return "***"
}
