package secret

import (
	"fmt"
	"strings"
	"testing"
)

// nullByteKeyring 模拟 Windows 凭据管理器返回带 null 字节的值
type nullByteKeyring struct {
	data map[string]map[string]string
}

func newNullByteKeyring() *nullByteKeyring {
	return &nullByteKeyring{data: make(map[string]map[string]string)}
}

func (m *nullByteKeyring) setWithNullBytes(service, account, value string) {
	var sb strings.Builder
	for _, r := range value {
		sb.WriteRune(r)
		sb.WriteByte(0x00)
	}
	if m.data[service] == nil {
		m.data[service] = make(map[string]string)
	}
	m.data[service][account] = sb.String()
}

func (m *nullByteKeyring) Get(service, account string) (string, error) {
	if v, ok := m.data[service][account]; ok {
		return v, nil
	}
	return "", fmt.Errorf("not found: %s/%s", service, account)
}

func (m *nullByteKeyring) Set(service, account, value string) error {
	m.setWithNullBytes(service, account, value)
	return nil
}

func (m *nullByteKeyring) Delete(service, account string) error {
	delete(m.data[service], account)
	return nil
}

func TestStripNullBytes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no null bytes", "token123", "token123"},
		{"null bytes between chars", "t\x00o\x00k\x00", "tok"},
		{"special chars with null bytes", "p\x00@\x00s\x00!\x00#\x00", "p@s!#"},
		{"empty string", "", ""},
		{"only null bytes", "\x00\x00\x00", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripNullBytes(tt.input); got != tt.want {
				t.Errorf("stripNullBytes(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolve_PassesKeyringValueThrough(t *testing.T) {
	kr := newNullByteKeyring()
	kr.setWithNullBytes(ServiceName, "prod/token", "secret")

	// 清理发生在 osKeyring.Get（windows），Resolve 不改动注入实现的返回值
	val, xe := Resolve("keyring:prod/token", Options{Keyring: kr})
	if xe != nil {
		t.Fatalf("Resolve failed: %v", xe)
	}
	if stripNullBytes(val) != "secret" {
		t.Errorf("got %q", val)
	}
}

func TestKeyringAPI_Interface(t *testing.T) {
	var _ KeyringAPI = (*mockKeyring)(nil)
	var _ KeyringAPI = (*nullByteKeyring)(nil)
	var _ KeyringAPI = (*osKeyring)(nil)
}
