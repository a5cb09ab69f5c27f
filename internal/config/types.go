package config

import "time"

// File 表示 jsend.yaml 的配置结构。
// 约束：配置优先级为 CLI > ENV > Config。
type File struct {
	Profiles   map[string]Profile  `yaml:"profiles"`
	SSHProxies map[string]SSHProxy `yaml:"ssh_proxies"`
	MCP        MCPConfig           `yaml:"mcp"`
	Serve      ServeConfig         `yaml:"serve"`
}

// Profile 描述一个 JSend 端点（fetch/MCP 使用）以及 serve 的存储后端。
type Profile struct {
	Description string `yaml:"description"`
	Format      string `yaml:"format"`

	// 远端 API
	BaseURL        string            `yaml:"base_url"`
	Token          string            `yaml:"token"` // 支持 keyring:xxx 引用
	AllowPlaintext bool              `yaml:"allow_plaintext"`
	Headers        map[string]string `yaml:"headers"`
	Timeout        time.Duration     `yaml:"timeout"`

	// SSH proxy 名称（引用 ssh_proxies）
	SSHProxy string `yaml:"ssh_proxy"`

	// serve 的存储后端
	Store string `yaml:"store"` // memory | mysql | pg
	DSN   string `yaml:"dsn"`   // 支持 keyring:xxx 引用

	// SSHConfig 由 Resolve 根据 SSHProxy 填充。
	SSHConfig *SSHProxy `yaml:"-"`
}

type SSHProxy struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	User           string `yaml:"user"`
	IdentityFile   string `yaml:"identity_file"`
	Passphrase     string `yaml:"passphrase"` // 支持 keyring:xxx 引用
	KnownHostsFile string `yaml:"known_hosts_file"`
	SkipHostKey    bool   `yaml:"skip_host_key"` // 极不推荐
}

type MCPConfig struct {
	Transport string        `yaml:"transport"` // stdio | streamable_http
	HTTP      MCPHTTPConfig `yaml:"http"`
}

type MCPHTTPConfig struct {
	Addr                string `yaml:"addr"`
	AuthToken           string `yaml:"auth_token"` // 支持 keyring:xxx 引用
	AllowPlaintextToken bool   `yaml:"allow_plaintext_token"`
}

type ServeConfig struct {
	Addr string `yaml:"addr"`
}

type Resolved struct {
	ConfigPath  string
	ProfileName string
	Format      string
	Profile     Profile
	File        File
}

type Options struct {
	// ConfigPath: 若非空，则只读取该文件（不存在报错）。
	ConfigPath string

	// CLI
	CLIProfile    string
	CLIProfileSet bool
	CLIFormat     string
	CLIFormatSet  bool

	// ENV（由调用方注入，便于测试）
	EnvProfile string
	EnvFormat  string

	// HomeDir 用于默认路径计算（为空则自动探测）。
	HomeDir string

	// WorkDir 用于默认路径（为空则使用进程当前工作目录）。
	WorkDir string
}

const (
	DefaultServeAddr   = "127.0.0.1:3000"
	DefaultMCPHTTPAddr = "127.0.0.1:8787"
	DefaultTimeout     = 30 * time.Second
)
