package ssh

import (
	"net"
	"os"
	"strconv"
)

// Options 是连接 ssh_proxies 条目所需的参数。
type Options struct {
	Host           string
	Port           int    // 0 表示 22
	User           string // 空时取 $USER / $USERNAME
	IdentityFile   string
	Passphrase     string // 已解析 keyring 引用
	KnownHostsFile string // 空时用 ~/.ssh/known_hosts

	// SkipKnownHostsCheck 跳过 known_hosts 校验（极不推荐！）
	SkipKnownHostsCheck bool
}

const defaultPort = 22

func DefaultKnownHostsPath() string {
	return "~/.ssh/known_hosts"
}

func (o Options) withDefaults() Options {
	if o.Port == 0 {
		o.Port = defaultPort
	}
	if o.User == "" {
		o.User = os.Getenv("USER")
		if o.User == "" {
			o.User = os.Getenv("USERNAME")
		}
	}
	if o.KnownHostsFile == "" {
		o.KnownHostsFile = DefaultKnownHostsPath()
	}
	return o
}

func (o Options) addr() string {
	return net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
}
