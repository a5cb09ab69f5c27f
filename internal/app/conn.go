package app

import (
	"context"

	"github.com/zx06/jsend/internal/client"
	"github.com/zx06/jsend/internal/config"
	"github.com/zx06/jsend/internal/errors"
	"github.com/zx06/jsend/internal/secret"
	"github.com/zx06/jsend/internal/ssh"
	"github.com/zx06/jsend/internal/store"
)

type ConnectionOptions struct {
	Profile          config.Profile
	AllowPlaintext   bool
	SkipHostKeyCheck bool
	UserAgent        string
}

func (o ConnectionOptions) secretOptions() secret.Options {
	return secret.Options{AllowPlaintext: o.AllowPlaintext || o.Profile.AllowPlaintext}
}

// NewClient 解析 token 与 SSH 隧道后构造 HTTP client；返回的 close 负责关闭隧道。
func NewClient(ctx context.Context, opts ConnectionOptions) (*client.Client, func() error, *errors.XError) {
	token, xe := secret.Resolve(opts.Profile.Token, opts.secretOptions())
	if xe != nil {
		return nil, nil, xe
	}
	sc, xe := ResolveSSH(ctx, opts.Profile, opts.AllowPlaintext, opts.SkipHostKeyCheck)
	if xe != nil {
		return nil, nil, xe
	}

	var dialer client.Dialer
	closeFn := func() error { return nil }
	if sc != nil {
		dialer = sc
		closeFn = sc.Close
	}
	timeout := opts.Profile.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	return &client.Client{
		BaseURL:    opts.Profile.BaseURL,
		Token:      token,
		Headers:    opts.Profile.Headers,
		UserAgent:  opts.UserAgent,
		HTTPClient: client.NewHTTPClient(timeout, dialer),
	}, closeFn, nil
}

// OpenStore 按 profile.store 打开 serve 使用的存储；SQL 后端可经 SSH 隧道连接。
func OpenStore(ctx context.Context, opts ConnectionOptions) (store.Store, *errors.XError) {
	kind := opts.Profile.Store
	if kind == "" || kind == "memory" {
		return store.NewMemory(), nil
	}
	dsn, xe := secret.Resolve(opts.Profile.DSN, opts.secretOptions())
	if xe != nil {
		return nil, xe
	}
	sc, xe := ResolveSSH(ctx, opts.Profile, opts.AllowPlaintext, opts.SkipHostKeyCheck)
	if xe != nil {
		return nil, xe
	}
	openOpts := store.OpenOptions{Kind: kind, DSN: dsn}
	if sc != nil {
		openOpts.Dialer = sc
		openOpts.Closers = []func() error{sc.Close}
	}
	s, xe := store.Open(ctx, openOpts)
	if xe != nil {
		if sc != nil {
			_ = sc.Close()
		}
		return nil, xe
	}
	return s, nil
}

func ResolveSSH(ctx context.Context, profile config.Profile, allowPlaintext, skipHostKeyCheck bool) (*ssh.Client, *errors.XError) {
	if profile.SSHConfig == nil {
		return nil, nil
	}

	passphrase, xe := secret.Resolve(profile.SSHConfig.Passphrase,
		secret.Options{AllowPlaintext: allowPlaintext || profile.AllowPlaintext})
	if xe != nil {
		return nil, xe
	}

	sshOpts := ssh.Options{
		Host:                profile.SSHConfig.Host,
		Port:                profile.SSHConfig.Port,
		User:                profile.SSHConfig.User,
		IdentityFile:        profile.SSHConfig.IdentityFile,
		Passphrase:          passphrase,
		KnownHostsFile:      profile.SSHConfig.KnownHostsFile,
		SkipKnownHostsCheck: skipHostKeyCheck || profile.SSHConfig.SkipHostKey,
	}
	return ssh.Connect(ctx, sshOpts)
}
