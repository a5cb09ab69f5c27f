package config

import (
	"github.com/zx06/jsend/internal/errors"
)

// Resolve 合并 config/profile/format：CLI > ENV > Config。
func Resolve(opts Options) (Resolved, *errors.XError) {
	// 1) 读取配置文件（如有）
	cfg, cfgPath, xe := LoadConfig(opts)
	if xe != nil {
		return Resolved{}, xe
	}

	// 2) 选择 profile：--profile > JSEND_PROFILE > profiles.default > 空
	profile := ""
	if opts.CLIProfileSet {
		profile = opts.CLIProfile
	} else if opts.EnvProfile != "" {
		profile = opts.EnvProfile
	} else if _, ok := cfg.Profiles["default"]; ok {
		profile = "default"
	}

	// 3) 获取完整 profile；显式指定但不存在的 profile 是配置错误
	var selected Profile
	if profile != "" {
		p, ok := cfg.Profiles[profile]
		if !ok {
			return Resolved{}, errors.New(errors.CodeCfgInvalid, "profile not found",
				map[string]any{"profile": profile, "config_path": cfgPath})
		}
		resolved, xe := ResolveProfile(cfg, p)
		if xe != nil {
			return Resolved{}, xe
		}
		selected = resolved
	}

	// 4) 合并 format：--format > JSEND_FORMAT > profile.format > auto
	format := "auto"
	if selected.Format != "" {
		format = selected.Format
	}
	if opts.EnvFormat != "" {
		format = opts.EnvFormat
	}
	if opts.CLIFormatSet {
		format = opts.CLIFormat
	}

	return Resolved{ConfigPath: cfgPath, ProfileName: profile, Format: format, Profile: selected, File: cfg}, nil
}

// ResolveProfile 填充 ssh_proxy 引用与默认值，MCP 按名称选择 profile 时也使用它。
func ResolveProfile(cfg File, p Profile) (Profile, *errors.XError) {
	if p.SSHProxy != "" {
		proxy, ok := cfg.SSHProxies[p.SSHProxy]
		if !ok {
			return Profile{}, errors.New(errors.CodeCfgInvalid, "ssh_proxy not found",
				map[string]any{"ssh_proxy": p.SSHProxy})
		}
		if proxy.Port == 0 {
			proxy.Port = 22
		}
		p.SSHConfig = &proxy
	}
	if p.Timeout <= 0 {
		p.Timeout = DefaultTimeout
	}
	if p.Store == "" {
		p.Store = "memory"
	}
	return p, nil
}

// ServeAddr: --addr > JSEND_SERVE_ADDR > serve.addr > 默认值。
func ServeAddr(cli string, env Env, cfg File) string {
	return firstNonEmpty(cli, env.ServeAddr, cfg.Serve.Addr, DefaultServeAddr)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
