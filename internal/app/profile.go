package app

import (
	"sort"

	"github.com/zx06/jsend/internal/config"
	"github.com/zx06/jsend/internal/errors"
	"github.com/zx06/jsend/internal/secret"
)

type ProfileSummary struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	BaseURL     string `json:"base_url,omitempty"`
	Store       string `json:"store"`
}

// ProfileSummaries 按名称排序，保证 CLI 与 MCP 输出稳定。
func ProfileSummaries(cfg config.File) []ProfileSummary {
	names := make([]string, 0, len(cfg.Profiles))
	for name := range cfg.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]ProfileSummary, 0, len(names))
	for _, name := range names {
		p := cfg.Profiles[name]
		st := p.Store
		if st == "" {
			st = "memory"
		}
		out = append(out, ProfileSummary{
			Name:        name,
			Description: p.Description,
			BaseURL:     p.BaseURL,
			Store:       st,
		})
	}
	return out
}

// ProfileDetail 返回单个 profile 的展示视图，明文秘密替换为 ***。
func ProfileDetail(cfg config.File, name string) (map[string]any, *errors.XError) {
	p, ok := cfg.Profiles[name]
	if !ok {
		return nil, errors.New(errors.CodeCfgInvalid, "profile not found", map[string]any{"name": name})
	}
	result := map[string]any{
		"name":            name,
		"description":     p.Description,
		"base_url":        p.BaseURL,
		"allow_plaintext": p.AllowPlaintext,
		"store":           p.Store,
	}
	if result["store"] == "" {
		result["store"] = "memory"
	}
	if p.Format != "" {
		result["format"] = p.Format
	}
	if p.Timeout > 0 {
		result["timeout"] = p.Timeout.String()
	}
	if p.Token != "" {
		result["token"] = secret.Redact(p.Token)
	}
	if p.DSN != "" {
		result["dsn"] = secret.Redact(p.DSN)
	}
	if len(p.Headers) > 0 {
		result["headers"] = p.Headers
	}
	if p.SSHProxy != "" {
		result["ssh_proxy"] = p.SSHProxy
		if proxy, ok := cfg.SSHProxies[p.SSHProxy]; ok {
			result["ssh_host"] = proxy.Host
			result["ssh_port"] = proxy.Port
			result["ssh_user"] = proxy.User
			if proxy.IdentityFile != "" {
				result["ssh_identity_file"] = proxy.IdentityFile
			}
		}
	}
	return result, nil
}
