package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zx06/jsend/internal/errors"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "jsend.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_NoConfig(t *testing.T) {
	tmp := t.TempDir()
	cfg, path, xe := LoadConfig(Options{WorkDir: tmp, HomeDir: tmp})
	if xe != nil {
		t.Fatalf("unexpected error: %v", xe)
	}
	if path != "" {
		t.Fatalf("expected empty path, got %q", path)
	}
	if cfg.Profiles == nil || cfg.SSHProxies == nil {
		t.Fatal("expected non-nil maps")
	}
	if len(cfg.Profiles) != 0 {
		t.Fatalf("expected empty profiles, got %d", len(cfg.Profiles))
	}
}

func TestLoadConfig_ExplicitConfigMissing(t *testing.T) {
	tmp := t.TempDir()
	_, _, xe := LoadConfig(Options{WorkDir: tmp, HomeDir: tmp, ConfigPath: "no_such.yaml"})
	if xe == nil {
		t.Fatal("expected error")
	}
	if xe.Code != errors.CodeCfgNotFound {
		t.Fatalf("expected %s, got %s", errors.CodeCfgNotFound, xe.Code)
	}
}

func TestLoadConfig_WorkDirConfig(t *testing.T) {
	tmp := t.TempDir()
	path := writeConfig(t, tmp, `profiles:
  dev:
    base_url: http://localhost:3000
    timeout: 5s
    headers:
      X-Tenant: acme
  prod:
    base_url: https://api.example.com
    token: keyring:api/prod
    store: pg
    dsn: keyring:store/prod
`)

	file, cfgPath, xe := LoadConfig(Options{WorkDir: tmp, HomeDir: tmp})
	if xe != nil {
		t.Fatalf("unexpected error: %v", xe)
	}
	if cfgPath != path {
		t.Fatalf("expected path %q, got %q", path, cfgPath)
	}
	if len(file.Profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(file.Profiles))
	}

	dev := file.Profiles["dev"]
	if dev.BaseURL != "http://localhost:3000" {
		t.Errorf("base_url=%q", dev.BaseURL)
	}
	if dev.Timeout != 5*time.Second {
		t.Errorf("timeout=%v", dev.Timeout)
	}
	if dev.Headers["X-Tenant"] != "acme" {
		t.Errorf("headers=%v", dev.Headers)
	}

	prod := file.Profiles["prod"]
	if prod.Token != "keyring:api/prod" || prod.Store != "pg" || prod.DSN != "keyring:store/prod" {
		t.Errorf("prod=%+v", prod)
	}
}

func TestLoadConfig_HomeDirConfig(t *testing.T) {
	workDir := t.TempDir()
	homeDir := t.TempDir()

	cfgDir := filepath.Join(homeDir, ".config", "jsend")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := writeConfig(t, cfgDir, "profiles:\n  home:\n    base_url: http://home\n")

	file, cfgPath, xe := LoadConfig(Options{WorkDir: workDir, HomeDir: homeDir})
	if xe != nil {
		t.Fatalf("unexpected error: %v", xe)
	}
	if cfgPath != path {
		t.Fatalf("expected path %q, got %q", path, cfgPath)
	}
	if _, ok := file.Profiles["home"]; !ok {
		t.Fatal("expected 'home' profile")
	}
}

func TestLoadConfig_WorkDirTakesPrecedence(t *testing.T) {
	workDir := t.TempDir()
	homeDir := t.TempDir()

	workPath := writeConfig(t, workDir, "profiles:\n  work: {}\n")
	cfgDir := filepath.Join(homeDir, ".config", "jsend")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeConfig(t, cfgDir, "profiles:\n  home: {}\n")

	file, cfgPath, xe := LoadConfig(Options{WorkDir: workDir, HomeDir: homeDir})
	if xe != nil {
		t.Fatalf("unexpected error: %v", xe)
	}
	if cfgPath != workPath {
		t.Fatalf("expected work dir config, got %q", cfgPath)
	}
	if _, ok := file.Profiles["home"]; ok {
		t.Fatal("should not have 'home' profile from home dir")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tmp := t.TempDir()
	writeConfig(t, tmp, `invalid: yaml: syntax: [`)

	_, _, xe := LoadConfig(Options{WorkDir: tmp, HomeDir: tmp})
	if xe == nil {
		t.Fatal("expected error for invalid YAML")
	}
	if xe.Code != errors.CodeCfgInvalid {
		t.Fatalf("expected %s, got %s", errors.CodeCfgInvalid, xe.Code)
	}
}

func TestLoadConfig_ExplicitPath(t *testing.T) {
	tmp := t.TempDir()
	customPath := filepath.Join(tmp, "custom.yaml")
	if err := os.WriteFile(customPath, []byte("profiles:\n  explicit: {}\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	file, cfgPath, xe := LoadConfig(Options{ConfigPath: customPath})
	if xe != nil {
		t.Fatalf("unexpected error: %v", xe)
	}
	if cfgPath != customPath {
		t.Fatalf("expected path %q, got %q", customPath, cfgPath)
	}
	if _, ok := file.Profiles["explicit"]; !ok {
		t.Fatal("expected 'explicit' profile")
	}
}

func TestLoadConfig_MCPAndServeSections(t *testing.T) {
	tmp := t.TempDir()
	writeConfig(t, tmp, `mcp:
  transport: streamable_http
  http:
    addr: 0.0.0.0:9000
    auth_token: keyring:mcp/token
serve:
  addr: 127.0.0.1:4000
ssh_proxies:
  bastion:
    host: bastion.example.com
    user: admin
    identity_file: ~/.ssh/id_rsa
`)

	file, _, xe := LoadConfig(Options{WorkDir: tmp, HomeDir: tmp})
	if xe != nil {
		t.Fatalf("unexpected error: %v", xe)
	}
	if file.MCP.Transport != "streamable_http" || file.MCP.HTTP.Addr != "0.0.0.0:9000" {
		t.Errorf("mcp=%+v", file.MCP)
	}
	if file.MCP.HTTP.AuthToken != "keyring:mcp/token" {
		t.Errorf("auth_token=%q", file.MCP.HTTP.AuthToken)
	}
	if file.Serve.Addr != "127.0.0.1:4000" {
		t.Errorf("serve=%+v", file.Serve)
	}
	if file.SSHProxies["bastion"].User != "admin" {
		t.Errorf("ssh_proxies=%+v", file.SSHProxies)
	}
}
