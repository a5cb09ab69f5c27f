package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnv_Defaults(t *testing.T) {
	t.Setenv("JSEND_LOG_LEVEL", "")
	os.Unsetenv("JSEND_LOG_LEVEL")

	env, xe := LoadEnv(t.TempDir())
	if xe != nil {
		t.Fatal(xe)
	}
	if env.LogLevel != "info" {
		t.Errorf("log level=%q want info", env.LogLevel)
	}
}

func TestLoadEnv_Variables(t *testing.T) {
	t.Setenv("JSEND_PROFILE", "prod")
	t.Setenv("JSEND_FORMAT", "yaml")
	t.Setenv("JSEND_MCP_TRANSPORT", "streamable_http")
	t.Setenv("JSEND_SERVE_ADDR", ":4000")

	env, xe := LoadEnv(t.TempDir())
	if xe != nil {
		t.Fatal(xe)
	}
	if env.Profile != "prod" || env.Format != "yaml" {
		t.Errorf("env=%+v", env)
	}
	if env.MCPTransport != "streamable_http" || env.ServeAddr != ":4000" {
		t.Errorf("env=%+v", env)
	}
}

func TestLoadEnv_DotEnvDoesNotOverride(t *testing.T) {
	tmp := t.TempDir()
	body := "JSEND_MCP_HTTP_ADDR=127.0.0.1:9999\nJSEND_FORMAT=csv\n"
	if err := os.WriteFile(filepath.Join(tmp, ".env"), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("JSEND_FORMAT", "json")
	t.Setenv("JSEND_MCP_HTTP_ADDR", "")
	os.Unsetenv("JSEND_MCP_HTTP_ADDR")

	env, xe := LoadEnv(tmp)
	if xe != nil {
		t.Fatal(xe)
	}
	if env.MCPHTTPAddr != "127.0.0.1:9999" {
		t.Errorf("mcp addr=%q, want value from .env", env.MCPHTTPAddr)
	}
	if env.Format != "json" {
		t.Errorf("format=%q, existing env should win", env.Format)
	}
}
