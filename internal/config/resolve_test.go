package config

import (
	"testing"

	"github.com/zx06/jsend/internal/errors"
)

func TestResolve_DefaultPaths_NoConfig(t *testing.T) {
	tmp := t.TempDir()
	got, xe := Resolve(Options{WorkDir: tmp, HomeDir: tmp})
	if xe != nil {
		t.Fatalf("unexpected err: %v", xe)
	}
	if got.ConfigPath != "" {
		t.Fatalf("expected empty config path")
	}
	if got.Format != "auto" {
		t.Fatalf("format=%q want auto", got.Format)
	}
	if got.ProfileName != "" {
		t.Fatalf("profile=%q want empty", got.ProfileName)
	}
}

func TestResolve_ExplicitConfigMissingIsError(t *testing.T) {
	tmp := t.TempDir()
	_, xe := Resolve(Options{WorkDir: tmp, HomeDir: tmp, ConfigPath: "no_such.yaml"})
	if xe == nil {
		t.Fatalf("expected error")
	}
	if xe.Code != errors.CodeCfgNotFound {
		t.Fatalf("code=%s", xe.Code)
	}
}

func TestResolve_ProfileAndFormatPrecedence(t *testing.T) {
	tmp := t.TempDir()
	writeConfig(t, tmp, "profiles:\n  default:\n    format: yaml\n  dev:\n    format: json\n")

	cases := []struct {
		name        string
		opts        Options
		wantProfile string
		wantFormat  string
	}{
		{"profiles.default selected", Options{}, "default", "yaml"},
		{"env format overrides config", Options{EnvFormat: "json"}, "default", "json"},
		{"cli format overrides env", Options{EnvFormat: "yaml", CLIFormat: "table", CLIFormatSet: true}, "default", "table"},
		{"env profile", Options{EnvProfile: "dev"}, "dev", "json"},
		{"cli profile overrides env", Options{EnvProfile: "default", CLIProfile: "dev", CLIProfileSet: true}, "dev", "json"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.opts.WorkDir, tc.opts.HomeDir = tmp, tmp
			got, xe := Resolve(tc.opts)
			if xe != nil {
				t.Fatal(xe)
			}
			if got.ProfileName != tc.wantProfile || got.Format != tc.wantFormat {
				t.Fatalf("got profile=%q format=%q", got.ProfileName, got.Format)
			}
		})
	}
}

func TestResolve_UnknownProfile(t *testing.T) {
	tmp := t.TempDir()
	writeConfig(t, tmp, "profiles:\n  dev: {}\n")

	_, xe := Resolve(Options{WorkDir: tmp, HomeDir: tmp, CLIProfile: "nope", CLIProfileSet: true})
	if xe == nil || xe.Code != errors.CodeCfgInvalid {
		t.Fatalf("expected %s, got %v", errors.CodeCfgInvalid, xe)
	}
}

func TestResolve_SSHProxyResolution(t *testing.T) {
	tmp := t.TempDir()
	writeConfig(t, tmp, `ssh_proxies:
  bastion:
    host: bastion.example.com
    user: admin
    identity_file: ~/.ssh/id_rsa
profiles:
  prod:
    base_url: http://api.internal
    ssh_proxy: bastion
`)

	got, xe := Resolve(Options{WorkDir: tmp, HomeDir: tmp, CLIProfile: "prod", CLIProfileSet: true})
	if xe != nil {
		t.Fatalf("unexpected error: %v", xe)
	}
	if got.Profile.SSHConfig == nil {
		t.Fatal("expected SSHConfig to be resolved")
	}
	if got.Profile.SSHConfig.Host != "bastion.example.com" {
		t.Errorf("expected host=bastion.example.com, got %q", got.Profile.SSHConfig.Host)
	}
	if got.Profile.SSHConfig.Port != 22 {
		t.Errorf("expected default port 22, got %d", got.Profile.SSHConfig.Port)
	}
}

func TestResolve_SSHProxyNotFound(t *testing.T) {
	tmp := t.TempDir()
	writeConfig(t, tmp, "profiles:\n  prod:\n    ssh_proxy: nonexistent\n")

	_, xe := Resolve(Options{WorkDir: tmp, HomeDir: tmp, CLIProfile: "prod", CLIProfileSet: true})
	if xe == nil {
		t.Fatal("expected error for missing ssh_proxy")
	}
	if xe.Code != errors.CodeCfgInvalid {
		t.Errorf("expected code=%s, got %s", errors.CodeCfgInvalid, xe.Code)
	}
}

func TestResolveProfile_Defaults(t *testing.T) {
	p, xe := ResolveProfile(File{}, Profile{})
	if xe != nil {
		t.Fatal(xe)
	}
	if p.Timeout != DefaultTimeout {
		t.Errorf("timeout=%v", p.Timeout)
	}
	if p.Store != "memory" {
		t.Errorf("store=%q", p.Store)
	}
}

func TestServeAddr(t *testing.T) {
	cfg := File{Serve: ServeConfig{Addr: "127.0.0.1:4000"}}
	if got := ServeAddr("", Env{}, File{}); got != DefaultServeAddr {
		t.Errorf("default=%q", got)
	}
	if got := ServeAddr("", Env{}, cfg); got != "127.0.0.1:4000" {
		t.Errorf("config=%q", got)
	}
	if got := ServeAddr("", Env{ServeAddr: ":5000"}, cfg); got != ":5000" {
		t.Errorf("env=%q", got)
	}
	if got := ServeAddr(":6000", Env{ServeAddr: ":5000"}, cfg); got != ":6000" {
		t.Errorf("cli=%q", got)
	}
}
