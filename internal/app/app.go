package app

import (
	"github.com/zx06/jsend/internal/errors"
	"github.com/zx06/jsend/internal/output"
	"github.com/zx06/jsend/internal/spec"
)

type App struct {
	Version string
	Commit  string
	Date    string
}

func New(version, commit, date string) App {
	return App{Version: version, Commit: commit, Date: date}
}

// UserAgent 用于 fetch 发出的请求。
func (a App) UserAgent() string {
	return "jsend/" + a.Version
}

func (a App) BuildSpec() spec.Spec {
	globalFlags := []spec.FlagSpec{
		{Name: "config", Default: "", Description: "Config file path (YAML); default: ./jsend.yaml or $HOME/.config/jsend/jsend.yaml"},
		{Name: "profile", Shorthand: "p", Env: "JSEND_PROFILE", Default: "", Description: "Profile name (config: profiles.<name>)"},
		{Name: "format", Shorthand: "f", Env: "JSEND_FORMAT", Default: "auto", Description: "Output format: " + output.FormatList()},
		{Name: "log-level", Env: "JSEND_LOG_LEVEL", Default: "info", Description: "Log level on stderr: debug|info|warn|error"},
	}
	with := func(extra ...spec.FlagSpec) []spec.FlagSpec {
		out := make([]spec.FlagSpec, 0, len(globalFlags)+len(extra))
		out = append(out, globalFlags...)
		return append(out, extra...)
	}
	dataFlag := spec.FlagSpec{Name: "data", Description: "Payload as a JSON document"}

	return spec.Spec{
		SchemaVersion: spec.SchemaVersion,
		Commands: []spec.CommandSpec{
			{Name: "encode success", Description: "Build a success envelope", Flags: with(
				spec.FlagSpec{Name: "data", Default: "null", Description: "Payload as a JSON document"},
			)},
			{Name: "encode fail", Description: "Build a fail envelope", Flags: with(
				spec.FlagSpec{Name: "data", Description: "Payload as a JSON document (required)"},
			)},
			{Name: "encode error", Description: "Build an error envelope", Flags: with(
				spec.FlagSpec{Name: "message", Description: "Error message (required)"},
				spec.FlagSpec{Name: "code", Description: "Optional integer error code"},
				dataFlag,
			)},
			{Name: "decode", Args: "[FILE|-]", Description: "Decode a JSend document and print its canonical form", Flags: with()},
			{Name: "validate", Args: "[FILE|-]", Description: "Check that a document is valid JSend", Flags: with()},
			{Name: "fetch", Args: "PATH|URL", Description: "Call a JSend endpoint and print the envelope it returns", Flags: with(
				spec.FlagSpec{Name: "method", Shorthand: "X", Default: "GET", Description: "HTTP method"},
				spec.FlagSpec{Name: "body", Shorthand: "d", Description: "Request body (JSON); @file reads a file"},
				spec.FlagSpec{Name: "header", Shorthand: "H", Description: "Extra header 'Key: Value' (repeatable)"},
				spec.FlagSpec{Name: "allow-plaintext", Default: "false", Description: "Allow plaintext secrets in config"},
				spec.FlagSpec{Name: "ssh-skip-known-hosts-check", Default: "false", Description: "Skip SSH known_hosts check (dangerous)"},
			)},
			{Name: "serve", Description: "Run the demo posts API", Flags: with(
				spec.FlagSpec{Name: "addr", Env: "JSEND_SERVE_ADDR", Default: "127.0.0.1:3000", Description: "Listen address"},
				spec.FlagSpec{Name: "seed", Default: "false", Description: "Insert a sample post on start"},
				spec.FlagSpec{Name: "allow-plaintext", Default: "false", Description: "Allow plaintext secrets in config"},
				spec.FlagSpec{Name: "ssh-skip-known-hosts-check", Default: "false", Description: "Skip SSH known_hosts check (dangerous)"},
			)},
			{Name: "mcp server", Description: "Run the MCP server", Flags: with(
				spec.FlagSpec{Name: "transport", Env: "JSEND_MCP_TRANSPORT", Default: "stdio", Description: "stdio|streamable_http"},
				spec.FlagSpec{Name: "http-addr", Env: "JSEND_MCP_HTTP_ADDR", Default: "127.0.0.1:8787", Description: "Listen address for streamable_http"},
				spec.FlagSpec{Name: "http-auth-token", Env: "JSEND_MCP_HTTP_AUTH_TOKEN", Description: "Bearer token for streamable_http"},
			)},
			{Name: "profile list", Description: "List configured profiles", Flags: with()},
			{Name: "profile show", Args: "NAME", Description: "Show one profile (secrets redacted)", Flags: with()},
			{Name: "spec", Description: "Export tool spec for AI/agents", Flags: with()},
			{Name: "version", Description: "Print version information", Flags: with()},
		},
		ErrorCodes: errors.AllCodes(),
		ExitCodes: []spec.ExitCodeSpec{
			{Code: int(errors.ExitOK), Description: "success"},
			{Code: int(errors.ExitConfig), Description: "invalid arguments or configuration"},
			{Code: int(errors.ExitConnect), Description: "ssh or http connection failure"},
			{Code: int(errors.ExitDocInvalid), Description: "document is not valid JSend"},
			{Code: int(errors.ExitDB), Description: "store backend failure"},
			{Code: int(errors.ExitRemoteFail), Description: "remote endpoint answered fail"},
			{Code: int(errors.ExitRemoteError), Description: "remote endpoint answered error"},
			{Code: int(errors.ExitInternal), Description: "internal error"},
		},
	}
}

type VersionInfo struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

func (a App) VersionInfo() VersionInfo {
	return VersionInfo{Version: a.Version, Commit: a.Commit, Date: a.Date}
}
