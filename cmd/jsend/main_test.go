package main

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// runBinary 在隔离的 HOME/工作目录中执行命令，返回 stdout 与退出码。
func runBinary(t *testing.T, binary, stdin string, args ...string) ([]byte, int) {
	t.Helper()
	tmpDir := t.TempDir()
	cmd := exec.Command(binary, args...)
	cmd.Dir = tmpDir
	cmd.Env = append(os.Environ(), "HOME="+tmpDir, "USERPROFILE="+tmpDir, "JSEND_PROFILE=", "JSEND_FORMAT=")
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	code := 0
	if err != nil {
		var ee *exec.ExitError
		if !stderrors.As(err, &ee) {
			t.Fatalf("run %v: %v", args, err)
		}
		code = ee.ExitCode()
	}
	if stderr.Len() > 0 {
		t.Logf("stderr: %s", stderr.String())
	}
	return out, code
}

func parseJSON(t *testing.T, out []byte) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(out, &resp); err != nil {
		t.Fatalf("failed to parse JSON: %v\noutput: %s", err, out)
	}
	return resp
}

// TestMain_SpecCommand 测试 spec 命令输出
func TestMain_SpecCommand(t *testing.T) {
	binary := buildTestBinary(t)

	out, code := runBinary(t, binary, "", "spec", "--format", "json")
	if code != 0 {
		t.Fatalf("spec command failed with exit %d", code)
	}
	resp := parseJSON(t, out)
	if resp["status"] != "success" {
		t.Errorf("expected status=success, got %v", resp["status"])
	}
	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatal("expected data map")
	}
	if v, _ := data["schema_version"].(float64); v != 1 {
		t.Errorf("expected schema_version=1, got %v", data["schema_version"])
	}
}

// TestMain_VersionCommand 测试 version 命令
func TestMain_VersionCommand(t *testing.T) {
	binary := buildTestBinary(t)

	out, code := runBinary(t, binary, "", "version", "--format", "json")
	if code != 0 {
		t.Fatalf("version command failed with exit %d", code)
	}
	resp := parseJSON(t, out)
	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatal("expected data map")
	}
	if _, ok := data["version"]; !ok {
		t.Error("expected version in data")
	}
}

// TestMain_EncodeDecodeRoundTrip 测试 encode 输出可被 decode 读回
func TestMain_EncodeDecodeRoundTrip(t *testing.T) {
	binary := buildTestBinary(t)

	encoded, code := runBinary(t, binary, "", "encode", "error", "--message", "db <down>", "--code", "503", "--format", "json")
	if code != 0 {
		t.Fatalf("encode failed with exit %d", code)
	}
	want := `{"status":"error","message":"db <down>","code":503}`
	if got := strings.TrimSpace(string(encoded)); got != want {
		t.Fatalf("encode got %s want %s", got, want)
	}

	decoded, code := runBinary(t, binary, string(encoded), "decode", "-", "--format", "json")
	if code != 0 {
		t.Fatalf("decode failed with exit %d", code)
	}
	if got := strings.TrimSpace(string(decoded)); got != want {
		t.Fatalf("decode got %s want %s", got, want)
	}
}

// TestMain_DecodeInvalid 测试非法文档的错误输出与退出码
func TestMain_DecodeInvalid(t *testing.T) {
	binary := buildTestBinary(t)

	out, code := runBinary(t, binary, `{"data":1}`, "decode", "--format", "json")
	if code != 4 {
		t.Fatalf("expected exit 4, got %d", code)
	}
	resp := parseJSON(t, out)
	if resp["status"] != "error" {
		t.Fatalf("expected error envelope, got %v", resp)
	}
	if v, _ := resp["code"].(float64); v != 4 {
		t.Errorf("expected code=4, got %v", resp["code"])
	}
	data, _ := resp["data"].(map[string]any)
	if data["error_code"] != "JSEND_DOC_INVALID" {
		t.Errorf("expected JSEND_DOC_INVALID, got %v", data["error_code"])
	}
	details, _ := data["details"].(map[string]any)
	if details["kind"] != "missing_discriminant" {
		t.Errorf("expected kind=missing_discriminant, got %v", details["kind"])
	}
}

// TestMain_ValidateYAML 测试 validate 的 YAML 输出
func TestMain_ValidateYAML(t *testing.T) {
	binary := buildTestBinary(t)

	out, code := runBinary(t, binary, `{"status":"fail","data":{"title":"required"}}`, "validate", "--format", "yaml")
	if code != 0 {
		t.Fatalf("validate failed with exit %d", code)
	}
	for _, want := range []string{"status: success", "valid: true", "status: fail"} {
		if !strings.Contains(string(out), want) {
			t.Errorf("expected %q in output, got:\n%s", want, out)
		}
	}
}

// TestMain_InvalidFormat 测试无效格式
func TestMain_InvalidFormat(t *testing.T) {
	binary := buildTestBinary(t)

	out, code := runBinary(t, binary, "", "spec", "--format", "invalid")
	if code != 2 {
		t.Errorf("expected exit 2, got %d", code)
	}
	if len(out) > 0 {
		if resp := parseJSON(t, out); resp["status"] != "error" {
			t.Error("expected status=error for invalid format")
		}
	}
}

// TestMain_Help 测试帮助
func TestMain_Help(t *testing.T) {
	binary := buildTestBinary(t)

	out, code := runBinary(t, binary, "", "--help")
	if code != 0 {
		t.Fatalf("help command failed with exit %d", code)
	}
	if !strings.Contains(string(out), "jsend") {
		t.Errorf("expected help output to contain 'jsend', got: %s", out)
	}
}

// TestMain_ProfileCommands 测试 profile list/show
func TestMain_ProfileCommands(t *testing.T) {
	binary := buildTestBinary(t)

	configPath := filepath.Join(t.TempDir(), "jsend.yaml")
	configContent := `
profiles:
  local:
    description: "本地演示 API"
    base_url: http://127.0.0.1:3000
    token: "secret"
  prod:
    description: "生产环境"
    base_url: https://api.example.com
    token: keyring:api/prod
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	out, code := runBinary(t, binary, "", "profile", "list", "--config", configPath, "--format", "json")
	if code != 0 {
		t.Fatalf("profile list failed with exit %d", code)
	}
	data, _ := parseJSON(t, out)["data"].(map[string]any)
	profiles, ok := data["profiles"].([]any)
	if !ok || len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %v", data["profiles"])
	}
	first, _ := profiles[0].(map[string]any)
	if first["name"] != "local" || first["description"] != "本地演示 API" {
		t.Errorf("unexpected first profile: %v", first)
	}

	out, code = runBinary(t, binary, "", "profile", "show", "local", "--config", configPath, "--format", "json")
	if code != 0 {
		t.Fatalf("profile show failed with exit %d", code)
	}
	data, _ = parseJSON(t, out)["data"].(map[string]any)
	if data["token"] != "***" {
		t.Errorf("expected token='***', got %v", data["token"])
	}

	out, code = runBinary(t, binary, "", "profile", "show", "missing", "--config", configPath, "--format", "json")
	if code != 2 {
		t.Errorf("expected exit 2, got %d", code)
	}
	if resp := parseJSON(t, out); resp["status"] != "error" {
		t.Errorf("expected status=error, got %v", resp["status"])
	}
}

func buildTestBinary(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "jsend_test_binary")
	if isWindows() {
		tmpFile += ".exe"
	}

	cmd := exec.Command("go", "build", "-o", tmpFile, ".")
	cmd.Dir = "."
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build test binary: %v\n%s", err, out)
	}

	return tmpFile
}

func isWindows() bool {
	return os.PathSeparator == '\\'
}
