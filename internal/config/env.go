package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/zx06/jsend/internal/errors"
)

// Env 汇总 jsend 读取的环境变量。
type Env struct {
	Profile          string `envconfig:"JSEND_PROFILE"`
	Format           string `envconfig:"JSEND_FORMAT"`
	LogLevel         string `envconfig:"JSEND_LOG_LEVEL" default:"info"`
	MCPTransport     string `envconfig:"JSEND_MCP_TRANSPORT"`
	MCPHTTPAddr      string `envconfig:"JSEND_MCP_HTTP_ADDR"`
	MCPHTTPAuthToken string `envconfig:"JSEND_MCP_HTTP_AUTH_TOKEN"`
	ServeAddr        string `envconfig:"JSEND_SERVE_ADDR"`
}

// LoadEnv 先加载 workDir/.env（已存在的环境变量优先），再解析 JSEND_*。
func LoadEnv(workDir string) (Env, *errors.XError) {
	if workDir == "" {
		workDir, _ = os.Getwd()
	}
	dotenv := filepath.Join(workDir, ".env")
	if _, err := os.Stat(dotenv); err == nil {
		if err := godotenv.Load(dotenv); err != nil {
			return Env{}, errors.Wrap(errors.CodeCfgInvalid, "invalid .env file", map[string]any{"path": dotenv}, err)
		}
	}

	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return Env{}, errors.Wrap(errors.CodeCfgInvalid, "invalid environment", nil, err)
	}
	return env, nil
}
