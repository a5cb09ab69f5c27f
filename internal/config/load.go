package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zx06/jsend/internal/errors"
)

func defaultConfigPaths(workDir, homeDir string) []string {
	paths := make([]string, 0, 2)
	if workDir != "" {
		paths = append(paths, filepath.Join(workDir, "jsend.yaml"))
	}
	if homeDir != "" {
		paths = append(paths, filepath.Join(homeDir, ".config", "jsend", "jsend.yaml"))
	}
	return paths
}

func emptyFile() File {
	return File{Profiles: map[string]Profile{}, SSHProxies: map[string]SSHProxy{}}
}

func readFile(path string) (File, *errors.XError) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return File{}, errors.New(errors.CodeCfgNotFound, "config file not found", map[string]any{"path": path})
		}
		return File{}, errors.Wrap(errors.CodeCfgInvalid, "failed to read config file", map[string]any{"path": path}, err)
	}
	f := emptyFile()
	if err := yaml.Unmarshal(b, &f); err != nil {
		return File{}, errors.Wrap(errors.CodeCfgInvalid, "invalid config file", map[string]any{"path": path}, err)
	}
	if f.Profiles == nil {
		f.Profiles = map[string]Profile{}
	}
	if f.SSHProxies == nil {
		f.SSHProxies = map[string]SSHProxy{}
	}
	return f, nil
}

func (o *Options) fillDirs() {
	if o.WorkDir == "" {
		wd, _ := os.Getwd()
		o.WorkDir = wd
	}
	if o.HomeDir == "" {
		if hd, err := os.UserHomeDir(); err == nil {
			o.HomeDir = hd
		}
	}
}

// LoadConfig 加载配置文件，返回完整配置和配置文件路径。
// 未指定 --config 且默认路径都不存在时返回空配置。
func LoadConfig(opts Options) (File, string, *errors.XError) {
	opts.fillDirs()

	if opts.ConfigPath != "" {
		abs := opts.ConfigPath
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(opts.WorkDir, abs)
		}
		f, xe := readFile(abs)
		if xe != nil {
			return File{}, "", xe
		}
		return f, abs, nil
	}

	for _, p := range defaultConfigPaths(opts.WorkDir, opts.HomeDir) {
		f, xe := readFile(p)
		if xe != nil {
			if xe.Code == errors.CodeCfgNotFound {
				continue
			}
			return File{}, "", xe
		}
		return f, p, nil
	}

	return emptyFile(), "", nil
}
