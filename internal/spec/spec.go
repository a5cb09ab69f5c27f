package spec

import "github.com/zx06/jsend/internal/errors"

// SchemaVersion 是 `jsend spec` 输出结构的版本，结构有不兼容变化时递增。
const SchemaVersion = 1

type FlagSpec struct {
	Name        string `json:"name" yaml:"name"`
	Shorthand   string `json:"shorthand,omitempty" yaml:"shorthand,omitempty"`
	Env         string `json:"env,omitempty" yaml:"env,omitempty"`
	Default     string `json:"default,omitempty" yaml:"default,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type CommandSpec struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Args        string     `json:"args,omitempty" yaml:"args,omitempty"`
	Flags       []FlagSpec `json:"flags,omitempty" yaml:"flags,omitempty"`
}

type ExitCodeSpec struct {
	Code        int    `json:"code" yaml:"code"`
	Description string `json:"description" yaml:"description"`
}

type Spec struct {
	SchemaVersion int            `json:"schema_version" yaml:"schema_version"`
	Commands      []CommandSpec  `json:"commands" yaml:"commands"`
	ErrorCodes    []errors.Code  `json:"error_codes" yaml:"error_codes"`
	ExitCodes     []ExitCodeSpec `json:"exit_codes" yaml:"exit_codes"`
}

// Find 按名称查找命令（子命令用空格分隔，如 "encode success"）。
func (s Spec) Find(name string) (CommandSpec, bool) {
	for _, c := range s.Commands {
		if c.Name == name {
			return c, true
		}
	}
	return CommandSpec{}, false
}
