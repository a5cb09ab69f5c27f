package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/zx06/jsend/internal/app"
	"github.com/zx06/jsend/internal/errors"
	"github.com/zx06/jsend/internal/output"
)

// NewSpecCommand creates the spec command
func NewSpecCommand(a *app.App, w *output.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "spec [COMMAND...]",
		Short: "Export tool spec for AI/agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(GlobalConfig.FormatStr)
			if err != nil {
				return err
			}
			s := a.BuildSpec()
			if len(args) == 0 {
				return w.WriteOK(format, s)
			}
			// spec encode error → 只输出该命令
			name := strings.Join(args, " ")
			c, ok := s.Find(name)
			if !ok {
				return errors.New(errors.CodeCfgInvalid, "unknown command", map[string]any{"command": name})
			}
			return w.WriteOK(format, c)
		},
	}
}

// NewVersionCommand creates the version command
func NewVersionCommand(a *app.App, w *output.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(GlobalConfig.FormatStr)
			if err != nil {
				return err
			}
			return w.WriteOK(format, a.VersionInfo())
		},
	}
}
