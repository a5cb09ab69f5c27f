package main

import (
	"github.com/spf13/cobra"

	"github.com/zx06/jsend/internal/app"
	"github.com/zx06/jsend/internal/output"
)

// NewProfileCommand creates the profile command group
func NewProfileCommand(w *output.Writer) *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage profiles",
	}

	profileCmd.AddCommand(newProfileListCommand(w))
	profileCmd.AddCommand(newProfileShowCommand(w))

	return profileCmd
}

// newProfileListCommand creates the profile list command
func newProfileListCommand(w *output.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configured profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(GlobalConfig.FormatStr)
			if err != nil {
				return err
			}

			r := GlobalConfig.Resolved
			return w.WriteOK(format, map[string]any{
				"config_path": r.ConfigPath,
				"profiles":    app.ProfileSummaries(r.File),
			})
		},
	}
}

// newProfileShowCommand creates the profile show command
func newProfileShowCommand(w *output.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show profile details (secrets redacted)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(GlobalConfig.FormatStr)
			if err != nil {
				return err
			}

			r := GlobalConfig.Resolved
			detail, xe := app.ProfileDetail(r.File, args[0])
			if xe != nil {
				return xe
			}
			detail["config_path"] = r.ConfigPath
			return w.WriteOK(format, detail)
		},
	}
}
