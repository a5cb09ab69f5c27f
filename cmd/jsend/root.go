package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zx06/jsend/internal/config"
	"github.com/zx06/jsend/internal/errors"
	"github.com/zx06/jsend/internal/log"
	"github.com/zx06/jsend/internal/output"
)

// Build-time variables (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Config holds the resolved configuration
type Config struct {
	FormatStr   string
	ConfigStr   string
	ProfileStr  string
	LogLevelStr string
	Env         config.Env
	Resolved    config.Resolved
	Logger      *slog.Logger
}

// GlobalConfig holds the global configuration state
var GlobalConfig = &Config{}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "jsend",
		Short:         "Encode, decode, fetch and serve JSend envelopes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// CLI > ENV > Config
			formatSet := cmd.Flags().Changed("format")
			profileSet := cmd.Flags().Changed("profile")
			configSet := cmd.Flags().Changed("config")
			if configSet && GlobalConfig.ConfigStr == "" {
				return errors.New(errors.CodeCfgInvalid, "config path is empty", nil)
			}

			env, xe := config.LoadEnv("")
			if xe != nil {
				return xe
			}
			GlobalConfig.Env = env

			level := env.LogLevel
			if cmd.Flags().Changed("log-level") {
				level = GlobalConfig.LogLevelStr
			}
			GlobalConfig.Logger = log.New(os.Stderr, level)

			r, xe := config.Resolve(config.Options{
				ConfigPath:    GlobalConfig.ConfigStr,
				CLIProfile:    GlobalConfig.ProfileStr,
				CLIProfileSet: profileSet,
				CLIFormat:     GlobalConfig.FormatStr,
				CLIFormatSet:  formatSet,
				EnvProfile:    env.Profile,
				EnvFormat:     env.Format,
			})
			if xe != nil {
				return xe
			}
			GlobalConfig.Resolved = r
			GlobalConfig.FormatStr = r.Format
			GlobalConfig.ProfileStr = r.ProfileName
			GlobalConfig.Logger.Debug("config resolved", "config_path", r.ConfigPath, "profile", r.ProfileName, "format", r.Format)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&GlobalConfig.ConfigStr, "config", "", "Config file path (YAML); default: ./jsend.yaml or $HOME/.config/jsend/jsend.yaml")
	root.PersistentFlags().StringVarP(&GlobalConfig.ProfileStr, "profile", "p", "", "Profile name (config: profiles.<name>)")
	root.PersistentFlags().StringVarP(&GlobalConfig.FormatStr, "format", "f", "auto", "Output format: "+output.FormatList())
	root.PersistentFlags().StringVar(&GlobalConfig.LogLevelStr, "log-level", "info", "Log level on stderr: debug|info|warn|error")

	return root
}
