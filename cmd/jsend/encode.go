package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zx06/jsend/internal/app"
	"github.com/zx06/jsend/internal/errors"
	"github.com/zx06/jsend/internal/output"
)

// EncodeFlags holds the flags for the encode subcommands
type EncodeFlags struct {
	Data    string
	DataSet bool
	Message string
	Code    int64
	CodeSet bool
}

// NewEncodeCommand creates the encode command group
func NewEncodeCommand(w *output.Writer) *cobra.Command {
	encodeCmd := &cobra.Command{
		Use:   "encode",
		Short: "Build a JSend envelope",
	}

	encodeCmd.AddCommand(newEncodeStatusCommand("success", "Build a success envelope (data defaults to null)", w))
	encodeCmd.AddCommand(newEncodeStatusCommand("fail", "Build a fail envelope (--data is required)", w))
	encodeCmd.AddCommand(newEncodeErrorCommand(w))

	return encodeCmd
}

func newEncodeStatusCommand(status, short string, w *output.Writer) *cobra.Command {
	flags := &EncodeFlags{}
	cmd := &cobra.Command{
		Use:   status,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.DataSet = cmd.Flags().Changed("data")
			return runEncode(status, flags, w)
		},
	}
	cmd.Flags().StringVar(&flags.Data, "data", "", "Payload as a JSON document")
	return cmd
}

func newEncodeErrorCommand(w *output.Writer) *cobra.Command {
	flags := &EncodeFlags{}
	cmd := &cobra.Command{
		Use:   "error",
		Short: "Build an error envelope",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.DataSet = cmd.Flags().Changed("data")
			flags.CodeSet = cmd.Flags().Changed("code")
			return runEncode("error", flags, w)
		},
	}
	cmd.Flags().StringVar(&flags.Message, "message", "", "Error message (required)")
	cmd.Flags().Int64Var(&flags.Code, "code", 0, "Optional integer error code")
	cmd.Flags().StringVar(&flags.Data, "data", "", "Payload as a JSON document")
	return cmd
}

// runEncode prints the envelope itself, not a success wrapper around it.
func runEncode(status string, flags *EncodeFlags, w *output.Writer) error {
	format, err := parseOutputFormat(GlobalConfig.FormatStr)
	if err != nil {
		return err
	}

	in := app.EnvelopeInput{Status: status, Message: flags.Message}
	if flags.DataSet {
		if strings.TrimSpace(flags.Data) == "" {
			return errors.New(errors.CodeCfgInvalid, "data is not valid json", map[string]any{"data": flags.Data})
		}
		in.Data = json.RawMessage(flags.Data)
	}
	if flags.CodeSet {
		code := flags.Code
		in.Code = &code
	}

	env, xe := app.BuildEnvelope(in)
	if xe != nil {
		return xe
	}
	return w.WriteEnvelope(format, env)
}
