package main

import (
	"github.com/spf13/cobra"

	"github.com/zx06/jsend/internal/app"
	"github.com/zx06/jsend/internal/output"
)

// NewDecodeCommand creates the decode command
func NewDecodeCommand(w *output.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "decode [FILE|-]",
		Short: "Decode a JSend document and print its canonical form",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(cmd, args, false, w)
		},
	}
}

// NewValidateCommand creates the validate command
func NewValidateCommand(w *output.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [FILE|-]",
		Short: "Check that a document is valid JSend",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(cmd, args, true, w)
		},
	}
}

func runDecode(cmd *cobra.Command, args []string, validateOnly bool, w *output.Writer) error {
	format, err := parseOutputFormat(GlobalConfig.FormatStr)
	if err != nil {
		return err
	}

	doc, source, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	env, xe := app.DecodeDocument(doc, source)
	if xe != nil {
		logger().Debug("document rejected", "source", source, "err", xe)
		return xe
	}

	if validateOnly {
		return w.WriteOK(format, app.Validation{Valid: true, Status: env.Status()})
	}
	return w.WriteEnvelope(format, env)
}
