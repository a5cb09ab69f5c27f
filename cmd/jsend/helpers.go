package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/zx06/jsend/internal/errors"
	"github.com/zx06/jsend/internal/log"
	"github.com/zx06/jsend/internal/output"
)

// parseOutputFormat parses and validates the output format string
func parseOutputFormat(s string) (output.Format, error) {
	f := output.Format(s)
	if !output.IsValid(f) {
		return "", errors.New(errors.CodeCfgInvalid, "invalid output format", map[string]any{"format": s})
	}
	return resolveAuto(f), nil
}

// resolveFormatForError resolves the format for error output
func resolveFormatForError(s string) output.Format {
	f := output.Format(s)
	if !output.IsValid(f) {
		f = output.FormatAuto
	}
	return resolveAuto(f)
}

// resolveAuto resolves "auto" format to appropriate format based on TTY
func resolveAuto(f output.Format) output.Format {
	if f != output.FormatAuto {
		return f
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return output.FormatTable
	}
	return output.FormatJSON
}

// normalizeErr normalizes any error to XError
func normalizeErr(err error) *errors.XError {
	if xe, ok := errors.As(err); ok {
		return xe
	}
	// Preserve original error message
	return errors.Wrap(errors.CodeInternal, err.Error(), nil, err)
}

// exitStatus is returned by commands that already wrote their output and only
// need a specific exit code (fetch with a fail/error answer).
type exitStatus struct {
	code errors.ExitCode
}

func (e *exitStatus) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// logger returns the configured logger, or a discarding one before PersistentPreRunE ran.
func logger() *slog.Logger {
	if GlobalConfig.Logger != nil {
		return GlobalConfig.Logger
	}
	return log.Discard()
}

// readInput reads FILE, or stdin when the argument is missing or "-".
func readInput(stdin io.Reader, args []string) ([]byte, string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "", errors.Wrap(errors.CodeCfgInvalid, "failed to read stdin", nil, err)
		}
		return b, "stdin", nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return nil, "", errors.Wrap(errors.CodeCfgInvalid, "failed to read file", map[string]any{"path": args[0]}, err)
	}
	return b, args[0], nil
}
