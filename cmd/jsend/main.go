package main

import (
	stderrors "errors"
	"os"

	"github.com/zx06/jsend/internal/app"
	_ "github.com/zx06/jsend/internal/db/mysql"
	_ "github.com/zx06/jsend/internal/db/pg"
	"github.com/zx06/jsend/internal/errors"
	"github.com/zx06/jsend/internal/output"
)

func main() {
	exit := run()
	os.Exit(exit)
}

// run is the main entry point
func run() int {
	// Initialize application
	a := app.New(version, commit, date)
	w := output.New(os.Stdout, os.Stderr)

	// Create root command
	root := NewRootCommand()

	// Add subcommands
	root.AddCommand(NewEncodeCommand(&w))
	root.AddCommand(NewDecodeCommand(&w))
	root.AddCommand(NewValidateCommand(&w))
	root.AddCommand(NewFetchCommand(&a, &w))
	root.AddCommand(NewServeCommand())
	root.AddCommand(NewMCPCommand())
	root.AddCommand(NewProfileCommand(&w))
	root.AddCommand(NewSpecCommand(&a, &w))
	root.AddCommand(NewVersionCommand(&a, &w))

	// Execute and handle errors
	if err := root.Execute(); err != nil {
		// fetch 已输出远端 envelope，只需要退出码
		var st *exitStatus
		if stderrors.As(err, &st) {
			return int(st.code)
		}
		xe := normalizeErr(err)
		format := resolveFormatForError(GlobalConfig.FormatStr)
		_ = w.WriteError(format, xe)
		return int(errors.ExitCodeFor(xe.Code))
	}

	return int(errors.ExitOK)
}
