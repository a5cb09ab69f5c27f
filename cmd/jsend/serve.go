package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zx06/jsend/internal/app"
	"github.com/zx06/jsend/internal/config"
	"github.com/zx06/jsend/internal/errors"
	"github.com/zx06/jsend/internal/server"
	"github.com/zx06/jsend/internal/store"
)

// ServeFlags holds the flags for the serve command
type ServeFlags struct {
	Addr           string
	Seed           bool
	AllowPlaintext bool
	SSHSkipHostKey bool
}

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	flags := &ServeFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo posts API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, flags, nil)
		},
	}

	cmd.Flags().StringVar(&flags.Addr, "addr", "", "Listen address (default 127.0.0.1:3000)")
	cmd.Flags().BoolVar(&flags.Seed, "seed", false, "Insert a sample post on start")
	cmd.Flags().BoolVar(&flags.AllowPlaintext, "allow-plaintext", false, "Allow plaintext secrets in config")
	cmd.Flags().BoolVar(&flags.SSHSkipHostKey, "ssh-skip-known-hosts-check", false, "Skip SSH known_hosts check (dangerous)")

	return cmd
}

// runServe blocks until ctx is cancelled. ready, when set, receives the bound address.
func runServe(ctx context.Context, flags *ServeFlags, ready func(net.Addr)) error {
	log := logger()

	st, xe := app.OpenStore(ctx, app.ConnectionOptions{
		Profile:          GlobalConfig.Resolved.Profile,
		AllowPlaintext:   flags.AllowPlaintext,
		SkipHostKeyCheck: flags.SSHSkipHostKey,
	})
	if xe != nil {
		return xe
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn("close store failed", "err", err)
		}
	}()

	if flags.Seed {
		post, xe := store.Seed(ctx, st)
		if xe != nil {
			return xe
		}
		log.Info("seeded sample post", "id", post.ID)
	}

	addr := config.ServeAddr(flags.Addr, GlobalConfig.Env, GlobalConfig.Resolved.File)
	srv := server.New(server.Options{Store: st, Logger: log})
	if err := srv.ListenAndServe(ctx, addr, ready); err != nil {
		return errors.Wrap(errors.CodeInternal, "demo api server failed", map[string]any{"addr": addr}, err)
	}
	return nil
}
