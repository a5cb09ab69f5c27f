package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zx06/jsend/internal/errors"
	mcp_pkg "github.com/zx06/jsend/internal/mcp"
)

// NewMCPCommand creates the MCP command group
func NewMCPCommand() *cobra.Command {
	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP (Model Context Protocol) server commands",
	}

	mcpCmd.AddCommand(newMCPServerCommand())

	return mcpCmd
}

// newMCPServerCommand creates the MCP server command
func newMCPServerCommand() *cobra.Command {
	flags := &mcp_pkg.Flags{}
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start MCP server for AI assistant integration",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.TransportSet = cmd.Flags().Changed("transport")
			flags.HTTPAddrSet = cmd.Flags().Changed("http-addr")
			flags.HTTPAuthTokenSet = cmd.Flags().Changed("http-auth-token")
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runMCPServer(ctx, flags)
		},
	}
	cmd.Flags().StringVar(&flags.Transport, "transport", mcp_pkg.TransportStdio, "MCP transport: stdio|streamable_http")
	cmd.Flags().StringVar(&flags.HTTPAddr, "http-addr", "127.0.0.1:8787", "Streamable HTTP listen address")
	cmd.Flags().StringVar(&flags.HTTPAuthToken, "http-auth-token", "", "Streamable HTTP auth token (required for streamable_http)")
	return cmd
}

// runMCPServer runs the MCP server
func runMCPServer(ctx context.Context, flags *mcp_pkg.Flags) error {
	if flags == nil {
		flags = &mcp_pkg.Flags{}
	}
	cfg := GlobalConfig.Resolved.File

	opts, xe := mcp_pkg.ResolveServeOptions(*flags, GlobalConfig.Env, cfg)
	if xe != nil {
		return xe
	}

	server, err := mcp_pkg.CreateServer(version, &cfg)
	if err != nil {
		if xe, ok := err.(*errors.XError); ok {
			return xe
		}
		return errors.Wrap(errors.CodeInternal, "failed to create MCP server", nil, err)
	}

	logger().Debug("starting mcp server", "transport", opts.Transport, "profiles", len(cfg.Profiles))
	if xe := mcp_pkg.Serve(ctx, server, opts, logger()); xe != nil {
		return xe
	}
	return nil
}
