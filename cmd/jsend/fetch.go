package main

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zx06/jsend/internal/app"
	"github.com/zx06/jsend/internal/errors"
	"github.com/zx06/jsend/internal/output"
)

// FetchFlags holds the flags for the fetch command
type FetchFlags struct {
	Method         string
	Body           string
	Headers        []string
	AllowPlaintext bool
	SSHSkipHostKey bool
}

// NewFetchCommand creates the fetch command
func NewFetchCommand(a *app.App, w *output.Writer) *cobra.Command {
	flags := &FetchFlags{}

	cmd := &cobra.Command{
		Use:   "fetch PATH|URL",
		Short: "Call a JSend endpoint and print the envelope it returns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, args, flags, a, w)
		},
	}

	cmd.Flags().StringVarP(&flags.Method, "method", "X", "GET", "HTTP method")
	cmd.Flags().StringVarP(&flags.Body, "body", "d", "", "Request body (JSON); @file reads a file")
	cmd.Flags().StringArrayVarP(&flags.Headers, "header", "H", nil, "Extra header 'Key: Value' (repeatable)")
	cmd.Flags().BoolVar(&flags.AllowPlaintext, "allow-plaintext", false, "Allow plaintext secrets in config")
	cmd.Flags().BoolVar(&flags.SSHSkipHostKey, "ssh-skip-known-hosts-check", false, "Skip SSH known_hosts check (dangerous)")

	return cmd
}

// runFetch prints the remote envelope as-is; the exit code follows its status.
func runFetch(cmd *cobra.Command, args []string, flags *FetchFlags, a *app.App, w *output.Writer) error {
	format, err := parseOutputFormat(GlobalConfig.FormatStr)
	if err != nil {
		return err
	}

	body, xe := fetchBody(flags.Body)
	if xe != nil {
		return xe
	}
	headers, xe := parseHeaders(flags.Headers)
	if xe != nil {
		return xe
	}

	p := GlobalConfig.Resolved.Profile
	if len(headers) > 0 {
		merged := make(map[string]string, len(p.Headers)+len(headers))
		for k, v := range p.Headers {
			merged[k] = v
		}
		for k, v := range headers {
			merged[k] = v
		}
		p.Headers = merged
	}

	ctx := context.Background()
	if cmd != nil && cmd.Context() != nil {
		ctx = cmd.Context()
	}

	c, closeFn, xe := app.NewClient(ctx, app.ConnectionOptions{
		Profile:          p,
		AllowPlaintext:   flags.AllowPlaintext,
		SkipHostKeyCheck: flags.SSHSkipHostKey,
		UserAgent:        a.UserAgent(),
	})
	if xe != nil {
		return xe
	}
	defer func() { _ = closeFn() }()

	method := strings.ToUpper(flags.Method)
	logger().Debug("fetch", "method", method, "path", args[0], "profile", GlobalConfig.ProfileStr)
	resp, xe := c.Do(ctx, method, args[0], body)
	if xe != nil {
		return xe
	}
	logger().Debug("fetch done", "http_status", resp.HTTPStatus, "status", resp.Envelope.Status())

	if err := w.WriteEnvelope(format, resp.Envelope); err != nil {
		return err
	}
	if code := errors.ExitCodeForStatus(resp.Envelope.Status()); code != errors.ExitOK {
		return &exitStatus{code: code}
	}
	return nil
}

// fetchBody returns nil when no body was given; "@path" reads the file.
func fetchBody(raw string) ([]byte, *errors.XError) {
	if raw == "" {
		return nil, nil
	}
	if strings.HasPrefix(raw, "@") {
		path := strings.TrimPrefix(raw, "@")
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.CodeCfgInvalid, "failed to read body file", map[string]any{"path": path}, err)
		}
		return b, nil
	}
	return []byte(raw), nil
}

func parseHeaders(values []string) (map[string]string, *errors.XError) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(values))
	for _, h := range values {
		k, v, ok := strings.Cut(h, ":")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, errors.New(errors.CodeCfgInvalid, "invalid header, expected 'Key: Value'", map[string]any{"header": h})
		}
		out[k] = strings.TrimSpace(v)
	}
	return out, nil
}
