package mcp

import (
	"context"
	"crypto/subtle"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/zx06/jsend/internal/config"
	"github.com/zx06/jsend/internal/errors"
	"github.com/zx06/jsend/internal/log"
	"github.com/zx06/jsend/internal/secret"
)

const (
	TransportStdio          = "stdio"
	TransportStreamableHTTP = "streamable_http"
)

const (
	authHeader    = "Authorization"
	bearerPrefix  = "Bearer "
	unauthorized  = "unauthorized"
	headerMissing = "authorization header is required"
)

// Flags 是 mcp server 命令行参数；*Set 表示用户显式传入。
type Flags struct {
	Transport        string
	TransportSet     bool
	HTTPAddr         string
	HTTPAddrSet      bool
	HTTPAuthToken    string
	HTTPAuthTokenSet bool
}

// ServeOptions 是合并 CLI/ENV/配置后的结果。
type ServeOptions struct {
	Transport     string
	HTTPAddr      string
	HTTPAuthToken string
}

// ResolveServeOptions 按 CLI > ENV > 配置合并；配置中的 auth_token 支持 keyring 引用。
func ResolveServeOptions(f Flags, env config.Env, cfg config.File) (ServeOptions, *errors.XError) {
	transport := firstNonEmpty(valueIfSet(f.TransportSet, f.Transport), env.MCPTransport, cfg.MCP.Transport, TransportStdio)
	if transport != TransportStdio && transport != TransportStreamableHTTP {
		return ServeOptions{}, errors.New(errors.CodeCfgInvalid, "invalid mcp transport", map[string]any{"transport": transport})
	}

	httpAddr := firstNonEmpty(valueIfSet(f.HTTPAddrSet, f.HTTPAddr), env.MCPHTTPAddr, cfg.MCP.HTTP.Addr, config.DefaultMCPHTTPAddr)

	authToken := firstNonEmpty(valueIfSet(f.HTTPAuthTokenSet, f.HTTPAuthToken), env.MCPHTTPAuthToken)
	if authToken == "" && cfg.MCP.HTTP.AuthToken != "" {
		v, xe := secret.Resolve(cfg.MCP.HTTP.AuthToken, secret.Options{AllowPlaintext: cfg.MCP.HTTP.AllowPlaintextToken})
		if xe != nil {
			return ServeOptions{}, xe
		}
		authToken = v
	}
	if transport == TransportStreamableHTTP && authToken == "" {
		return ServeOptions{}, errors.New(errors.CodeCfgInvalid, "streamable http transport requires auth token", nil)
	}

	return ServeOptions{Transport: transport, HTTPAddr: httpAddr, HTTPAuthToken: authToken}, nil
}

// NewStreamableHTTPHandler creates a streamable HTTP handler with required auth.
func NewStreamableHTTPHandler(server *mcp.Server, authToken string) (http.Handler, error) {
	if server == nil {
		return nil, errors.New(errors.CodeInternal, "mcp server is nil", nil)
	}
	if authToken == "" {
		return nil, errors.New(errors.CodeCfgInvalid, "mcp streamable http auth token is required", nil)
	}
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})
	return requireAuth(handler, authToken), nil
}

// Serve 运行 MCP server，直到 ctx 取消（streamable_http）或 stdin 关闭（stdio）。
func Serve(ctx context.Context, server *mcp.Server, opts ServeOptions, logger *slog.Logger) *errors.XError {
	switch opts.Transport {
	case TransportStdio, "":
		if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
			return errors.Wrap(errors.CodeInternal, "mcp stdio server failed", nil, err)
		}
		return nil
	case TransportStreamableHTTP:
		handler, err := NewStreamableHTTPHandler(server, opts.HTTPAuthToken)
		if err != nil {
			return errors.AsOrWrap(err)
		}
		return serveHTTP(ctx, opts.HTTPAddr, handler, logger)
	default:
		return errors.New(errors.CodeCfgInvalid, "unsupported mcp transport", map[string]any{"transport": opts.Transport})
	}
}

func serveHTTP(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) *errors.XError {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(errors.CodeCfgInvalid, "failed to listen", map[string]any{"addr": addr}, err)
	}
	if logger == nil {
		logger = log.Discard()
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	logger.Info("mcp streamable http listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(errors.CodeInternal, "mcp http server failed", nil, err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	}
}

func requireAuth(next http.Handler, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		auth := strings.TrimSpace(req.Header.Get(authHeader))
		if auth == "" {
			http.Error(w, headerMissing, http.StatusUnauthorized)
			return
		}
		if !strings.HasPrefix(auth, bearerPrefix) {
			http.Error(w, unauthorized, http.StatusUnauthorized)
			return
		}
		received := strings.TrimPrefix(auth, bearerPrefix)
		if subtle.ConstantTimeCompare([]byte(received), []byte(token)) != 1 {
			http.Error(w, unauthorized, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, req)
	})
}

func valueIfSet(set bool, value string) string {
	if !set {
		return ""
	}
	return value
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
