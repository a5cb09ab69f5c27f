// Package client 调用返回 JSend 文档的 HTTP 端点。
package client

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zx06/jsend"
	"github.com/zx06/jsend/internal/errors"
)

// MaxBodyBytes 限制读取的响应体大小。
const MaxBodyBytes = 1 << 20

type Client struct {
	BaseURL    string
	Token      string // 已解析的 bearer token，空表示不发送
	Headers    map[string]string
	UserAgent  string
	HTTPClient *http.Client
}

type Response struct {
	HTTPStatus int
	Envelope   jsend.Envelope
}

// Dialer 由 ssh.Client 实现。
type Dialer interface {
	DialContext(ctx context.Context, network, addr string) (net.Conn, error)
}

// NewHTTPClient 返回带超时的 http.Client；dialer 非 nil 时所有连接经它建立。
func NewHTTPClient(timeout time.Duration, dialer Dialer) *http.Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	if dialer != nil {
		tr.DialContext = dialer.DialContext
		tr.Proxy = nil
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}

// Do 发送请求并把响应体解码为 JSend envelope。
// HTTP 状态码不参与判定：非 2xx 但合法的 JSend 文档照常返回。
func (c *Client) Do(ctx context.Context, method, path string, body []byte) (Response, *errors.XError) {
	target, xe := c.resolve(path)
	if xe != nil {
		return Response{}, xe
	}
	if method == "" {
		method = http.MethodGet
	}
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), target, rdr)
	if err != nil {
		return Response{}, errors.Wrap(errors.CodeCfgInvalid, "invalid request", map[string]any{"url": target}, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return Response{}, errors.Wrap(errors.CodeHTTPFailed, "request failed", map[string]any{"url": target, "method": req.Method}, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return Response{}, errors.Wrap(errors.CodeHTTPFailed, "failed to read response body", map[string]any{"url": target, "http_status": resp.StatusCode}, err)
	}
	if len(raw) > MaxBodyBytes {
		return Response{}, errors.New(errors.CodeDocInvalid, "response body too large",
			map[string]any{"url": target, "http_status": resp.StatusCode, "limit": MaxBodyBytes})
	}

	env, err := jsend.Decode(raw)
	if err != nil {
		return Response{}, errors.FromDecodeError(err, map[string]any{"url": target, "http_status": resp.StatusCode})
	}
	return Response{HTTPStatus: resp.StatusCode, Envelope: env}, nil
}

// resolve 把相对路径拼到 BaseURL 上；绝对 URL 原样使用。
func (c *Client) resolve(path string) (string, *errors.XError) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", errors.Wrap(errors.CodeCfgInvalid, "invalid url", map[string]any{"path": path}, err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	if c.BaseURL == "" {
		return "", errors.New(errors.CodeCfgInvalid, "relative path requires base_url in profile", map[string]any{"path": path})
	}
	base, err := url.Parse(c.BaseURL)
	if err != nil || !base.IsAbs() {
		return "", errors.Wrap(errors.CodeCfgInvalid, "invalid base_url", map[string]any{"base_url": c.BaseURL}, err)
	}
	// base_url 视作目录：/api + posts → /api/posts
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	ref.Path = strings.TrimPrefix(ref.Path, "/")
	return base.ResolveReference(ref).String(), nil
}
