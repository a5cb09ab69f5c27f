package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/zx06/jsend"
	"github.com/zx06/jsend/internal/config"
)

// connect 通过内存 transport 建立 client/server 会话。
func connect(t *testing.T, cfg *config.File) *mcp.ClientSession {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	server, err := CreateServer("test", cfg)
	if err != nil {
		t.Fatalf("CreateServer error: %v", err)
	}
	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func TestSession_ListTools(t *testing.T) {
	cs := connect(t, &config.File{Profiles: map[string]config.Profile{"dev": {}, "prod": {}}})

	res, err := cs.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	names := map[string]bool{}
	for _, tool := range res.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"jsend_encode", "jsend_decode", "jsend_fetch", "profile_list", "profile_show"} {
		if !names[want] {
			t.Errorf("expected tool %q, got %v", want, names)
		}
	}
}

func TestSession_EncodeThenDecode(t *testing.T) {
	cs := connect(t, &config.File{})
	ctx := context.Background()

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "jsend_encode",
		Arguments: map[string]any{"status": "fail", "data": map[string]any{"title": "is required"}},
	})
	if err != nil {
		t.Fatalf("CallTool jsend_encode: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected IsError: %v", res.Content)
	}
	encoded := res.Content[0].(*mcp.TextContent).Text
	if encoded != `{"status":"fail","data":{"title":"is required"}}` {
		t.Fatalf("encoded=%s", encoded)
	}

	res, err = cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "jsend_decode",
		Arguments: map[string]any{"document": encoded},
	})
	if err != nil {
		t.Fatalf("CallTool jsend_decode: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected IsError: %v", res.Content)
	}
	env, err := jsend.DecodeString(res.Content[0].(*mcp.TextContent).Text)
	if err != nil {
		t.Fatal(err)
	}
	if !env.IsSuccess() {
		t.Fatalf("status=%s", env.Status())
	}
}

func TestSession_ProfileShowUnknown(t *testing.T) {
	cs := connect(t, &config.File{Profiles: map[string]config.Profile{"dev": {}}})

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "profile_show",
		Arguments: map[string]any{"name": "nope"},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected IsError")
	}
	env, err := jsend.DecodeString(res.Content[0].(*mcp.TextContent).Text)
	if err != nil {
		t.Fatal(err)
	}
	if !env.IsError() {
		t.Fatalf("status=%s", env.Status())
	}
}
