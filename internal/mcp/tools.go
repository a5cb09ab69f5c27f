package mcp

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/zx06/jsend"
	"github.com/zx06/jsend/internal/app"
	"github.com/zx06/jsend/internal/config"
	"github.com/zx06/jsend/internal/errors"
	"github.com/zx06/jsend/internal/output"
)

// EncodeInput represents the input for the jsend_encode tool
type EncodeInput struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Code    *int64          `json:"code,omitempty"`
}

// DecodeInput represents the input for the jsend_decode tool
type DecodeInput struct {
	Document string `json:"document" jsonschema:"JSend document (JSON text) to decode"`
}

// FetchInput represents the input for the jsend_fetch tool
type FetchInput struct {
	Profile string          `json:"profile"`
	Path    string          `json:"path"`
	Method  string          `json:"method,omitempty"`
	Body    json.RawMessage `json:"body,omitempty"`
}

// ProfileShowInput represents the input for the profile_show tool
type ProfileShowInput struct {
	Name string `json:"name" jsonschema:"Profile name"`
}

// ToolHandler manages MCP tools
type ToolHandler struct {
	config    *config.File
	userAgent string
}

// NewToolHandler creates a new tool handler
func NewToolHandler(cfg *config.File, userAgent string) *ToolHandler {
	if cfg == nil {
		cfg = &config.File{}
	}
	return &ToolHandler{config: cfg, userAgent: userAgent}
}

// getProfileNames returns the sorted profile names
func (h *ToolHandler) getProfileNames() []string {
	names := make([]string, 0, len(h.config.Profiles))
	for name := range h.config.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterTools registers all tools with the MCP server
func (h *ToolHandler) RegisterTools(server *mcp.Server) {
	profileNames := h.getProfileNames()
	profileEnums := make([]any, len(profileNames))
	for i, name := range profileNames {
		profileEnums[i] = name
	}

	encodeSchema := &jsonschema.Schema{
		Type:     "object",
		Required: []string{"status"},
		Properties: map[string]*jsonschema.Schema{
			"status": {
				Type:        "string",
				Description: "Envelope status",
				Enum:        []any{"success", "fail", "error"},
			},
			"data": {
				Description: "Payload; required for fail, optional for error, null when omitted for success",
			},
			"message": {
				Type:        "string",
				Description: "Error message (error only, required)",
			},
			"code": {
				Type:        "integer",
				Description: "Numeric error code (error only)",
			},
		},
	}
	server.AddTool(&mcp.Tool{
		Name:        "jsend_encode",
		Description: "Build a JSend envelope and return its canonical JSON",
		InputSchema: encodeSchema,
	}, h.encodeHandler)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "jsend_decode",
		Description: "Decode and validate a JSend document",
	}, h.Decode)

	fetchSchema := &jsonschema.Schema{
		Type:     "object",
		Required: []string{"profile", "path"},
		Properties: map[string]*jsonschema.Schema{
			"profile": {
				Type:        "string",
				Description: "Profile whose base_url, token and ssh proxy are used",
				Enum:        profileEnums,
			},
			"path": {
				Type:        "string",
				Description: "Path relative to the profile base_url, or an absolute URL",
			},
			"method": {
				Type:        "string",
				Description: "HTTP method (default GET)",
			},
			"body": {
				Description: "JSON request body",
			},
		},
	}
	server.AddTool(&mcp.Tool{
		Name:        "jsend_fetch",
		Description: "Call a JSend endpoint and return the envelope it answered",
		InputSchema: fetchSchema,
	}, h.fetchHandler)

	mcp.AddTool[struct{}, any](server, &mcp.Tool{
		Name:        "profile_list",
		Description: "List all configured profiles",
	}, h.ProfileList)

	profileShowSchema := &jsonschema.Schema{
		Type:     "object",
		Required: []string{"name"},
		Properties: map[string]*jsonschema.Schema{
			"name": {
				Type:        "string",
				Description: "Profile name",
				Enum:        profileEnums,
			},
		},
	}
	server.AddTool(&mcp.Tool{
		Name:        "profile_show",
		Description: "Show profile details (secrets redacted)",
		InputSchema: profileShowSchema,
	}, h.profileShowHandler)
}

// encodeHandler is the raw handler for jsend_encode
func (h *ToolHandler) encodeHandler(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input EncodeInput
	if xe := unmarshalArgs(req, &input); xe != nil {
		return errorResult(xe), nil
	}
	result, _, err := h.Encode(ctx, req, input)
	return result, err
}

// fetchHandler is the raw handler for jsend_fetch
func (h *ToolHandler) fetchHandler(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input FetchInput
	if xe := unmarshalArgs(req, &input); xe != nil {
		return errorResult(xe), nil
	}
	result, _, err := h.Fetch(ctx, req, input)
	return result, err
}

// profileShowHandler is the raw handler for profile_show
func (h *ToolHandler) profileShowHandler(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ProfileShowInput
	if xe := unmarshalArgs(req, &input); xe != nil {
		return errorResult(xe), nil
	}
	result, _, err := h.ProfileShow(ctx, req, input)
	return result, err
}

func unmarshalArgs(req *mcp.CallToolRequest, v any) *errors.XError {
	if req == nil || req.Params == nil || len(req.Params.Arguments) == 0 {
		return nil
	}
	if err := json.Unmarshal(req.Params.Arguments, v); err != nil {
		return errors.Wrap(errors.CodeCfgInvalid, "invalid input", nil, err)
	}
	return nil
}

// Encode builds the requested envelope. The result text is the envelope itself.
func (h *ToolHandler) Encode(ctx context.Context, req *mcp.CallToolRequest, input EncodeInput) (*mcp.CallToolResult, any, error) {
	env, xe := app.BuildEnvelope(app.EnvelopeInput{
		Status:  input.Status,
		Data:    input.Data,
		Message: input.Message,
		Code:    input.Code,
	})
	if xe != nil {
		return errorResult(xe), nil, nil
	}
	return envelopeResult(env, false), nil, nil
}

// Decode validates a document and returns its canonical form.
func (h *ToolHandler) Decode(ctx context.Context, req *mcp.CallToolRequest, input DecodeInput) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(input.Document) == "" {
		return errorResult(errors.New(errors.CodeCfgInvalid, "document is required", nil)), nil, nil
	}
	env, xe := app.DecodeDocument([]byte(input.Document), "")
	if xe != nil {
		return errorResult(xe), nil, nil
	}
	return envelopeResult(jsend.Success(map[string]any{
		"valid":    true,
		"status":   env.Status(),
		"envelope": env,
	}), false), nil, nil
}

// Fetch calls a JSend endpoint through the named profile.
// A fail or error answer is still a successful tool call; only transport and
// decoding problems set IsError.
func (h *ToolHandler) Fetch(ctx context.Context, req *mcp.CallToolRequest, input FetchInput) (*mcp.CallToolResult, any, error) {
	if input.Profile == "" {
		return errorResult(errors.New(errors.CodeCfgInvalid, "profile is required", nil)), nil, nil
	}
	if input.Path == "" {
		return errorResult(errors.New(errors.CodeCfgInvalid, "path is required", nil)), nil, nil
	}
	raw, ok := h.config.Profiles[input.Profile]
	if !ok {
		return errorResult(errors.New(errors.CodeCfgInvalid, "profile does not exist",
			map[string]any{"name": input.Profile, "reason": "profile_not_found"})), nil, nil
	}
	profile, xe := config.ResolveProfile(*h.config, raw)
	if xe != nil {
		return errorResult(xe), nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c, closeFn, xe := app.NewClient(ctx, app.ConnectionOptions{Profile: profile, UserAgent: h.userAgent})
	if xe != nil {
		return errorResult(xe), nil, nil
	}
	defer func() { _ = closeFn() }()

	var body []byte
	if len(input.Body) > 0 && string(input.Body) != "null" {
		body = input.Body
	}
	resp, xe := c.Do(ctx, strings.ToUpper(input.Method), input.Path, body)
	if xe != nil {
		return errorResult(xe), nil, nil
	}
	return envelopeResult(resp.Envelope, false), nil, nil
}

// ProfileList lists all profiles
func (h *ToolHandler) ProfileList(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	return envelopeResult(jsend.Success(map[string]any{
		"profiles": app.ProfileSummaries(*h.config),
	}), false), nil, nil
}

// ProfileShow shows profile details
func (h *ToolHandler) ProfileShow(ctx context.Context, req *mcp.CallToolRequest, input ProfileShowInput) (*mcp.CallToolResult, any, error) {
	detail, xe := app.ProfileDetail(*h.config, input.Name)
	if xe != nil {
		return errorResult(xe), nil, nil
	}
	return envelopeResult(jsend.Success(detail), false), nil, nil
}

// errorResult renders an XError as the same error envelope the CLI prints.
func errorResult(xe *errors.XError) *mcp.CallToolResult {
	return envelopeResult(output.ErrorEnvelope(xe), true)
}

func envelopeResult(env jsend.Envelope, isError bool) *mcp.CallToolResult {
	b, err := jsend.Encode(env)
	if err != nil {
		fallback := output.ErrorEnvelope(errors.Wrap(errors.CodeInternal, "failed to encode result", nil, err))
		b, _ = jsend.Encode(fallback)
		isError = true
	}
	return &mcp.CallToolResult{
		IsError: isError,
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}
}

// CreateServer creates a new MCP server
func CreateServer(version string, cfg *config.File) (*mcp.Server, error) {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "jsend",
		Version: version,
	}, nil)

	handler := NewToolHandler(cfg, "jsend/"+version)
	handler.RegisterTools(server)

	return server, nil
}
