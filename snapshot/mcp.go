// CLAUDE:SUMMARY MCP tools: websnap_capture and websnap_list_captures, delegating to the same service methods as HTTP.
package snapshot

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/websnap/kit"
)

// RegisterMCP registers the websnap tools on an MCP server.
func (s *Service) RegisterMCP(srv *mcp.Server) {
	s.registerCapture(srv)
	s.registerListCaptures(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func (s *Service) registerCapture(srv *mcp.Server) {
	type req struct {
		URL    string `json:"url"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	}

	tool := &mcp.Tool{
		Name:        "websnap_capture",
		Description: "Capture a screenshot of a web page and return its retrieval URL",
		InputSchema: inputSchema(map[string]any{
			"url":    map[string]any{"type": "string", "description": "Absolute http(s) URL to capture"},
			"width":  map[string]any{"type": "integer", "description": "Viewport width in pixels (320-3840, default 1280)"},
			"height": map[string]any{"type": "integer", "description": "Viewport height in pixels (200-2160, default 720)"},
		}, []string{"url"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		c, err := s.Capture(ctx, &CaptureRequest{URL: p.URL, Width: p.Width, Height: p.Height})
		if err != nil {
			return nil, err
		}
		return map[string]string{"screenshot_url": c.ScreenshotURL()}, nil
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var p req
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{
			Request:   &p,
			EnrichCtx: func(ctx context.Context) context.Context { return kit.WithTransport(ctx, "mcp") },
		}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func (s *Service) registerListCaptures(srv *mcp.Server) {
	type req struct {
		Limit int `json:"limit"`
	}

	tool := &mcp.Tool{
		Name:        "websnap_list_captures",
		Description: "List recent screenshot captures, newest first",
		InputSchema: inputSchema(map[string]any{
			"limit": map[string]any{"type": "integer", "description": "Maximum number of captures to return"},
		}, nil),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		return s.ListCaptures(ctx, p.Limit)
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var p req
		if len(r.Params.Arguments) > 0 {
			if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
				return nil, err
			}
		}
		return &kit.MCPDecodeResult{
			Request:   &p,
			EnrichCtx: func(ctx context.Context) context.Context { return kit.WithTransport(ctx, "mcp") },
		}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
