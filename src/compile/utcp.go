package compile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	utcp "github.com/universal-tool-calling-protocol/go-utcp"
)

// DefaultUTCPTool is the tool name looked up on the UTCP providers.
const DefaultUTCPTool = "alogic.compile"

// ToolCaller is the part of a UTCP client the transport needs.
type ToolCaller interface {
	CallTool(ctx context.Context, toolName string, args map[string]any) (any, error)
}

// UTCPTransport runs the compile as a UTCP tool call.
type UTCPTransport struct {
	Client ToolCaller
	Tool   string
}

// Compile implements Transport.
func (t *UTCPTransport) Compile(ctx context.Context, req Request) (Response, error) {
	tool := t.Tool
	if tool == "" {
		tool = DefaultUTCPTool
	}
	files := make(map[string]any, len(req.Files))
	for k, v := range req.Files {
		files[k] = v
	}
	args := make([]any, len(req.Args))
	for i, a := range req.Args {
		args[i] = a
	}
	res, err := t.Client.CallTool(ctx, tool, map[string]any{
		"request": req.Kind,
		"args":    args,
		"files":   files,
	})
	if err != nil {
		if cerr := contextError(ctx); cerr != nil {
			return Response{}, cerr
		}
		return Response{}, &TransportError{Kind: KindNetwork, Err: fmt.Errorf("utcp %s: %w", tool, err)}
	}
	resp, err := decodeToolResult(res)
	if err != nil {
		return Response{}, malformed(err)
	}
	return resp, nil
}

// decodeToolResult accepts the shapes UTCP providers hand back: raw JSON
// text, bytes, or an already decoded value.
func decodeToolResult(res any) (Response, error) {
	var data []byte
	switch v := res.(type) {
	case nil:
		return Response{}, fmt.Errorf("%w: empty tool result", ErrMalformedResponse)
	case string:
		data = []byte(v)
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return Response{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		data = b
	}
	return DecodeResponse(data)
}

// NewUTCPClient builds a UTCP client from a providers file. An empty path
// means ~/utcp/provider.json.
func NewUTCPClient(ctx context.Context, providersPath string) (utcp.UtcpClientInterface, error) {
	if providersPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		providersPath = filepath.Join(home, "utcp", "provider.json")
	}
	if _, err := os.Stat(providersPath); err != nil {
		return nil, fmt.Errorf("UTCP unavailable: providers file %s: %w", providersPath, err)
	}

	cfg := &utcp.UtcpClientConfig{
		ProvidersFilePath: providersPath,
	}
	client, err := utcp.NewUTCPClient(ctx, cfg, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("UTCP unavailable: %w", err)
	}
	return client, nil
}
