package insights

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// mcpNotesArgs mirrors the tool's argument schema for the MCP transport.
type mcpNotesArgs struct {
	MediaItemID string `json:"media_item_id,omitempty" jsonschema:"Optional media item UUID; when set only that item's notes are returned"`
}

// NewMCPServer exposes the notes retrieval tool over the Model Context
// Protocol, so external assistants can query the same data the internal
// orchestrator feeds its model sessions.
func NewMCPServer(tool *NotesTool) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "noted-notes",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        tool.Name(),
		Description: tool.Description(),
	}, func(ctx context.Context, req *mcp.CallToolRequest, args mcpNotesArgs) (*mcp.CallToolResult, any, error) {
		raw, err := json.Marshal(args)
		if err != nil {
			return nil, nil, err
		}

		out, err := tool.Call(ctx, raw)
		if err != nil {
			return nil, nil, fmt.Errorf("%s failed: %w", tool.Name(), err)
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: string(out)},
			},
		}, nil, nil
	})

	return server
}

// ServeMCP runs the MCP server over stdio until the context is cancelled.
func ServeMCP(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}
