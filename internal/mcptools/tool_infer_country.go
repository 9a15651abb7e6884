package mcptools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"rezzai/jobsearch/internal/location"
)

func registerInferCountry(s *server.MCPServer) {
	tool := mcp.NewTool("infer_country",
		mcp.WithDescription("Return the Adzuna region code used for a free-text location"),
	)
	tool.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"location": map[string]interface{}{"type": "string", "description": "Free-text location"},
		},
		Required: []string{"location"},
	}
	s.AddTool(tool, InferCountryHandler)
}

// InferCountryHandler answers with the bare country code.
func InferCountryHandler(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	loc, _ := args["location"].(string)
	return mcp.NewToolResultText(location.InferCountryCode(loc)), nil
}
