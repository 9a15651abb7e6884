package mcptools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"rezzai/jobsearch/internal/search"
)

func registerSearchJobs(s *server.MCPServer, svc *search.Service) {
	tool := mcp.NewTool("search_jobs",
		mcp.WithDescription("Search Adzuna for jobs near a location and return them ranked by location match"),
	)
	tool.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"location": map[string]interface{}{"type": "string", "description": "Free-text location, e.g. \"Austin, TX\""},
			"what":     map[string]interface{}{"type": "string", "description": "Keyword filter (optional)"},
			"page":     map[string]interface{}{"type": "integer", "description": "Result page, starting at 1 (optional)"},
			"country":  map[string]interface{}{"type": "string", "description": "Two-letter Adzuna region, skips inference (optional)"},
		},
		Required: []string{"location"},
	}
	s.AddTool(tool, SearchJobsHandler(svc))
}

// SearchJobsHandler runs a search and returns the response as JSON text.
func SearchJobsHandler(svc *search.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		req := search.Request{Page: 1}
		req.Location, _ = args["location"].(string)
		req.What, _ = args["what"].(string)
		req.Country, _ = args["country"].(string)
		if v, ok := args["page"].(float64); ok && v >= 1 {
			req.Page = int(v)
		}
		if strings.TrimSpace(req.Location) == "" {
			return mcp.NewToolResultError("location is required"), nil
		}

		resp, err := svc.Search(ctx, req)
		if err != nil {
			return mcp.NewToolResultError(describe(err)), nil
		}
		return jsonResult(resp)
	}
}
