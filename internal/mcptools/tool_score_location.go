package mcptools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"rezzai/jobsearch/internal/matching"
)

func registerScoreLocation(s *server.MCPServer) {
	tool := mcp.NewTool("score_location",
		mcp.WithDescription("Score how well a job location matches the user's location (0-100) and name the match category"),
	)
	tool.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"job_location":  map[string]interface{}{"type": "string", "description": "Location text of the listing"},
			"user_location": map[string]interface{}{"type": "string", "description": "The user's location, e.g. \"New York, NY\""},
		},
		Required: []string{"job_location", "user_location"},
	}
	s.AddTool(tool, ScoreLocationHandler)
}

// ScoreLocationHandler scores one job location against the user's.
func ScoreLocationHandler(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	jobLoc, _ := args["job_location"].(string)
	userLoc, _ := args["user_location"].(string)

	r := matching.Score(jobLoc, matching.NewTarget(userLoc))
	return jsonResult(map[string]any{
		"score":    r.Score,
		"category": r.Category,
	})
}
