// Package mcptools exposes the search engine as MCP tools for assistants.
package mcptools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"rezzai/jobsearch/internal/scraper"
	"rezzai/jobsearch/internal/search"
)

// Register adds every tool to s.
func Register(s *server.MCPServer, svc *search.Service) {
	registerSearchJobs(s, svc)
	registerInferCountry(s)
	registerScoreLocation(s)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

func describe(err error) string {
	var pe *scraper.ProviderError
	switch {
	case errors.Is(err, scraper.ErrMissingCredentials):
		return "Missing ADZUNA_APP_ID or ADZUNA_APP_KEY"
	case errors.As(err, &pe):
		return fmt.Sprintf("Adzuna request failed (%d): %s", pe.Status, pe.Body)
	}
	return fmt.Sprintf("Failed to fetch jobs: %v", err)
}
