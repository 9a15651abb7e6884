// jobsearch-mcp: serves the job search over MCP on stdio so assistants
// can search, infer regions and score locations.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	"rezzai/jobsearch/internal/mcptools"
	"rezzai/jobsearch/internal/scraper"
	"rezzai/jobsearch/internal/search"
)

const version = "1.0.0"

func main() {
	// stdout carries the protocol.
	log.SetOutput(os.Stderr)

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[jobsearch-mcp] .env not loaded: %v", err)
	}

	perPage := 20
	if s := os.Getenv("RESULTS_PER_PAGE"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			log.Fatalf("[jobsearch-mcp] RESULTS_PER_PAGE must be a positive integer, got %q", s)
		}
		perPage = v
	}

	fetcher := scraper.NewAdzunaFetcher(os.Getenv("ADZUNA_APP_ID"), os.Getenv("ADZUNA_APP_KEY"))
	svc := search.NewService(fetcher, scraper.NewNormalizer(scraper.DefaultFields()), nil, nil, perPage)

	s := server.NewMCPServer("jobsearch", version)
	mcptools.Register(s, svc)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
