// Package search answers a one-off job search: it picks the provider
// region for the caller's location, fetches and normalises one page of
// listings, and returns them ranked by location fit.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"rezzai/jobsearch/internal/events"
	"rezzai/jobsearch/internal/location"
	"rezzai/jobsearch/internal/matching"
	"rezzai/jobsearch/internal/model"
	"rezzai/jobsearch/internal/scraper"
)

// Request is a caller's search.
type Request struct {
	Location string
	Page     int
	Country  string // optional override, bypasses inference
	What     string
}

// Response is the ranked result page.
type Response struct {
	Jobs           []model.ScoredJob `json:"jobs"`
	Total          int               `json:"total"`
	Page           int               `json:"page"`
	Skills         []string          `json:"skills"`
	Location       string            `json:"location"`
	City           string            `json:"city"`
	StateOrCountry string            `json:"stateOrCountry"`
	Country        string            `json:"country"`
	Message        string            `json:"message"`
}

// Service runs searches. cache and pub may be nil.
type Service struct {
	fetcher    scraper.Fetcher
	normalizer *scraper.Normalizer
	cache      Cache
	pub        events.Publisher
	perPage    int
}

// NewService returns a configured Service.
func NewService(f scraper.Fetcher, n *scraper.Normalizer, cache Cache, pub events.Publisher, perPage int) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	if perPage < 1 {
		perPage = 20
	}
	return &Service{fetcher: f, normalizer: n, cache: cache, pub: pub, perPage: perPage}
}

// Search runs one search. Provider errors (scraper.ErrMissingCredentials,
// *scraper.ProviderError) are returned unchanged; cache and event failures
// are logged and ignored.
func (s *Service) Search(ctx context.Context, req Request) (*Response, error) {
	loc := strings.TrimSpace(req.Location)
	page := req.Page
	if page < 1 {
		page = 1
	}
	what := strings.TrimSpace(req.What)

	parts := location.Parse(loc)
	country := location.ResolveCountry(req.Country, loc)
	where := parts.City
	if where == "" {
		where = loc
	}

	q := scraper.Query{Country: country, Page: page, Where: where, What: what, ResultsPerPage: s.perPage}
	jobs, err := s.page(ctx, q)
	if err != nil {
		return nil, err
	}

	ranked := matching.Rank(jobs, matching.Target{
		Location:       loc,
		City:           parts.City,
		StateOrCountry: parts.StateOrCountry,
	})

	resp := &Response{
		Jobs:           ranked,
		Total:          len(ranked),
		Page:           page,
		Skills:         []string{},
		Location:       loc,
		City:           parts.City,
		StateOrCountry: parts.StateOrCountry,
		Country:        country,
		Message:        Message(len(ranked), loc),
	}

	if err := s.pub.Publish(ctx, events.JobsSearched, map[string]any{
		"location": loc,
		"country":  country,
		"what":     what,
		"page":     page,
		"total":    resp.Total,
	}); err != nil {
		slog.Warn("publish EVENT_JOBS_SEARCHED failed", "err", err)
	}

	return resp, nil
}

// Message is the human summary shown above the results.
func Message(n int, loc string) string {
	if loc == "" {
		loc = "your location"
	}
	return fmt.Sprintf("Found %d job opportunities in %s", n, loc)
}

// CacheKey identifies a provider page.
func CacheKey(q scraper.Query) string {
	return fmt.Sprintf("jobsearch:page:%s:%s:%s:%d:%d",
		q.Country, location.Lower(q.Where), location.Lower(q.What), q.Page, q.ResultsPerPage)
}

// page returns the normalised provider page, from the cache when possible.
func (s *Service) page(ctx context.Context, q scraper.Query) ([]model.Job, error) {
	key := CacheKey(q)
	if s.cache != nil {
		jobs, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			slog.Warn("search cache get failed", "key", key, "err", err)
		}
		if ok {
			return jobs, nil
		}
	}

	p, err := s.fetcher.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	jobs := s.normalizer.Normalize(p.Records)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, jobs); err != nil {
			slog.Warn("search cache set failed", "key", key, "err", err)
		}
	}
	return jobs, nil
}
