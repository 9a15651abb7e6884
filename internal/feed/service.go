// Package feed manages a user's saved searches and the job feed the
// scheduler fills for them.
package feed

import (
	"context"
	"fmt"
	"strings"

	"rezzai/jobsearch/internal/model"
	"rezzai/jobsearch/internal/scraper"
	"rezzai/jobsearch/internal/store"
)

// Repository is the part of store.Store saved searches need.
type Repository interface {
	CreateSearchConfig(ctx context.Context, c model.SearchConfig) (*model.SearchConfig, error)
	GetSearchConfig(ctx context.Context, userID, id string) (*model.SearchConfig, error)
	ListFeed(ctx context.Context, searchConfigID string) ([]model.FeedEntry, error)
}

// Refresher runs one feed refresh, normally a *scraper.Worker.
type Refresher interface {
	Run(ctx context.Context, cfg model.SearchConfig) (scraper.Stats, error)
}

// ErrNotFound is returned when a saved search is missing or not the user's.
var ErrNotFound = store.ErrNotFound

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// NewSearch is the caller-supplied part of a saved search.
type NewSearch struct {
	Keywords  []string `json:"keywords"`
	Locations []string `json:"locations"`
	Country   string   `json:"country"`
	RedFlags  []string `json:"redFlags"`
}

// Service owns saved searches.
type Service struct {
	repo    Repository
	refresh Refresher
}

// NewService returns a configured Service.
func NewService(repo Repository, refresh Refresher) *Service {
	return &Service{repo: repo, refresh: refresh}
}

// Create stores a saved search. At least one location is required; blank
// entries are dropped and the country override is lower-cased.
func (s *Service) Create(ctx context.Context, userID string, in NewSearch) (*model.SearchConfig, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, &ValidationError{Msg: "missing user id"}
	}
	locations := compact(in.Locations)
	if len(locations) == 0 {
		return nil, &ValidationError{Msg: "at least one location is required"}
	}
	country := strings.ToLower(strings.TrimSpace(in.Country))
	if country != "" && len(country) != 2 {
		return nil, &ValidationError{Msg: fmt.Sprintf("country must be a two-letter code, got %q", in.Country)}
	}

	return s.repo.CreateSearchConfig(ctx, model.SearchConfig{
		UserID:    userID,
		Keywords:  compact(in.Keywords),
		Locations: locations,
		Country:   country,
		RedFlags:  compact(in.RedFlags),
	})
}

// Feed returns the saved search's feed, best location match first.
func (s *Service) Feed(ctx context.Context, userID, id string) ([]model.FeedEntry, error) {
	if _, err := s.repo.GetSearchConfig(ctx, userID, id); err != nil {
		return nil, err
	}
	entries, err := s.repo.ListFeed(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list feed: %w", err)
	}
	return entries, nil
}

// Refresh runs the feed refresh for one saved search now instead of
// waiting for the next scheduler tick.
func (s *Service) Refresh(ctx context.Context, userID, id string) (scraper.Stats, error) {
	cfg, err := s.repo.GetSearchConfig(ctx, userID, id)
	if err != nil {
		return scraper.Stats{}, err
	}
	return s.refresh.Run(ctx, *cfg)
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
