package scraper

import (
	"context"
	"fmt"
	"log"

	"rezzai/jobsearch/internal/location"
	"rezzai/jobsearch/internal/matching"
	"rezzai/jobsearch/internal/model"
)

// FeedStore persists refreshed offers. InsertFeedEntry reports false when
// an entry with the same source URL already exists.
type FeedStore interface {
	InsertFeedEntry(ctx context.Context, e model.FeedEntry) (bool, error)
}

// Worker runs the refresh cycle for a single SearchConfig.
// It fetches offers, ranks them against the saved location, drops red
// flags, and inserts the rest into the job feed, skipping duplicates.
type Worker struct {
	store      FeedStore
	fetcher    Fetcher
	normalizer *Normalizer
	perPage    int
	maxPages   int
}

// NewWorker constructs a Worker. perPage and maxPages fall back to 20 and 1.
func NewWorker(store FeedStore, fetcher Fetcher, normalizer *Normalizer, perPage, maxPages int) *Worker {
	if perPage < 1 {
		perPage = defaultPageSize
	}
	if maxPages < 1 {
		maxPages = 1
	}
	return &Worker{
		store:      store,
		fetcher:    fetcher,
		normalizer: normalizer,
		perPage:    perPage,
		maxPages:   maxPages,
	}
}

// Stats counts what one Run did.
type Stats struct {
	Inserted   int
	Filtered   int
	Duplicates int
	Failed     int // (keyword, location) pairs whose fetch failed
}

// Run executes one refresh for cfg. A failing (keyword, location) pair is
// logged and skipped; Run only fails when ctx is cancelled.
func (w *Worker) Run(ctx context.Context, cfg model.SearchConfig) (Stats, error) {
	log.Printf("[worker] Starting refresh for config %s (user %s): keywords=%v locations=%v",
		cfg.ID, cfg.UserID, cfg.Keywords, cfg.Locations)

	keywords := cfg.Keywords
	if len(keywords) == 0 {
		keywords = []string{""}
	}

	var total Stats
	for _, what := range keywords {
		for _, loc := range cfg.Locations {
			if err := ctx.Err(); err != nil {
				return total, err
			}
			s, err := w.refreshPair(ctx, cfg, what, loc)
			if err != nil {
				log.Printf("[worker] Error refreshing (%q, %q): %v, continuing", what, loc, err)
				total.Failed++
				continue
			}
			total.Inserted += s.Inserted
			total.Filtered += s.Filtered
			total.Duplicates += s.Duplicates
		}
	}

	log.Printf("[worker] Config %s done: inserted=%d filtered=%d duplicates=%d failed=%d",
		cfg.ID, total.Inserted, total.Filtered, total.Duplicates, total.Failed)
	return total, nil
}

func (w *Worker) refreshPair(ctx context.Context, cfg model.SearchConfig, what, loc string) (Stats, error) {
	var s Stats

	parts := location.Parse(loc)
	where := parts.City
	if where == "" {
		where = loc
	}
	q := Query{
		Country:        location.ResolveCountry(cfg.Country, loc),
		Page:           1,
		Where:          where,
		What:           what,
		ResultsPerPage: w.perPage,
	}

	records, err := FetchAll(ctx, w.fetcher, q, w.maxPages)
	if err != nil && len(records) == 0 {
		return s, fmt.Errorf("fetch: %w", err)
	}
	if err != nil {
		log.Printf("[worker] Partial fetch for (%q, %q): %v", what, loc, err)
	}

	ranked := matching.Rank(w.normalizer.Normalize(records), matching.NewTarget(loc))
	for _, job := range ranked {
		if ContainsRedFlag(job.Job, cfg.RedFlags) {
			s.Filtered++
			continue
		}

		sourceURL := job.ApplicationURL
		if sourceURL == "" {
			sourceURL = "adzuna:" + job.ID
		}

		inserted, err := w.store.InsertFeedEntry(ctx, model.FeedEntry{
			SearchConfigID: cfg.ID,
			SourceURL:      sourceURL,
			LocationScore:  job.LocationScore,
			LocationMatch:  job.LocationMatch,
			Job:            job.Job,
		})
		if err != nil {
			log.Printf("[worker] DB insert error: %v", err)
			continue
		}
		if inserted {
			s.Inserted++
		} else {
			s.Duplicates++
		}
	}
	return s, nil
}
