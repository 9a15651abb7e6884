// Package scheduler wires up the cron job that periodically refreshes the
// job feed for all active saved searches.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"rezzai/jobsearch/internal/model"
	"rezzai/jobsearch/internal/scraper"
)

// ConfigSource lists the saved searches to refresh.
type ConfigSource interface {
	ListActiveSearchConfigs(ctx context.Context) ([]model.SearchConfig, error)
}

// Runner refreshes one saved search.
type Runner interface {
	Run(ctx context.Context, cfg model.SearchConfig) (scraper.Stats, error)
}

// Scheduler wraps robfig/cron and manages the refresh loop.
type Scheduler struct {
	cron    *cron.Cron
	configs ConfigSource
	runner  Runner
	spec    string // cron spec, e.g. "@every 6h"
	startup sync.WaitGroup
}

// New creates a Scheduler that fires every intervalHours hours.
func New(configs ConfigSource, runner Runner, intervalHours int) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLogger(cron.DefaultLogger)),
		configs: configs,
		runner:  runner,
		spec:    fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the job and starts the scheduler. One refresh also runs
// immediately so the feed is populated without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started, spec: %s", s.spec)

	s.startup.Add(1)
	go func() {
		defer s.startup.Done()
		s.RunOnce(ctx)
	}()

	return nil
}

// Stop shuts the scheduler down and waits for running refreshes, the
// startup one included, to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.startup.Wait()
	log.Println("[scheduler] Cron stopped")
}

// RunOnce loads all active configs and refreshes each one. It returns the
// summed stats of the cycle.
func (s *Scheduler) RunOnce(ctx context.Context) scraper.Stats {
	var total scraper.Stats
	log.Println("[scheduler] Refresh cycle started")

	configs, err := s.configs.ListActiveSearchConfigs(ctx)
	if err != nil {
		log.Printf("[scheduler] ListActiveSearchConfigs error: %v", err)
		return total
	}

	if len(configs) == 0 {
		log.Println("[scheduler] No active search configs, nothing to refresh")
		return total
	}

	log.Printf("[scheduler] Refreshing %d config(s)", len(configs))
	for _, cfg := range configs {
		if ctx.Err() != nil {
			log.Printf("[scheduler] Cycle aborted: %v", ctx.Err())
			break
		}
		st, err := s.runner.Run(ctx, cfg)
		if err != nil {
			log.Printf("[scheduler] Worker error for config %s: %v", cfg.ID, err)
		}
		total.Inserted += st.Inserted
		total.Filtered += st.Filtered
		total.Duplicates += st.Duplicates
		total.Failed += st.Failed
	}

	log.Printf("[scheduler] Refresh cycle complete: %d inserted, %d filtered, %d duplicates, %d failed",
		total.Inserted, total.Filtered, total.Duplicates, total.Failed)
	return total
}
