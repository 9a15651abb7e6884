package config_test

import (
	"strings"
	"testing"
	"time"

	"rezzai/jobsearch/internal/config"
)

// clearEnv blanks every variable Load reads so the host environment
// cannot leak into a case.
func clearEnv(t *testing.T) {
	for _, k := range []string{
		"JOBSEARCH_PORT", "JOBSEARCH_GRPC_PORT", "STORE_DRIVER", "DATABASE_URL", "SQLITE_PATH",
		"REDIS_URL", "EVENTS_BACKEND", "RABBITMQ_URL", "ADZUNA_APP_ID", "ADZUNA_APP_KEY",
		"RESULTS_PER_PAGE", "SEARCH_CACHE_TTL", "SCRAPE_INTERVAL_HOURS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/jobs")
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := config.Config{
		Port:                "8081",
		GRPCPort:            "9091",
		StoreDriver:         config.DriverPostgres,
		DatabaseURL:         "postgres://localhost/jobs",
		SQLitePath:          "jobsearch.sqlite",
		RedisURL:            "redis://localhost:6379",
		EventsBackend:       config.EventsRedis,
		ResultsPerPage:      20,
		SearchCacheTTL:      10 * time.Minute,
		ScrapeIntervalHours: 6,
	}
	if *cfg != want {
		t.Errorf("cfg = %+v\nwant  %+v", *cfg, want)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/jobs.db")
	t.Setenv("REDIS_URL", "redis://cache:6379")
	t.Setenv("EVENTS_BACKEND", "amqp")
	t.Setenv("RABBITMQ_URL", "amqp://guest:guest@mq:5672/")
	t.Setenv("RESULTS_PER_PAGE", "50")
	t.Setenv("SEARCH_CACHE_TTL", "0")
	t.Setenv("SCRAPE_INTERVAL_HOURS", "12")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StoreDriver != config.DriverSQLite || cfg.SQLitePath != "/tmp/jobs.db" {
		t.Errorf("store = %s %s", cfg.StoreDriver, cfg.SQLitePath)
	}
	if cfg.EventsBackend != config.EventsAMQP || cfg.ResultsPerPage != 50 || cfg.SearchCacheTTL != 0 || cfg.ScrapeIntervalHours != 12 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name    string
		env     map[string]string
		mention string
	}{
		{"no database url", map[string]string{"REDIS_URL": "r"}, "DATABASE_URL"},
		{"no redis", map[string]string{"DATABASE_URL": "d"}, "REDIS_URL"},
		{"bad driver", map[string]string{"STORE_DRIVER": "mysql", "REDIS_URL": "r"}, "STORE_DRIVER"},
		{"amqp without url", map[string]string{"DATABASE_URL": "d", "REDIS_URL": "r", "EVENTS_BACKEND": "amqp"}, "RABBITMQ_URL"},
		{"bad backend", map[string]string{"DATABASE_URL": "d", "REDIS_URL": "r", "EVENTS_BACKEND": "kafka"}, "EVENTS_BACKEND"},
		{"zero per page", map[string]string{"DATABASE_URL": "d", "REDIS_URL": "r", "RESULTS_PER_PAGE": "0"}, "RESULTS_PER_PAGE"},
		{"bad interval", map[string]string{"DATABASE_URL": "d", "REDIS_URL": "r", "SCRAPE_INTERVAL_HOURS": "six"}, "SCRAPE_INTERVAL_HOURS"},
		{"bad ttl", map[string]string{"DATABASE_URL": "d", "REDIS_URL": "r", "SEARCH_CACHE_TTL": "soon"}, "SEARCH_CACHE_TTL"},
		{"negative ttl", map[string]string{"DATABASE_URL": "d", "REDIS_URL": "r", "SEARCH_CACHE_TTL": "-1m"}, "SEARCH_CACHE_TTL"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range c.env {
				t.Setenv(k, v)
			}
			_, err := config.Load()
			if err == nil || !strings.Contains(err.Error(), c.mention) {
				t.Errorf("err = %v, want mention of %s", err, c.mention)
			}
		})
	}
}
