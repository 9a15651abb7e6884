// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing or malformed, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Event backends.
const (
	EventsRedis = "redis"
	EventsAMQP  = "amqp"
)

// Config holds all runtime configuration for the jobsearch service.
type Config struct {
	Port                string
	GRPCPort            string
	StoreDriver         string
	DatabaseURL         string
	SQLitePath          string
	RedisURL            string
	EventsBackend       string
	RabbitMQURL         string
	AdzunaAppID         string
	AdzunaAppKey        string
	ResultsPerPage      int
	SearchCacheTTL      time.Duration // 0 disables the result cache
	ScrapeIntervalHours int           // How often saved searches refresh
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getenv("JOBSEARCH_PORT", "8081"),
		GRPCPort:      getenv("JOBSEARCH_GRPC_PORT", "9091"),
		StoreDriver:   strings.ToLower(getenv("STORE_DRIVER", DriverPostgres)),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SQLitePath:    getenv("SQLITE_PATH", "jobsearch.sqlite"),
		RedisURL:      os.Getenv("REDIS_URL"),
		EventsBackend: strings.ToLower(getenv("EVENTS_BACKEND", EventsRedis)),
		RabbitMQURL:   os.Getenv("RABBITMQ_URL"),
		AdzunaAppID:   os.Getenv("ADZUNA_APP_ID"),
		AdzunaAppKey:  os.Getenv("ADZUNA_APP_KEY"),
	}

	switch cfg.StoreDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORE_DRIVER is %s", DriverPostgres)
		}
	case DriverSQLite:
	default:
		return nil, fmt.Errorf("STORE_DRIVER must be %s or %s, got %q", DriverPostgres, DriverSQLite, cfg.StoreDriver)
	}

	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	switch cfg.EventsBackend {
	case EventsRedis:
	case EventsAMQP:
		if cfg.RabbitMQURL == "" {
			return nil, fmt.Errorf("RABBITMQ_URL is required when EVENTS_BACKEND is %s", EventsAMQP)
		}
	default:
		return nil, fmt.Errorf("EVENTS_BACKEND must be %s or %s, got %q", EventsRedis, EventsAMQP, cfg.EventsBackend)
	}

	var err error
	if cfg.ResultsPerPage, err = positiveInt("RESULTS_PER_PAGE", 20); err != nil {
		return nil, err
	}
	if cfg.ScrapeIntervalHours, err = positiveInt("SCRAPE_INTERVAL_HOURS", 6); err != nil {
		return nil, err
	}

	cfg.SearchCacheTTL = 10 * time.Minute
	if s := os.Getenv("SEARCH_CACHE_TTL"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("SEARCH_CACHE_TTL must be a non-negative duration, got %q", s)
		}
		cfg.SearchCacheTTL = d
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func positiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, s)
	}
	return v, nil
}
