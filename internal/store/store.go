// Package store persists saved searches, the job feed they fill, and the
// user's tracked applications. Two backends share one contract: Postgres
// (pgx) for deployments and SQLite for single-node runs and tests.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"rezzai/jobsearch/internal/model"
)

var (
	// ErrNotFound is returned when a row is missing or not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when the user already tracks the same job.
	ErrDuplicate = errors.New("already exists")
	// ErrConflict is returned when a status update was computed from a
	// status that has changed since.
	ErrConflict = errors.New("status changed concurrently")
)

// Store is implemented by *Postgres and *SQLite.
type Store interface {
	Migrate(ctx context.Context) error

	CreateSearchConfig(ctx context.Context, c model.SearchConfig) (*model.SearchConfig, error)
	GetSearchConfig(ctx context.Context, userID, id string) (*model.SearchConfig, error)
	ListActiveSearchConfigs(ctx context.Context) ([]model.SearchConfig, error)
	InsertFeedEntry(ctx context.Context, e model.FeedEntry) (bool, error)
	ListFeed(ctx context.Context, searchConfigID string) ([]model.FeedEntry, error)

	CreateApplication(ctx context.Context, a model.Application) (*model.Application, error)
	ListApplications(ctx context.Context, userID string) ([]model.Application, error)
	GetApplication(ctx context.Context, userID, id string) (*model.Application, error)
	// UpdateApplicationStatus applies change only while the stored status
	// still equals change.From, and returns ErrConflict otherwise.
	UpdateApplicationStatus(ctx context.Context, userID, id string, change model.StatusChange) (*model.Application, error)
	DeleteApplication(ctx context.Context, userID, id string) error

	Close() error
}

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
