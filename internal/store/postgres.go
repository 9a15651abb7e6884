package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rezzai/jobsearch/internal/model"
)

// Postgres is the pgx-backed Store.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an open pool. Close closes the pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Migrate creates the tables when they do not exist yet.
func (p *Postgres) Migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS search_configs (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			keywords   TEXT[] NOT NULL DEFAULT '{}',
			locations  TEXT[] NOT NULL DEFAULT '{}',
			country    TEXT NOT NULL DEFAULT '',
			red_flags  TEXT[] NOT NULL DEFAULT '{}',
			is_active  BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS job_feed (
			id               TEXT PRIMARY KEY,
			search_config_id TEXT NOT NULL REFERENCES search_configs(id) ON DELETE CASCADE,
			source_url       TEXT NOT NULL,
			raw_data         JSONB NOT NULL,
			location_score   INTEGER NOT NULL,
			location_match   TEXT NOT NULL,
			status           TEXT NOT NULL DEFAULT 'PENDING',
			created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (search_config_id, source_url)
		);

		CREATE TABLE IF NOT EXISTS applications (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL,
			job_id      TEXT NOT NULL,
			company     TEXT NOT NULL,
			job_title   TEXT NOT NULL,
			job_url     TEXT NOT NULL DEFAULT '',
			location    TEXT NOT NULL DEFAULT '',
			resume_used TEXT NOT NULL,
			status      TEXT NOT NULL,
			notes       TEXT NOT NULL DEFAULT '',
			history_log JSONB NOT NULL DEFAULT '[]',
			applied_at  TIMESTAMPTZ NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL,
			UNIQUE (user_id, job_id)
		);`)
	if err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	return nil
}

// ── Saved searches & feed ────────────────────────────────────────────────────

// CreateSearchConfig stores an active saved search.
func (p *Postgres) CreateSearchConfig(ctx context.Context, c model.SearchConfig) (*model.SearchConfig, error) {
	c.ID = newID(c.ID)
	c.Keywords, c.Locations, c.RedFlags = nonNil(c.Keywords), nonNil(c.Locations), nonNil(c.RedFlags)
	_, err := p.pool.Exec(ctx,
		`INSERT INTO search_configs (id, user_id, keywords, locations, country, red_flags)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.UserID, c.Keywords, c.Locations, c.Country, c.RedFlags,
	)
	if err != nil {
		return nil, fmt.Errorf("createSearchConfig: %w", err)
	}
	return &c, nil
}

// GetSearchConfig returns one saved search owned by userID.
func (p *Postgres) GetSearchConfig(ctx context.Context, userID, id string) (*model.SearchConfig, error) {
	var c model.SearchConfig
	err := p.pool.QueryRow(ctx,
		`SELECT id, user_id, keywords, locations, country, red_flags
		 FROM search_configs
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&c.ID, &c.UserID, &c.Keywords, &c.Locations, &c.Country, &c.RedFlags)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getSearchConfig: %w", err)
	}
	return &c, nil
}

// ListActiveSearchConfigs fetches all is_active = true search configs.
func (p *Postgres) ListActiveSearchConfigs(ctx context.Context) ([]model.SearchConfig, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, user_id, keywords, locations, country, red_flags
		 FROM search_configs
		 WHERE is_active = true
		 ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("query search_configs: %w", err)
	}
	defer rows.Close()

	configs := make([]model.SearchConfig, 0)
	for rows.Next() {
		var c model.SearchConfig
		if err := rows.Scan(&c.ID, &c.UserID, &c.Keywords, &c.Locations, &c.Country, &c.RedFlags); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

// InsertFeedEntry inserts e unless its source URL is already in the feed
// of the same saved search.
func (p *Postgres) InsertFeedEntry(ctx context.Context, e model.FeedEntry) (bool, error) {
	raw, err := json.Marshal(e.Job)
	if err != nil {
		return false, fmt.Errorf("marshal job: %w", err)
	}

	tag, err := p.pool.Exec(ctx,
		`INSERT INTO job_feed (id, search_config_id, source_url, raw_data, location_score, location_match, status)
		 SELECT $1, $2, $3, $4::jsonb, $5, $6, 'PENDING'
		 WHERE NOT EXISTS (
		   SELECT 1 FROM job_feed WHERE search_config_id = $2 AND source_url = $3
		 )`,
		newID(""), e.SearchConfigID, e.SourceURL, string(raw), e.LocationScore, string(e.LocationMatch),
	)
	if err != nil {
		return false, fmt.Errorf("insert job_feed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListFeed returns a saved search's feed, best location match first.
func (p *Postgres) ListFeed(ctx context.Context, searchConfigID string) ([]model.FeedEntry, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT search_config_id, source_url, raw_data, location_score, location_match
		 FROM job_feed
		 WHERE search_config_id = $1
		 ORDER BY location_score DESC, created_at`,
		searchConfigID,
	)
	if err != nil {
		return nil, fmt.Errorf("query job_feed: %w", err)
	}
	defer rows.Close()

	feed := make([]model.FeedEntry, 0)
	for rows.Next() {
		var (
			e     model.FeedEntry
			raw   []byte
			match string
		)
		if err := rows.Scan(&e.SearchConfigID, &e.SourceURL, &raw, &e.LocationScore, &match); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if err := json.Unmarshal(raw, &e.Job); err != nil {
			return nil, fmt.Errorf("decode raw_data: %w", err)
		}
		e.LocationMatch = model.MatchCategory(match)
		feed = append(feed, e)
	}
	return feed, rows.Err()
}

// ── Applications ─────────────────────────────────────────────────────────────

const pgApplicationColumns = `id, user_id, job_id, company, job_title, job_url, location,
	resume_used, status, notes, history_log, applied_at, updated_at`

func scanPgApplication(row pgx.Row) (*model.Application, error) {
	var (
		a       model.Application
		history []byte
	)
	if err := row.Scan(
		&a.ID, &a.UserID, &a.JobID, &a.Company, &a.JobTitle, &a.JobURL, &a.Location,
		&a.ResumeUsed, &a.Status, &a.Notes, &history, &a.AppliedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(history, &a.History); err != nil {
		return nil, fmt.Errorf("decode history_log: %w", err)
	}
	if a.History == nil {
		a.History = []model.StatusChange{}
	}
	return &a, nil
}

// CreateApplication inserts a; ErrDuplicate when the user already tracks a.JobID.
func (p *Postgres) CreateApplication(ctx context.Context, a model.Application) (*model.Application, error) {
	a.ID = newID(a.ID)
	history, err := json.Marshal(nonNilHistory(a.History))
	if err != nil {
		return nil, fmt.Errorf("marshal history: %w", err)
	}

	created, err := scanPgApplication(p.pool.QueryRow(ctx,
		`INSERT INTO applications (id, user_id, job_id, company, job_title, job_url, location,
		                           resume_used, status, notes, history_log, applied_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::jsonb, $12, $13)
		 ON CONFLICT (user_id, job_id) DO NOTHING
		 RETURNING `+pgApplicationColumns,
		a.ID, a.UserID, a.JobID, a.Company, a.JobTitle, a.JobURL, a.Location,
		a.ResumeUsed, a.Status, a.Notes, string(history), a.AppliedAt, a.UpdatedAt,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("createApplication: %w", err)
	}
	return created, nil
}

// ListApplications returns the user's applications, newest first.
func (p *Postgres) ListApplications(ctx context.Context, userID string) ([]model.Application, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+pgApplicationColumns+`
		 FROM applications
		 WHERE user_id = $1
		 ORDER BY applied_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listApplications query: %w", err)
	}
	defer rows.Close()

	apps := make([]model.Application, 0)
	for rows.Next() {
		a, err := scanPgApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("listApplications scan: %w", err)
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}

// GetApplication returns a single application, validating ownership.
func (p *Postgres) GetApplication(ctx context.Context, userID, id string) (*model.Application, error) {
	a, err := scanPgApplication(p.pool.QueryRow(ctx,
		`SELECT `+pgApplicationColumns+` FROM applications WHERE id = $1 AND user_id = $2`,
		id, userID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getApplication: %w", err)
	}
	return a, nil
}

// UpdateApplicationStatus moves the application from change.From to
// change.To and appends change to the history log atomically.
func (p *Postgres) UpdateApplicationStatus(ctx context.Context, userID, id string, change model.StatusChange) (*model.Application, error) {
	entry, err := json.Marshal([]model.StatusChange{change})
	if err != nil {
		return nil, fmt.Errorf("marshal history entry: %w", err)
	}

	a, err := scanPgApplication(p.pool.QueryRow(ctx,
		`UPDATE applications
		 SET status      = $1,
		     history_log = history_log || $2::jsonb,
		     updated_at  = $3
		 WHERE id = $4 AND user_id = $5 AND status = $6
		 RETURNING `+pgApplicationColumns,
		change.To, string(entry), change.At, id, userID, change.From,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if err := p.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM applications WHERE id = $1 AND user_id = $2)`, id, userID,
		).Scan(&exists); err != nil {
			return nil, fmt.Errorf("updateApplicationStatus: %w", err)
		}
		if exists {
			return nil, ErrConflict
		}
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updateApplicationStatus: %w", err)
	}
	return a, nil
}

// DeleteApplication removes an application owned by userID.
func (p *Postgres) DeleteApplication(ctx context.Context, userID, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleteApplication: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Close releases the pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func nonNilHistory(h []model.StatusChange) []model.StatusChange {
	if h == nil {
		return []model.StatusChange{}
	}
	return h
}
