package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rezzai/jobsearch/internal/model"
)

// timeLayout is fixed-width so TEXT columns sort chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLite is the database/sql Store over modernc.org/sqlite. Arrays and the
// history log are stored as JSON text.
type SQLite struct {
	DB *sql.DB
}

// NewSQLite wraps a connection from db.OpenSQLite. Close closes it.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{DB: db}
}

// Migrate creates the tables when they do not exist yet.
func (s *SQLite) Migrate(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS search_configs (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	keywords   TEXT NOT NULL DEFAULT '[]',
	locations  TEXT NOT NULL DEFAULT '[]',
	country    TEXT NOT NULL DEFAULT '',
	red_flags  TEXT NOT NULL DEFAULT '[]',
	is_active  INTEGER NOT NULL DEFAULT 1,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS job_feed (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	search_config_id TEXT NOT NULL,
	source_url       TEXT NOT NULL,
	raw_data         TEXT NOT NULL,
	location_score   INTEGER NOT NULL,
	location_match   TEXT NOT NULL,
	status           TEXT NOT NULL DEFAULT 'PENDING',
	UNIQUE (search_config_id, source_url),
	FOREIGN KEY(search_config_id) REFERENCES search_configs(id) ON DELETE CASCADE
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
	history_log TEXT NOT NULL DEFAULT '[]',
	applied_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL,
	UNIQUE (user_id, job_id)
);
`)
	if err != nil {
		return fmt.Errorf("sqlite migrate: %w", err)
	}
	return nil
}

// ── Saved searches & feed ────────────────────────────────────────────────────

// CreateSearchConfig stores an active saved search.
func (s *SQLite) CreateSearchConfig(ctx context.Context, c model.SearchConfig) (*model.SearchConfig, error) {
	c.ID = newID(c.ID)
	c.Keywords, c.Locations, c.RedFlags = nonNil(c.Keywords), nonNil(c.Locations), nonNil(c.RedFlags)

	keywords, _ := json.Marshal(c.Keywords)
	locations, _ := json.Marshal(c.Locations)
	redFlags, _ := json.Marshal(c.RedFlags)

	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO search_configs (id, user_id, keywords, locations, country, red_flags, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, string(keywords), string(locations), c.Country, string(redFlags),
		time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("createSearchConfig: %w", err)
	}
	return &c, nil
}

// GetSearchConfig returns one saved search owned by userID.
func (s *SQLite) GetSearchConfig(ctx context.Context, userID, id string) (*model.SearchConfig, error) {
	c, err := scanSearchConfig(s.DB.QueryRowContext(ctx,
		`SELECT id, user_id, keywords, locations, country, red_flags
		 FROM search_configs
		 WHERE id = ? AND user_id = ?`,
		id, userID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getSearchConfig: %w", err)
	}
	return c, nil
}

// ListActiveSearchConfigs fetches all active search configs, oldest first.
func (s *SQLite) ListActiveSearchConfigs(ctx context.Context) ([]model.SearchConfig, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, user_id, keywords, locations, country, red_flags
		 FROM search_configs
		 WHERE is_active = 1
		 ORDER BY created_at, rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("query search_configs: %w", err)
	}
	defer rows.Close()

	configs := make([]model.SearchConfig, 0)
	for rows.Next() {
		c, err := scanSearchConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		configs = append(configs, *c)
	}
	return configs, rows.Err()
}

// InsertFeedEntry inserts e unless its source URL is already in the feed
// of the same saved search.
func (s *SQLite) InsertFeedEntry(ctx context.Context, e model.FeedEntry) (bool, error) {
	raw, err := json.Marshal(e.Job)
	if err != nil {
		return false, fmt.Errorf("marshal job: %w", err)
	}

	res, err := s.DB.ExecContext(ctx,
		`INSERT OR IGNORE INTO job_feed (search_config_id, source_url, raw_data, location_score, location_match)
		 VALUES (?, ?, ?, ?, ?)`,
		e.SearchConfigID, e.SourceURL, string(raw), e.LocationScore, string(e.LocationMatch),
	)
	if err != nil {
		return false, fmt.Errorf("insert job_feed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanSearchConfig(row rowScanner) (*model.SearchConfig, error) {
	var (
		c                            model.SearchConfig
		keywords, locations, redFlags string
	)
	if err := row.Scan(&c.ID, &c.UserID, &keywords, &locations, &c.Country, &redFlags); err != nil {
		return nil, err
	}
	for _, l := range []struct {
		raw string
		dst *[]string
	}{{keywords, &c.Keywords}, {locations, &c.Locations}, {redFlags, &c.RedFlags}} {
		if err := json.Unmarshal([]byte(l.raw), l.dst); err != nil {
			return nil, fmt.Errorf("search config %s: decode list: %w", c.ID, err)
		}
	}
	return &c, nil
}

// ListFeed returns a saved search's feed, best location match first.
func (s *SQLite) ListFeed(ctx context.Context, searchConfigID string) ([]model.FeedEntry, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT search_config_id, source_url, raw_data, location_score, location_match
		 FROM job_feed
		 WHERE search_config_id = ?
		 ORDER BY location_score DESC, id`,
		searchConfigID,
	)
	if err != nil {
		return nil, fmt.Errorf("query job_feed: %w", err)
	}
	defer rows.Close()

	feed := make([]model.FeedEntry, 0)
	for rows.Next() {
		var (
			e          model.FeedEntry
			raw, match string
		)
		if err := rows.Scan(&e.SearchConfigID, &e.SourceURL, &raw, &e.LocationScore, &match); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &e.Job); err != nil {
			return nil, fmt.Errorf("decode raw_data: %w", err)
		}
		e.LocationMatch = model.MatchCategory(match)
		feed = append(feed, e)
	}
	return feed, rows.Err()
}

// ── Applications ─────────────────────────────────────────────────────────────

const sqliteApplicationColumns = `id, user_id, job_id, company, job_title, job_url, location,
	resume_used, status, notes, history_log, applied_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteApplication(row rowScanner) (*model.Application, error) {
	var (
		a                             model.Application
		history, appliedAt, updatedAt string
	)
	if err := row.Scan(
		&a.ID, &a.UserID, &a.JobID, &a.Company, &a.JobTitle, &a.JobURL, &a.Location,
		&a.ResumeUsed, &a.Status, &a.Notes, &history, &appliedAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(history), &a.History); err != nil {
		return nil, fmt.Errorf("decode history_log: %w", err)
	}
	if a.History == nil {
		a.History = []model.StatusChange{}
	}
	var err error
	if a.AppliedAt, err = time.Parse(timeLayout, appliedAt); err != nil {
		return nil, fmt.Errorf("parse applied_at: %w", err)
	}
	if a.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &a, nil
}

// CreateApplication inserts a; ErrDuplicate when the user already tracks a.JobID.
func (s *SQLite) CreateApplication(ctx context.Context, a model.Application) (*model.Application, error) {
	a.ID = newID(a.ID)
	a.History = nonNilHistory(a.History)
	history, err := json.Marshal(a.History)
	if err != nil {
		return nil, fmt.Errorf("marshal history: %w", err)
	}

	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO applications (id, user_id, job_id, company, job_title, job_url, location,
		                           resume_used, status, notes, history_log, applied_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, job_id) DO NOTHING`,
		a.ID, a.UserID, a.JobID, a.Company, a.JobTitle, a.JobURL, a.Location,
		a.ResumeUsed, a.Status, a.Notes, string(history),
		a.AppliedAt.UTC().Format(timeLayout), a.UpdatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("createApplication: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, ErrDuplicate
	}
	return s.GetApplication(ctx, a.UserID, a.ID)
}

// ListApplications returns the user's applications, newest first.
func (s *SQLite) ListApplications(ctx context.Context, userID string) ([]model.Application, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+sqliteApplicationColumns+`
		 FROM applications
		 WHERE user_id = ?
		 ORDER BY applied_at DESC, rowid DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listApplications query: %w", err)
	}
	defer rows.Close()

	apps := make([]model.Application, 0)
	for rows.Next() {
		a, err := scanSQLiteApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("listApplications scan: %w", err)
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}

// GetApplication returns a single application, validating ownership.
func (s *SQLite) GetApplication(ctx context.Context, userID, id string) (*model.Application, error) {
	a, err := scanSQLiteApplication(s.DB.QueryRowContext(ctx,
		`SELECT `+sqliteApplicationColumns+` FROM applications WHERE id = ? AND user_id = ?`,
		id, userID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getApplication: %w", err)
	}
	return a, nil
}

// UpdateApplicationStatus moves the application from change.From to
// change.To and appends change to the history log in one transaction.
func (s *SQLite) UpdateApplicationStatus(ctx context.Context, userID, id string, change model.StatusChange) (*model.Application, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var raw, status string
	err = tx.QueryRowContext(ctx,
		`SELECT history_log, status FROM applications WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&raw, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read history_log: %w", err)
	}
	if status != change.From {
		return nil, ErrConflict
	}

	var history []model.StatusChange
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		return nil, fmt.Errorf("decode history_log: %w", err)
	}
	updated, err := json.Marshal(append(history, change))
	if err != nil {
		return nil, fmt.Errorf("marshal history_log: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE applications SET status = ?, history_log = ?, updated_at = ?
		 WHERE id = ? AND user_id = ? AND status = ?`,
		change.To, string(updated), change.At.UTC().Format(timeLayout), id, userID, change.From,
	); err != nil {
		return nil, fmt.Errorf("updateApplicationStatus: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	return s.GetApplication(ctx, userID, id)
}

// DeleteApplication removes an application owned by userID.
func (s *SQLite) DeleteApplication(ctx context.Context, userID, id string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM applications WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleteApplication: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.DB.Close()
}
