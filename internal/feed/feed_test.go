package feed_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"rezzai/jobsearch/internal/db"
	"rezzai/jobsearch/internal/feed"
	"rezzai/jobsearch/internal/model"
	"rezzai/jobsearch/internal/scraper"
	"rezzai/jobsearch/internal/store"
)

type stubFetcher struct{ records []scraper.Record }

func (f stubFetcher) Search(context.Context, scraper.Query) (*scraper.Page, error) {
	return &scraper.Page{Records: f.records}, nil
}

func newService(t *testing.T) *feed.Service {
	t.Helper()
	ctx := context.Background()
	conn, err := db.OpenSQLite(ctx, ":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	st := store.NewSQLite(conn)
	t.Cleanup(func() { _ = st.Close() })
	if err := st.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	f := stubFetcher{records: []scraper.Record{
		{ID: "1", Title: "Go Developer", Location: &scraper.Named{DisplayName: "Remote"}, RedirectURL: "https://jobs/1"},
		{ID: "2", Title: "Go Developer", Location: &scraper.Named{DisplayName: "Austin, Texas"}, RedirectURL: "https://jobs/2"},
		{ID: "3", Title: "Crypto Go Developer", Location: &scraper.Named{DisplayName: "Austin"}, RedirectURL: "https://jobs/3"},
	}}
	worker := scraper.NewWorker(st, f, scraper.NewNormalizer(scraper.DefaultFields()), 20, 1)
	return feed.NewService(st, worker)
}

func TestCreate_Validation(t *testing.T) {
	svc := newService(t)
	cases := []struct {
		name   string
		userID string
		in     feed.NewSearch
	}{
		{"no user", "", feed.NewSearch{Locations: []string{"Austin"}}},
		{"no locations", "u1", feed.NewSearch{Keywords: []string{"go"}}},
		{"blank locations", "u1", feed.NewSearch{Locations: []string{" ", ""}}},
		{"bad country", "u1", feed.NewSearch{Locations: []string{"Austin"}, Country: "usa"}},
	}
	for _, c := range cases {
		_, err := svc.Create(context.Background(), c.userID, c.in)
		var ve *feed.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("%s: err = %v, want *ValidationError", c.name, err)
		}
	}
}

func TestCreateRefreshFeed(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	cfg, err := svc.Create(ctx, "u1", feed.NewSearch{
		Keywords:  []string{" golang ", ""},
		Locations: []string{"Austin, TX"},
		Country:   " US ",
		RedFlags:  []string{"crypto"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if cfg.Country != "us" || len(cfg.Keywords) != 1 || cfg.Keywords[0] != "golang" {
		t.Errorf("cfg = %+v", cfg)
	}

	stats, err := svc.Refresh(ctx, "u1", cfg.ID)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if stats != (scraper.Stats{Inserted: 2, Filtered: 1}) {
		t.Errorf("stats = %+v", stats)
	}

	entries, err := svc.Feed(ctx, "u1", cfg.ID)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(entries) != 2 || entries[0].LocationMatch != model.MatchExactCity || entries[1].LocationMatch != model.MatchRemote {
		t.Errorf("feed = %+v", entries)
	}

	if _, err := svc.Feed(ctx, "u2", cfg.ID); !errors.Is(err, feed.ErrNotFound) {
		t.Errorf("other user feed: err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Refresh(ctx, "u1", "missing"); !errors.Is(err, feed.ErrNotFound) {
		t.Errorf("missing refresh: err = %v, want ErrNotFound", err)
	}
}

func do(t *testing.T, mux *http.ServeMux, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if user != "" {
		req.Header.Set("x-user-id", user)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandler(t *testing.T) {
	mux := http.NewServeMux()
	feed.NewHandler(newService(t)).RegisterRoutes(mux)

	rec := do(t, mux, http.MethodPost, "/search-configs", "u1", feed.NewSearch{Locations: []string{"Austin, TX"}})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body)
	}
	var cfg model.SearchConfig
	if err := json.Unmarshal(rec.Body.Bytes(), &cfg); err != nil {
		t.Fatal(err)
	}

	rec = do(t, mux, http.MethodPost, "/search-configs/"+cfg.ID+"/refresh", "u1", nil)
	var stats map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("refresh: %d %s", rec.Code, rec.Body)
	}
	if stats["inserted"] != 3 {
		t.Errorf("refresh stats = %v", stats)
	}

	rec = do(t, mux, http.MethodGet, "/search-configs/"+cfg.ID+"/feed", "u1", nil)
	var entries []model.FeedEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Errorf("feed = %+v", entries)
	}

	cases := []struct {
		name         string
		method, path string
		user         string
		body         any
		code         int
	}{
		{"no user", http.MethodPost, "/search-configs", "", nil, http.StatusUnauthorized},
		{"bad method", http.MethodGet, "/search-configs", "u1", nil, http.StatusMethodNotAllowed},
		{"no locations", http.MethodPost, "/search-configs", "u1", feed.NewSearch{}, http.StatusBadRequest},
		{"foreign feed", http.MethodGet, "/search-configs/" + cfg.ID + "/feed", "u2", nil, http.StatusNotFound},
		{"feed wrong method", http.MethodPost, "/search-configs/" + cfg.ID + "/feed", "u1", nil, http.StatusMethodNotAllowed},
		{"unknown action", http.MethodGet, "/search-configs/" + cfg.ID + "/archive", "u1", nil, http.StatusNotFound},
	}
	for _, c := range cases {
		if rec := do(t, mux, c.method, c.path, c.user, c.body); rec.Code != c.code {
			t.Errorf("%s: %d, want %d (%s)", c.name, rec.Code, c.code, rec.Body)
		}
	}
}
