package scraper_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"rezzai/jobsearch/internal/scraper"
)

func newTestFetcher(t *testing.T, h http.HandlerFunc) *scraper.AdzunaFetcher {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	f := scraper.NewAdzunaFetcher("id", "key")
	f.BaseURL = srv.URL
	return f
}

func TestSearch_BuildsRequest(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		q := r.URL.Query()
		gotQuery = map[string]string{}
		for k := range q {
			gotQuery[k] = q.Get(k)
		}
		fmt.Fprint(w, `{"count":42,"results":[{"id":"1","title":"Go Dev","company":{"display_name":"Acme"},"salary_is_predicted":"1"}]}`)
	})

	page, err := f.Search(context.Background(), scraper.Query{Country: "gb", Page: 2, Where: "London", What: "golang", ResultsPerPage: 20})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotPath != "/gb/search/2" {
		t.Errorf("path = %q, want /gb/search/2", gotPath)
	}
	want := map[string]string{"app_id": "id", "app_key": "key", "where": "London", "what": "golang", "results_per_page": "20"}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("query %s = %q, want %q", k, gotQuery[k], v)
		}
	}
	if page.Count != 42 || len(page.Records) != 1 {
		t.Fatalf("page = %+v, want count 42 with one record", page)
	}
	r := page.Records[0]
	if r.Company == nil || r.Company.DisplayName != "Acme" || !bool(r.SalaryIsPredicted) {
		t.Errorf("record decoded as %+v", r)
	}
}

func TestSearch_OmitsEmptyWhat(t *testing.T) {
	var hasWhat bool
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		_, hasWhat = r.URL.Query()["what"]
		fmt.Fprint(w, `{"results":[]}`)
	})
	if _, err := f.Search(context.Background(), scraper.Query{Country: "us", Where: "Austin"}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if hasWhat {
		t.Error("what parameter sent for an empty keyword")
	}
}

func TestSearch_DefaultsPageAndSize(t *testing.T) {
	var path, size string
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		size = r.URL.Query().Get("results_per_page")
		fmt.Fprint(w, `{"results":[]}`)
	})
	if _, err := f.Search(context.Background(), scraper.Query{Country: "us"}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if path != "/us/search/1" || size != "20" {
		t.Errorf("path=%q size=%q, want /us/search/1 and 20", path, size)
	}
}

func TestSearch_ProviderError(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, "bad key")
	})
	_, err := f.Search(context.Background(), scraper.Query{Country: "us"})
	var pe *scraper.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ProviderError", err)
	}
	if pe.Status != http.StatusUnauthorized || pe.Body != "bad key" {
		t.Errorf("ProviderError = %+v", pe)
	}
}

func TestSearch_MissingCredentials(t *testing.T) {
	for _, f := range []*scraper.AdzunaFetcher{
		scraper.NewAdzunaFetcher("", "key"),
		scraper.NewAdzunaFetcher("id", ""),
	} {
		if _, err := f.Search(context.Background(), scraper.Query{Country: "us"}); !errors.Is(err, scraper.ErrMissingCredentials) {
			t.Errorf("err = %v, want ErrMissingCredentials", err)
		}
	}
}

// ── FetchAll ───────────────────────────────────────────────────────────────

type pagedFetcher struct {
	pages [][]scraper.Record
	count int
	calls []int
	err   error
}

func (p *pagedFetcher) Search(_ context.Context, q scraper.Query) (*scraper.Page, error) {
	p.calls = append(p.calls, q.Page)
	if p.err != nil && q.Page > len(p.pages) {
		return nil, p.err
	}
	if q.Page > len(p.pages) {
		return &scraper.Page{}, nil
	}
	return &scraper.Page{Records: p.pages[q.Page-1], Count: p.count}, nil
}

func records(n int) []scraper.Record {
	out := make([]scraper.Record, n)
	for i := range out {
		out[i].ID = fmt.Sprint(i)
	}
	return out
}

func TestFetchAll_StopsOnShortPage(t *testing.T) {
	f := &pagedFetcher{pages: [][]scraper.Record{records(2), records(2), records(1), records(2)}}
	got, err := scraper.FetchAll(context.Background(), f, scraper.Query{ResultsPerPage: 2}, 10)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(got) != 5 || len(f.calls) != 3 {
		t.Errorf("got %d records in %d calls, want 5 in 3", len(got), len(f.calls))
	}
}

func TestFetchAll_RespectsMaxPages(t *testing.T) {
	f := &pagedFetcher{pages: [][]scraper.Record{records(2), records(2), records(2)}}
	got, _ := scraper.FetchAll(context.Background(), f, scraper.Query{ResultsPerPage: 2}, 2)
	if len(got) != 4 || len(f.calls) != 2 {
		t.Errorf("got %d records in %d calls, want 4 in 2", len(got), len(f.calls))
	}
}

func TestFetchAll_StopsAtProviderCount(t *testing.T) {
	cases := []struct {
		name      string
		startPage int
		count     int
		calls     int
	}{
		{"total reached on page 2", 1, 4, 2},
		{"total reached on first page", 1, 2, 1},
		{"starting mid-way", 2, 4, 1},
		{"no count reported", 1, 0, 3},
	}
	for _, c := range cases {
		f := &pagedFetcher{pages: [][]scraper.Record{records(2), records(2), records(2)}, count: c.count}
		scraper.FetchAll(context.Background(), f, scraper.Query{Page: c.startPage, ResultsPerPage: 2}, 3)
		if len(f.calls) != c.calls {
			t.Errorf("%s: %d calls (%v), want %d", c.name, len(f.calls), f.calls, c.calls)
		}
	}
}

func TestFetchAll_KeepsRecordsBeforeError(t *testing.T) {
	f := &pagedFetcher{pages: [][]scraper.Record{records(2)}, err: errors.New("boom")}
	got, err := scraper.FetchAll(context.Background(), f, scraper.Query{ResultsPerPage: 2}, 5)
	if err == nil {
		t.Fatal("FetchAll returned nil error")
	}
	if len(got) != 2 {
		t.Errorf("got %d records, want the 2 fetched before the error", len(got))
	}
}
