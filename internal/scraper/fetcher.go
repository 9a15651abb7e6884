package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	adzunaBaseURL   = "https://api.adzuna.com/v1/api/jobs"
	defaultPageSize = 20
	httpTimeout     = 15 * time.Second
)

// ErrMissingCredentials is returned when ADZUNA_APP_ID or ADZUNA_APP_KEY is unset.
var ErrMissingCredentials = errors.New("missing ADZUNA_APP_ID or ADZUNA_APP_KEY")

// ProviderError is a non-200 answer from the job board.
type ProviderError struct {
	Status int
	Body   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("adzuna returned %d: %s", e.Status, e.Body)
}

// Query is one page request against the job board.
type Query struct {
	Country        string // two-letter region, e.g. "us"
	Page           int
	Where          string
	What           string // optional keyword, passed through unchanged
	ResultsPerPage int
}

// Page is a decoded search response.
type Page struct {
	Records []Record
	Count   int // total matches reported by the provider
}

// Fetcher is implemented by job board clients.
type Fetcher interface {
	Search(ctx context.Context, q Query) (*Page, error)
}

// AdzunaFetcher fetches job offers from the Adzuna public API.
type AdzunaFetcher struct {
	AppID   string
	AppKey  string
	BaseURL string
	client  *http.Client
}

// NewAdzunaFetcher constructs a fetcher with a shared HTTP client.
func NewAdzunaFetcher(appID, appKey string) *AdzunaFetcher {
	return &AdzunaFetcher{
		AppID:   appID,
		AppKey:  appKey,
		BaseURL: adzunaBaseURL,
		client:  &http.Client{Timeout: httpTimeout},
	}
}

// adzunaResponse mirrors the top-level Adzuna JSON response.
type adzunaResponse struct {
	Results []Record `json:"results"`
	Count   int      `json:"count"`
}

// Record mirrors a single Adzuna job listing. Every field may be absent.
type Record struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Company           *Named   `json:"company"`
	Location          *Named   `json:"location"`
	SalaryMin         *float64 `json:"salary_min"`
	SalaryMax         *float64 `json:"salary_max"`
	SalaryIsPredicted Flag     `json:"salary_is_predicted"`
	RedirectURL       string   `json:"redirect_url"`
	Created           string   `json:"created"`
	ContractTime      string   `json:"contract_time"`
	ContractType      string   `json:"contract_type"`
}

// Named is Adzuna's nested {"display_name": ...} object.
type Named struct {
	DisplayName string `json:"display_name"`
}

// Flag decodes Adzuna's "0"/"1" string flags.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	*f = Flag(s == "1" || s == "true")
	return nil
}

// Search retrieves one page of offers.
func (f *AdzunaFetcher) Search(ctx context.Context, q Query) (*Page, error) {
	if f.AppID == "" || f.AppKey == "" {
		return nil, ErrMissingCredentials
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.ResultsPerPage < 1 {
		q.ResultsPerPage = defaultPageSize
	}

	endpoint := fmt.Sprintf("%s/%s/search/%d", strings.TrimRight(f.BaseURL, "/"), url.PathEscape(q.Country), q.Page)

	params := url.Values{}
	params.Set("app_id", f.AppID)
	params.Set("app_key", f.AppKey)
	params.Set("where", q.Where)
	params.Set("results_per_page", strconv.Itoa(q.ResultsPerPage))
	if q.What != "" {
		params.Set("what", q.What)
	}

	log.Printf("[fetcher] GET %s/search/%d where=%q what=%q", q.Country, q.Page, q.Where, q.What)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Status: resp.StatusCode, Body: string(body)}
	}

	var apiResp adzunaResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	return &Page{Records: apiResp.Results, Count: apiResp.Count}, nil
}

// FetchAll walks pages starting at q.Page until a short page, an empty
// page, the provider's reported total, or maxPages pages have been read.
func FetchAll(ctx context.Context, f Fetcher, q Query, maxPages int) ([]Record, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.ResultsPerPage < 1 {
		q.ResultsPerPage = defaultPageSize
	}

	var records []Record
	for i := 0; i < maxPages; i++ {
		page, err := f.Search(ctx, q)
		if err != nil {
			return records, fmt.Errorf("page %d: %w", q.Page, err)
		}
		if len(page.Records) == 0 {
			break
		}
		records = append(records, page.Records...)
		if len(page.Records) < q.ResultsPerPage {
			break
		}
		if page.Count > 0 && (q.Page-1)*q.ResultsPerPage+len(page.Records) >= page.Count {
			break
		}
		q.Page++
	}
	return records, nil
}
