// Package model defines shared data structures for the jobsearch service.
package model

import "time"

// SearchConfig mirrors the search_configs table row relevant to feed refreshes.
type SearchConfig struct {
	ID        string   `json:"id"`
	UserID    string   `json:"userId"`
	Keywords  []string `json:"keywords"` // passed to the provider as "what"; empty means location-only
	Locations []string `json:"locations"`
	Country   string   `json:"country"`  // optional region override, e.g. "gb"
	RedFlags  []string `json:"redFlags"` // exclusion terms; any match discards the offer
}

// Job is a listing normalised from the external job board into the shape
// the dashboard renders.
type Job struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Location       string   `json:"location"`
	Type           string   `json:"type"`
	Salary         string   `json:"salary"`
	Description    string   `json:"description"`
	Requirements   []string `json:"requirements"`
	PostedDate     string   `json:"postedDate"`
	ApplicationURL string   `json:"applicationUrl"`
	Skills         []string `json:"skills"`
	CompanyLogo    string   `json:"companyLogo"`
}

// MatchCategory says why a job's location matched the caller's.
type MatchCategory string

const (
	MatchExactCity    MatchCategory = "exact_city"
	MatchRemote       MatchCategory = "remote"
	MatchStateCountry MatchCategory = "state_country"
	MatchPartial      MatchCategory = "partial"
	MatchSameRegion   MatchCategory = "same_region"
	MatchOther        MatchCategory = "other"
	MatchNone         MatchCategory = "none"
)

// Score returns the location score attached to the category.
func (c MatchCategory) Score() int {
	switch c {
	case MatchExactCity:
		return 100
	case MatchRemote:
		return 90
	case MatchStateCountry:
		return 80
	case MatchPartial:
		return 70
	case MatchSameRegion:
		return 60
	case MatchOther:
		return 10
	}
	return 0
}

// ScoredJob is a Job with its location match metadata attached.
type ScoredJob struct {
	Job

	MatchScore    int           `json:"matchScore"`
	LocationScore int           `json:"locationScore"`
	SkillsScore   int           `json:"skillsScore"` // skills matching is not implemented
	LocationMatch MatchCategory `json:"locationMatch"`
	IsHighMatch   bool          `json:"isHighMatch"`
	IsMediumMatch bool          `json:"isMediumMatch"`
	IsLowMatch    bool          `json:"isLowMatch"`
}

// FeedEntry is a ranked job stored in job_feed for a saved search.
type FeedEntry struct {
	SearchConfigID string        `json:"searchConfigId"`
	SourceURL      string        `json:"sourceUrl"`
	LocationScore  int           `json:"locationScore"`
	LocationMatch  MatchCategory `json:"locationMatch"`
	Job            Job           `json:"job"`
}

// Application is a job the user acted on, tracked on the kanban board.
type Application struct {
	ID         string         `json:"id"`
	UserID     string         `json:"userId"`
	JobID      string         `json:"jobId"`
	Company    string         `json:"company"`
	JobTitle   string         `json:"jobTitle"`
	JobURL     string         `json:"jobUrl"`
	Location   string         `json:"location"`
	ResumeUsed string         `json:"resumeUsed"`
	Status     string         `json:"status"`
	Notes      string         `json:"notes"`
	History    []StatusChange `json:"history"`
	AppliedAt  time.Time      `json:"appliedAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// StatusChange is one entry of an application's history log.
type StatusChange struct {
	From string    `json:"from"`
	To   string    `json:"to"`
	At   time.Time `json:"at"`
}
