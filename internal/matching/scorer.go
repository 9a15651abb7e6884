// Package matching scores job listings against the caller's location and
// orders them for display.
//
// Score precedence (first hit wins):
//
//	empty location ─► none (0)
//	city          ─► exact_city (100)
//	state/country ─► state_country (80)
//	remote words  ─► remote (90)
//	containment   ─► partial (70)
//	same region   ─► same_region (60)
//	anything else ─► other (10)
//
// Remote sits below the caller's own city and state even though it scores
// higher than a state match.
package matching

import (
	"strings"

	"rezzai/jobsearch/internal/location"
	"rezzai/jobsearch/internal/model"
)

// Target is the caller's location as the scorer sees it.
type Target struct {
	Location       string
	City           string
	StateOrCountry string
}

// NewTarget builds a Target from raw location text.
func NewTarget(loc string) Target {
	p := location.Parse(loc)
	return Target{Location: loc, City: p.City, StateOrCountry: p.StateOrCountry}
}

// Result is the outcome of scoring one job.
type Result struct {
	Score    int
	Category model.MatchCategory
}

// RemoteTerms mark a listing as location-independent.
var RemoteTerms = []string{"remote", "work from home", "hybrid", "anywhere"}

// subject holds the lower-cased inputs shared by every rule.
type subject struct {
	job, user, city, state string
}

type matchRule struct {
	category model.MatchCategory
	matches  func(s subject) bool
}

// rules runs after the empty-location guard in Score.
var rules = []matchRule{
	{model.MatchExactCity, func(s subject) bool {
		return s.city != "" && strings.Contains(s.job, s.city)
	}},
	{model.MatchStateCountry, func(s subject) bool {
		return s.state != "" && strings.Contains(s.job, s.state)
	}},
	{model.MatchRemote, func(s subject) bool {
		for _, term := range RemoteTerms {
			if strings.Contains(s.job, term) {
				return true
			}
		}
		return false
	}},
	{model.MatchPartial, func(s subject) bool {
		return strings.Contains(s.user, s.job) || strings.Contains(s.job, s.user)
	}},
	{model.MatchSameRegion, func(s subject) bool {
		return location.IsSameRegion(s.user, s.job)
	}},
}

// Categories lists the rule order after the empty-location guard.
func Categories() []model.MatchCategory {
	out := make([]model.MatchCategory, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.category)
	}
	return append(out, model.MatchOther)
}

// Score rates how well jobLocation fits t.
func Score(jobLocation string, t Target) Result {
	if t.Location == "" || jobLocation == "" {
		return Result{Score: 0, Category: model.MatchNone}
	}

	s := subject{
		job:   location.Lower(jobLocation),
		user:  location.Lower(t.Location),
		city:  location.Lower(t.City),
		state: location.Lower(t.StateOrCountry),
	}
	for _, r := range rules {
		if r.matches(s) {
			return Result{Score: r.category.Score(), Category: r.category}
		}
	}
	return Result{Score: model.MatchOther.Score(), Category: model.MatchOther}
}

// ScoreJob scores job and attaches the tier flags.
func ScoreJob(job model.Job, t Target) model.ScoredJob {
	r := Score(job.Location, t)
	return model.ScoredJob{
		Job:           job,
		MatchScore:    r.Score,
		LocationScore: r.Score,
		SkillsScore:   0,
		LocationMatch: r.Category,
		IsHighMatch:   r.Score >= 80,
		IsMediumMatch: r.Score >= 50 && r.Score < 80,
		IsLowMatch:    r.Score < 50,
	}
}
