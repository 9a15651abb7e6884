package matching

import (
	"sort"
	"strings"
	"time"

	"rezzai/jobsearch/internal/model"
)

// postedDateLayouts are tried in order; Adzuna sends RFC 3339.
var postedDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParsePostedDate returns the zero time for empty or unparseable input, so
// such jobs sort after every dated one.
func ParsePostedDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range postedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Rank scores every job against t and sorts by location score, then by
// posted date, newest first. Jobs equal on both keys keep their input
// order. No job is dropped and the input slice is not modified.
func Rank(jobs []model.Job, t Target) []model.ScoredJob {
	scored := make([]model.ScoredJob, len(jobs))
	posted := make([]time.Time, len(jobs))
	for i, j := range jobs {
		scored[i] = ScoreJob(j, t)
		posted[i] = ParsePostedDate(j.PostedDate)
	}

	idx := make([]int, len(jobs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ja, jb := idx[a], idx[b]
		if scored[ja].LocationScore != scored[jb].LocationScore {
			return scored[ja].LocationScore > scored[jb].LocationScore
		}
		return posted[ja].After(posted[jb])
	})

	out := make([]model.ScoredJob, len(jobs))
	for i, j := range idx {
		out[i] = scored[j]
	}
	return out
}
