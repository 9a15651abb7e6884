// Package scraper talks to the job board, normalises its records, and
// refreshes the job feed of saved searches.
package scraper

import (
	"strings"

	"rezzai/jobsearch/internal/location"
	"rezzai/jobsearch/internal/model"
)

// ContainsRedFlag reports whether any red flag term appears, ignoring case,
// in the job's combined title, company and description.
//
// Called before every feed insert; a hit discards the offer.
func ContainsRedFlag(job model.Job, redFlags []string) bool {
	if len(redFlags) == 0 {
		return false
	}
	combined := location.Lower(job.Title + " " + job.Company + " " + job.Description)
	for _, flag := range redFlags {
		flag = strings.TrimSpace(flag)
		if flag == "" {
			continue
		}
		if strings.Contains(combined, location.Lower(flag)) {
			return true
		}
	}
	return false
}
