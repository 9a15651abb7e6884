// Package location turns free-form location text into the coarse signals
// the matcher and the job board client need: the city / state-or-country
// split, the provider country code, and a same-region check.
package location

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Parts is a location split at its first comma.
type Parts struct {
	City           string
	StateOrCountry string
}

// Parse splits "New York, NY" into {New York, NY}. Text after a second
// comma is ignored; either part may be empty.
func Parse(text string) Parts {
	fields := strings.Split(text, ",")
	p := Parts{City: strings.TrimSpace(fields[0])}
	if len(fields) > 1 {
		p.StateOrCountry = strings.TrimSpace(fields[1])
	}
	return p
}

// Lower applies full Unicode lower-casing, so "MÜNCHEN" folds to "münchen".
func Lower(s string) string {
	if s == "" {
		return ""
	}
	return cases.Lower(language.Und).String(s)
}

// InferCountryCode picks the job board region for a location. It always
// returns one code and falls back to DefaultCountry.
func InferCountryCode(text string) string {
	l := Lower(text)
	for _, rule := range countryRules {
		if containsAny(l, rule.Countries) || containsAny(l, rule.Cities) {
			return rule.Code
		}
	}
	return DefaultCountry
}

// ResolveCountry returns the caller's override when one is given and the
// inferred code otherwise.
func ResolveCountry(override, text string) string {
	if o := strings.TrimSpace(override); o != "" {
		return Lower(o)
	}
	return InferCountryCode(text)
}

// IsSameRegion reports whether two lower-cased locations share a country
// or US state token. Tokens are matched as plain substrings, so short
// ones like "ca" also hit inside longer words ("chicago").
func IsSameRegion(a, b string) bool {
	for _, country := range regionCountries {
		if strings.Contains(a, country) && strings.Contains(b, country) {
			return true
		}
	}
	for _, state := range regionStates {
		if strings.Contains(a, state) && strings.Contains(b, state) {
			return true
		}
	}
	return false
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
