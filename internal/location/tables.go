package location

// CountryRule maps a location to a provider region when any of its
// country names or city names appears in the text.
type CountryRule struct {
	Code      string
	Countries []string
	Cities    []string
}

// DefaultCountry is returned when no rule matches.
const DefaultCountry = "us"

// countryRules is evaluated top to bottom; the first hit wins. The "us"
// rule sits above the UK one so "New York, US" never reaches it, and its
// short state tokens are matched as plain substrings.
var countryRules = []CountryRule{
	{
		Code:      "in",
		Countries: []string{"india"},
		Cities:    []string{"mumbai", "pune", "delhi", "bangalore", "bengaluru", "hyderabad", "chennai"},
	},
	{
		Code:      "us",
		Countries: []string{"united states", "usa", "us"},
		Cities:    []string{"new york", "san francisco", "california", "tx", "fl", "wa", "ny", "ca"},
	},
	{
		Code:      "gb",
		Countries: []string{"united kingdom", "uk"},
		Cities:    []string{"london", "manchester", "edinburgh"},
	},
	{
		Code:      "ca",
		Countries: []string{"canada"},
		Cities:    []string{"toronto", "vancouver", "montreal"},
	},
	{
		Code:      "au",
		Countries: []string{"australia"},
		Cities:    []string{"sydney", "melbourne", "brisbane"},
	},
	{
		Code:      "de",
		Countries: []string{"germany"},
		Cities:    []string{"berlin", "munich", "münchen", "frankfurt"},
	},
	{
		Code:      "fr",
		Countries: []string{"france"},
		Cities:    []string{"paris", "lyon", "marseille"},
	},
}

// regionCountries and regionStates are the coarse regions used by
// IsSameRegion. Countries are checked before states.
var (
	regionCountries = []string{
		"united states", "usa", "us", "canada", "uk", "united kingdom", "australia", "germany", "france",
	}
	regionStates = []string{
		"california", "ca", "new york", "ny", "texas", "tx", "florida", "fl", "washington", "wa",
	}
)

// CountryRules returns a copy of the ordered inference rules.
func CountryRules() []CountryRule {
	out := make([]CountryRule, len(countryRules))
	copy(out, countryRules)
	return out
}
