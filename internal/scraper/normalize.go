package scraper

import (
	"math"
	"math/rand/v2"
	"strconv"

	"rezzai/jobsearch/internal/model"
)

// FieldDefaults holds the value each Job field takes when the provider
// leaves it out.
type FieldDefaults struct {
	NewID           func() string // used when the record has no id
	Type            string        // no contract_type or contract_time
	Salary          string        // no salary range and not predicted
	PredictedSalary string        // no salary range but salary_is_predicted=1
}

// DefaultFields returns the defaults the dashboard expects.
func DefaultFields() FieldDefaults {
	return FieldDefaults{
		NewID:           RandomID,
		Type:            "—",
		Salary:          "—",
		PredictedSalary: "Estimated",
	}
}

// RandomID returns a random base-36 string.
func RandomID() string {
	return strconv.FormatUint(rand.Uint64(), 36)
}

// Normalizer maps provider records onto model.Job.
type Normalizer struct {
	defaults FieldDefaults
}

// NewNormalizer returns a Normalizer; a nil NewID falls back to RandomID.
func NewNormalizer(d FieldDefaults) *Normalizer {
	if d.NewID == nil {
		d.NewID = RandomID
	}
	return &Normalizer{defaults: d}
}

// Normalize converts every record. It never fails; missing fields take
// their defaults one by one.
func (n *Normalizer) Normalize(records []Record) []model.Job {
	jobs := make([]model.Job, 0, len(records))
	for _, r := range records {
		jobs = append(jobs, n.job(r))
	}
	return jobs
}

func (n *Normalizer) job(r Record) model.Job {
	id := r.ID
	if id == "" {
		id = n.defaults.NewID()
	}

	var company, loc string
	if r.Company != nil {
		company = r.Company.DisplayName
	}
	if r.Location != nil {
		loc = r.Location.DisplayName
	}

	return model.Job{
		ID:             id,
		Title:          r.Title,
		Company:        company,
		Location:       loc,
		Type:           n.contractType(r),
		Salary:         n.salary(r),
		Description:    r.Description,
		Requirements:   []string{},
		PostedDate:     r.Created,
		ApplicationURL: r.RedirectURL,
		Skills:         []string{},
		CompanyLogo:    "",
	}
}

func (n *Normalizer) contractType(r Record) string {
	switch {
	case r.ContractType != "":
		return r.ContractType
	case r.ContractTime != "":
		return r.ContractTime
	}
	return n.defaults.Type
}

// salary needs both bounds; a zero bound counts as missing.
func (n *Normalizer) salary(r Record) string {
	if r.SalaryMin != nil && r.SalaryMax != nil && *r.SalaryMin != 0 && *r.SalaryMax != 0 {
		return roundHalfUp(*r.SalaryMin) + " - " + roundHalfUp(*r.SalaryMax)
	}
	if r.SalaryIsPredicted {
		return n.defaults.PredictedSalary
	}
	return n.defaults.Salary
}

func roundHalfUp(v float64) string {
	return strconv.FormatInt(int64(math.Floor(v+0.5)), 10)
}
