// Package filter narrows a job list by structured constraints.
package filter

import (
	"strings"
	"time"

	"github.com/kailas-cloud/agentjobs/internal/domain/job"
	"github.com/kailas-cloud/agentjobs/internal/domain/skill"
)

// Constraints is a set of optional structured job constraints combined with AND.
// Empty strings, nil pointers, empty slices and a zero time mean "no restriction".
type Constraints struct {
	Title           string
	Company         string
	Location        string
	LocationType    string
	EmploymentType  string
	Category        string
	Skills          []string
	SalaryMin       *int
	SalaryMax       *int
	ExperienceYears *float64
	ExperienceMin   *int
	ExperienceMax   *int
	PostedSince     time.Time
}

// IsEmpty reports whether no constraint is set.
func (c *Constraints) IsEmpty() bool {
	return strings.TrimSpace(c.Title) == "" &&
		strings.TrimSpace(c.Company) == "" &&
		strings.TrimSpace(c.Location) == "" &&
		strings.TrimSpace(c.LocationType) == "" &&
		strings.TrimSpace(c.EmploymentType) == "" &&
		strings.TrimSpace(c.Category) == "" &&
		len(skill.NormalizeAll(c.Skills)) == 0 &&
		c.SalaryMin == nil && c.SalaryMax == nil &&
		c.ExperienceYears == nil && c.ExperienceMin == nil && c.ExperienceMax == nil &&
		c.PostedSince.IsZero()
}

// Apply returns the jobs that satisfy every present constraint, preserving input order.
// The input slice is never modified.
func (c *Constraints) Apply(jobs []job.Job) []job.Job {
	m := c.compile()
	out := make([]job.Job, 0, len(jobs))
	for i := range jobs {
		if m.matches(&jobs[i]) {
			out = append(out, jobs[i])
		}
	}
	return out
}

// Matches reports whether a single job satisfies the constraints.
func (c *Constraints) Matches(j *job.Job) bool {
	m := c.compile()
	return m.matches(j)
}

// matcher holds constraint values folded once per Apply.
type matcher struct {
	title, company, location, category string

	locationType    job.LocationType
	hasLocationType bool
	employmentType  job.EmploymentType
	hasEmployment   bool

	// none is set when an enum constraint is unrecognized; nothing matches.
	none bool

	skills        []string
	salaryMin     *int
	salaryMax     *int
	experience    *float64
	experienceMin *int
	experienceMax *int
	postedSince   time.Time
}

func fold(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (c *Constraints) compile() matcher {
	m := matcher{
		title:         fold(c.Title),
		company:       fold(c.Company),
		location:      fold(c.Location),
		category:      fold(c.Category),
		skills:        skill.NormalizeAll(c.Skills),
		salaryMin:     c.SalaryMin,
		salaryMax:     c.SalaryMax,
		experience:    c.ExperienceYears,
		experienceMin: c.ExperienceMin,
		experienceMax: c.ExperienceMax,
		postedSince:   c.PostedSince,
	}
	if strings.TrimSpace(c.LocationType) != "" {
		lt, ok := job.ParseLocationType(c.LocationType)
		m.locationType, m.hasLocationType = lt, true
		m.none = m.none || !ok
	}
	if strings.TrimSpace(c.EmploymentType) != "" {
		et, ok := job.ParseEmploymentType(c.EmploymentType)
		m.employmentType, m.hasEmployment = et, true
		m.none = m.none || !ok
	}
	return m
}

func (m *matcher) matches(j *job.Job) bool {
	if m.none {
		return false
	}
	if m.title != "" && !strings.Contains(strings.ToLower(j.Title()), m.title) {
		return false
	}
	if m.company != "" && !matchesCompany(j.Company(), m.company) {
		return false
	}
	if m.location != "" && !strings.Contains(strings.ToLower(j.Location()), m.location) {
		return false
	}
	if m.hasLocationType && j.LocationType() != m.locationType {
		return false
	}
	if m.hasEmployment && j.EmploymentType() != m.employmentType {
		return false
	}
	if m.category != "" && j.Category() != m.category {
		return false
	}
	if len(m.skills) > 0 && !hasAllSkills(j, m.skills) {
		return false
	}
	if !m.matchesSalary(j) || !m.matchesExperience(j) {
		return false
	}
	if !m.postedSince.IsZero() && j.PostedAt().Before(m.postedSince) {
		return false
	}
	return true
}

func matchesCompany(c job.Company, q string) bool {
	return strings.Contains(strings.ToLower(c.Name), q) || (c.ID != "" && strings.ToLower(c.ID) == q)
}

func hasAllSkills(j *job.Job, want []string) bool {
	have := skill.Set(j.Skills())
	for _, s := range want {
		if _, ok := have[s]; !ok {
			return false
		}
	}
	return true
}

// matchesSalary keeps jobs without salary data: unknown salary is not a disqualification.
func (m *matcher) matchesSalary(j *job.Job) bool {
	if m.salaryMin != nil {
		if hi, ok := j.SalaryMax(); ok && hi < *m.salaryMin {
			return false
		}
	}
	if m.salaryMax != nil {
		if lo, ok := j.SalaryMin(); ok && lo > *m.salaryMax {
			return false
		}
	}
	return true
}

// matchesExperience treats a missing job bound as unbounded on that side.
func (m *matcher) matchesExperience(j *job.Job) bool {
	lo, hasLo := j.ExperienceMin()
	hi, hasHi := j.ExperienceMax()

	if m.experience != nil {
		years := *m.experience
		if hasLo && years < float64(lo) {
			return false
		}
		if hasHi && years > float64(hi) {
			return false
		}
	}
	if m.experienceMin != nil && hasHi && hi < *m.experienceMin {
		return false
	}
	if m.experienceMax != nil && hasLo && lo > *m.experienceMax {
		return false
	}
	return true
}
