// Package match scores a candidate profile against a job posting.
package match

import (
	"github.com/kailas-cloud/agentjobs/internal/domain/job"
)

// Category maximums. They sum to MaxScore.
const (
	MaxSkills     = 40
	MaxLocation   = 20
	MaxSalary     = 15
	MaxExperience = 15
	MaxRecency    = 10
	MaxScore      = 100
)

// Closeness thresholds for the partial salary and experience awards.
const (
	// SalaryClosePercent is how far below the candidate floor a job ceiling may be to still count as close.
	SalaryClosePercent = 20
	// ExperienceCloseYears is how far outside the job range a candidate may be to still count as close.
	ExperienceCloseYears = 1.0
)

// Partial awards.
const (
	locationSameState = 15
	salaryClose       = 10
	experienceClose   = 10
	recencyWeek       = 8
	recencyMonth      = 5
)

// Breakdown holds the per-category points.
type Breakdown struct {
	Skills     int `json:"skills"`
	Location   int `json:"location"`
	Salary     int `json:"salary"`
	Experience int `json:"experience"`
	Recency    int `json:"recency"`
}

// Total sums the categories and clamps to [0, MaxScore].
func (b Breakdown) Total() int {
	return clamp(b.Skills+b.Location+b.Salary+b.Experience+b.Recency, MaxScore)
}

// Result is the outcome of scoring one (profile, job) pair.
type Result struct {
	job           job.Job
	score         int
	skillsMatch   []string
	skillsMissing []string
	reasons       []string
	breakdown     Breakdown
}

// Job returns the scored job.
func (r *Result) Job() *job.Job { return &r.job }

// Score returns the 0-100 match score.
func (r *Result) Score() int { return r.score }

// SkillsMatch returns the job skills the candidate has, in the job's order.
func (r *Result) SkillsMatch() []string { return cloneStrings(r.skillsMatch) }

// SkillsMissing returns the job skills the candidate lacks, in the job's order.
func (r *Result) SkillsMissing() []string { return cloneStrings(r.skillsMissing) }

// Reasons returns one reason per non-zero category in fixed category order.
func (r *Result) Reasons() []string { return cloneStrings(r.reasons) }

// Breakdown returns the per-category points.
func (r *Result) Breakdown() Breakdown { return r.breakdown }

func clamp(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
