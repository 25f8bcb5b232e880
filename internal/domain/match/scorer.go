package match

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/agentjobs/internal/domain/job"
	"github.com/kailas-cloud/agentjobs/internal/domain/location"
	"github.com/kailas-cloud/agentjobs/internal/domain/profile"
	"github.com/kailas-cloud/agentjobs/internal/domain/skill"
)

const day = 24 * time.Hour

// Scorer computes match results relative to a fixed instant.
// One Scorer is created per ranking call so every job is scored against the same "now".
type Scorer struct {
	now time.Time
}

// NewScorer creates a scorer bound to now.
func NewScorer(now time.Time) Scorer {
	return Scorer{now: now}
}

// Now returns the instant the scorer measures recency against.
func (s Scorer) Now() time.Time { return s.now }

// Score evaluates the five categories in order: skills, location, salary, experience, recency.
func (s Scorer) Score(p *profile.Profile, j *job.Job) Result {
	var (
		b       Breakdown
		reasons []string
		reason  string
	)

	matched, missing := splitSkills(p, j)
	b.Skills, reason = scoreSkills(len(matched), j.SkillCount())
	reasons = appendReason(reasons, b.Skills, reason)

	b.Location, reason = scoreLocation(p, j)
	reasons = appendReason(reasons, b.Location, reason)

	b.Salary, reason = scoreSalary(p, j)
	reasons = appendReason(reasons, b.Salary, reason)

	b.Experience, reason = scoreExperience(p, j)
	reasons = appendReason(reasons, b.Experience, reason)

	b.Recency, reason = scoreRecency(j.PostedAt(), s.now)
	reasons = appendReason(reasons, b.Recency, reason)

	return Result{
		job:           *j,
		score:         b.Total(),
		skillsMatch:   matched,
		skillsMissing: missing,
		reasons:       reasons,
		breakdown:     b,
	}
}

func appendReason(reasons []string, points int, reason string) []string {
	if points <= 0 || reason == "" {
		return reasons
	}
	return append(reasons, reason)
}

func splitSkills(p *profile.Profile, j *job.Job) (matched, missing []string) {
	have := skill.Set(p.Skills())
	for _, s := range j.Skills() {
		if _, ok := have[s]; ok {
			matched = append(matched, s)
		} else {
			missing = append(missing, s)
		}
	}
	return matched, missing
}

func scoreSkills(matched, required int) (int, string) {
	if required == 0 {
		return MaxSkills, "No specific skills required"
	}
	if matched <= 0 {
		return 0, ""
	}
	ratio := float64(matched) / float64(required)
	points := clamp(int(math.Round(MaxSkills*ratio)), MaxSkills)

	strength := "Limited"
	switch {
	case ratio >= 0.75:
		strength = "Strong"
	case ratio >= 0.4:
		strength = "Partial"
	}
	return points, fmt.Sprintf("%s skills match: %d/%d required skills", strength, matched, required)
}

// scoreLocation applies the first satisfied rule of: remote, exact preferred city, same preferred state.
func scoreLocation(p *profile.Profile, j *job.Job) (int, string) {
	place := j.Place()
	if j.LocationType() == job.Remote || place.City == location.Remote {
		return MaxLocation, "Remote position"
	}

	prefs := p.PreferredLocations()
	if place.City != "" {
		for _, pref := range prefs {
			if location.Parse(pref).City == place.City {
				return MaxLocation, "Located in your preferred city: " + pref
			}
		}
	}
	if place.State != "" {
		for _, pref := range prefs {
			state := location.Parse(pref).State
			if state == "" {
				state = location.Fold(pref)
			}
			if state == place.State {
				return locationSameState, fmt.Sprintf("In your preferred region: %s (%s)", place.State, pref)
			}
		}
	}
	return 0, ""
}

func scoreSalary(p *profile.Profile, j *job.Job) (int, string) {
	floor, ok := p.SalaryMin()
	if !ok {
		return 0, ""
	}
	ceiling, ok := j.SalaryMax()
	if !ok {
		if ceiling, ok = j.SalaryMin(); !ok {
			return 0, ""
		}
	}
	if ceiling >= floor {
		return MaxSalary, fmt.Sprintf("Salary meets your minimum: up to %d vs %d", ceiling, floor)
	}
	if int64(ceiling)*100 >= int64(floor)*(100-SalaryClosePercent) {
		return salaryClose, fmt.Sprintf("Salary close to your minimum: up to %d vs %d", ceiling, floor)
	}
	return 0, ""
}

func scoreExperience(p *profile.Profile, j *job.Job) (int, string) {
	years, ok := p.ExperienceYears()
	if !ok {
		return 0, ""
	}
	lo, hasLo := j.ExperienceMin()
	hi, hasHi := j.ExperienceMax()

	var gap float64
	switch {
	case hasLo && years < float64(lo):
		gap = float64(lo) - years
	case hasHi && years > float64(hi):
		gap = years - float64(hi)
	}

	required := formatRange(lo, hasLo, hi, hasHi)
	switch {
	case gap == 0:
		return MaxExperience, fmt.Sprintf("Experience fits: %s years vs %s", formatYears(years), required)
	case gap <= ExperienceCloseYears:
		return experienceClose, fmt.Sprintf("Experience close: %s years vs %s", formatYears(years), required)
	default:
		return 0, ""
	}
}

// scoreRecency compares calendar days in now's location. Zero posted time carries no signal.
func scoreRecency(posted, now time.Time) (int, string) {
	if posted.IsZero() {
		return 0, ""
	}
	days := calendarDays(posted.In(now.Location()), now)
	switch {
	case days == 0:
		return MaxRecency, "Posted today"
	case days < 0:
		return recencyWeek, "Posted recently"
	case days == 1:
		return recencyWeek, "Posted 1 day ago"
	case days <= 7:
		return recencyWeek, fmt.Sprintf("Posted %d days ago", days)
	case days <= 30:
		return recencyMonth, fmt.Sprintf("Posted %d days ago", days)
	default:
		return 0, ""
	}
}

func calendarDays(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a) / day)
}

func formatYears(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatRange(lo int, hasLo bool, hi int, hasHi bool) string {
	var sb strings.Builder
	switch {
	case hasLo && hasHi:
		fmt.Fprintf(&sb, "%d-%d required", lo, hi)
	case hasLo:
		fmt.Fprintf(&sb, "%d+ required", lo)
	case hasHi:
		fmt.Fprintf(&sb, "up to %d required", hi)
	default:
		sb.WriteString("no requirement")
	}
	return sb.String()
}
