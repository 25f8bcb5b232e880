// Package session records agent match sessions for later retrieval.
package session

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IDPrefix starts every session id.
const IDPrefix = "sess_"

var idRegex = regexp.MustCompile(`^sess_[0-9a-f]{12}$`)

// NewID returns a fresh session id such as "sess_1a2b3c4d5e6f".
func NewID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return IDPrefix + hex[:12]
}

// ValidID reports whether id has the session id shape.
func ValidID(id string) bool {
	return idRegex.MatchString(id)
}

// Match is one stored match of a session.
type Match struct {
	JobID         string   `json:"job_id"`
	Title         string   `json:"title"`
	Company       string   `json:"company"`
	Score         int      `json:"match_score"`
	SkillsMatch   []string `json:"skills_match,omitempty"`
	SkillsMissing []string `json:"skills_missing,omitempty"`
	Reasons       []string `json:"match_reasons,omitempty"`
}

// Session is the stored record of one agent match call.
type Session struct {
	ID                 string    `json:"id"`
	CreatedAt          time.Time `json:"created_at"`
	SnapshotVersion    uint64    `json:"snapshot_version"`
	Skills             []string  `json:"skills,omitempty"`
	ExtractedSkills    []string  `json:"extracted_skills,omitempty"`
	ExperienceYears    *float64  `json:"experience_years,omitempty"`
	PreferredLocations []string  `json:"preferred_locations,omitempty"`
	SalaryMin          *int      `json:"salary_min,omitempty"`
	JobPreferences     string    `json:"job_preferences,omitempty"`
	Matches            []Match   `json:"matches"`
}
