// Package profile holds the candidate profile submitted for matching.
package profile

import (
	"strings"

	"github.com/kailas-cloud/agentjobs/internal/domain"
	"github.com/kailas-cloud/agentjobs/internal/domain/skill"
)

// Upper bounds accepted at the boundary.
const (
	MaxExperienceYears    = 60
	MaxPreferredLocations = 20
	MaxSkills             = 100
	MaxResumeLength       = 50000
)

// Params carries the raw candidate fields of one request.
type Params struct {
	Skills             []string
	ExperienceYears    *float64
	PreferredLocations []string
	SalaryMin          *int
	ResumeText         string
	JobPreferences     string
}

// Profile is an ephemeral, validated candidate profile.
type Profile struct {
	skills             []string
	experienceYears    *float64
	preferredLocations []string
	salaryMin          *int
	resumeText         string
	jobPreferences     string
}

// New validates p and normalizes its skills.
func New(p Params) (Profile, error) {
	if p.ExperienceYears != nil {
		if *p.ExperienceYears < 0 {
			return Profile{}, domain.NewFieldError("experience_years", "must be non-negative")
		}
		if *p.ExperienceYears > MaxExperienceYears {
			return Profile{}, domain.NewFieldError("experience_years", "is unrealistically large")
		}
	}
	if p.SalaryMin != nil && *p.SalaryMin < 0 {
		return Profile{}, domain.NewFieldError("salary_min", "must be non-negative")
	}
	if len(p.Skills) > MaxSkills {
		return Profile{}, domain.NewFieldError("skills", "has too many entries")
	}
	if len(p.PreferredLocations) > MaxPreferredLocations {
		return Profile{}, domain.NewFieldError("preferred_locations", "has too many entries")
	}
	if len(p.ResumeText) > MaxResumeLength {
		return Profile{}, domain.NewFieldError("resume_text", "is too long")
	}

	var locs []string
	for _, l := range p.PreferredLocations {
		if l = strings.TrimSpace(l); l != "" {
			locs = append(locs, l)
		}
	}

	pr := Profile{
		skills:             skill.NormalizeAll(p.Skills),
		preferredLocations: locs,
		resumeText:         strings.TrimSpace(p.ResumeText),
		jobPreferences:     strings.TrimSpace(p.JobPreferences),
	}
	if p.ExperienceYears != nil {
		v := *p.ExperienceYears
		pr.experienceYears = &v
	}
	if p.SalaryMin != nil {
		v := *p.SalaryMin
		pr.salaryMin = &v
	}
	return pr, nil
}

// IsEmpty reports whether the profile carries none of resume text, skills or job preferences.
func (p *Profile) IsEmpty() bool {
	return len(p.skills) == 0 && p.resumeText == "" && p.jobPreferences == ""
}

// WithSkills returns a copy of the profile with skills replaced by the normalized list.
func (p *Profile) WithSkills(skills []string) Profile {
	c := *p
	c.skills = skill.NormalizeAll(skills)
	return c
}

// Skills returns a copy of the normalized candidate skills.
func (p *Profile) Skills() []string {
	if p.skills == nil {
		return nil
	}
	out := make([]string, len(p.skills))
	copy(out, p.skills)
	return out
}

// ExperienceYears returns the stated experience and whether it was provided.
func (p *Profile) ExperienceYears() (float64, bool) {
	if p.experienceYears == nil {
		return 0, false
	}
	return *p.experienceYears, true
}

// PreferredLocations returns a copy of the preferred locations.
func (p *Profile) PreferredLocations() []string {
	if p.preferredLocations == nil {
		return nil
	}
	out := make([]string, len(p.preferredLocations))
	copy(out, p.preferredLocations)
	return out
}

// SalaryMin returns the minimum acceptable salary and whether it was provided.
func (p *Profile) SalaryMin() (int, bool) {
	if p.salaryMin == nil {
		return 0, false
	}
	return *p.salaryMin, true
}

// ResumeText returns the resume text.
func (p *Profile) ResumeText() string { return p.resumeText }

// JobPreferences returns the free-text job preferences.
func (p *Profile) JobPreferences() string { return p.jobPreferences }
