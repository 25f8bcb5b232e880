// Package job holds the immutable job posting aggregate.
package job

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/agentjobs/internal/domain/location"
	"github.com/kailas-cloud/agentjobs/internal/domain/skill"
)

// MaxIDLength is the maximum job identifier length.
const MaxIDLength = 128

// Params carries the raw fields of a job posting for construction and storage.
type Params struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	CompanyName      string     `json:"company_name"`
	CompanyID        string     `json:"company_id,omitempty"`
	CompanyIndustry  string     `json:"company_industry,omitempty"`
	CompanySize      string     `json:"company_size,omitempty"`
	Location         string     `json:"location,omitempty"`
	City             string     `json:"city,omitempty"`
	State            string     `json:"state,omitempty"`
	Country          string     `json:"country,omitempty"`
	LocationType     string     `json:"location_type,omitempty"`
	EmploymentType   string     `json:"employment_type,omitempty"`
	Category         string     `json:"category,omitempty"`
	Skills           []string   `json:"skills,omitempty"`
	SalaryMin        *int       `json:"salary_min,omitempty"`
	SalaryMax        *int       `json:"salary_max,omitempty"`
	SalaryText       string     `json:"salary_text,omitempty"`
	ExperienceMin    *int       `json:"experience_min,omitempty"`
	ExperienceMax    *int       `json:"experience_max,omitempty"`
	PostedAt         time.Time  `json:"posted_at"`
	ScrapedAt        *time.Time `json:"scraped_at,omitempty"`
	Description      string     `json:"description,omitempty"`
	DescriptionShort string     `json:"description_short,omitempty"`
	Source           string     `json:"source,omitempty"`
	SourceID         string     `json:"source_id,omitempty"`
	ApplyURL         string     `json:"apply_url,omitempty"`
	Active           bool       `json:"is_active"`
}

// Company identifies the employer of a posting.
type Company struct {
	Name     string
	ID       string
	Industry string
	Size     string
}

// Job is an immutable job posting. Getters return copies; a Job is never mutated after New.
type Job struct {
	id               string
	title            string
	company          Company
	location         string
	place            location.Place
	locationType     LocationType
	employmentType   EmploymentType
	category         string
	skills           []string
	salaryMin        *int
	salaryMax        *int
	salaryText       string
	experienceMin    *int
	experienceMax    *int
	postedAt         time.Time
	scrapedAt        *time.Time
	description      string
	descriptionShort string
	source           string
	sourceID         string
	applyURL         string
	active           bool
}

// New validates and normalizes a job posting.
// Skills are normalized into an ordered set; missing city/state are inferred from Location.
func New(p Params) (Job, error) {
	id := strings.TrimSpace(p.ID)
	if id == "" {
		return Job{}, fmt.Errorf("job id is required")
	}
	if len(id) > MaxIDLength {
		return Job{}, fmt.Errorf("job id too long (max %d)", MaxIDLength)
	}
	if strings.TrimSpace(p.Title) == "" {
		return Job{}, fmt.Errorf("job %s: title is required", id)
	}

	var lt LocationType
	if p.LocationType != "" {
		var ok bool
		if lt, ok = ParseLocationType(p.LocationType); !ok {
			return Job{}, fmt.Errorf("job %s: invalid location_type %q", id, p.LocationType)
		}
	}
	var et EmploymentType
	if p.EmploymentType != "" {
		var ok bool
		if et, ok = ParseEmploymentType(p.EmploymentType); !ok {
			return Job{}, fmt.Errorf("job %s: invalid employment_type %q", id, p.EmploymentType)
		}
	}

	if err := checkRange("salary", p.SalaryMin, p.SalaryMax); err != nil {
		return Job{}, fmt.Errorf("job %s: %w", id, err)
	}
	if err := checkRange("experience", p.ExperienceMin, p.ExperienceMax); err != nil {
		return Job{}, fmt.Errorf("job %s: %w", id, err)
	}

	place := location.Place{
		City:    location.CanonicalCity(p.City),
		State:   location.Fold(p.State),
		Country: location.Fold(p.Country),
	}
	if place.City == "" || place.State == "" {
		inferred := location.Parse(p.Location)
		if place.City == "" {
			place.City = inferred.City
		}
		if place.State == "" {
			place.State = inferred.State
		}
		if place.Country == "" {
			place.Country = inferred.Country
		}
	}

	return Job{
		id:    id,
		title: strings.TrimSpace(p.Title),
		company: Company{
			Name:     strings.TrimSpace(p.CompanyName),
			ID:       strings.TrimSpace(p.CompanyID),
			Industry: p.CompanyIndustry,
			Size:     p.CompanySize,
		},
		location:         strings.TrimSpace(p.Location),
		place:            place,
		locationType:     lt,
		employmentType:   et,
		category:         strings.ToLower(strings.TrimSpace(p.Category)),
		skills:           skill.NormalizeAll(p.Skills),
		salaryMin:        cloneInt(p.SalaryMin),
		salaryMax:        cloneInt(p.SalaryMax),
		salaryText:       p.SalaryText,
		experienceMin:    cloneInt(p.ExperienceMin),
		experienceMax:    cloneInt(p.ExperienceMax),
		postedAt:         p.PostedAt.UTC(),
		scrapedAt:        cloneTime(p.ScrapedAt),
		description:      p.Description,
		descriptionShort: p.DescriptionShort,
		source:           p.Source,
		sourceID:         p.SourceID,
		applyURL:         p.ApplyURL,
		active:           p.Active,
	}, nil
}

func checkRange(name string, lo, hi *int) error {
	if lo != nil && *lo < 0 {
		return fmt.Errorf("%s_min must be non-negative", name)
	}
	if hi != nil && *hi < 0 {
		return fmt.Errorf("%s_max must be non-negative", name)
	}
	if lo != nil && hi != nil && *lo > *hi {
		return fmt.Errorf("%s_min %d exceeds %s_max %d", name, *lo, name, *hi)
	}
	return nil
}

// ID returns the unique job identifier.
func (j *Job) ID() string { return j.id }

// Title returns the job title.
func (j *Job) Title() string { return j.title }

// Company returns the employer.
func (j *Job) Company() Company { return j.company }

// Location returns the free-text location.
func (j *Job) Location() string { return j.location }

// Place returns the normalized city, state and country.
func (j *Job) Place() location.Place { return j.place }

// LocationType returns onsite, remote, hybrid or "" when unknown.
func (j *Job) LocationType() LocationType { return j.locationType }

// EmploymentType returns the employment type or "" when unknown.
func (j *Job) EmploymentType() EmploymentType { return j.employmentType }

// Category returns the lowercase category.
func (j *Job) Category() string { return j.category }

// Skills returns a copy of the normalized required skills in listed order.
func (j *Job) Skills() []string {
	if j.skills == nil {
		return nil
	}
	out := make([]string, len(j.skills))
	copy(out, j.skills)
	return out
}

// SkillCount returns the number of required skills without copying.
func (j *Job) SkillCount() int { return len(j.skills) }

// SalaryMin returns the salary floor and whether it is known.
func (j *Job) SalaryMin() (int, bool) { return deref(j.salaryMin) }

// SalaryMax returns the salary ceiling and whether it is known.
func (j *Job) SalaryMax() (int, bool) { return deref(j.salaryMax) }

// SalaryText returns the raw salary description.
func (j *Job) SalaryText() string { return j.salaryText }

// ExperienceMin returns the minimum years of experience and whether it is known.
func (j *Job) ExperienceMin() (int, bool) { return deref(j.experienceMin) }

// ExperienceMax returns the maximum years of experience and whether it is known.
func (j *Job) ExperienceMax() (int, bool) { return deref(j.experienceMax) }

// PostedAt returns the posting time (UTC). Zero means unknown.
func (j *Job) PostedAt() time.Time { return j.postedAt }

// Description returns the full description.
func (j *Job) Description() string { return j.description }

// DescriptionShort returns the summary description.
func (j *Job) DescriptionShort() string { return j.descriptionShort }

// Source returns the provenance tag.
func (j *Job) Source() string { return j.source }

// ApplyURL returns the application link.
func (j *Job) ApplyURL() string { return j.applyURL }

// Active reports whether the posting is open.
func (j *Job) Active() bool { return j.active }

// Params returns the storage form of the job.
func (j *Job) Params() Params {
	return Params{
		ID:               j.id,
		Title:            j.title,
		CompanyName:      j.company.Name,
		CompanyID:        j.company.ID,
		CompanyIndustry:  j.company.Industry,
		CompanySize:      j.company.Size,
		Location:         j.location,
		City:             j.place.City,
		State:            j.place.State,
		Country:          j.place.Country,
		LocationType:     string(j.locationType),
		EmploymentType:   string(j.employmentType),
		Category:         j.category,
		Skills:           j.Skills(),
		SalaryMin:        cloneInt(j.salaryMin),
		SalaryMax:        cloneInt(j.salaryMax),
		SalaryText:       j.salaryText,
		ExperienceMin:    cloneInt(j.experienceMin),
		ExperienceMax:    cloneInt(j.experienceMax),
		PostedAt:         j.postedAt,
		ScrapedAt:        cloneTime(j.scrapedAt),
		Description:      j.description,
		DescriptionShort: j.descriptionShort,
		Source:           j.source,
		SourceID:         j.sourceID,
		ApplyURL:         j.applyURL,
		Active:           j.active,
	}
}

func deref(p *int) (int, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := p.UTC()
	return &v
}
