// Package stats derives catalog statistics from the current corpus snapshot.
package stats

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/kailas-cloud/agentjobs/internal/domain"
	"github.com/kailas-cloud/agentjobs/internal/domain/job"
	"github.com/kailas-cloud/agentjobs/internal/domain/search/result"
)

// Output sizes.
const (
	TopLocations        = 20
	TrendingSkills      = 30
	DefaultCompanyLimit = 50
	MaxCompanyLimit     = 200
	Uncategorized       = "uncategorized"
	UnknownLocation     = "Unknown"
)

// Overview is the catalog summary.
type Overview struct {
	TotalJobs       int
	ActiveJobs      int
	Companies       int
	Categories      []result.FacetCount
	Locations       []result.FacetCount
	SnapshotVersion uint64
	UpdatedAt       time.Time
}

// SkillCount is one trending skill.
type SkillCount struct {
	Skill      string
	Count      int
	Percentage float64
}

// Trending is the skill demand summary.
type Trending struct {
	Skills       []SkillCount
	JobsAnalyzed int
}

// Company aggregates the active postings of one employer.
type Company struct {
	ID             string
	Name           string
	Industry       string
	Size           string
	ActiveJobCount int
}

// CompanyQuery filters and pages the company list.
type CompanyQuery struct {
	Name     string
	Industry string
	Limit    int
	Offset   int
}

// Service computes statistics over one snapshot per call.
type Service struct {
	corpus SnapshotSource
}

// New creates a stats service.
func New(src SnapshotSource) *Service {
	return &Service{corpus: src}
}

// Overview returns job, company, category and top location counts.
func (s *Service) Overview(_ context.Context) (Overview, error) {
	snap := s.corpus.Load()
	if snap == nil {
		return Overview{}, domain.ErrCorpusNotReady
	}
	jobs := snap.Jobs()

	locations := map[string]int{}
	for i := range jobs {
		loc := jobs[i].Location()
		if loc == "" {
			loc = UnknownLocation
		}
		locations[loc]++
	}
	top := result.SortedCounts(locations)
	if len(top) > TopLocations {
		top = top[:TopLocations]
	}

	return Overview{
		TotalJobs:       snap.Loaded(),
		ActiveJobs:      snap.Len(),
		Companies:       len(companies(snap.Jobs())),
		Categories:      categories(snap.Jobs()),
		Locations:       top,
		SnapshotVersion: snap.Version(),
		UpdatedAt:       snap.LoadedAt(),
	}, nil
}

// Categories returns every category with its active job count.
func (s *Service) Categories(_ context.Context) ([]result.FacetCount, error) {
	snap := s.corpus.Load()
	if snap == nil {
		return nil, domain.ErrCorpusNotReady
	}
	return categories(snap.Jobs()), nil
}

// TrendingSkills returns the most requested skills with their share of jobs that list skills.
func (s *Service) TrendingSkills(_ context.Context) (Trending, error) {
	snap := s.corpus.Load()
	if snap == nil {
		return Trending{}, domain.ErrCorpusNotReady
	}
	jobs := snap.Jobs()

	counts := map[string]int{}
	analyzed := 0
	for i := range jobs {
		skills := jobs[i].Skills()
		if len(skills) == 0 {
			continue
		}
		analyzed++
		for _, sk := range skills {
			counts[sk]++
		}
	}

	ranked := result.SortedCounts(counts)
	if len(ranked) > TrendingSkills {
		ranked = ranked[:TrendingSkills]
	}
	out := make([]SkillCount, 0, len(ranked))
	for _, c := range ranked {
		out = append(out, SkillCount{
			Skill:      c.Value,
			Count:      c.Count,
			Percentage: percentage(c.Count, analyzed),
		})
	}
	return Trending{Skills: out, JobsAnalyzed: analyzed}, nil
}

// Companies lists employers by active job count desc, then name asc, with the total before paging.
func (s *Service) Companies(_ context.Context, q CompanyQuery) ([]Company, int, error) {
	snap := s.corpus.Load()
	if snap == nil {
		return nil, 0, domain.ErrCorpusNotReady
	}
	if q.Limit < 0 || q.Offset < 0 {
		return nil, 0, domain.NewFieldError("limit", "and offset must be non-negative")
	}
	if q.Limit == 0 {
		q.Limit = DefaultCompanyLimit
	}
	if q.Limit > MaxCompanyLimit {
		q.Limit = MaxCompanyLimit
	}

	name := strings.ToLower(strings.TrimSpace(q.Name))
	industry := strings.ToLower(strings.TrimSpace(q.Industry))

	all := companies(snap.Jobs())
	filtered := all[:0]
	for _, c := range all {
		if name != "" && !strings.Contains(strings.ToLower(c.Name), name) {
			continue
		}
		if industry != "" && strings.ToLower(c.Industry) != industry {
			continue
		}
		filtered = append(filtered, c)
	}

	total := len(filtered)
	if q.Offset >= total {
		return []Company{}, total, nil
	}
	end := q.Offset + q.Limit
	if end > total {
		end = total
	}
	return filtered[q.Offset:end], total, nil
}

func categories(jobs []job.Job) []result.FacetCount {
	counts := map[string]int{}
	for i := range jobs {
		c := jobs[i].Category()
		if c == "" {
			c = Uncategorized
		}
		counts[c]++
	}
	return result.SortedCounts(counts)
}

// companies groups jobs by company id, or by folded name when the id is missing.
func companies(jobs []job.Job) []Company {
	byKey := map[string]*Company{}
	for i := range jobs {
		c := jobs[i].Company()
		if c.Name == "" && c.ID == "" {
			continue
		}
		key := c.ID
		if key == "" {
			key = "name:" + strings.ToLower(c.Name)
		}
		agg, ok := byKey[key]
		if !ok {
			agg = &Company{ID: c.ID, Name: c.Name, Industry: c.Industry, Size: c.Size}
			byKey[key] = agg
		}
		agg.ActiveJobCount++
	}

	out := make([]Company, 0, len(byKey))
	for _, c := range byKey {
		out = append(out, *c)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].ActiveJobCount != out[b].ActiveJobCount {
			return out[a].ActiveJobCount > out[b].ActiveJobCount
		}
		if out[a].Name != out[b].Name {
			return out[a].Name < out[b].Name
		}
		return out[a].ID < out[b].ID
	})
	return out
}

func percentage(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(n)/float64(total)*1000) / 10
}
