package result

import (
	"sort"

	"github.com/kailas-cloud/agentjobs/internal/domain/job"
)

// FacetCount is the number of filtered jobs sharing one field value.
type FacetCount struct {
	Value string
	Count int
}

// Facets summarizes the filtered set before pagination.
type Facets struct {
	Categories      []FacetCount
	LocationTypes   []FacetCount
	EmploymentTypes []FacetCount
}

// Page is one page of a plain search.
type Page struct {
	jobs   []job.Job
	total  int
	facets Facets
}

// New creates a search page. total is the filtered count before pagination.
func New(jobs []job.Job, total int, facets Facets) Page {
	return Page{jobs: jobs, total: total, facets: facets}
}

// Jobs returns the jobs of this page in result order.
func (p *Page) Jobs() []job.Job { return p.jobs }

// Count returns the number of jobs on this page.
func (p *Page) Count() int { return len(p.jobs) }

// Total returns the number of jobs that matched before pagination.
func (p *Page) Total() int { return p.total }

// Facets returns the facet counts of the filtered set.
func (p *Page) Facets() Facets { return p.facets }

// ComputeFacets counts category, location type and employment type values.
// Empty values are skipped. Each list is ordered by count desc, then value asc.
func ComputeFacets(jobs []job.Job) Facets {
	cat := map[string]int{}
	lt := map[string]int{}
	et := map[string]int{}
	for i := range jobs {
		j := &jobs[i]
		if c := j.Category(); c != "" {
			cat[c]++
		}
		if t := j.LocationType(); t != "" {
			lt[string(t)]++
		}
		if t := j.EmploymentType(); t != "" {
			et[string(t)]++
		}
	}
	return Facets{
		Categories:      SortedCounts(cat),
		LocationTypes:   SortedCounts(lt),
		EmploymentTypes: SortedCounts(et),
	}
}

// SortedCounts orders counts by count desc, then value asc.
func SortedCounts(counts map[string]int) []FacetCount {
	out := make([]FacetCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, FacetCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}
