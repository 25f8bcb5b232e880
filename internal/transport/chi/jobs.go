package chi

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/agentjobs/internal/domain"
	"github.com/kailas-cloud/agentjobs/internal/domain/search/filter"
	"github.com/kailas-cloud/agentjobs/internal/domain/search/order"
	"github.com/kailas-cloud/agentjobs/internal/domain/search/request"
)

// ListJobsParams are the query parameters of GET /api/v1/jobs.
type ListJobsParams struct {
	Q               *string
	Title           *string
	Location        *string
	LocationType    *string
	Company         *string
	Skills          *[]string
	SalaryMin       *int
	SalaryMax       *int
	ExperienceMin   *int
	ExperienceMax   *int
	ExperienceYears *float64
	Category        *string
	EmploymentType  *string
	PostedAfter     *string
	Sort            *string
	Limit           *int
	Offset          *int
}

// queryBinding binds one optional form-style query parameter.
type queryBinding struct {
	name    string
	explode bool
	dest    any
}

func bindQuery(q url.Values, bindings []queryBinding) error {
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", b.explode, false, b.name, q, b.dest); err != nil {
			return domain.NewFieldError(b.name, "has an invalid format")
		}
	}
	return nil
}

// BindListJobsParams decodes the job list query string. skills is comma-separated.
func BindListJobsParams(q url.Values) (ListJobsParams, error) {
	var p ListJobsParams
	err := bindQuery(q, []queryBinding{
		{"q", true, &p.Q},
		{"title", true, &p.Title},
		{"location", true, &p.Location},
		{"location_type", true, &p.LocationType},
		{"company", true, &p.Company},
		{"skills", false, &p.Skills},
		{"salary_min", true, &p.SalaryMin},
		{"salary_max", true, &p.SalaryMax},
		{"experience_min", true, &p.ExperienceMin},
		{"experience_max", true, &p.ExperienceMax},
		{"experience_years", true, &p.ExperienceYears},
		{"category", true, &p.Category},
		{"employment_type", true, &p.EmploymentType},
		{"posted_after", true, &p.PostedAfter},
		{"sort", true, &p.Sort},
		{"limit", true, &p.Limit},
		{"offset", true, &p.Offset},
	})
	return p, err
}

// Constraints converts the structured filter parameters.
func (p *ListJobsParams) Constraints() (filter.Constraints, error) {
	c := filter.Constraints{
		Title:           deref(p.Title),
		Company:         deref(p.Company),
		Location:        deref(p.Location),
		LocationType:    deref(p.LocationType),
		EmploymentType:  deref(p.EmploymentType),
		Category:        deref(p.Category),
		SalaryMin:       p.SalaryMin,
		SalaryMax:       p.SalaryMax,
		ExperienceYears: p.ExperienceYears,
		ExperienceMin:   p.ExperienceMin,
		ExperienceMax:   p.ExperienceMax,
	}
	if p.Skills != nil {
		c.Skills = *p.Skills
	}
	if since := deref(p.PostedAfter); since != "" {
		t, err := parsePostedAfter(since)
		if err != nil {
			return filter.Constraints{}, err
		}
		c.PostedSince = t
	}
	return c, nil
}

// parsePostedAfter accepts RFC 3339 timestamps and plain dates (UTC midnight).
func parsePostedAfter(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, domain.NewFieldError("posted_after", "must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
}

// ListJobs handles GET /api/v1/jobs.
func (s *Server) ListJobs(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	params, err := BindListJobsParams(r.URL.Query())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	constraints, err := params.Constraints()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	req, err := request.New(
		deref(params.Q),
		constraints,
		order.Order(strings.ToLower(deref(params.Sort))),
		derefInt(params.Limit),
		derefInt(params.Offset),
		s.paging,
	)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	page, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	jobs := page.Jobs()
	items := make([]JobSummary, len(jobs))
	for i := range jobs {
		items[i] = jobToSummary(&jobs[i])
	}

	writeJSON(w, http.StatusOK, JobListResponse{
		Count:       page.Count(),
		Total:       page.Total(),
		QueryTimeMs: queryTimeMs(start),
		Facets:      facetsToResponse(page.Facets()),
		Jobs:        items,
	})
}

// GetJob handles GET /api/v1/jobs/{id}.
func (s *Server) GetJob(w http.ResponseWriter, r *http.Request) {
	j, err := s.search.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobToDetail(&j))
}

// SimilarJobs handles GET /api/v1/jobs/{id}/similar.
func (s *Server) SimilarJobs(w http.ResponseWriter, r *http.Request) {
	var limit *int
	if err := bindQuery(r.URL.Query(), []queryBinding{{"limit", true, &limit}}); err != nil {
		s.handleDomainError(w, err)
		return
	}
	if limit != nil && *limit < 0 {
		s.handleDomainError(w, domain.NewFieldError("limit", "must be positive"))
		return
	}

	items, err := s.search.Similar(r.Context(), chi.URLParam(r, "id"), derefInt(limit))
	if err != nil {
		s.handleDomainError(w, fmt.Errorf("similar jobs: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, similarToResponse(items))
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
