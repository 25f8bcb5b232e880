package chi

import (
	"net/http"

	statsuc "github.com/kailas-cloud/agentjobs/internal/usecase/stats"
)

// Stats handles GET /api/v1/stats.
func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	ov, err := s.stats.Overview(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{
		TotalJobs:       ov.TotalJobs,
		TotalCompanies:  ov.Companies,
		TotalActiveJobs: ov.ActiveJobs,
		Categories:      categoryCounts(ov.Categories),
		Locations:       locationCounts(ov.Locations),
		SnapshotVersion: ov.SnapshotVersion,
		UpdatedAt:       ov.UpdatedAt,
	})
}

// Categories handles GET /api/v1/categories.
func (s *Server) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.stats.Categories(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CategoriesResponse{Categories: categoryCounts(cats)})
}

// TrendingSkills handles GET /api/v1/skills/trending.
func (s *Server) TrendingSkills(w http.ResponseWriter, r *http.Request) {
	tr, err := s.stats.TrendingSkills(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	skills := make([]TrendingSkill, len(tr.Skills))
	for i, sk := range tr.Skills {
		skills[i] = TrendingSkill{Skill: sk.Skill, Count: sk.Count, Percentage: sk.Percentage}
	}
	writeJSON(w, http.StatusOK, TrendingSkillsResponse{
		Skills:            skills,
		TotalJobsAnalyzed: tr.JobsAnalyzed,
	})
}

// ListCompanies handles GET /api/v1/companies.
func (s *Server) ListCompanies(w http.ResponseWriter, r *http.Request) {
	var (
		name, industry *string
		limit, offset  *int
	)
	if err := bindQuery(r.URL.Query(), []queryBinding{
		{"q", true, &name},
		{"industry", true, &industry},
		{"limit", true, &limit},
		{"offset", true, &offset},
	}); err != nil {
		s.handleDomainError(w, err)
		return
	}

	items, total, err := s.stats.Companies(r.Context(), statsuc.CompanyQuery{
		Name:     deref(name),
		Industry: deref(industry),
		Limit:    derefInt(limit),
		Offset:   derefInt(offset),
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, companiesToResponse(items, total))
}
