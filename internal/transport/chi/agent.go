package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/agentjobs/internal/domain/profile"
	"github.com/kailas-cloud/agentjobs/internal/domain/search/filter"
	matchuc "github.com/kailas-cloud/agentjobs/internal/usecase/match"
)

// AgentFilters are the optional hard constraints of an agent search.
type AgentFilters struct {
	LocationType   string   `json:"location_type,omitempty"`
	Location       string   `json:"location,omitempty"`
	EmploymentType string   `json:"employment_type,omitempty"`
	Category       string   `json:"category,omitempty"`
	Company        string   `json:"company,omitempty"`
	Skills         []string `json:"skills,omitempty"`
	SalaryMax      *int     `json:"salary_max,omitempty"`
	ExperienceMin  *int     `json:"experience_min,omitempty"`
	ExperienceMax  *int     `json:"experience_max,omitempty"`
}

// AgentSearchRequest is the body of POST /api/v1/agent/search.
type AgentSearchRequest struct {
	ResumeText         string        `json:"resume_text,omitempty"`
	Skills             []string      `json:"skills,omitempty"`
	ExperienceYears    *float64      `json:"experience_years,omitempty"`
	PreferredLocations []string      `json:"preferred_locations,omitempty"`
	SalaryMin          *int          `json:"salary_min,omitempty"`
	JobPreferences     string        `json:"job_preferences,omitempty"`
	Limit              int           `json:"limit,omitempty"`
	Filters            *AgentFilters `json:"filters,omitempty"`
}

func (f *AgentFilters) constraints() filter.Constraints {
	if f == nil {
		return filter.Constraints{}
	}
	return filter.Constraints{
		Company:        f.Company,
		Location:       f.Location,
		LocationType:   f.LocationType,
		EmploymentType: f.EmploymentType,
		Category:       f.Category,
		Skills:         f.Skills,
		SalaryMax:      f.SalaryMax,
		ExperienceMin:  f.ExperienceMin,
		ExperienceMax:  f.ExperienceMax,
	}
}

// AgentSearch handles POST /api/v1/agent/search.
func (s *Server) AgentSearch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var body AgentSearchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, ErrorCodeBadRequest, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid request body")
		return
	}

	p, err := profile.New(profile.Params{
		Skills:             body.Skills,
		ExperienceYears:    body.ExperienceYears,
		PreferredLocations: body.PreferredLocations,
		SalaryMin:          body.SalaryMin,
		ResumeText:         body.ResumeText,
		JobPreferences:     body.JobPreferences,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	out, err := s.match.Match(r.Context(), matchuc.Query{
		Profile: p,
		Filters: body.Filters.constraints(),
		Limit:   body.Limit,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	jobs := make([]MatchedJob, len(out.Results))
	for i := range out.Results {
		jobs[i] = resultToMatched(&out.Results[i])
	}

	writeJSON(w, http.StatusOK, AgentSearchResponse{
		SessionID:       out.SessionID,
		QueryTimeMs:     queryTimeMs(start),
		MatchCount:      out.MatchCount(),
		ExtractedSkills: nonNil(out.ExtractedSkills),
		Jobs:            jobs,
	})
}

// GetAgentSession handles GET /api/v1/agent/session/{id}.
func (s *Server) GetAgentSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.match.Session(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}
