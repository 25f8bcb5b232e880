package chi

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/agentjobs/internal/domain/job"
	dommatch "github.com/kailas-cloud/agentjobs/internal/domain/match"
	"github.com/kailas-cloud/agentjobs/internal/domain/search/result"
	searchuc "github.com/kailas-cloud/agentjobs/internal/usecase/search"
	statsuc "github.com/kailas-cloud/agentjobs/internal/usecase/stats"
)

// ErrorCode is the machine-readable error code of an ErrorResponse.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest            ErrorCode = "bad_request"
	ErrorCodeValidationFailed      ErrorCode = "validation_failed"
	ErrorCodeUnauthorized          ErrorCode = "unauthorized"
	ErrorCodeNotFound              ErrorCode = "not_found"
	ErrorCodeJobNotFound           ErrorCode = "job_not_found"
	ErrorCodeSessionNotFound       ErrorCode = "session_not_found"
	ErrorCodeCorpusNotReady        ErrorCode = "corpus_not_ready"
	ErrorCodeSkillExtractionFailed ErrorCode = "skill_extraction_failed"
	ErrorCodeInternalError         ErrorCode = "internal_error"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status        string            `json:"status"`
	Checks        map[string]string `json:"checks"`
	CorpusVersion uint64            `json:"corpus_version"`
	CorpusJobs    int               `json:"corpus_jobs"`
}

// CompanySummary is the employer block embedded in job replies.
type CompanySummary struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Industry string `json:"industry,omitempty"`
	Size     string `json:"size,omitempty"`
}

// JobSummary is one job in list replies.
type JobSummary struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	Company          CompanySummary `json:"company"`
	Location         string         `json:"location,omitempty"`
	LocationType     string         `json:"location_type,omitempty"`
	SalaryRange      string         `json:"salary_range,omitempty"`
	SalaryMin        *int           `json:"salary_min"`
	SalaryMax        *int           `json:"salary_max"`
	Experience       string         `json:"experience,omitempty"`
	Skills           []string       `json:"skills"`
	Category         string         `json:"category,omitempty"`
	EmploymentType   string         `json:"employment_type,omitempty"`
	DescriptionShort string         `json:"description_short,omitempty"`
	PostedAt         *time.Time     `json:"posted_at"`
	ApplyURL         string         `json:"apply_url,omitempty"`
	Source           string         `json:"source,omitempty"`
}

// JobDetail is the reply of GET /api/v1/jobs/{id}.
type JobDetail struct {
	JobSummary
	Description   string     `json:"description,omitempty"`
	ExperienceMin *int       `json:"experience_min"`
	ExperienceMax *int       `json:"experience_max"`
	SalaryText    string     `json:"salary_text,omitempty"`
	SourceID      string     `json:"source_id,omitempty"`
	ScrapedAt     *time.Time `json:"scraped_at,omitempty"`
	IsActive      bool       `json:"is_active"`
}

// FacetCount is one facet bucket.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Facets groups the facet buckets of a search reply.
type Facets struct {
	Categories      []FacetCount `json:"categories"`
	LocationTypes   []FacetCount `json:"location_types"`
	EmploymentTypes []FacetCount `json:"employment_types"`
}

// JobListResponse is the reply of GET /api/v1/jobs.
type JobListResponse struct {
	Count       int          `json:"count"`
	Total       int          `json:"total"`
	QueryTimeMs float64      `json:"query_time_ms"`
	Facets      Facets       `json:"facets"`
	Jobs        []JobSummary `json:"jobs"`
}

// SimilarJob is one entry of GET /api/v1/jobs/{id}/similar.
type SimilarJob struct {
	JobSummary
	Similarity float64 `json:"similarity"`
}

// SimilarJobsResponse is the reply of GET /api/v1/jobs/{id}/similar.
type SimilarJobsResponse struct {
	Count int          `json:"count"`
	Jobs  []SimilarJob `json:"jobs"`
}

// MatchedJob is one ranked job of an agent search.
type MatchedJob struct {
	ID               string             `json:"id"`
	Title            string             `json:"title"`
	Company          string             `json:"company"`
	Location         string             `json:"location,omitempty"`
	SalaryRange      string             `json:"salary_range,omitempty"`
	MatchScore       int                `json:"match_score"`
	MatchReasons     []string           `json:"match_reasons"`
	ScoreBreakdown   dommatch.Breakdown `json:"score_breakdown"`
	DescriptionShort string             `json:"description_short,omitempty"`
	ApplyURL         string             `json:"apply_url,omitempty"`
	SkillsMatch      []string           `json:"skills_match"`
	SkillsMissing    []string           `json:"skills_missing"`
}

// AgentSearchResponse is the reply of POST /api/v1/agent/search.
type AgentSearchResponse struct {
	SessionID       string       `json:"session_id"`
	QueryTimeMs     float64      `json:"query_time_ms"`
	MatchCount      int          `json:"match_count"`
	ExtractedSkills []string     `json:"extracted_skills"`
	Jobs            []MatchedJob `json:"jobs"`
}

// CategoryCount is one category bucket of the stats replies.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// LocationCount is one location bucket of the stats reply.
type LocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// StatsResponse is the reply of GET /api/v1/stats.
type StatsResponse struct {
	TotalJobs       int             `json:"total_jobs"`
	TotalCompanies  int             `json:"total_companies"`
	TotalActiveJobs int             `json:"total_active_jobs"`
	Categories      []CategoryCount `json:"categories"`
	Locations       []LocationCount `json:"locations"`
	SnapshotVersion uint64          `json:"snapshot_version"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CategoriesResponse is the reply of GET /api/v1/categories.
type CategoriesResponse struct {
	Categories []CategoryCount `json:"categories"`
}

// TrendingSkill is one skill of the trending reply.
type TrendingSkill struct {
	Skill      string  `json:"skill"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// TrendingSkillsResponse is the reply of GET /api/v1/skills/trending.
type TrendingSkillsResponse struct {
	Skills            []TrendingSkill `json:"skills"`
	TotalJobsAnalyzed int             `json:"total_jobs_analyzed"`
}

// CompanyResponse is one company of the companies reply.
type CompanyResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Industry       string `json:"industry,omitempty"`
	Size           string `json:"size,omitempty"`
	ActiveJobCount int    `json:"active_job_count"`
}

// CompanyListResponse is the reply of GET /api/v1/companies.
type CompanyListResponse struct {
	Count     int               `json:"count"`
	Total     int               `json:"total"`
	Companies []CompanyResponse `json:"companies"`
}

func jobToSummary(j *job.Job) JobSummary {
	c := j.Company()
	s := JobSummary{
		ID:    j.ID(),
		Title: j.Title(),
		Company: CompanySummary{
			ID:       c.ID,
			Name:     companyName(c),
			Industry: c.Industry,
			Size:     c.Size,
		},
		Location:         j.Location(),
		LocationType:     string(j.LocationType()),
		SalaryRange:      salaryRange(j),
		SalaryMin:        intPtr(j.SalaryMin()),
		SalaryMax:        intPtr(j.SalaryMax()),
		Experience:       experienceText(j),
		Skills:           nonNil(j.Skills()),
		Category:         j.Category(),
		EmploymentType:   string(j.EmploymentType()),
		DescriptionShort: j.DescriptionShort(),
		ApplyURL:         j.ApplyURL(),
		Source:           j.Source(),
	}
	if t := j.PostedAt(); !t.IsZero() {
		s.PostedAt = &t
	}
	return s
}

func jobToDetail(j *job.Job) JobDetail {
	p := j.Params()
	return JobDetail{
		JobSummary:    jobToSummary(j),
		Description:   j.Description(),
		ExperienceMin: intPtr(j.ExperienceMin()),
		ExperienceMax: intPtr(j.ExperienceMax()),
		SalaryText:    j.SalaryText(),
		SourceID:      p.SourceID,
		ScrapedAt:     p.ScrapedAt,
		IsActive:      j.Active(),
	}
}

func resultToMatched(r *dommatch.Result) MatchedJob {
	j := r.Job()
	return MatchedJob{
		ID:               j.ID(),
		Title:            j.Title(),
		Company:          companyName(j.Company()),
		Location:         j.Location(),
		SalaryRange:      salaryRange(j),
		MatchScore:       r.Score(),
		MatchReasons:     nonNil(r.Reasons()),
		ScoreBreakdown:   r.Breakdown(),
		DescriptionShort: j.DescriptionShort(),
		ApplyURL:         j.ApplyURL(),
		SkillsMatch:      nonNil(r.SkillsMatch()),
		SkillsMissing:    nonNil(r.SkillsMissing()),
	}
}

func similarToResponse(items []searchuc.SimilarJob) SimilarJobsResponse {
	out := make([]SimilarJob, len(items))
	for i := range items {
		out[i] = SimilarJob{
			JobSummary: jobToSummary(&items[i].Job),
			Similarity: float64(int(items[i].Similarity*1000+0.5)) / 1000,
		}
	}
	return SimilarJobsResponse{Count: len(out), Jobs: out}
}

func facetsToResponse(f result.Facets) Facets {
	return Facets{
		Categories:      facetCounts(f.Categories),
		LocationTypes:   facetCounts(f.LocationTypes),
		EmploymentTypes: facetCounts(f.EmploymentTypes),
	}
}

func facetCounts(in []result.FacetCount) []FacetCount {
	out := make([]FacetCount, len(in))
	for i, c := range in {
		out[i] = FacetCount{Value: c.Value, Count: c.Count}
	}
	return out
}

func categoryCounts(in []result.FacetCount) []CategoryCount {
	out := make([]CategoryCount, len(in))
	for i, c := range in {
		out[i] = CategoryCount{Category: c.Value, Count: c.Count}
	}
	return out
}

func locationCounts(in []result.FacetCount) []LocationCount {
	out := make([]LocationCount, len(in))
	for i, c := range in {
		out[i] = LocationCount{Location: c.Value, Count: c.Count}
	}
	return out
}

func companiesToResponse(in []statsuc.Company, total int) CompanyListResponse {
	out := make([]CompanyResponse, len(in))
	for i, c := range in {
		out[i] = CompanyResponse{
			ID:             c.ID,
			Name:           c.Name,
			Industry:       c.Industry,
			Size:           c.Size,
			ActiveJobCount: c.ActiveJobCount,
		}
	}
	return CompanyListResponse{Count: len(out), Total: total, Companies: out}
}

func companyName(c job.Company) string {
	if c.Name == "" {
		return "Unknown"
	}
	return c.Name
}

// salaryRange renders monthly INR salary bounds.
func salaryRange(j *job.Job) string {
	lo, hasLo := j.SalaryMin()
	hi, hasHi := j.SalaryMax()
	switch {
	case hasLo && hasHi:
		return fmt.Sprintf("₹%s - ₹%s/month", groupThousands(lo), groupThousands(hi))
	case hasLo:
		return fmt.Sprintf("₹%s+/month", groupThousands(lo))
	case hasHi:
		return fmt.Sprintf("Up to ₹%s/month", groupThousands(hi))
	default:
		return ""
	}
}

func experienceText(j *job.Job) string {
	lo, hasLo := j.ExperienceMin()
	hi, hasHi := j.ExperienceMax()
	switch {
	case hasLo && hasHi:
		return fmt.Sprintf("%d-%d years", lo, hi)
	case hasLo:
		return fmt.Sprintf("%d+ years", lo)
	case hasHi:
		return fmt.Sprintf("0-%d years", hi)
	default:
		return ""
	}
}

// groupThousands formats n with comma separators: 150000 -> "150,000".
func groupThousands(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return "-" + groupThousands(-n)
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}

func intPtr(v int, ok bool) *int {
	if !ok {
		return nil
	}
	return &v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
