package chi

import (
	"net/http"
	"strings"
)

// MCPManifest describes the API as tools an agent can discover and call.
type MCPManifest struct {
	SchemaVersion string       `json:"schema_version"`
	Name          string       `json:"name"`
	DisplayName   string       `json:"display_name"`
	Description   string       `json:"description"`
	Auth          MCPAuth      `json:"auth"`
	Tools         []MCPTool    `json:"tools"`
	Examples      []MCPExample `json:"examples"`
}

// MCPAuth names the header carrying the API key.
type MCPAuth struct {
	Type   string `json:"type"`
	Header string `json:"header"`
}

// MCPTool is one callable operation.
type MCPTool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  MCPSchema   `json:"parameters"`
	Endpoint    MCPEndpoint `json:"endpoint"`
}

// MCPSchema is the JSON schema subset used for tool parameters.
type MCPSchema struct {
	Type        string               `json:"type"`
	Description string               `json:"description,omitempty"`
	Items       *MCPSchema           `json:"items,omitempty"`
	Properties  map[string]MCPSchema `json:"properties,omitempty"`
	Required    []string             `json:"required,omitempty"`
}

// MCPEndpoint maps a tool to an HTTP call.
type MCPEndpoint struct {
	Method        string            `json:"method"`
	URL           string            `json:"url"`
	ParamsMapping map[string]string `json:"params_mapping,omitempty"`
}

// MCPExample is a sample tool invocation.
type MCPExample struct {
	Tool        string         `json:"tool"`
	Input       map[string]any `json:"input"`
	Description string         `json:"description"`
}

func prop(typ, desc string) MCPSchema {
	return MCPSchema{Type: typ, Description: desc}
}

func listProp(desc string) MCPSchema {
	return MCPSchema{Type: "array", Items: &MCPSchema{Type: "string"}, Description: desc}
}

// MCPManifestHandler handles GET /mcp/manifest.json.
func (s *Server) MCPManifestHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildManifest(baseURL(r)))
}

// baseURL reconstructs the externally visible origin of r.
func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(fwd, ",")[0]))
	}
	return scheme + "://" + r.Host
}

func buildManifest(base string) MCPManifest {
	api := base + "/api/v1"
	return MCPManifest{
		SchemaVersion: "v1",
		Name:          "agentjobs",
		DisplayName:   "AgentJobs Job Search API",
		Description:   "Search job listings and match candidate profiles against them. Responses are structured JSON for agents.",
		Auth:          MCPAuth{Type: "api_key", Header: APIKeyHeader},
		Tools: []MCPTool{
			{
				Name:        "search_jobs",
				Description: "Search job listings with filters. Returns job details, salary and required skills.",
				Parameters: MCPSchema{Type: "object", Properties: map[string]MCPSchema{
					"query":      prop("string", "Full-text search query (e.g. 'python backend developer')"),
					"location":   prop("string", "City or location filter (e.g. 'Hyderabad', 'Remote')"),
					"skills":     prop("string", "Comma-separated skills (e.g. 'python,sql,docker')"),
					"salary_min": prop("integer", "Minimum monthly salary in INR"),
					"category":   prop("string", "Job category (engineering, data-science, design, product)"),
					"limit":      prop("integer", "Max results"),
				}},
				Endpoint: MCPEndpoint{
					Method: http.MethodGet,
					URL:    api + "/jobs",
					ParamsMapping: map[string]string{
						"query":      "q",
						"location":   "location",
						"skills":     "skills",
						"salary_min": "salary_min",
						"category":   "category",
						"limit":      "limit",
					},
				},
			},
			{
				Name:        "match_resume",
				Description: "Match a candidate's resume or skills against all active jobs. Returns scored matches with reasons.",
				Parameters: MCPSchema{Type: "object", Properties: map[string]MCPSchema{
					"resume_text":         prop("string", "Full resume text or summary"),
					"skills":              listProp("List of candidate skills"),
					"experience_years":    prop("integer", "Years of experience"),
					"preferred_locations": listProp("Preferred work locations"),
					"salary_min":          prop("integer", "Minimum acceptable monthly salary in INR"),
					"limit":               prop("integer", "Max results"),
				}},
				Endpoint: MCPEndpoint{Method: http.MethodPost, URL: api + "/agent/search"},
			},
			{
				Name:        "get_job_details",
				Description: "Get full details for a specific job listing.",
				Parameters: MCPSchema{
					Type:       "object",
					Properties: map[string]MCPSchema{"job_id": prop("string", "Job ID")},
					Required:   []string{"job_id"},
				},
				Endpoint: MCPEndpoint{Method: http.MethodGet, URL: api + "/jobs/{job_id}"},
			},
			{
				Name:        "list_companies",
				Description: "List companies with active job counts.",
				Parameters: MCPSchema{Type: "object", Properties: map[string]MCPSchema{
					"name":     prop("string", "Company name filter"),
					"industry": prop("string", "Industry filter"),
					"limit":    prop("integer", "Max results"),
				}},
				Endpoint: MCPEndpoint{
					Method: http.MethodGet,
					URL:    api + "/companies",
					ParamsMapping: map[string]string{
						"name":     "q",
						"industry": "industry",
						"limit":    "limit",
					},
				},
			},
		},
		Examples: []MCPExample{
			{
				Tool:        "search_jobs",
				Input:       map[string]any{"query": "python developer", "location": "Bangalore", "limit": 5},
				Description: "Find Python developer jobs in Bangalore",
			},
			{
				Tool: "match_resume",
				Input: map[string]any{
					"skills":              []string{"python", "sql", "machine-learning"},
					"experience_years":    3,
					"preferred_locations": []string{"Hyderabad", "Remote"},
					"salary_min":          80000,
				},
				Description: "Match a data scientist profile against available jobs",
			},
		},
	}
}
