package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/agentjobs/internal/domain/skill"
	"github.com/kailas-cloud/agentjobs/internal/metrics"
)

// MaxInputChars bounds the resume text sent to the model.
const MaxInputChars = 12000

const systemPrompt = `You extract technical and professional skills from resumes.
Reply with a JSON object {"skills": [...]} listing each skill once as a short lowercase name
(for example "go", "kubernetes", "machine learning"). Do not include soft skills, job titles or company names.`

// SkillExtractor extracts resume skills through an OpenAI-compatible chat completion API.
type SkillExtractor struct {
	client   *openai.Client
	model    string
	user     string
	provider string
	logger   *zap.Logger
}

// Config holds the LLM provider settings.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	User     string
	Provider string
	Logger   *zap.Logger
}

// NewSkillExtractor creates an OpenAI-compatible skill extractor.
func NewSkillExtractor(cfg *Config) *SkillExtractor {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &SkillExtractor{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		user:     cfg.User,
		provider: cfg.Provider,
		logger:   log,
	}
}

// Extract returns normalized, sorted skills found in text.
func (e *SkillExtractor) Extract(ctx context.Context, text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if len(text) > MaxInputChars {
		text = text[:MaxInputChars]
	}

	req := openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		User: e.user,
	}

	start := time.Now()
	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, parseAPIError(err)
	}

	metrics.ExtractorTokensTotal.WithLabelValues(e.provider, e.model, "prompt").Add(float64(resp.Usage.PromptTokens))
	metrics.ExtractorTokensTotal.WithLabelValues(e.provider, e.model, "completion").Add(float64(resp.Usage.CompletionTokens))

	if len(resp.Choices) == 0 {
		return nil, errors.New("empty chat completion response")
	}
	skills, err := parseSkills(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("skills extracted",
		zap.String("model", e.model),
		zap.Int("skills", len(skills)),
		zap.Duration("took", time.Since(start)),
	)
	return skills, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *SkillExtractor) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseSkills accepts {"skills": [...]} or a bare JSON array.
func parseSkills(content string) ([]string, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var raw []string
	var wrapped struct {
		Skills []string `json:"skills"`
	}
	if err := json.Unmarshal([]byte(content), &wrapped); err == nil {
		raw = wrapped.Skills
	} else if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("decode skills: %w", err)
	}

	out := skill.NormalizeAll(raw)
	sort.Strings(out)
	return out, nil
}

// parseAPIError extracts a human-readable error from the API response.
func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("chat completion API error %d: %s", reqErr.HTTPStatusCode, detail)
		}
		return fmt.Errorf("chat completion API error %d: %s", reqErr.HTTPStatusCode, string(reqErr.Body))
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("chat completion API error %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
	}

	return fmt.Errorf("chat completion request failed: %w", err)
}

// extractDetail extracts the "detail" field from a JSON error body (Nebius error format).
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
