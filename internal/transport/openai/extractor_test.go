package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/agentjobs/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterDomainMetrics()
	os.Exit(m.Run())
}

func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "test-model" || len(req.Messages) != 2 || req.Messages[1].Role != "user" {
			t.Errorf("unexpected request: %+v", req)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
			"usage": map[string]any{"prompt_tokens": 120, "completion_tokens": 12, "total_tokens": 132},
		})
	}))
}

func newTestExtractor(url string) *SkillExtractor {
	return NewSkillExtractor(&Config{
		APIKey:   "test-key",
		BaseURL:  url,
		Model:    "test-model",
		Provider: "test",
		Logger:   zap.NewNop(),
	})
}

func TestExtract_NormalizesAndSorts(t *testing.T) {
	server := chatServer(t, `{"skills": ["Kubernetes", "golang", "Go", "  ", "PostgreSQL"]}`)
	defer server.Close()

	before := testutil.ToFloat64(metrics.ExtractorTokensTotal.WithLabelValues("test", "test-model", "prompt"))

	got, err := newTestExtractor(server.URL).Extract(context.Background(), "Senior Go engineer, k8s and Postgres")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	want := []string{"go", "kubernetes", "postgresql"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if d := testutil.ToFloat64(metrics.ExtractorTokensTotal.WithLabelValues("test", "test-model", "prompt")) - before; d != 120 {
		t.Errorf("prompt tokens = %v, want 120", d)
	}
}

func TestExtract_EmptyText(t *testing.T) {
	e := newTestExtractor("http://127.0.0.1:1") // never called
	got, err := e.Extract(context.Background(), "   ")
	if err != nil || got != nil {
		t.Errorf("expected nil, nil; got %v, %v", got, err)
	}
}

func TestExtract_InvalidContent(t *testing.T) {
	server := chatServer(t, "I found: go, python")
	defer server.Close()

	if _, err := newTestExtractor(server.URL).Extract(context.Background(), "resume"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestExtract_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": "rate limit exceeded",
				"type":    "rate_limit_error",
			},
		})
	}))
	defer server.Close()

	if _, err := newTestExtractor(server.URL).Extract(context.Background(), "resume"); err == nil {
		t.Fatal("expected error for 429 response")
	}
}

func TestParseSkills(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
		wantErr bool
	}{
		{"object", `{"skills":["python","ml"]}`, []string{"machine-learning", "python"}, false},
		{"bare array", `["react", "typescript"]`, []string{"react", "typescript"}, false},
		{"fenced", "```json\n{\"skills\":[\"docker\"]}\n```", []string{"docker"}, false},
		{"empty object", `{}`, []string{}, false},
		{"garbage", `skills: go`, nil, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseSkills(tc.content)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("got %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestExtractDetail(t *testing.T) {
	if got := extractDetail([]byte(`{"detail":"model not found"}`)); got != "model not found" {
		t.Errorf("got %q", got)
	}
	if got := extractDetail([]byte(`not json`)); got != "" {
		t.Errorf("got %q", got)
	}
}
