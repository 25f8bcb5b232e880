package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Domain Prometheus metrics.
var (
	CorpusJobs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "agentjobs",
			Name:      "corpus_jobs",
			Help:      "Number of active jobs in the current corpus snapshot",
		},
	)

	CorpusRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agentjobs",
			Name:      "corpus_refresh_total",
			Help:      "Corpus snapshot refreshes",
		},
		[]string{"result"}, // "ok" / "error"
	)

	RankingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "agentjobs",
			Name:      "ranking_duration_seconds",
			Help:      "In-memory ranking duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
		[]string{"kind"}, // "search" / "match"
	)

	SkillExtractionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agentjobs",
			Name:      "skill_extractions_total",
			Help:      "Resume skill extractions",
		},
		[]string{"extractor", "status"},
	)

	ExtractorTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agentjobs",
			Name:      "skill_extractor_tokens_total",
			Help:      "Tokens consumed by the LLM skill extractor",
		},
		[]string{"provider", "model", "type"}, // type: "prompt" / "completion"
	)
)

var registerDomainOnce sync.Once

// RegisterDomainMetrics registers the corpus, ranking and extraction metrics. Called once from main.
func RegisterDomainMetrics() {
	registerDomainOnce.Do(func() {
		prometheus.MustRegister(CorpusJobs)
		prometheus.MustRegister(CorpusRefreshTotal)
		prometheus.MustRegister(RankingDuration)
		prometheus.MustRegister(SkillExtractionsTotal)
		prometheus.MustRegister(ExtractorTokensTotal)
	})
}
