package search

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/agentjobs/internal/domain"
	"github.com/kailas-cloud/agentjobs/internal/domain/corpus"
	"github.com/kailas-cloud/agentjobs/internal/domain/job"
	"github.com/kailas-cloud/agentjobs/internal/domain/search/order"
	"github.com/kailas-cloud/agentjobs/internal/domain/search/request"
	"github.com/kailas-cloud/agentjobs/internal/domain/search/result"
	"github.com/kailas-cloud/agentjobs/internal/domain/skill"
	"github.com/kailas-cloud/agentjobs/internal/logger"
	"github.com/kailas-cloud/agentjobs/internal/metrics"
)

// Service runs plain job searches: text relevance, structured filters, ordering, facets and paging.
type Service struct {
	corpus SnapshotSource
	text   TextSearcher
}

// New creates a search service.
func New(src SnapshotSource, text TextSearcher) *Service {
	return &Service{corpus: src, text: text}
}

// Search evaluates req against one corpus snapshot.
// Total is the filtered count before paging; the page is [offset, offset+limit).
func (s *Service) Search(ctx context.Context, req *request.Request) (result.Page, error) {
	snap := s.corpus.Load()
	if snap == nil {
		return result.Page{}, domain.ErrCorpusNotReady
	}
	start := time.Now()

	candidates := s.candidates(snap, req.Term())
	constraints := req.Constraints()
	filtered := constraints.Apply(candidates)
	applyOrder(filtered, req.Order())

	facets := result.ComputeFacets(filtered)
	total := len(filtered)
	page := paginate(filtered, req.Offset(), req.Limit())

	elapsed := time.Since(start)
	metrics.RankingDuration.WithLabelValues("search").Observe(elapsed.Seconds())
	logger.FromContext(ctx).Debug("Job search completed",
		zap.Uint64("snapshot_version", snap.Version()),
		zap.String("term", req.Term()),
		zap.Int("candidates", len(candidates)),
		zap.Int("total", total),
		zap.Int("returned", len(page)),
		zap.Duration("duration", elapsed),
	)

	return result.New(page, total, facets), nil
}

// Get returns one job by id from the current snapshot.
func (s *Service) Get(_ context.Context, id string) (job.Job, error) {
	snap := s.corpus.Load()
	if snap == nil {
		return job.Job{}, domain.ErrCorpusNotReady
	}
	j, ok := snap.Get(id)
	if !ok {
		return job.Job{}, fmt.Errorf("job %q: %w", id, domain.ErrJobNotFound)
	}
	return j, nil
}

// DefaultSimilarLimit is the number of similar jobs returned when no limit is given.
const DefaultSimilarLimit = 10

// SimilarJob is a job ranked by skill similarity to a reference job.
type SimilarJob struct {
	Job        job.Job
	Similarity float64
}

// Similar returns other jobs whose required skills overlap the reference job,
// by Jaccard similarity desc, then snapshot order.
func (s *Service) Similar(ctx context.Context, id string, limit int) ([]SimilarJob, error) {
	snap := s.corpus.Load()
	if snap == nil {
		return nil, domain.ErrCorpusNotReady
	}
	ref, ok := snap.Get(id)
	if !ok {
		return nil, fmt.Errorf("job %q: %w", id, domain.ErrJobNotFound)
	}
	if limit <= 0 || limit > request.MaxLimit {
		limit = DefaultSimilarLimit
	}

	refSkills := ref.Skills()
	jobs := snap.Jobs()
	out := make([]SimilarJob, 0, limit)
	for i := range jobs {
		if jobs[i].ID() == ref.ID() {
			continue
		}
		if sim := skill.Similarity(refSkills, jobs[i].Skills()); sim > 0 {
			out = append(out, SimilarJob{Job: jobs[i], Similarity: sim})
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Similarity > out[b].Similarity
	})
	if len(out) > limit {
		out = out[:limit]
	}

	logger.FromContext(ctx).Debug("Similar jobs computed",
		zap.String("job_id", id),
		zap.Int("returned", len(out)),
	)
	return out, nil
}

// candidates returns the whole snapshot without a term, otherwise the text hits in relevance order.
func (s *Service) candidates(snap *corpus.Snapshot, term string) []job.Job {
	if term == "" {
		return snap.Jobs()
	}
	ids := s.text.Search(term, snap)
	out := make([]job.Job, 0, len(ids))
	for _, id := range ids {
		if j, ok := snap.Get(id); ok {
			out = append(out, j)
		}
	}
	return out
}

// applyOrder sorts in place. Relevance keeps the incoming order; the other orders are stable.
func applyOrder(jobs []job.Job, o order.Order) {
	switch o {
	case order.PostedAt:
		sort.SliceStable(jobs, func(a, b int) bool {
			return jobs[a].PostedAt().After(jobs[b].PostedAt())
		})
	case order.Salary:
		sort.SliceStable(jobs, func(a, b int) bool {
			sa, okA := salaryCeiling(&jobs[a])
			sb, okB := salaryCeiling(&jobs[b])
			if okA != okB {
				return okA
			}
			return sa > sb
		})
	case order.Relevance:
	}
}

func salaryCeiling(j *job.Job) (int, bool) {
	if v, ok := j.SalaryMax(); ok {
		return v, true
	}
	return j.SalaryMin()
}

func paginate(jobs []job.Job, offset, limit int) []job.Job {
	if offset >= len(jobs) || limit <= 0 {
		return []job.Job{}
	}
	if offset < 0 {
		offset = 0
	}
	end := offset + limit
	if end > len(jobs) {
		end = len(jobs)
	}
	return jobs[offset:end]
}
