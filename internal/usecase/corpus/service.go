// Package corpus loads job records from the store and publishes immutable snapshots.
package corpus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	domcorpus "github.com/kailas-cloud/agentjobs/internal/domain/corpus"
	"github.com/kailas-cloud/agentjobs/internal/logger"
	"github.com/kailas-cloud/agentjobs/internal/metrics"
)

// Service builds snapshots from a JobSource and swaps them into a Holder.
type Service struct {
	source JobSource
	holder *domcorpus.Holder
	clock  func() time.Time

	mu      sync.Mutex
	version uint64
}

// New creates a corpus service publishing into holder.
func New(source JobSource, holder *domcorpus.Holder) *Service {
	return &Service{source: source, holder: holder, clock: time.Now}
}

// WithClock overrides the time source used for snapshot timestamps.
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}

// Holder returns the snapshot holder readers load from.
func (s *Service) Holder() *domcorpus.Holder { return s.holder }

// Refresh loads all jobs and publishes a new snapshot with the next version.
// On failure the previous snapshot stays published.
func (s *Service) Refresh(ctx context.Context) (*domcorpus.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	jobs, err := s.source.List(ctx)
	if err != nil {
		metrics.CorpusRefreshTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	s.version++
	snap := domcorpus.NewSnapshot(s.version, s.clock().UTC(), jobs)
	s.holder.Store(snap)

	metrics.CorpusRefreshTotal.WithLabelValues("ok").Inc()
	metrics.CorpusJobs.Set(float64(snap.Len()))

	logger.FromContext(ctx).Info("corpus snapshot published",
		zap.Uint64("version", snap.Version()),
		zap.Int("loaded", snap.Loaded()),
		zap.Int("active", snap.Len()),
		zap.Duration("took", time.Since(start)),
	)
	return snap, nil
}
