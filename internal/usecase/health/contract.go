package health

import (
	"context"

	"github.com/kailas-cloud/agentjobs/internal/domain/corpus"
)

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// SnapshotSource returns the current corpus snapshot (nil before the first load).
type SnapshotSource interface {
	Load() *corpus.Snapshot
}

// ExtractorChecker checks the remote skill extractor.
type ExtractorChecker interface {
	HealthCheck(ctx context.Context) error
}
