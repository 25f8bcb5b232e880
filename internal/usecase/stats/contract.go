package stats

import "github.com/kailas-cloud/agentjobs/internal/domain/corpus"

// SnapshotSource returns the current corpus snapshot (nil before the first load).
type SnapshotSource interface {
	Load() *corpus.Snapshot
}
