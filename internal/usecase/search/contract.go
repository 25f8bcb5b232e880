package search

import (
	"github.com/kailas-cloud/agentjobs/internal/domain/corpus"
)

// SnapshotSource returns the current corpus snapshot (nil before the first load).
type SnapshotSource interface {
	Load() *corpus.Snapshot
}

// TextSearcher returns ids of jobs relevant to term, in relevance order.
type TextSearcher interface {
	Search(term string, snap *corpus.Snapshot) []string
}
