// Package corpus holds immutable, versioned snapshots of the active job set.
package corpus

import (
	"sort"
	"sync/atomic"
	"time"

	"github.com/kailas-cloud/agentjobs/internal/domain/job"
)

// Snapshot is a point-in-time, read-only view of all active jobs.
// Jobs are ordered by posted_at desc, then id asc.
type Snapshot struct {
	version  uint64
	loadedAt time.Time
	loaded   int
	jobs     []job.Job
	byID     map[string]int
}

// NewSnapshot orders jobs canonically and indexes them by id.
// Inactive jobs are dropped; for duplicate ids the first occurrence wins.
func NewSnapshot(version uint64, loadedAt time.Time, jobs []job.Job) *Snapshot {
	active := make([]job.Job, 0, len(jobs))
	seen := make(map[string]struct{}, len(jobs))
	for i := range jobs {
		if !jobs[i].Active() {
			continue
		}
		if _, dup := seen[jobs[i].ID()]; dup {
			continue
		}
		seen[jobs[i].ID()] = struct{}{}
		active = append(active, jobs[i])
	}

	sort.SliceStable(active, func(a, b int) bool {
		pa, pb := active[a].PostedAt(), active[b].PostedAt()
		if !pa.Equal(pb) {
			return pa.After(pb)
		}
		return active[a].ID() < active[b].ID()
	})

	byID := make(map[string]int, len(active))
	for i := range active {
		byID[active[i].ID()] = i
	}
	return &Snapshot{version: version, loadedAt: loadedAt, loaded: len(jobs), jobs: active, byID: byID}
}

// Version returns the monotonically increasing snapshot version.
func (s *Snapshot) Version() uint64 { return s.version }

// LoadedAt returns when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Loaded returns the number of records read, including inactive and duplicate ones.
func (s *Snapshot) Loaded() int { return s.loaded }

// Len returns the number of active jobs.
func (s *Snapshot) Len() int { return len(s.jobs) }

// Jobs returns the jobs in canonical order. Callers must not modify the returned slice.
func (s *Snapshot) Jobs() []job.Job { return s.jobs }

// Get returns the job with the given id.
func (s *Snapshot) Get(id string) (job.Job, bool) {
	i, ok := s.byID[id]
	if !ok {
		return job.Job{}, false
	}
	return s.jobs[i], true
}

// Position returns the canonical index of a job id.
func (s *Snapshot) Position(id string) (int, bool) {
	i, ok := s.byID[id]
	return i, ok
}

// Holder publishes the current snapshot to concurrent readers.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// NewHolder creates an empty holder.
func NewHolder() *Holder {
	return &Holder{}
}

// Load returns the current snapshot, or nil before the first Store.
func (h *Holder) Load() *Snapshot { return h.current.Load() }

// Store publishes a new snapshot.
func (h *Holder) Store(s *Snapshot) { h.current.Store(s) }
