package corpus

import (
	"context"

	domcorpus "github.com/kailas-cloud/agentjobs/internal/domain/corpus"
	"github.com/kailas-cloud/agentjobs/internal/domain/job"
)

// JobSource lists every stored job record.
type JobSource interface {
	List(ctx context.Context) ([]job.Job, error)
}

// JobSeeder writes initial job records into an empty store.
type JobSeeder interface {
	Count(ctx context.Context) (int, error)
	SaveMany(ctx context.Context, jobs []job.Job) error
}

// Refresher rebuilds the published snapshot.
type Refresher interface {
	Refresh(ctx context.Context) (*domcorpus.Snapshot, error)
}
