package job

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/agentjobs/internal/db"
	domjob "github.com/kailas-cloud/agentjobs/internal/domain/job"
	"github.com/kailas-cloud/agentjobs/internal/logger"
)

// DefaultPrefix is prepended to every job key.
const DefaultPrefix = "agentjobs:"

// fetchBatch bounds the number of keys read per GetMulti round-trip.
const fetchBatch = 500

// store is the consumer interface for jobs (ISP).
type store interface {
	Scan(ctx context.Context, pattern string) ([]string, error)
	GetMulti(ctx context.Context, keys []string) ([][]byte, error)
	SetMulti(ctx context.Context, items []db.SetItem) error
}

// Repo reads and writes job records stored as JSON strings under <prefix>job:<id>.
type Repo struct {
	store  store
	prefix string
}

// New creates a job repository. An empty prefix falls back to DefaultPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

func (r *Repo) key(id string) string { return r.prefix + "job:" + id }

func (r *Repo) pattern() string { return r.prefix + "job:*" }

// List returns every stored job, active or not, in key order.
// Records that fail to decode or validate are skipped and logged.
func (r *Repo) List(ctx context.Context) ([]domjob.Job, error) {
	keys, err := r.store.Scan(ctx, r.pattern())
	if err != nil {
		return nil, fmt.Errorf("scan jobs: %w", err)
	}
	sort.Strings(keys)

	log := logger.FromContext(ctx)
	out := make([]domjob.Job, 0, len(keys))
	skipped := 0
	for start := 0; start < len(keys); start += fetchBatch {
		end := min(start+fetchBatch, len(keys))
		values, err := r.store.GetMulti(ctx, keys[start:end])
		if err != nil {
			return nil, fmt.Errorf("get jobs: %w", err)
		}
		for i, raw := range values {
			if raw == nil {
				// Deleted between SCAN and GET.
				continue
			}
			j, err := decode(raw)
			if err != nil {
				skipped++
				log.Warn("skipping invalid job record",
					zap.String("key", keys[start+i]),
					zap.Error(err),
				)
				continue
			}
			out = append(out, j)
		}
	}
	if skipped > 0 {
		log.Info("job records skipped", zap.Int("skipped", skipped), zap.Int("loaded", len(out)))
	}
	return out, nil
}

// Count returns the number of stored job keys.
func (r *Repo) Count(ctx context.Context) (int, error) {
	keys, err := r.store.Scan(ctx, r.pattern())
	if err != nil {
		return 0, fmt.Errorf("scan jobs: %w", err)
	}
	return len(keys), nil
}

// SaveMany writes jobs in a single pipeline, overwriting existing records with the same id.
func (r *Repo) SaveMany(ctx context.Context, jobs []domjob.Job) error {
	if len(jobs) == 0 {
		return nil
	}
	items := make([]db.SetItem, 0, len(jobs))
	for i := range jobs {
		data, err := json.Marshal(jobs[i].Params())
		if err != nil {
			return fmt.Errorf("marshal job %s: %w", jobs[i].ID(), err)
		}
		items = append(items, db.SetItem{Key: r.key(jobs[i].ID()), Value: data})
	}
	if err := r.store.SetMulti(ctx, items); err != nil {
		return fmt.Errorf("save jobs: %w", err)
	}
	return nil
}

// decode treats a record without is_active as active.
func decode(raw []byte) (domjob.Job, error) {
	p := domjob.Params{Active: true}
	if err := json.Unmarshal(raw, &p); err != nil {
		return domjob.Job{}, fmt.Errorf("decode: %w", err)
	}
	j, err := domjob.New(p)
	if err != nil {
		return domjob.Job{}, fmt.Errorf("validate %s: %w", strings.TrimSpace(p.ID), err)
	}
	return j, nil
}
