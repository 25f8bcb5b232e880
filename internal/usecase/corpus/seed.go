package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/kailas-cloud/agentjobs/internal/domain/job"
	"github.com/kailas-cloud/agentjobs/internal/logger"
)

// Seed writes the jobs of a JSON seed file into an empty store.
// The file holds an array of job records; records without is_active are active.
// Nothing is written when the store already has jobs. Returns the number of jobs written.
func Seed(ctx context.Context, seeder JobSeeder, path string) (int, error) {
	n, err := seeder.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}
	jobs, err := ParseSeed(ctx, data)
	if err != nil {
		return 0, err
	}
	if err := seeder.SaveMany(ctx, jobs); err != nil {
		return 0, fmt.Errorf("save seed jobs: %w", err)
	}

	logger.FromContext(ctx).Info("corpus seeded", zap.String("file", path), zap.Int("jobs", len(jobs)))
	return len(jobs), nil
}

// ParseSeed decodes seed records. Invalid records are skipped and logged.
func ParseSeed(ctx context.Context, data []byte) ([]job.Job, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}

	log := logger.FromContext(ctx)
	out := make([]job.Job, 0, len(raw))
	for i, r := range raw {
		p := job.Params{Active: true}
		if err := json.Unmarshal(r, &p); err != nil {
			log.Warn("skipping seed record", zap.Int("index", i), zap.Error(err))
			continue
		}
		j, err := job.New(p)
		if err != nil {
			log.Warn("skipping seed record", zap.Int("index", i), zap.String("id", p.ID), zap.Error(err))
			continue
		}
		out = append(out, j)
	}
	return out, nil
}
