package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	domcorpus "github.com/kailas-cloud/agentjobs/internal/domain/corpus"
	"github.com/kailas-cloud/agentjobs/internal/domain/job"
	"github.com/kailas-cloud/agentjobs/internal/metrics"
)

type fakeSource struct {
	jobs  []job.Job
	err   error
	calls int
}

func (f *fakeSource) List(_ context.Context) ([]job.Job, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.jobs, nil
}

type fakeSeeder struct {
	count    int
	countErr error
	saved    []job.Job
}

func (f *fakeSeeder) Count(_ context.Context) (int, error) { return f.count, f.countErr }

func (f *fakeSeeder) SaveMany(_ context.Context, jobs []job.Job) error {
	f.saved = append(f.saved, jobs...)
	return nil
}

func mustJob(t *testing.T, id string, active bool) job.Job {
	t.Helper()
	j, err := job.New(job.Params{ID: id, Title: "Engineer " + id, Active: active})
	if err != nil {
		t.Fatalf("job.New: %v", err)
	}
	return j
}

func TestRefresh_PublishesVersionedSnapshots(t *testing.T) {
	src := &fakeSource{jobs: []job.Job{mustJob(t, "a", true), mustJob(t, "b", false)}}
	holder := domcorpus.NewHolder()
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	svc := New(src, holder).WithClock(func() time.Time { return now })

	okBefore := testutil.ToFloat64(metrics.CorpusRefreshTotal.WithLabelValues("ok"))

	snap, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if snap.Version() != 1 || snap.Len() != 1 || snap.Loaded() != 2 {
		t.Errorf("unexpected snapshot: version=%d len=%d loaded=%d", snap.Version(), snap.Len(), snap.Loaded())
	}
	if !snap.LoadedAt().Equal(now) {
		t.Errorf("LoadedAt() = %v", snap.LoadedAt())
	}
	if holder.Load() != snap {
		t.Error("holder should publish the new snapshot")
	}
	if got := testutil.ToFloat64(metrics.CorpusJobs); got != 1 {
		t.Errorf("corpus_jobs = %v, want 1", got)
	}

	snap2, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if snap2.Version() != 2 {
		t.Errorf("second version = %d, want 2", snap2.Version())
	}
	if got := testutil.ToFloat64(metrics.CorpusRefreshTotal.WithLabelValues("ok")) - okBefore; got != 2 {
		t.Errorf("ok refreshes = %v, want 2", got)
	}
}

func TestRefresh_ErrorKeepsPreviousSnapshot(t *testing.T) {
	src := &fakeSource{jobs: []job.Job{mustJob(t, "a", true)}}
	holder := domcorpus.NewHolder()
	svc := New(src, holder)

	first, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	errBefore := testutil.ToFloat64(metrics.CorpusRefreshTotal.WithLabelValues("error"))
	src.err = errors.New("store down")
	if _, err := svc.Refresh(context.Background()); !errors.Is(err, src.err) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if holder.Load() != first {
		t.Error("previous snapshot should stay published")
	}
	if got := testutil.ToFloat64(metrics.CorpusRefreshTotal.WithLabelValues("error")) - errBefore; got != 1 {
		t.Errorf("error refreshes = %v, want 1", got)
	}

	src.err = nil
	next, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if next.Version() != 2 {
		t.Errorf("failed refresh should not consume a version, got %d", next.Version())
	}
}

func TestRefresh_EmptyStore(t *testing.T) {
	svc := New(&fakeSource{}, domcorpus.NewHolder())
	snap, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if snap.Len() != 0 {
		t.Errorf("expected empty snapshot, got %d", snap.Len())
	}
	if svc.Holder().Load() == nil {
		t.Error("empty snapshot should still be published")
	}
}

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobs.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return path
}

func TestSeed_WritesIntoEmptyStore(t *testing.T) {
	path := writeSeed(t, `[
		{"id":"j1","title":"Go Developer","skills":["golang"]},
		{"id":"j2","title":"Old Posting","is_active":false},
		{"id":"","title":"missing id"},
		"not an object"
	]`)
	seeder := &fakeSeeder{}

	n, err := Seed(context.Background(), seeder, path)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if n != 2 || len(seeder.saved) != 2 {
		t.Fatalf("expected 2 seeded jobs, got n=%d saved=%d", n, len(seeder.saved))
	}
	if !seeder.saved[0].Active() || seeder.saved[1].Active() {
		t.Error("is_active should default to true and respect explicit false")
	}
}

func TestSeed_SkipsNonEmptyStore(t *testing.T) {
	seeder := &fakeSeeder{count: 3}
	n, err := Seed(context.Background(), seeder, "/does/not/exist.json")
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if n != 0 || seeder.saved != nil {
		t.Errorf("nothing should be written, got n=%d", n)
	}
}

func TestSeed_Errors(t *testing.T) {
	tests := []struct {
		name   string
		seeder *fakeSeeder
		path   func(t *testing.T) string
	}{
		{"count error", &fakeSeeder{countErr: errors.New("down")}, func(*testing.T) string { return "x" }},
		{"missing file", &fakeSeeder{}, func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") }},
		{"not an array", &fakeSeeder{}, func(t *testing.T) string { return writeSeed(t, `{"id":"x"}`) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Seed(context.Background(), tc.seeder, tc.path(t)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParseSeed_BundledFile(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "..", "config", "seed", "jobs.json"))
	if err != nil {
		t.Fatalf("read bundled seed: %v", err)
	}
	jobs, err := ParseSeed(context.Background(), data)
	if err != nil {
		t.Fatalf("ParseSeed: %v", err)
	}
	if len(jobs) != 5 {
		t.Fatalf("parsed %d jobs, want 5", len(jobs))
	}
	active := 0
	for i := range jobs {
		if jobs[i].Active() {
			active++
		}
	}
	if active != 4 {
		t.Errorf("active = %d, want 4 (one seed job is inactive)", active)
	}
}
