package corpus

import (
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/kailas-cloud/agentjobs/internal/domain/job"
)

var t0 = time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)

func mk(t *testing.T, id string, posted time.Time, active bool) job.Job {
	t.Helper()
	j, err := job.New(job.Params{ID: id, Title: "t-" + id, PostedAt: posted, Active: active})
	if err != nil {
		t.Fatalf("job.New: %v", err)
	}
	return j
}

func ids(s *Snapshot) []string {
	var out []string
	for _, j := range s.Jobs() {
		out = append(out, j.ID())
	}
	return out
}

func TestNewSnapshot_Order(t *testing.T) {
	jobs := []job.Job{
		mk(t, "c", t0, true),
		mk(t, "a", t0.Add(time.Hour), true),
		mk(t, "b", t0, true),
		mk(t, "z", time.Time{}, true),
		mk(t, "off", t0.Add(2*time.Hour), false),
	}
	s := NewSnapshot(1, t0, jobs)
	want := []string{"a", "b", "c", "z"}
	if got := ids(s); !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	if s.Loaded() != 5 {
		t.Errorf("Loaded() = %d, want 5", s.Loaded())
	}
	if s.Len() != 4 || s.Version() != 1 {
		t.Errorf("Len()=%d Version()=%d", s.Len(), s.Version())
	}
}

func TestNewSnapshot_DuplicateIDs(t *testing.T) {
	first := mk(t, "dup", t0, true)
	second, _ := job.New(job.Params{ID: "dup", Title: "second", PostedAt: t0.Add(time.Hour), Active: true})
	s := NewSnapshot(1, t0, []job.Job{first, second})
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	got, _ := s.Get("dup")
	if got.Title() != "t-dup" {
		t.Errorf("expected first occurrence, got %q", got.Title())
	}
}

func TestSnapshot_Get(t *testing.T) {
	s := NewSnapshot(1, t0, []job.Job{mk(t, "a", t0, true)})
	if _, ok := s.Get("a"); !ok {
		t.Error("expected a")
	}
	if _, ok := s.Get("missing"); ok {
		t.Error("unexpected hit")
	}
	if pos, ok := s.Position("a"); !ok || pos != 0 {
		t.Errorf("Position = %d, %v", pos, ok)
	}
}

func TestHolder_ConcurrentSwap(t *testing.T) {
	h := NewHolder()
	if h.Load() != nil {
		t.Fatal("expected nil before first store")
	}
	h.Store(NewSnapshot(1, t0, nil))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(v uint64) {
			defer wg.Done()
			h.Store(NewSnapshot(v, t0, nil))
			if s := h.Load(); s == nil {
				t.Error("nil snapshot after store")
			}
		}(uint64(i + 2))
	}
	wg.Wait()
	if h.Load().Version() < 2 {
		t.Errorf("unexpected version %d", h.Load().Version())
	}
}
