package textindex

import (
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/kailas-cloud/agentjobs/internal/domain/corpus"
	"github.com/kailas-cloud/agentjobs/internal/domain/job"
)

var t0 = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

func snapshot(t *testing.T, version uint64, params ...job.Params) *corpus.Snapshot {
	t.Helper()
	jobs := make([]job.Job, 0, len(params))
	for i, p := range params {
		p.Active = true
		// Later params are older so snapshot order equals argument order.
		p.PostedAt = t0.Add(-time.Duration(i) * time.Hour)
		j, err := job.New(p)
		if err != nil {
			t.Fatalf("job.New: %v", err)
		}
		jobs = append(jobs, j)
	}
	return corpus.NewSnapshot(version, t0, jobs)
}

func TestSearch_WeightsAndTies(t *testing.T) {
	snap := snapshot(t, 1,
		job.Params{ID: "desc", Title: "Engineer", Description: "we use python daily"},
		job.Params{ID: "skill", Title: "Engineer", Skills: []string{"python"}},
		job.Params{ID: "title", Title: "Python Developer"},
		job.Params{ID: "title2", Title: "Senior Python Developer"},
		job.Params{ID: "none", Title: "Designer"},
	)
	got := New().Search("Python", snap)
	want := []string{"title", "title2", "skill", "desc"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSearch_AllTokensRequired(t *testing.T) {
	snap := snapshot(t, 1,
		job.Params{ID: "a", Title: "Go Engineer", Location: "Pune"},
		job.Params{ID: "b", Title: "Go Engineer", Location: "Mumbai"},
	)
	if got := New().Search("go pune", snap); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("got %v", got)
	}
	if got := New().Search("go chennai", snap); len(got) != 0 {
		t.Errorf("expected no hits, got %v", got)
	}
}

func TestSearch_SkillAliases(t *testing.T) {
	snap := snapshot(t, 1,
		job.Params{ID: "k", Title: "SRE", Skills: []string{"kubernetes"}},
		job.Params{ID: "ml", Title: "Researcher", Skills: []string{"ml"}},
	)
	s := New()
	if got := s.Search("k8s", snap); !reflect.DeepEqual(got, []string{"k"}) {
		t.Errorf("k8s: got %v", got)
	}
	if got := s.Search("machine learning", snap); !reflect.DeepEqual(got, []string{"ml"}) {
		t.Errorf("machine learning: got %v", got)
	}
}

func TestSearch_BlankTerm(t *testing.T) {
	snap := snapshot(t, 1, job.Params{ID: "a", Title: "Go"})
	if got := New().Search("   ", snap); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
	if got := New().Search("go", nil); got != nil {
		t.Errorf("expected nil for nil snapshot, got %v", got)
	}
}

func TestSearch_RebuildsOnNewVersion(t *testing.T) {
	s := New()
	v1 := snapshot(t, 1, job.Params{ID: "old", Title: "Rust Engineer"})
	v2 := snapshot(t, 2, job.Params{ID: "new", Title: "Rust Engineer"})

	if got := s.Search("rust", v1); !reflect.DeepEqual(got, []string{"old"}) {
		t.Errorf("v1: got %v", got)
	}
	if got := s.Search("rust", v2); !reflect.DeepEqual(got, []string{"new"}) {
		t.Errorf("v2: got %v", got)
	}
}

func TestSearch_Deterministic(t *testing.T) {
	snap := snapshot(t, 1,
		job.Params{ID: "a", Title: "Data Engineer"},
		job.Params{ID: "b", Title: "Data Engineer"},
		job.Params{ID: "c", Title: "Data Engineer"},
	)
	s := New()
	first := s.Search("data engineer", snap)
	for i := 0; i < 20; i++ {
		if got := s.Search("data engineer", snap); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: got %v, want %v", i, got, first)
		}
	}
	if !reflect.DeepEqual(first, []string{"a", "b", "c"}) {
		t.Errorf("ties should keep snapshot order, got %v", first)
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("C++, C# and Node.js; full-stack.")
	want := []string{"c++", "c#", "and", "node.js", "full-stack"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSearch_SymbolTerms(t *testing.T) {
	snap := snapshot(t, 1,
		job.Params{ID: "cpp", Title: "Systems Engineer", Skills: []string{"c++"}},
		job.Params{ID: "c", Title: "Firmware Engineer", Skills: []string{"c"}},
		job.Params{ID: "node", Title: "Backend Engineer", Description: "Node.js services"},
	)
	s := New()
	if got := s.Search("C++", snap); !reflect.DeepEqual(got, []string{"cpp"}) {
		t.Errorf("c++: got %v", got)
	}
	if got := s.Search("node.js", snap); !reflect.DeepEqual(got, []string{"node"}) {
		t.Errorf("node.js: got %v", got)
	}
}

func TestSearch_Concurrent(t *testing.T) {
	v1 := snapshot(t, 1, job.Params{ID: "a", Title: "Go Engineer"})
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := s.Search("go", v1); !reflect.DeepEqual(got, []string{"a"}) {
				t.Errorf("got %v", got)
			}
		}()
	}
	wg.Wait()
}
