package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Check names.
const (
	CheckDatabase  = "database"
	CheckCorpus    = "corpus"
	CheckExtractor = "skill_extractor"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
	// CorpusVersion and CorpusJobs describe the published snapshot; zero when none is loaded.
	CorpusVersion uint64
	CorpusJobs    int
}

// Service coordinates health checks.
type Service struct {
	db        DBPinger
	corpus    SnapshotSource
	extractor ExtractorChecker
}

// New creates a Service. extractor can be nil.
func New(db DBPinger, corpus SnapshotSource, extractor ExtractorChecker) *Service {
	return &Service{db: db, corpus: corpus, extractor: extractor}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	var r Report

	if err := s.db.Ping(ctx); err != nil {
		checks[CheckDatabase] = CheckError
	} else {
		checks[CheckDatabase] = CheckOK
	}

	if snap := s.corpus.Load(); snap == nil {
		checks[CheckCorpus] = CheckError
	} else {
		checks[CheckCorpus] = CheckOK
		r.CorpusVersion = snap.Version()
		r.CorpusJobs = snap.Len()
	}

	if s.extractor != nil {
		if err := s.extractor.HealthCheck(ctx); err != nil {
			checks[CheckExtractor] = CheckError
		} else {
			checks[CheckExtractor] = CheckOK
		}
	}

	r.Status = Healthy
	for _, v := range checks {
		if v == CheckError {
			r.Status = Degraded
			break
		}
	}
	r.Checks = checks
	return r
}
