package match

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/agentjobs/internal/domain"
	"github.com/kailas-cloud/agentjobs/internal/domain/job"
	dommatch "github.com/kailas-cloud/agentjobs/internal/domain/match"
	"github.com/kailas-cloud/agentjobs/internal/domain/profile"
	"github.com/kailas-cloud/agentjobs/internal/domain/search/filter"
	"github.com/kailas-cloud/agentjobs/internal/domain/search/request"
	"github.com/kailas-cloud/agentjobs/internal/domain/session"
	"github.com/kailas-cloud/agentjobs/internal/logger"
	"github.com/kailas-cloud/agentjobs/internal/metrics"
)

// Default agent result limits.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Limits bounds the number of matches returned.
type Limits struct {
	DefaultLimit int
	MaxLimit     int
}

// Query is one agent match request.
type Query struct {
	Profile profile.Profile
	// Filters are optional hard constraints. Preferred locations and salary
	// floor are never used here; they only influence scoring.
	Filters filter.Constraints
	Limit   int
}

// Outcome is the ranked response of an agent match.
type Outcome struct {
	SessionID       string
	SnapshotVersion uint64
	ExtractedSkills []string
	Results         []dommatch.Result
}

// MatchCount returns the number of results returned.
func (o *Outcome) MatchCount() int { return len(o.Results) }

// Service scores the corpus against a candidate profile.
type Service struct {
	corpus    SnapshotSource
	extractor SkillExtractor
	sessions  SessionStore
	limits    Limits
	clock     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for recency scoring.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithLimits overrides the default and maximum result limits.
func WithLimits(l Limits) Option {
	return func(s *Service) {
		if l.DefaultLimit > 0 {
			s.limits.DefaultLimit = l.DefaultLimit
		}
		if l.MaxLimit > 0 {
			s.limits.MaxLimit = l.MaxLimit
		}
	}
}

// New creates a match service. sessions can be nil (no session is recorded).
func New(src SnapshotSource, extractor SkillExtractor, sessions SessionStore, opts ...Option) *Service {
	s := &Service{
		corpus:    src,
		extractor: extractor,
		sessions:  sessions,
		limits:    Limits{DefaultLimit: DefaultLimit, MaxLimit: MaxLimit},
		clock:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Match filters, scores and ranks one corpus snapshot for q.Profile.
// Equal scores keep snapshot order; results are truncated to the limit.
func (s *Service) Match(ctx context.Context, q Query) (Outcome, error) {
	if q.Profile.IsEmpty() {
		return Outcome{}, domain.NewFieldError("profile", "requires one of resume_text, skills, job_preferences")
	}
	limit, err := s.limit(q.Limit)
	if err != nil {
		return Outcome{}, err
	}
	if err = request.ValidateConstraints(&q.Filters); err != nil {
		return Outcome{}, err
	}

	snap := s.corpus.Load()
	if snap == nil {
		return Outcome{}, domain.ErrCorpusNotReady
	}

	p := q.Profile
	var extracted []string
	if len(p.Skills()) == 0 && p.ResumeText() != "" && s.extractor != nil {
		extracted, err = s.extractor.Extract(ctx, p.ResumeText())
		if err != nil {
			return Outcome{}, fmt.Errorf("%w: %w", domain.ErrSkillExtraction, err)
		}
		p = p.WithSkills(extracted)
		extracted = p.Skills()
	}

	start := time.Now()
	candidates := snap.Jobs()
	if !q.Filters.IsEmpty() {
		candidates = q.Filters.Apply(candidates)
	}
	results := rank(&p, candidates, dommatch.NewScorer(s.clock()), limit)
	elapsed := time.Since(start)
	metrics.RankingDuration.WithLabelValues("match").Observe(elapsed.Seconds())

	out := Outcome{
		SnapshotVersion: snap.Version(),
		ExtractedSkills: extracted,
		Results:         results,
	}

	ctx = logger.With(ctx, zap.Uint64("snapshot_version", snap.Version()))
	log := logger.FromContext(ctx)
	if s.sessions != nil {
		sess := newSession(&p, &out, s.clock())
		if err = s.sessions.Save(ctx, &sess); err != nil {
			log.Warn("Failed to store agent session", zap.Error(err))
		} else {
			out.SessionID = sess.ID
		}
	}

	log.Debug("Agent match completed",
		zap.Int("candidates", len(candidates)),
		zap.Int("match_count", out.MatchCount()),
		zap.Int("extracted_skills", len(extracted)),
		zap.Duration("duration", elapsed),
	)
	return out, nil
}

// Session returns a stored agent session.
func (s *Service) Session(ctx context.Context, id string) (session.Session, error) {
	if s.sessions == nil || !session.ValidID(id) {
		return session.Session{}, fmt.Errorf("session %q: %w", id, domain.ErrSessionNotFound)
	}
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return session.Session{}, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

func (s *Service) limit(requested int) (int, error) {
	switch {
	case requested < 0:
		return 0, domain.NewFieldError("limit", "must be positive")
	case requested == 0:
		return s.limits.DefaultLimit, nil
	case requested > s.limits.MaxLimit:
		return s.limits.MaxLimit, nil
	default:
		return requested, nil
	}
}

// rank scores every candidate, stable-sorts by score desc and truncates to limit.
func rank(p *profile.Profile, candidates []job.Job, scorer dommatch.Scorer, limit int) []dommatch.Result {
	results := make([]dommatch.Result, 0, len(candidates))
	for i := range candidates {
		results = append(results, scorer.Score(p, &candidates[i]))
	}
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score() > results[b].Score()
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func newSession(p *profile.Profile, out *Outcome, now time.Time) session.Session {
	sess := session.Session{
		ID:                 session.NewID(),
		CreatedAt:          now.UTC(),
		SnapshotVersion:    out.SnapshotVersion,
		Skills:             p.Skills(),
		ExtractedSkills:    out.ExtractedSkills,
		PreferredLocations: p.PreferredLocations(),
		JobPreferences:     p.JobPreferences(),
		Matches:            make([]session.Match, 0, len(out.Results)),
	}
	if v, ok := p.ExperienceYears(); ok {
		sess.ExperienceYears = &v
	}
	if v, ok := p.SalaryMin(); ok {
		sess.SalaryMin = &v
	}
	for i := range out.Results {
		r := &out.Results[i]
		j := r.Job()
		sess.Matches = append(sess.Matches, session.Match{
			JobID:         j.ID(),
			Title:         j.Title(),
			Company:       j.Company().Name,
			Score:         r.Score(),
			SkillsMatch:   r.SkillsMatch(),
			SkillsMissing: r.SkillsMissing(),
			Reasons:       r.Reasons(),
		})
	}
	return sess
}
