package match

import (
	"context"

	"github.com/kailas-cloud/agentjobs/internal/domain/corpus"
	"github.com/kailas-cloud/agentjobs/internal/domain/session"
)

// SnapshotSource returns the current corpus snapshot (nil before the first load).
type SnapshotSource interface {
	Load() *corpus.Snapshot
}

// SkillExtractor derives normalized skills from resume text.
type SkillExtractor interface {
	Extract(ctx context.Context, text string) ([]string, error)
}

// SessionStore persists agent match sessions.
type SessionStore interface {
	Save(ctx context.Context, s *session.Session) error
	Get(ctx context.Context, id string) (session.Session, error)
}
