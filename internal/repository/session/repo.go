package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/agentjobs/internal/db"
	"github.com/kailas-cloud/agentjobs/internal/domain"
	domsession "github.com/kailas-cloud/agentjobs/internal/domain/session"
)

// Defaults for session storage.
const (
	DefaultPrefix = "agentjobs:"
	DefaultTTL    = 72 * time.Hour
)

// store is the consumer interface for sessions (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Repo stores agent sessions as JSON strings under <prefix>session:<id> with a TTL.
type Repo struct {
	store  store
	prefix string
	ttl    time.Duration
}

// New creates a session repository. Zero values fall back to the defaults.
func New(s store, prefix string, ttl time.Duration) *Repo {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Repo{store: s, prefix: prefix, ttl: ttl}
}

func (r *Repo) key(id string) string { return r.prefix + "session:" + id }

// Save writes the session, replacing any previous record with the same id.
func (r *Repo) Save(ctx context.Context, s *domsession.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	key := r.key(s.ID)
	if err := r.store.SetWithTTL(ctx, key, data, r.ttl); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Get returns a stored session. Expired and unknown ids yield domain.ErrSessionNotFound.
func (r *Repo) Get(ctx context.Context, id string) (domsession.Session, error) {
	key := r.key(id)
	raw, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domsession.Session{}, domain.ErrSessionNotFound
		}
		return domsession.Session{}, fmt.Errorf("get %s: %w", key, err)
	}
	var s domsession.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return domsession.Session{}, fmt.Errorf("decode %s: %w", key, err)
	}
	return s, nil
}
