// Package session caches entry snapshots between requests.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lugatuic/ldapuser/entry"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

type item struct {
	data    []byte
	expires time.Time
}

// MemoryStore keeps snapshots in process memory. It is safe for concurrent
// use; the entries it returns are not shared.
type MemoryStore struct {
	db     sync.Map
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

type Option func(*MemoryStore)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) { s.now = now }
}

func NewMemoryStore(ttl time.Duration, logger *zap.Logger, opts ...Option) *MemoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &MemoryStore{ttl: ttl, now: time.Now, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save snapshots e and returns a new session id.
func (s *MemoryStore) Save(e *entry.Entry) (string, error) {
	data, err := e.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("snapshot entry: %w", err)
	}
	id := uuid.NewString()
	s.db.Store(id, item{data: data, expires: s.now().Add(s.ttl)})
	s.logger.Debug("session.saved", zap.String("session_id", id), zap.String("username", e.Username()))
	return id, nil
}

// Load restores the entry saved under id. A corrupt snapshot surfaces as
// *entry.DecodeError.
func (s *MemoryStore) Load(id string) (*entry.Entry, error) {
	v, ok := s.db.Load(id)
	if !ok {
		return nil, ErrNotFound
	}
	it := v.(item)
	if !s.now().Before(it.expires) {
		s.db.Delete(id)
		return nil, ErrNotFound
	}
	e := entry.New(entry.TypeUnknown)
	if err := e.UnmarshalBinary(it.data); err != nil {
		return nil, fmt.Errorf("restore session %s: %w", id, err)
	}
	return e, nil
}

// Delete removes id. Unknown ids are ignored.
func (s *MemoryStore) Delete(id string) {
	s.db.Delete(id)
}

// Ping reports store readiness.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Len counts stored sessions, expired or not.
func (s *MemoryStore) Len() int {
	n := 0
	s.db.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Sweep drops expired sessions and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	now := s.now()
	removed := 0
	s.db.Range(func(k, v any) bool {
		if !now.Before(v.(item).expires) {
			s.db.Delete(k)
			removed++
		}
		return true
	})
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Info("session.swept", zap.Int("removed", n))
			}
		}
	}
}
