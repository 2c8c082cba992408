package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/haguru/gatekeeper/internal/interfaces"
	"github.com/haguru/gatekeeper/internal/models"
)

// MemoryStore keeps sessions in process memory. A janitor goroutine removes
// expired sessions until Close is called.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
	now      func() time.Time

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

var _ interfaces.SessionStore = (*MemoryStore)(nil)

// NewMemoryStore starts a store sweeping every cleanupInterval. A non-positive
// interval falls back to DefaultCleanupInterval.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	s := &MemoryStore{
		sessions: make(map[string]models.Session),
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go s.janitor(cleanupInterval)
	return s
}

// Get returns a copy of the session, or nil when it is unknown or expired.
func (s *MemoryStore) Get(ctx context.Context, token string) (*models.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok || sess.Expired(s.now()) {
		return nil, nil
	}
	return &sess, nil
}

// Save stores a copy of the session under its token.
func (s *MemoryStore) Save(ctx context.Context, sess *models.Session) error {
	if sess == nil {
		return errors.New(ErrNilSession)
	}
	s.mu.Lock()
	s.sessions[sess.Token] = *sess
	s.mu.Unlock()
	return nil
}

// Delete forgets token. Unknown tokens are ignored.
func (s *MemoryStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the janitor and waits for it to exit. It is safe to call more than once.
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
	return nil
}

func (s *MemoryStore) janitor(interval time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *MemoryStore) sweep() {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, token)
		}
	}
}
