package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/haguru/gatekeeper/internal/interfaces"
	"github.com/haguru/gatekeeper/internal/models"
)

// RedisStore keeps sessions as JSON values whose TTL is the remaining lifetime.
type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

var _ interfaces.SessionStore = (*RedisStore)(nil)

// NewRedisStore stores sessions under prefix+token.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

// Get returns the session, or nil when the key is missing or the session has expired.
func (s *RedisStore) Get(ctx context.Context, token string) (*models.Session, error) {
	raw, err := s.client.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDecodeSession, err)
	}
	if sess.Expired(s.now()) {
		return nil, nil
	}
	return &sess, nil
}

// Save writes the session with a TTL ending at its expiry. A session that has
// already expired is removed instead.
func (s *RedisStore) Save(ctx context.Context, sess *models.Session) error {
	if sess == nil {
		return errors.New(ErrNilSession)
	}

	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return s.Delete(ctx, sess.Token)
	}

	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrEncodeSession, err)
	}
	return s.client.Set(ctx, s.key(sess.Token), raw, ttl).Err()
}

// Delete removes the session. Missing keys are not an error.
func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.key(token)).Err()
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(token string) string {
	return s.prefix + token
}
