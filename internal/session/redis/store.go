package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dtroode/cloudblog/internal/model"
)

// redisAPI is the subset of redis.UniversalClient the store calls.
type redisAPI interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Get(ctx context.Context, key string) *goredis.StringCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

const keyPrefix = "cloudblog:session:"

var _ model.SessionStore = (*SessionStore)(nil)

// SessionStore keeps live sessions as expiring keys.
type SessionStore struct {
	client redisAPI
	now    func() time.Time
}

func NewSessionStore(client redisAPI) *SessionStore {
	return &SessionStore{client: client, now: time.Now}
}

type sessionValue struct {
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *SessionStore) Save(ctx context.Context, session model.Session) error {
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return errors.New("session already expired")
	}

	value, err := json.Marshal(sessionValue{Username: session.Username, ExpiresAt: session.ExpiresAt.UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+session.ID, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (model.Session, error) {
	raw, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return model.Session{}, model.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("failed to get session: %w", err)
	}

	var value sessionValue
	if err := json.Unmarshal(raw, &value); err != nil {
		return model.Session{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return model.Session{
		ID:        id,
		Username:  value.Username,
		ExpiresAt: value.ExpiresAt,
	}, nil
}

// Delete removes the session. Deleting an unknown id is not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
