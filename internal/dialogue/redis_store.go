package dialogue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "notekeeper:dialogue:"

// RedisStore shares sessions between chat driver instances.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// NewRedisClient parses url (redis://...) and falls back to treating it as host:port.
func NewRedisClient(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		opt = &redis.Options{Addr: url}
	}
	return redis.NewClient(opt)
}

func redisKey(conversationId string) string {
	return redisKeyPrefix + conversationId
}

func (s *RedisStore) Get(ctx context.Context, conversationId string) (*Session, error) {
	raw, err := s.rdb.Get(ctx, redisKey(conversationId)).Bytes()
	if errors.Is(err, redis.Nil) {
		return NewSession(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	session := NewSession()
	if err := json.Unmarshal(raw, session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if session.Data == nil {
		session.Data = map[string]string{}
	}
	return session, nil
}

func (s *RedisStore) Save(ctx context.Context, conversationId string, session *Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.rdb.Set(ctx, redisKey(conversationId), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, conversationId string) error {
	if err := s.rdb.Del(ctx, redisKey(conversationId)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
