package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	appsession "lessons_reporter_bot/internal/app/session"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis so a half-built report survives a restart.
// Every save refreshes the key's TTL; idle sessions expire on their own.
type RedisStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewRedisClient parses url, connects and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

func NewRedisStore(rdb redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func sessionKey(userID int64) string {
	return fmt.Sprintf("session:%d", userID)
}

func (s *RedisStore) Load(ctx context.Context, userID int64) (*appsession.Session, error) {
	raw, err := s.rdb.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return appsession.New(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session (user_id: %d): %w", userID, err)
	}
	return decode(userID, raw)
}

func (s *RedisStore) Save(ctx context.Context, sess *appsession.Session) error {
	raw, err := encode(sess)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, sessionKey(sess.UserID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("set session (user_id: %d): %w", sess.UserID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, userID int64) error {
	if err := s.rdb.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete session (user_id: %d): %w", userID, err)
	}
	return nil
}
