package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/NagasuriRaviTeja/movie-magic/internal/utils"
)

const keyPrefix = "session:"

// tokenBytes is the entropy of a session token; 32 bytes -> 64 hex chars.
const tokenBytes = 32

// RedisStore keeps sessions as JSON values under "session:<token>" with a
// sliding TTL refreshed on every Save.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (r *RedisStore) Create(ctx context.Context, email string) (*Session, error) {
	token, err := utils.RandomHex(tokenBytes)
	if err != nil {
		return nil, err
	}
	s := &Session{Token: token, Email: email}
	if err := r.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	raw, err := r.rdb.Get(ctx, keyPrefix+token).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	s.Token = token
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, keyPrefix+s.Token, raw, r.ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, token string) error {
	return r.rdb.Del(ctx, keyPrefix+token).Err()
}
