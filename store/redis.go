// Package store provides persistence backends for game session state.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	genie "github.com/genielab/number-genie-go"
)

// RedisSessionStore implements genie.SessionStore on top of Redis.
// Sessions are stored as JSON under "{prefix}:session:{id}".
type RedisSessionStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// RedisStoreConfig configures the Redis session store.
type RedisStoreConfig struct {
	Prefix string        // key prefix, default "genie"
	TTL    time.Duration // session expiry, 0 = no expiry
}

// NewRedisSessionStore creates a SessionStore backed by Redis. The client
// may be a plain Client, a ClusterClient, or a Ring.
func NewRedisSessionStore(client redis.UniversalClient, config ...RedisStoreConfig) *RedisSessionStore {
	cfg := RedisStoreConfig{Prefix: "genie"}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "genie"
	}
	return &RedisSessionStore{
		client: client,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
	}
}

func (r *RedisSessionStore) sessionKey(sessionID string) string {
	return fmt.Sprintf("%s:session:%s", r.prefix, sessionID)
}

func (r *RedisSessionStore) Load(ctx context.Context, sessionID string) (*genie.SessionState, error) {
	raw, err := r.client.Get(ctx, r.sessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, genie.ErrSessionNotFound
		}
		return nil, fmt.Errorf("redis get session %q: %w", sessionID, err)
	}
	state := &genie.SessionState{}
	if err := json.Unmarshal([]byte(raw), state); err != nil {
		return nil, fmt.Errorf("decode session %q: %w", sessionID, err)
	}
	return state, nil
}

func (r *RedisSessionStore) Save(ctx context.Context, sessionID string, state *genie.SessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session %q: %w", sessionID, err)
	}
	if err := r.client.Set(ctx, r.sessionKey(sessionID), string(data), r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session %q: %w", sessionID, err)
	}
	return nil
}

func (r *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis del session %q: %w", sessionID, err)
	}
	return nil
}

// Close releases the underlying client.
func (r *RedisSessionStore) Close() error {
	return r.client.Close()
}

// Compile-time interface check.
var _ genie.SessionStore = (*RedisSessionStore)(nil)
