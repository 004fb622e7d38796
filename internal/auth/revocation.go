// Package auth holds the token revocation store used to invalidate
// sessions before their natural expiry. Logout inserts the presented
// token; the JWT middleware consults the store before accepting any
// bearer token, so a revoked token is rejected even while its
// signature and expiry are still valid.
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/online-bookstore/internal/utils"
)

// RevocationStore records revoked session tokens. Entries carry a TTL
// equal to the token's remaining lifetime: once the token would have
// expired anyway the entry is useless and may be dropped, which bounds
// memory growth.
type RevocationStore interface {
	// Revoke marks a token as invalid for ttl. Revoking an already
	// revoked token is a no-op and never an error.
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	// Contains reports whether the token has been revoked.
	Contains(ctx context.Context, token string) (bool, error)
}

// NewRevocationStore returns a Redis-backed store when a client is
// available, otherwise a process-local fallback. The Redis variant is
// what multi-process deployments need; the in-memory one keeps single
// instance setups working when Redis is down at startup.
func NewRevocationStore(rdb *redis.Client) RevocationStore {
	if rdb != nil {
		return &redisRevocation{rdb: rdb}
	}
	return newMemoryRevocation()
}

const revokedKeyPrefix = "revoked:"

type redisRevocation struct {
	rdb *redis.Client
}

func (s *redisRevocation) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute // expired tokens still get a short entry
	}
	return s.rdb.Set(ctx, revokedKeyPrefix+utils.HashToken(token), "1", ttl).Err()
}

func (s *redisRevocation) Contains(ctx context.Context, token string) (bool, error) {
	n, err := s.rdb.Exists(ctx, revokedKeyPrefix+utils.HashToken(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// memoryRevocation is a mutex-guarded map of token hash -> entry
// expiry. Expired entries are swept lazily on each Revoke so the map
// does not grow for the process lifetime.
type memoryRevocation struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

func newMemoryRevocation() *memoryRevocation {
	return &memoryRevocation{entries: make(map[string]time.Time)}
}

func (s *memoryRevocation) Revoke(_ context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, exp := range s.entries {
		if now.After(exp) {
			delete(s.entries, k)
		}
	}
	s.entries[utils.HashToken(token)] = now.Add(ttl)
	return nil
}

func (s *memoryRevocation) Contains(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	exp, ok := s.entries[utils.HashToken(token)]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return time.Now().Before(exp), nil
}
