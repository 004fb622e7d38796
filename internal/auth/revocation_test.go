package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRevocationRoundTrip(t *testing.T) {
	s := newMemoryRevocation()
	ctx := context.Background()

	hit, err := s.Contains(ctx, "tok-a")
	require.NoError(t, err)
	assert.False(t, hit, "unknown token must not be revoked")

	require.NoError(t, s.Revoke(ctx, "tok-a", time.Hour))

	hit, err = s.Contains(ctx, "tok-a")
	require.NoError(t, err)
	assert.True(t, hit)

	// revoking again is a no-op, not an error
	require.NoError(t, s.Revoke(ctx, "tok-a", time.Hour))
	hit, _ = s.Contains(ctx, "tok-a")
	assert.True(t, hit)
}

func TestMemoryRevocationEntryExpiry(t *testing.T) {
	s := newMemoryRevocation()
	ctx := context.Background()

	require.NoError(t, s.Revoke(ctx, "tok-b", 10*time.Millisecond))
	hit, err := s.Contains(ctx, "tok-b")
	require.NoError(t, err)
	assert.True(t, hit)

	time.Sleep(20 * time.Millisecond)
	hit, err = s.Contains(ctx, "tok-b")
	require.NoError(t, err)
	assert.False(t, hit, "entry must lapse with the token's own expiry")
}

func TestMemoryRevocationSweepsExpired(t *testing.T) {
	s := newMemoryRevocation()
	ctx := context.Background()

	require.NoError(t, s.Revoke(ctx, "old", 1*time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	// the next Revoke sweeps lapsed entries
	require.NoError(t, s.Revoke(ctx, "new", time.Hour))

	s.mu.RLock()
	defer s.mu.RUnlock()
	assert.Len(t, s.entries, 1)
}

func TestMemoryRevocationConcurrent(t *testing.T) {
	s := newMemoryRevocation()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Revoke(ctx, "shared", time.Hour)
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Contains(ctx, "shared")
		}()
	}
	wg.Wait()

	hit, err := s.Contains(ctx, "shared")
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestNewRevocationStoreFallsBackWithoutRedis(t *testing.T) {
	s := NewRevocationStore(nil)
	_, ok := s.(*memoryRevocation)
	assert.True(t, ok)
}
