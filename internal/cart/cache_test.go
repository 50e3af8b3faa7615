package cart

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &RedisCache{Client: client}, mr
}

func TestCacheReplaceAndLinesKeepOrder(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()
	owner := UserOwner("alice")

	lines := []Line{
		{ProductID: "p2", Qty: 1},
		{ProductID: "p1", Qty: 3},
	}
	require.NoError(t, c.Replace(ctx, owner, lines))

	got, err := c.Lines(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, lines, got)
}

func TestCacheMiss(t *testing.T) {
	c, _ := setupTestCache(t)

	_, err := c.Lines(context.Background(), SessionOwner("nope"))
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCacheEmptyReplaceReadsAsMiss(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()
	owner := UserOwner("alice")

	require.NoError(t, c.Replace(ctx, owner, []Line{{ProductID: "p1", Qty: 1}}))
	require.NoError(t, c.Replace(ctx, owner, nil))

	_, err := c.Lines(ctx, owner)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCacheDelete(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()
	owner := UserOwner("alice")

	require.NoError(t, c.Replace(ctx, owner, []Line{{ProductID: "p1", Qty: 1}}))
	require.NoError(t, c.Delete(ctx, owner))

	_, err := c.Lines(ctx, owner)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCacheCorruptEntry(t *testing.T) {
	c, mr := setupTestCache(t)
	owner := UserOwner("alice")

	_, err := mr.Push(cacheKey(owner), "{not json")
	require.NoError(t, err)

	_, err = c.Lines(context.Background(), owner)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestCacheSetsTTL(t *testing.T) {
	c, mr := setupTestCache(t)
	owner := UserOwner("alice")

	require.NoError(t, c.Replace(context.Background(), owner, []Line{{ProductID: "p1", Qty: 1}}))
	assert.Greater(t, mr.TTL(cacheKey(owner)).Seconds(), 0.0)
}

// Full read-through: miss fills the mirror from the store, writes drop it.
func TestServiceReadThroughAndInvalidate(t *testing.T) {
	ctx := context.Background()
	c, mr := setupTestCache(t)
	st := newMemStore()
	svc := &Service{Store: st, Cache: c, Products: memProducts{ids: map[string]bool{"p1": true}}}
	alice := Identity{UserID: "alice"}

	require.NoError(t, svc.AddItem(ctx, alice, "p1", 2))

	lines, err := svc.GetCart(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []Line{{ProductID: "p1", Qty: 2}}, lines)
	assert.True(t, mr.Exists(cacheKey(UserOwner("alice")))) // filled on miss

	require.NoError(t, svc.AddItem(ctx, alice, "p1", 1))
	assert.False(t, mr.Exists(cacheKey(UserOwner("alice")))) // invalidated by write

	lines, err = svc.GetCart(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []Line{{ProductID: "p1", Qty: 3}}, lines)
}

// A stale mirror serves reads, but any write hands authority back to the store.
func TestServiceStoreAuthoritativeAfterWrite(t *testing.T) {
	ctx := context.Background()
	c, _ := setupTestCache(t)
	st := newMemStore()
	svc := &Service{Store: st, Cache: c, Products: memProducts{ids: map[string]bool{"p1": true}}}
	owner := UserOwner("alice")

	_, err := st.ApplyDelta(ctx, owner, "p1", 7)
	require.NoError(t, err)
	require.NoError(t, c.Replace(ctx, owner, []Line{{ProductID: "p1", Qty: 1}})) // diverged mirror

	require.NoError(t, svc.AddItem(ctx, Identity{UserID: "alice"}, "p1", 1))

	lines, err := svc.GetCart(ctx, Identity{UserID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, []Line{{ProductID: "p1", Qty: 8}}, lines)
}
