package similarity

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) (*VectorCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewVectorCache(rdb, time.Minute), mr
}

func TestVectorCacheRoundTrip(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	vec := []float64{0.25, -0.5, 1.0}
	cache.Put(ctx, "persona profile text", vec)

	got, ok := cache.Get(ctx, "persona profile text")
	require.True(t, ok)
	assert.Equal(t, vec, got)
}

func TestVectorCacheMiss(t *testing.T) {
	cache, _ := setupCache(t)
	_, ok := cache.Get(context.Background(), "never stored")
	assert.False(t, ok)
}

func TestVectorCacheKeysDistinct(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	cache.Put(ctx, "text one", []float64{1})
	cache.Put(ctx, "text two", []float64{2})

	one, ok := cache.Get(ctx, "text one")
	require.True(t, ok)
	two, ok := cache.Get(ctx, "text two")
	require.True(t, ok)
	assert.NotEqual(t, one, two)
}

func TestVectorCacheDownstreamScorerStillWorks(t *testing.T) {
	cache, mr := setupCache(t)
	mr.Close() // redis gone; every cache op becomes a miss

	emb := &stubEmbedder{vectors: map[string][]float64{
		"a": {1, 0},
		"b": {1, 0},
	}}
	s := NewEmbeddingScorer(emb, cache)
	got := s.Score(context.Background(), "a", "b")
	assert.InDelta(t, 1.0, got, 1e-9)
}

func TestVectorCacheAvoidsRepeatEmbeds(t *testing.T) {
	cache, _ := setupCache(t)
	emb := &stubEmbedder{vectors: map[string][]float64{
		"a": {1, 0},
		"b": {0.5, 0.5},
	}}
	s := NewEmbeddingScorer(emb, cache)
	ctx := context.Background()

	s.Score(ctx, "a", "b")
	require.Equal(t, 2, emb.calls)
	s.Score(ctx, "a", "b")
	assert.Equal(t, 2, emb.calls, "second score should be served from cache")
}
