package similarity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/audience-simulator/internal/pkg/logger"
)

// VectorCache stores embedding vectors in redis keyed by a hash of the
// source text. Persona profiles repeat across runs, so caching saves one
// embedding call per persona per run. Correctness never depends on the
// cache: every error path reads as a miss.
type VectorCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewVectorCache wraps a redis client. ttl <= 0 defaults to one hour.
func NewVectorCache(rdb *redis.Client, ttl time.Duration) *VectorCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &VectorCache{rdb: rdb, ttl: ttl}
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "sim:emb:" + hex.EncodeToString(sum[:])
}

// Get returns the cached vector for text, or ok=false on miss or error.
func (c *VectorCache) Get(ctx context.Context, text string) ([]float64, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, cacheKey(text)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Debug("vector cache get failed", "error", err)
		}
		return nil, false
	}
	var vec []float64
	if err := json.Unmarshal(data, &vec); err != nil || len(vec) == 0 {
		return nil, false
	}
	return vec, true
}

// Put stores the vector for text. Errors are logged at debug and dropped.
func (c *VectorCache) Put(ctx context.Context, text string, vec []float64) {
	if c == nil || c.rdb == nil {
		return
	}
	data, err := json.Marshal(vec)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(text), data, c.ttl).Err(); err != nil {
		logger.Debug("vector cache put failed", "error", err)
	}
}
