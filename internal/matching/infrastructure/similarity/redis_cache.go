package similarity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/helpmatch/helpmatch/internal/matching/domain/scoring"
)

const defaultCacheTTL = 5 * time.Minute

// CachedScorer wraps a SimilarityScorer with a Redis cache keyed on the
// skill set and task text. Cache failures fall through to the inner
// scorer, never to the caller.
type CachedScorer struct {
	inner  scoring.SimilarityScorer
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedScorer creates a caching decorator around a scorer.
func NewCachedScorer(inner scoring.SimilarityScorer, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedScorer {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedScorer{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Score returns the cached similarity when present, otherwise delegates
// to the inner scorer and stores the result.
func (c *CachedScorer) Score(ctx context.Context, skills []string, title, description string) (float64, error) {
	key := c.cacheKey(skills, title, description)

	val, err := c.client.Get(ctx, key).Result()
	if err == nil {
		if score, parseErr := strconv.ParseFloat(val, 64); parseErr == nil {
			return score, nil
		}
	} else if err != redis.Nil {
		c.logger.Debug("similarity cache read failed", "error", err)
	}

	score, err := c.inner.Score(ctx, skills, title, description)
	if err != nil {
		return score, err
	}

	if setErr := c.client.Set(ctx, key, strconv.FormatFloat(score, 'f', -1, 64), c.ttl).Err(); setErr != nil {
		c.logger.Debug("similarity cache write failed", "error", setErr)
	}

	return score, nil
}

// cacheKey hashes the inputs so arbitrary task text cannot produce
// oversized or unsafe Redis keys.
func (c *CachedScorer) cacheKey(skills []string, title, description string) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(skills, ",")))
	h.Write([]byte{0})
	h.Write([]byte(title))
	h.Write([]byte{0})
	h.Write([]byte(description))
	return "similarity:score:" + hex.EncodeToString(h.Sum(nil))
}
