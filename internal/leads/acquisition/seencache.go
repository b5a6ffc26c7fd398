package acquisition

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"devscout_backend/platform/logger"
)

const seenKeyPrefix = "devscout:seen:"

// SeenCache is a best-effort Redis front for repository dedup. It only
// avoids database round trips; the unique index on leads remains the
// source of truth. A nil *SeenCache is valid and never reports a hit.
type SeenCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewSeenCache wraps a Redis client. Entries expire after ttl so repos can
// resurface if the underlying lead is ever deleted.
func NewSeenCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *SeenCache {
	if client == nil {
		return nil
	}
	return &SeenCache{client: client, ttl: ttl, log: log}
}

func seenKey(githubUsername, repoName string) string {
	return seenKeyPrefix + githubUsername + "/" + repoName
}

// Seen reports whether the repo was marked before. Redis failures count as
// a miss so the pipeline falls through to the database check.
func (c *SeenCache) Seen(ctx context.Context, githubUsername, repoName string) bool {
	if c == nil {
		return false
	}
	n, err := c.client.Exists(ctx, seenKey(githubUsername, repoName)).Result()
	if err != nil {
		c.log.Warn("seen cache lookup failed", "error", err)
		return false
	}
	return n > 0
}

// Mark remembers the repo. Failures are logged and ignored.
func (c *SeenCache) Mark(ctx context.Context, githubUsername, repoName string) {
	if c == nil {
		return
	}
	if err := c.client.SetNX(ctx, seenKey(githubUsername, repoName), 1, c.ttl).Err(); err != nil {
		c.log.Warn("seen cache mark failed", "error", err)
	}
}
