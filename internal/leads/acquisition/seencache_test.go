package acquisition

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"devscout_backend/platform/logger"
)

func TestSeenCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewSeenCache(client, time.Hour, logger.New("development"))

	ctx := context.Background()

	if cache.Seen(ctx, "alice", "n8n-nodes-weather") {
		t.Error("fresh cache reported a hit")
	}

	cache.Mark(ctx, "alice", "n8n-nodes-weather")
	if !cache.Seen(ctx, "alice", "n8n-nodes-weather") {
		t.Error("marked repo not reported as seen")
	}
	if cache.Seen(ctx, "alice", "n8n-other") {
		t.Error("unrelated repo reported as seen")
	}

	mr.FastForward(2 * time.Hour)
	if cache.Seen(ctx, "alice", "n8n-nodes-weather") {
		t.Error("expired entry still reported as seen")
	}
}

func TestSeenCacheNilSafe(t *testing.T) {
	var cache *SeenCache

	ctx := context.Background()
	if cache.Seen(ctx, "alice", "repo") {
		t.Error("nil cache reported a hit")
	}
	cache.Mark(ctx, "alice", "repo")
}
