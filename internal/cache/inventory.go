package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	SummaryKeyPrefix = "feedback:%d:summary"
)

// SummaryTTL bounds how stale a cached thread summary may get. Summaries are
// also invalidated eagerly when a comment lands on the thread.
const SummaryTTL = 10 * time.Minute

func SummaryKey(feedbackID uint) string {
	return fmt.Sprintf(SummaryKeyPrefix, feedbackID)
}

// GetSummary returns the cached summary for a feedback thread, if present.
// A nil client or any Redis failure reads as a cache miss.
func GetSummary(ctx context.Context, rdb *redis.Client, feedbackID uint) (string, bool) {
	if rdb == nil {
		return "", false
	}
	val, err := rdb.Get(ctx, SummaryKey(feedbackID)).Result()
	if err != nil {
		// redis.Nil and transport errors both read as a miss
		return "", false
	}
	return val, true
}

// SetSummary caches a freshly generated summary. Failures are ignored.
func SetSummary(ctx context.Context, rdb *redis.Client, feedbackID uint, summary string) {
	if rdb == nil {
		return
	}
	rdb.Set(ctx, SummaryKey(feedbackID), summary, SummaryTTL)
}

// InvalidateSummary drops the cached summary for a thread.
func InvalidateSummary(ctx context.Context, rdb *redis.Client, feedbackID uint) {
	if rdb == nil {
		return
	}
	rdb.Del(ctx, SummaryKey(feedbackID))
}
