package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/streetfare/booking-api/internal/core/domain"
)

const dedupTTL = 24 * time.Hour

// DedupChecker suppresses duplicate fan-out for the same (request, event)
// pair, backed by Redis. Key format: fanout:<request_id>:<kind>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether fan-out already ran for this request and kind.
func (d *DedupChecker) IsDuplicate(ctx context.Context, requestID string, kind domain.FanoutKind) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(requestID, kind)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that fan-out ran (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, requestID string, kind domain.FanoutKind) error {
	return d.client.Set(ctx, d.key(requestID, kind), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(requestID string, kind domain.FanoutKind) string {
	return fmt.Sprintf("fanout:%s:%s", requestID, kind)
}
