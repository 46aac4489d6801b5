package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const rolloverLockPrefix = "insights:rollover:"

// RolloverLock elects one instance per calendar day using SETNX with a TTL.
type RolloverLock struct {
	rdb        goredis.Cmdable
	instanceID string
	lockTTL    time.Duration
}

// NewRolloverLock creates a lock. instanceID should be unique per instance.
func NewRolloverLock(rdb goredis.Cmdable, instanceID string, lockTTL time.Duration) *RolloverLock {
	return &RolloverLock{rdb: rdb, instanceID: instanceID, lockTTL: lockTTL}
}

// TryAcquire returns true if this instance is the first to claim dayKey.
func (l *RolloverLock) TryAcquire(ctx context.Context, dayKey string) (bool, error) {
	ok, err := l.rdb.SetNX(ctx, rolloverLockPrefix+dayKey, l.instanceID, l.lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire rollover lock: %w", err)
	}
	return ok, nil
}
