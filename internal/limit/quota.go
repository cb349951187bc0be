package limit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const quotaPrefix = "launchpad:upload:quota"

// QuotaStore 基于 Redis 的固定窗口计数器，限制每个客户端的上传次数
type QuotaStore struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewQuotaStore limit <= 0 表示不限流
func NewQuotaStore(rdb *redis.Client, limit int, window time.Duration) *QuotaStore {
	if window <= 0 {
		window = time.Minute
	}
	return &QuotaStore{rdb: rdb, limit: limit, window: window, now: time.Now}
}

// getKey 按客户端和窗口编号构造 key
func (q *QuotaStore) getKey(client string) string {
	bucket := q.now().UnixNano() / int64(q.window)
	return fmt.Sprintf("%s:%s:%d", quotaPrefix, client, bucket)
}

// Allow 计数 +1，返回本次是否允许以及窗口内剩余次数
func (q *QuotaStore) Allow(ctx context.Context, client string) (bool, int, error) {
	if q == nil || q.rdb == nil || q.limit <= 0 {
		return true, -1, nil
	}

	key := q.getKey(client)
	var incr *redis.IntCmd
	_, err := q.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, q.window)
		return nil
	})
	if err != nil {
		return false, 0, fmt.Errorf("redis incr error: %w", err)
	}

	count := int(incr.Val())
	remaining := q.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= q.limit, remaining, nil
}
