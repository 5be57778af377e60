// Package ratelimit keeps per-client request quotas in Redis so every
// replica of the API draws from the same budget.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// The counter and its remaining lifetime come back in one round trip.
var takeScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {count, redis.call("PTTL", KEYS[1])}
`)

// Decision is the outcome of a single Take.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

// Quota is a fixed-window counter stored in Redis.
type Quota struct {
	client redis.UniversalClient
	prefix string
	limit  int
	window time.Duration
}

func NewQuota(client redis.UniversalClient, prefix string, limit int, window time.Duration) (*Quota, error) {
	if client == nil {
		return nil, errors.New("ratelimit: redis client is required")
	}
	if limit <= 0 || window < time.Millisecond {
		return nil, errors.New("ratelimit: limit and window must be positive")
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "booknest:ratelimit"
	}
	return &Quota{client: client, prefix: prefix, limit: limit, window: window}, nil
}

// Take consumes one unit for key. The caller decides what a Redis error means.
func (q *Quota) Take(ctx context.Context, key string) (Decision, error) {
	if key = strings.TrimSpace(key); key == "" {
		key = "anonymous"
	}
	windowMs := q.window.Milliseconds()
	slot := time.Now().UnixMilli() / windowMs
	redisKey := fmt.Sprintf("%s:%s:%d", q.prefix, key, slot)

	res, err := takeScript.Run(ctx, q.client, []string{redisKey}, windowMs).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit: %w", err)
	}
	if len(res) != 2 {
		return Decision{}, fmt.Errorf("ratelimit: unexpected reply %v", res)
	}

	count, ttl := res[0], res[1]
	if ttl < 0 {
		ttl = windowMs
	}
	return Decision{
		Allowed:   count <= int64(q.limit),
		Limit:     q.limit,
		Remaining: max(q.limit-int(count), 0),
		ResetIn:   time.Duration(ttl) * time.Millisecond,
	}, nil
}
