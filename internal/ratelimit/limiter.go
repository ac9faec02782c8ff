// Package ratelimit implements a Redis-backed token bucket shared by all
// API instances.
package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// keyPrefix is the Redis key prefix for client buckets.
	keyPrefix = "taskledger:ratelimit:"
	// minBucketTTL keeps idle buckets around long enough to refill.
	minBucketTTL = 10 * time.Second
)

// Result describes the outcome of a single Allow call.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int64
	RetryAfter time.Duration
}

// tokenBucket refills at ARGV[1] tokens per second up to ARGV[2] tokens.
// Time is passed in milliseconds so the bucket refills smoothly.
var tokenBucket = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])
	local burst = tonumber(ARGV[2])
	local now_ms = tonumber(ARGV[3])
	local ttl_ms = tonumber(ARGV[4])

	local state = redis.call('HMGET', key, 'tokens', 'ts')
	local tokens = tonumber(state[1]) or burst
	local ts = tonumber(state[2]) or now_ms

	local elapsed = math.max(0, now_ms - ts) / 1000
	tokens = math.min(burst, tokens + elapsed * rate)

	local allowed = 0
	local retry_ms = 0
	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		retry_ms = math.ceil((1 - tokens) / rate * 1000)
	end

	redis.call('HSET', key, 'tokens', tokens, 'ts', now_ms)
	redis.call('PEXPIRE', key, ttl_ms)

	return {allowed, retry_ms, math.floor(tokens)}
`)

// Limiter enforces a per-client request rate.
type Limiter struct {
	client *redis.Client
	rate   int
	burst  int
	ttl    time.Duration
	now    func() time.Time
}

// New creates a Limiter on an existing Redis client.
// rate is in requests per second; burst is the bucket capacity.
func New(client *redis.Client, rate, burst int) (*Limiter, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("rate must be positive, got %d", rate)
	}
	if burst < 1 {
		burst = 1
	}

	// Long enough for an empty bucket to refill completely.
	ttl := time.Duration(float64(burst)/float64(rate)*float64(time.Second)) + time.Second
	if ttl < minBucketTTL {
		ttl = minBucketTTL
	}

	return &Limiter{
		client: client,
		rate:   rate,
		burst:  burst,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Allow consumes one token from the bucket identified by clientID.
// Client identifiers are hashed before they reach Redis.
func (l *Limiter) Allow(ctx context.Context, clientID string) (*Result, error) {
	res, err := tokenBucket.Run(ctx, l.client,
		[]string{keyPrefix + hashClientID(clientID)},
		l.rate, l.burst, l.now().UnixMilli(), l.ttl.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit script: %w", err)
	}
	if len(res) != 3 {
		return nil, fmt.Errorf("rate limit script: unexpected reply length %d", len(res))
	}

	return &Result{
		Allowed:    res[0] == 1,
		Limit:      l.burst,
		Remaining:  res[2],
		RetryAfter: time.Duration(res[1]) * time.Millisecond,
	}, nil
}

// hashClientID creates a truncated SHA256 hash so raw IPs are never stored.
func hashClientID(id string) string {
	sum := sha256.Sum256([]byte(id))
	return hex.EncodeToString(sum[:8])
}
