package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/time/rate"
)

// Limiter decides whether one more request for key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// -----------------------------------------------------------------------
// In-memory
// -----------------------------------------------------------------------

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Memory keeps one x/time/rate bucket per key. Buckets idle for longer
// than ttl are evicted on the next Allow.
type Memory struct {
	rps   rate.Limit
	burst int
	ttl   time.Duration

	mu        sync.Mutex
	buckets   map[string]*entry
	lastSweep time.Time
	now       func() time.Time
}

func NewMemory(rps float64, burst int) *Memory {
	return &Memory{
		rps:     rate.Limit(rps),
		burst:   burst,
		ttl:     10 * time.Minute,
		buckets: make(map[string]*entry),
		now:     time.Now,
	}
}

func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.Sub(m.lastSweep) > m.ttl {
		for k, e := range m.buckets {
			if now.Sub(e.lastSeen) > m.ttl {
				delete(m.buckets, k)
			}
		}
		m.lastSweep = now
	}

	e, ok := m.buckets[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(m.rps, m.burst)}
		m.buckets[key] = e
	}
	e.lastSeen = now

	return e.limiter.AllowN(now, 1), nil
}

// -----------------------------------------------------------------------
// Redis
// -----------------------------------------------------------------------

// tokenBucket refills KEYS[1] at ARGV[1] tokens/s up to ARGV[2] and takes
// one token when available. ARGV[3] is now in milliseconds.
var tokenBucket = redis.NewScript(`
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

local state = redis.call("HMGET", KEYS[1], "tokens", "ts")
local tokens = tonumber(state[1])
local ts = tonumber(state[2])
if tokens == nil then
  tokens = burst
  ts = now
end

local elapsed = math.max(0, now - ts) / 1000
tokens = math.min(burst, tokens + elapsed * rate)

local allowed = 0
if tokens >= 1 then
  tokens = tokens - 1
  allowed = 1
end

redis.call("HSET", KEYS[1], "tokens", tokens, "ts", now)
redis.call("PEXPIRE", KEYS[1], math.ceil(burst / rate * 1000) + 1000)
return allowed
`)

// Redis shares buckets between instances.
type Redis struct {
	client redis.Scripter
	prefix string
	rps    float64
	burst  int
	now    func() time.Time
}

func NewRedis(client redis.Scripter, rps float64, burst int) *Redis {
	return &Redis{
		client: client,
		prefix: "ratelimit:",
		rps:    rps,
		burst:  burst,
		now:    time.Now,
	}
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	res, err := tokenBucket.Run(
		ctx,
		r.client,
		[]string{r.prefix + key},
		r.rps,
		r.burst,
		r.now().UnixMilli(),
	).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

// ErrInvalidRate rejects limits that would never refill or never admit.
var ErrInvalidRate = errors.New("rate limit rps and burst must be positive")

// NewFromURL returns a Redis limiter when url is set and reachable, an
// in-memory one otherwise. The returned client is nil for the in-memory
// case.
func NewFromURL(ctx context.Context, url string, rps float64, burst int) (Limiter, *redis.Client, error) {
	if rps <= 0 || burst <= 0 {
		return nil, nil, fmt.Errorf("%w: rps=%v burst=%d", ErrInvalidRate, rps, burst)
	}

	if url == "" {
		return NewMemory(rps, burst), nil, nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	return NewRedis(client, rps, burst), client, nil
}
