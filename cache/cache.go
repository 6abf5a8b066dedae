package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kataras/golog"
	"github.com/redis/go-redis/v9"

	"research-agent/search"
)

// Envelope kinds. Stored values are tagged so decoding is type-driven
// instead of sniffing the payload shape.
const (
	KindDocuments = "documents"
	KindValue     = "value"
)

// Envelope wraps every cached value with an explicit kind tag.
type Envelope struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// Client is a thin Redis wrapper that memoizes JSON-serializable results.
// A nil *Client is valid and acts as a no-op cache, so callers never need
// to branch on cache availability.
type Client struct {
	rdb    *redis.Client
	prefix string
}

// Options configuration for the cache connection.
type Options struct {
	// URL is a redis:// connection string. Empty disables the cache.
	URL string
	// Prefix is prepended to every key, default "agent:".
	Prefix string
}

// New connects to Redis and verifies the connection with a ping.
// Any failure is non-fatal: it logs a warning and returns a nil client,
// which downgrades all cache operations to pass-through.
func New(ctx context.Context, opts Options) *Client {
	if opts.URL == "" {
		return nil
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		golog.Warnf("cache: invalid redis url, disabling cache: %v", err)
		return nil
	}

	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		golog.Warnf("cache: redis unavailable, disabling cache: %v", err)
		return nil
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "agent:"
	}

	return &Client{rdb: rdb, prefix: prefix}
}

// Get returns the decoded payload for key, or false on miss or any backend
// or decoding failure.
func (c *Client) Get(ctx context.Context, key string) (json.RawMessage, bool) {
	if c == nil {
		return nil, false
	}

	data, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			golog.Warnf("cache: get %s failed: %v", key, err)
		}
		return nil, false
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		golog.Warnf("cache: malformed entry for %s: %v", key, err)
		return nil, false
	}
	return env.Payload, true
}

// Set stores value under key with the given TTL. Serialization or backend
// failures are logged and swallowed; caching is best-effort.
func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if c == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		golog.Warnf("cache: cannot serialize value for %s: %v", key, err)
		return
	}

	env := Envelope{Kind: kindOf(value), Payload: payload}
	data, err := json.Marshal(env)
	if err != nil {
		golog.Warnf("cache: cannot serialize envelope for %s: %v", key, err)
		return
	}

	if err := c.rdb.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
		golog.Warnf("cache: set %s failed: %v", key, err)
	}
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

// kindOf tags the envelope: document lists get their own kind, everything
// else is a plain value.
func kindOf(value any) string {
	if _, ok := value.([]search.Document); ok {
		return KindDocuments
	}
	return KindValue
}
