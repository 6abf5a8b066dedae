package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kataras/golog"

	"research-agent/search"
)

// Cached wraps op with memoization. The cache key is derived from the
// operation name and its argument, so it is stable across process restarts.
// On hit the stored result is decoded and op is skipped; on miss op runs and
// its result is stored with the TTL. All cache failures degrade to calling
// op directly.
func Cached[T any](c *Client, name string, ttl time.Duration, op func(context.Context, string) (T, error)) func(context.Context, string) (T, error) {
	return func(ctx context.Context, arg string) (T, error) {
		key := name + ":" + arg

		if payload, ok := c.Get(ctx, key); ok {
			var out T
			if err := json.Unmarshal(payload, &out); err == nil {
				return out, nil
			}
			golog.Warnf("cache: undecodable payload for %s, refetching", key)
		}

		out, err := op(ctx, arg)
		if err != nil {
			return out, err
		}
		c.Set(ctx, key, out, ttl)
		return out, nil
	}
}

// cachedRetriever memoizes a search.Retriever through a Client.
type cachedRetriever struct {
	fn func(context.Context, string) ([]search.Document, error)
}

// Retriever wraps next with memoization under the "websearch" namespace.
// With a nil client the wrapper is a transparent pass-through.
func Retriever(c *Client, ttl time.Duration, next search.Retriever) search.Retriever {
	fn := Cached(c, "websearch", ttl, func(ctx context.Context, query string) ([]search.Document, error) {
		return next.Retrieve(ctx, query), nil
	})
	return &cachedRetriever{fn: fn}
}

// Retrieve implements search.Retriever.
func (r *cachedRetriever) Retrieve(ctx context.Context, query string) []search.Document {
	docs, _ := r.fn(ctx, query)
	return docs
}
