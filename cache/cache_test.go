package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-agent/search"
)

func testClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c := New(context.Background(), Options{URL: "redis://" + mr.Addr()})
	require.NotNil(t, c)
	t.Cleanup(func() { c.Close() })

	return c, mr
}

func TestCachedMemoizesDocuments(t *testing.T) {
	c, _ := testClient(t)
	ctx := context.Background()

	docs := []search.Document{
		{Content: "snippet", Title: "title", URL: "https://example.com/1"},
	}

	calls := 0
	op := func(ctx context.Context, query string) ([]search.Document, error) {
		calls++
		return docs, nil
	}

	cached := Cached(c, "websearch", time.Minute, op)

	first, err := cached(ctx, "go concurrency")
	require.NoError(t, err)
	assert.Equal(t, docs, first)

	second, err := cached(ctx, "go concurrency")
	require.NoError(t, err)
	assert.Equal(t, docs, second)

	assert.Equal(t, 1, calls, "second call must be served from cache")
}

func TestCachedMemoizesPlainValues(t *testing.T) {
	c, _ := testClient(t)
	ctx := context.Background()

	calls := 0
	op := func(ctx context.Context, arg string) (map[string]int, error) {
		calls++
		return map[string]int{"n": 42}, nil
	}

	cached := Cached(c, "compute", time.Minute, op)

	_, err := cached(ctx, "x")
	require.NoError(t, err)
	out, err := cached(ctx, "x")
	require.NoError(t, err)

	assert.Equal(t, 42, out["n"])
	assert.Equal(t, 1, calls)
}

func TestEnvelopeKinds(t *testing.T) {
	c, mr := testClient(t)
	ctx := context.Background()

	c.Set(ctx, "docs", []search.Document{{Content: "c", URL: "u"}}, time.Minute)
	c.Set(ctx, "val", "hello", time.Minute)

	raw, err := mr.Get("agent:docs")
	require.NoError(t, err)
	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(raw), &env))
	assert.Equal(t, KindDocuments, env.Kind)

	raw, err = mr.Get("agent:val")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(raw), &env))
	assert.Equal(t, KindValue, env.Kind)
}

func TestDocumentEncodingShape(t *testing.T) {
	c, mr := testClient(t)
	ctx := context.Background()

	c.Set(ctx, "docs", []search.Document{{Content: "body", Title: "t", URL: "https://example.com"}}, time.Minute)

	raw, err := mr.Get("agent:docs")
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(raw), &env))

	var items []map[string]string
	require.NoError(t, json.Unmarshal(env.Payload, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "body", items[0]["content"])
	assert.Equal(t, "t", items[0]["title"])
	assert.Equal(t, "https://example.com", items[0]["url"])
}

func TestTTLExpiry(t *testing.T) {
	c, mr := testClient(t)
	ctx := context.Background()

	calls := 0
	cached := Cached(c, "op", time.Second, func(ctx context.Context, arg string) (string, error) {
		calls++
		return "result", nil
	})

	_, err := cached(ctx, "a")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	_, err = cached(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "expired entry must be refetched")
}

func TestNilClientFailsOpen(t *testing.T) {
	t.Parallel()

	var c *Client
	ctx := context.Background()

	calls := 0
	cached := Cached(c, "op", time.Minute, func(ctx context.Context, arg string) (int, error) {
		calls++
		return 7, nil
	})

	out, err := cached(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 7, out)

	out, err = cached(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 7, out)
	assert.Equal(t, 2, calls, "nil cache must pass every call through")
}

func TestNewWithUnreachableRedis(t *testing.T) {
	t.Parallel()

	c := New(context.Background(), Options{URL: "redis://127.0.0.1:1"})
	assert.Nil(t, c, "unreachable redis must disable the cache, not fail")
}

func TestRetrieverWrapper(t *testing.T) {
	c, _ := testClient(t)
	ctx := context.Background()

	inner := &countingRetriever{docs: []search.Document{{Content: "x", URL: "https://example.com/x"}}}
	r := Retriever(c, time.Minute, inner)

	first := r.Retrieve(ctx, "q")
	second := r.Retrieve(ctx, "q")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
}

type countingRetriever struct {
	docs  []search.Document
	calls int
}

func (r *countingRetriever) Retrieve(ctx context.Context, query string) []search.Document {
	r.calls++
	return r.docs
}
