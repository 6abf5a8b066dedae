package search

import (
	"context"
	"hash/fnv"
	"time"
)

// mockPool is the fixed set of documents the mock provider serves from.
var mockPool = []Document{
	{
		Content: "Argentina won the 2022 FIFA World Cup, beating France on penalties.",
		Title:   "Argentina triumph in Qatar",
		URL:     "https://example.com/argentina",
	},
	{
		Content: "HPA scales pods on CPU/Memory, whereas KEDA scales on 50+ event sources.",
		Title:   "HPA vs KEDA",
		URL:     "https://example.com/keda",
	},
	{
		Content: "Goroutines are lightweight threads managed by the Go runtime; channels synchronize them.",
		Title:   "Concurrency in Go",
		URL:     "https://example.com/goroutines",
	},
}

// MockProvider serves canned documents so the pipeline works with no
// credentials at all. Selection is a stable hash of the query, never random,
// so the same query always yields the same document.
type MockProvider struct {
	pool  []Document
	delay time.Duration
}

// NewMockProvider creates the deterministic fallback provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		pool:  mockPool,
		delay: 50 * time.Millisecond, // simulate latency
	}
}

// Search returns the pool document selected by the query hash.
func (m *MockProvider) Search(ctx context.Context, query string) []Document {
	select {
	case <-ctx.Done():
	case <-time.After(m.delay):
	}

	h := fnv.New32a()
	h.Write([]byte(query))
	doc := m.pool[int(h.Sum32())%len(m.pool)]
	return []Document{doc}
}
