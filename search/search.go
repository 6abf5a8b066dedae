package search

import (
	"context"
	"errors"
	"time"

	"github.com/kataras/golog"
)

// Document is a single retrieved evidence unit. URL doubles as the identity
// key when documents from several queries are merged.
type Document struct {
	Content string `json:"content"`
	Title   string `json:"title"`
	URL     string `json:"url"`
}

// Retriever fetches documents for a query. Implementations are total: they
// degrade internally and never return an error to the caller.
type Retriever interface {
	Retrieve(ctx context.Context, query string) []Document
}

// ResultKind classifies a provider call outcome so the retry loop can match
// on the variant instead of inspecting error types.
type ResultKind int

const (
	// ResultOK means the provider returned usable documents.
	ResultOK ResultKind = iota
	// ResultRetryable means the call failed transiently (timeout, rate limit).
	ResultRetryable
	// ResultFatal means the call failed in a way retrying will not fix.
	ResultFatal
)

// Result is the outcome of a single provider attempt.
type Result struct {
	Kind   ResultKind
	Docs   []Document
	Reason error
}

// Ok builds a successful Result.
func Ok(docs []Document) Result { return Result{Kind: ResultOK, Docs: docs} }

// Retryable builds a transient-failure Result.
func Retryable(reason error) Result { return Result{Kind: ResultRetryable, Reason: reason} }

// Fatal builds a permanent-failure Result.
func Fatal(reason error) Result { return Result{Kind: ResultFatal, Reason: reason} }

// Provider is a network search backend.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) Result
}

const (
	// attemptTimeout bounds each provider attempt. Kept short because the
	// chain retries and falls back quickly.
	attemptTimeout = 1 * time.Second

	// maxRetries is the number of retry attempts per provider after the
	// initial call, applied only to retryable outcomes.
	maxRetries = 2

	// backoffStep is multiplied by the attempt number for linear backoff.
	backoffStep = 200 * time.Millisecond
)

// ErrRateLimited signals an HTTP 429-equivalent response from a provider.
var ErrRateLimited = errors.New("rate limited")

// WebSearcher tries network providers in priority order with per-attempt
// timeout and bounded retries, then falls back to the deterministic mock.
// Retrieve never fails: the mock requires no credential and always answers.
type WebSearcher struct {
	providers []Provider
	mock      *MockProvider

	timeout time.Duration
	retries int
	backoff time.Duration
}

// Config holds credentials for the network providers. Empty keys disable the
// corresponding provider.
type Config struct {
	TavilyAPIKey string
	BraveAPIKey  string
}

// NewWebSearcher builds the provider chain from the configured credentials.
func NewWebSearcher(cfg Config) *WebSearcher {
	s := &WebSearcher{
		mock:    NewMockProvider(),
		timeout: attemptTimeout,
		retries: maxRetries,
		backoff: backoffStep,
	}
	if cfg.TavilyAPIKey != "" {
		s.providers = append(s.providers, NewTavily(cfg.TavilyAPIKey))
	}
	if cfg.BraveAPIKey != "" {
		s.providers = append(s.providers, NewBrave(cfg.BraveAPIKey))
	}
	return s
}

// NewWebSearcherWithProviders builds a searcher over explicit providers.
// Used by tests to inject failing or slow providers.
func NewWebSearcherWithProviders(providers ...Provider) *WebSearcher {
	return &WebSearcher{
		providers: providers,
		mock:      NewMockProvider(),
		timeout:   attemptTimeout,
		retries:   maxRetries,
		backoff:   backoffStep,
	}
}

// Retrieve runs the provider chain for one query.
func (s *WebSearcher) Retrieve(ctx context.Context, query string) []Document {
	for _, provider := range s.providers {
		if docs, ok := s.tryProvider(ctx, provider, query); ok {
			return docs
		}
	}
	return s.mock.Search(ctx, query)
}

// tryProvider runs one provider with timeout, retrying transient failures
// with linearly increasing backoff.
func (s *WebSearcher) tryProvider(ctx context.Context, provider Provider, query string) ([]Document, bool) {
	for attempt := 0; ; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
		res := provider.Search(attemptCtx, query)
		cancel()

		switch res.Kind {
		case ResultOK:
			return res.Docs, true
		case ResultRetryable:
			if attempt < s.retries {
				golog.Debugf("search: %s transient failure (attempt %d): %v", provider.Name(), attempt+1, res.Reason)
				if !sleepCtx(ctx, s.backoff*time.Duration(attempt+1)) {
					return nil, false
				}
				continue
			}
			golog.Warnf("search: %s retries exhausted: %v", provider.Name(), res.Reason)
			return nil, false
		default:
			golog.Warnf("search: %s failed: %v", provider.Name(), res.Reason)
			return nil, false
		}
	}
}

// sleepCtx sleeps for d unless the context is cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
