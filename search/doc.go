// Package search implements resilient web retrieval for the research agent.
//
// A WebSearcher tries Tavily first, then Brave, each with a per-attempt
// timeout and bounded retries on transient failures, and finally falls back
// to a deterministic mock provider. Retrieval is total: it always returns a
// document list, never an error.
package search
