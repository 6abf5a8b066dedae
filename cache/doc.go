// Package cache provides optional Redis-backed memoization for retrieval
// results. Entries are stored as a tagged JSON envelope and expire by TTL.
// The cache fails open: a missing, unreachable or misbehaving backend
// degrades every operation to a direct call of the wrapped function.
package cache
