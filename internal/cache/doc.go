// Package cache provides the session-scoped roster cache with TTL staleness.
//
// Exactly one roster is ever cached: the store holds a single fixed slot
// containing the last successfully fetched roster plus the instant it was
// written. Key properties:
//   - File-based storage under the user's state directory (no external services)
//   - Staleness check against a configurable TTL (default 5 minutes)
//   - A stale entry is still readable; staleness only signals that a
//     background refresh should run
//   - Corrupt or malformed stored values are silently treated as a miss
//
// The cache is read-accelerating only. It is never a source of truth for
// mutation: local deletions are not written back, and every successful fetch
// replaces the slot wholesale.
package cache
