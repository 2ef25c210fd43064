package cache

import (
	"encoding/json"
	"time"

	"github.com/crewdash/crewdash/internal/roster"
)

// Entry is the single cached roster slot: the data plus the instant it was
// written. Entries are created whole on every successful fetch and never
// partially updated.
type Entry struct {
	// Timestamp is the write instant in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`

	// Data is the cached roster.
	Data roster.Roster `json:"data"`
}

// NewEntry creates an entry stamped with the given instant.
func NewEntry(data roster.Roster, now time.Time) *Entry {
	return &Entry{
		Timestamp: now.UnixMilli(),
		Data:      data,
	}
}

// WrittenAt returns the entry's write instant.
func (e *Entry) WrittenAt() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Age returns the duration since the entry was written.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.WrittenAt())
}

// IsStale reports whether the entry is older than ttl. A stale entry is
// still usable for optimistic display while a refresh runs.
func (e *Entry) IsStale(ttl time.Duration, now time.Time) bool {
	return e.Age(now) > ttl
}

// decodeEntry parses a stored slot, rejecting anything that does not have
// the expected shape. Corrupt values return (nil, false) so callers treat
// them exactly like a cache miss.
func decodeEntry(raw []byte) (*Entry, bool) {
	// Probe the shape first: the timestamp must be numeric and data must be
	// a JSON array, otherwise the slot is unusable.
	var probe struct {
		Timestamp json.Number     `json:"timestamp"`
		Data      json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, false
	}
	millis, err := probe.Timestamp.Int64()
	if err != nil || millis <= 0 {
		return nil, false
	}
	if len(probe.Data) == 0 || probe.Data[0] != '[' {
		return nil, false
	}

	var data roster.Roster
	if err := json.Unmarshal(probe.Data, &data); err != nil {
		return nil, false
	}
	for _, p := range data {
		if p == nil || p.Name == "" || p.Email == "" {
			return nil, false
		}
	}

	return &Entry{Timestamp: millis, Data: data}, true
}
