package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"

	"github.com/crewdash/crewdash/internal/roster"
)

// TTL configuration constants and defaults.
const (
	// DefaultTTL is how long a cached roster is considered fresh.
	DefaultTTL = 5 * time.Minute

	// slotFileName is the single fixed cache slot on disk.
	slotFileName = "roster.json"

	// EnvTTLSeconds overrides the cache TTL.
	EnvTTLSeconds = "CREWDASH_CACHE_TTL_SECONDS"

	// EnvCacheDir overrides the cache directory.
	EnvCacheDir = "CREWDASH_CACHE_DIR"

	// EnvCacheEnabled enables or disables the cache entirely.
	EnvCacheEnabled = "CREWDASH_CACHE_ENABLED"
)

// ErrCacheDisabled is returned by mutating operations when caching is off.
var ErrCacheDisabled = errors.New("cache is disabled")

// Store holds the single roster cache slot as a JSON file.
//
// Read never fails: absent files, unreadable files, and malformed contents
// all present as "no usable cache". Writes are atomic (temp file + rename).
// Single-writer access is assumed; the store does no locking of its own.
type Store struct {
	path    string
	enabled bool
	ttl     time.Duration
}

// NewStore creates a cache store rooted at directory. The directory is
// created if it does not exist.
func NewStore(directory string, enabled bool, ttl time.Duration) (*Store, error) {
	if !enabled {
		return &Store{enabled: false, ttl: ttl}, nil
	}
	if directory == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if err := os.MkdirAll(directory, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Store{
		path:    filepath.Join(directory, slotFileName),
		enabled: true,
		ttl:     ttl,
	}, nil
}

// DefaultDir returns the default cache directory under the user state dir.
// The EnvCacheDir environment variable takes precedence.
func DefaultDir() string {
	if dir := os.Getenv(EnvCacheDir); dir != "" {
		return dir
	}
	return filepath.Join(xdg.StateHome, "crewdash")
}

// TTLFromEnv reads the TTL override from the environment, falling back to
// the default on absence or an unparseable value.
func TTLFromEnv() time.Duration {
	envVal := os.Getenv(EnvTTLSeconds)
	if envVal == "" {
		return DefaultTTL
	}
	seconds, err := strconv.Atoi(envVal)
	if err != nil || seconds <= 0 {
		return DefaultTTL
	}
	return time.Duration(seconds) * time.Second
}

// EnabledFromEnv reads the cache enabled flag from the environment.
// The cache is enabled by default.
func EnabledFromEnv() bool {
	envVal := os.Getenv(EnvCacheEnabled)
	if envVal == "" {
		return true
	}
	enabled, err := strconv.ParseBool(envVal)
	if err != nil {
		return true
	}
	return enabled
}

// TTL returns the store's configured TTL.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// IsEnabled reports whether caching is active.
func (s *Store) IsEnabled() bool {
	return s.enabled
}

// Read returns the cached entry, or (nil, false) when no usable cache
// exists. A missing file, unreadable file, or corrupt slot are all
// recovered silently as a miss.
func (s *Store) Read() (*Entry, bool) {
	if !s.enabled {
		return nil, false
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, false
	}
	return decodeEntry(raw)
}

// Write replaces the cache slot with data, stamped with the current time.
func (s *Store) Write(data roster.Roster) error {
	return s.WriteAt(data, time.Now())
}

// WriteAt replaces the cache slot with data stamped at the given instant.
func (s *Store) WriteAt(data roster.Roster, now time.Time) error {
	if !s.enabled {
		return ErrCacheDisabled
	}

	raw, err := json.Marshal(NewEntry(data, now))
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	// Write to a temporary file first, then rename for atomicity.
	tempPath := s.path + ".tmp"
	if writeErr := os.WriteFile(tempPath, raw, 0o600); writeErr != nil {
		return fmt.Errorf("failed to write cache file: %w", writeErr)
	}
	if renameErr := os.Rename(tempPath, s.path); renameErr != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename cache file: %w", renameErr)
	}
	return nil
}

// Clear removes the cache slot. Clearing an absent slot is not an error.
func (s *Store) Clear() error {
	if !s.enabled {
		return ErrCacheDisabled
	}
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cache file: %w", err)
	}
	return nil
}
