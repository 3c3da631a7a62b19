package exceptions

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/moritamori/licenseguard/internal/policy"
)

// FileName is the exception store file looked up in the working directory
const FileName = ".exceptions.toml"

// Entry is one stored exception. Unlike policy exceptions, stored
// entries carry bookkeeping fields and may expire.
type Entry struct {
	Name      string     `toml:"name"`
	Version   string     `toml:"version,omitempty"`
	Reason    string     `toml:"reason"`
	AddedBy   string     `toml:"added_by,omitempty"`
	AddedDate time.Time  `toml:"added_date"`
	Expires   *time.Time `toml:"expires,omitempty"`
	Permanent bool       `toml:"permanent"`
}

// Store is the on-disk exception file
type Store struct {
	Exceptions []Entry `toml:"exceptions"`
}

// Active reports whether the entry applies at the given time. Entries
// without an expiry never expire.
func (e Entry) Active(now time.Time) bool {
	return e.Expires == nil || !now.After(*e.Expires)
}

// Add appends an entry to the store
func (s *Store) Add(entry Entry) {
	s.Exceptions = append(s.Exceptions, entry)
}

// CleanupExpired drops expired entries and returns how many were removed
func (s *Store) CleanupExpired(now time.Time) int {
	kept := s.Exceptions[:0]
	for _, e := range s.Exceptions {
		if e.Active(now) {
			kept = append(kept, e)
		}
	}
	removed := len(s.Exceptions) - len(kept)
	s.Exceptions = kept
	return removed
}

// PolicyExceptions converts the active entries into policy exceptions,
// preserving declaration order
func (s *Store) PolicyExceptions(now time.Time) []policy.Exception {
	var out []policy.Exception
	for _, e := range s.Exceptions {
		if !e.Active(now) {
			continue
		}
		out = append(out, policy.Exception{
			Name:    e.Name,
			Version: e.Version,
			Reason:  e.Reason,
		})
	}
	return out
}

// Load reads the store from path. A missing file yields an empty store.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Store{}, nil
		}
		return nil, fmt.Errorf("failed to read exceptions file: %w", err)
	}

	var store Store
	if err := toml.Unmarshal(data, &store); err != nil {
		return nil, fmt.Errorf("failed to parse exceptions file %s: %w", path, err)
	}
	return &store, nil
}

// Save writes the store to path
func (s *Store) Save(path string) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to serialize exceptions: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write exceptions file: %w", err)
	}
	return nil
}

// DefaultPath returns the store location in the working directory
func DefaultPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return FileName
	}
	return filepath.Join(cwd, FileName)
}
