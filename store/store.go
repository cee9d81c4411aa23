package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	bolt "go.etcd.io/bbolt"
)

// Storage keys. The token and profile are what the auth flow reads back at
// startup; the theme keys back the appearance preference.
const (
	bucketName       = "moviedb"
	keyToken         = "auth.token"
	keyProfile       = "auth.profile"
	keyThemeColor    = "theme.color"
	keyThemeFollowOS = "theme.follow_system"
)

// Theme defaults used before the user ever picks one.
const (
	DefaultThemeColor = "light"
	DefaultFollowOS   = true
)

// Profile is the locally persisted user snapshot, enough to restore a
// session display without a network round trip.
type Profile struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Store persists credentials and preferences in a local bbolt file.
type Store struct {
	db     *bolt.DB
	logger zerolog.Logger
}

// DefaultPath returns the standard location of the store file.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(dir, "moviedb", "moviedb.db"), nil
}

// Open opens (or creates) the store file at path.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close releases the store file.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveToken persists the bearer token.
func (s *Store) SaveToken(token string) error {
	return s.put(keyToken, []byte(token))
}

// Token reads the bearer token. The second return is false when no token
// is stored.
func (s *Store) Token() (string, bool) {
	raw, ok := s.get(keyToken)
	if !ok {
		return "", false
	}
	return string(raw), true
}

// ClearToken removes the bearer token.
func (s *Store) ClearToken() error {
	return s.del(keyToken)
}

// SaveProfile persists the user snapshot.
func (s *Store) SaveProfile(p Profile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	return s.put(keyProfile, raw)
}

// Profile reads the user snapshot. The second return is false when none is
// stored or the stored bytes no longer decode.
func (s *Store) Profile() (Profile, bool) {
	raw, ok := s.get(keyProfile)
	if !ok {
		return Profile{}, false
	}

	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		s.logger.Warn().Err(err).Msg("stored profile is unreadable")
		return Profile{}, false
	}
	return p, true
}

// ClearProfile removes the user snapshot.
func (s *Store) ClearProfile() error {
	return s.del(keyProfile)
}

// SaveTheme persists the appearance preference. The color and the
// follow-system flag live under separate keys.
func (s *Store) SaveTheme(color string, followSystem bool) error {
	if err := s.put(keyThemeColor, []byte(color)); err != nil {
		return err
	}
	follow := "false"
	if followSystem {
		follow = "true"
	}
	return s.put(keyThemeFollowOS, []byte(follow))
}

// Theme reads the appearance preference, falling back to the defaults when
// nothing has been saved yet.
func (s *Store) Theme() (string, bool) {
	color := DefaultThemeColor
	if raw, ok := s.get(keyThemeColor); ok {
		color = string(raw)
	}

	follow := DefaultFollowOS
	if raw, ok := s.get(keyThemeFollowOS); ok {
		follow = string(raw) == "true"
	}
	return color, follow
}

func (s *Store) put(key string, value []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *Store) get(key string) ([]byte, bool) {
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(bucketName)).Get([]byte(key))
		if raw != nil {
			value = make([]byte, len(raw))
			copy(value, raw)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("store read failed")
		return nil, false
	}
	return value, value != nil
}

func (s *Store) del(key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
