package storage

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Well-known keys
const (
	KeyGames           = "quickPlayGames"
	KeyMemoryHighScore = "memoryGameHighScores"
)

var (
	ErrInvalidKey    = errors.New("invalid storage key")
	ErrUnknownDriver = errors.New("unknown storage driver")
)

// Store is a string-keyed get/set/remove contract over a durable medium.
type Store interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error

	// Close releases the underlying medium.
	Close() error
}

// LoadJSON reads key and unmarshals it into v. It reports false when the key
// is absent. A parse error is returned so the caller can fall back to defaults.
func LoadJSON(s Store, key string, v any) (bool, error) {
	raw, ok, err := s.Get(key)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return true, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return true, nil
}

// SaveJSON marshals v and stores it under key.
func SaveJSON(s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := s.Set(key, string(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func validateKey(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_' || r == '-' || r == '.':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	if key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
