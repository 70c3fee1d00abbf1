// Package kv persists small application records (translation history, user
// profile) under flat string keys.
//
// Values are opaque bytes; Load and Save layer msgpack encoding on top. The
// package ships a BadgerDB-backed store for on-disk use and an in-memory
// store for tests and ephemeral sessions.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Sentinel errors.
var (
	// ErrNotFound is returned when a key does not exist in the store.
	ErrNotFound = errors.New("kv: not found")

	// ErrEmptyKey is returned for a zero-length key.
	ErrEmptyKey = errors.New("kv: empty key")
)

// Key names a stored record, e.g. "huaxiazi_v6_history".
type Key string

func (k Key) String() string { return string(k) }

// Store is the interface for a byte-valued key-value store.
type Store interface {
	// Get retrieves the value for a key. Returns ErrNotFound if not present.
	Get(ctx context.Context, key Key) ([]byte, error)

	// Set stores a key-value pair. Overwrites any existing value.
	Set(ctx context.Context, key Key, value []byte) error

	// Delete removes a key. No error if the key does not exist.
	Delete(ctx context.Context, key Key) error

	// Close releases any resources held by the store.
	Close() error
}

func checkKey(k Key) error {
	if strings.TrimSpace(string(k)) == "" {
		return ErrEmptyKey
	}
	return nil
}

// Load reads key from s and msgpack-decodes it into a new T.
// Returns ErrNotFound (unwrapped) when the key is absent.
func Load[T any](ctx context.Context, s Store, key Key) (T, error) {
	var v T
	data, err := s.Get(ctx, key)
	if err != nil {
		return v, err
	}
	if err := msgpack.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("kv: decode %s: %w", key, err)
	}
	return v, nil
}

// Save msgpack-encodes v and stores it under key.
func Save[T any](ctx context.Context, s Store, key Key, v T) error {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("kv: encode %s: %w", key, err)
	}
	return s.Set(ctx, key, data)
}
