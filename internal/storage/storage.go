// Package storage is the key-value store adapter. Every logical dataset lives
// under one stable key as serialized JSON text.
//
// Reads never fail: an absent key or a value that cannot be decoded yields the
// caller's default, and the problem is only logged.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"hensgen-helper/internal/apperr"
)

// Stable keys, one per dataset.
const (
	KeyINRLogs       = "inrLogs"
	KeyPhotoQueue    = "photoQueue"
	KeyChatHistory   = "chatHistory"
	KeyLegacyContent = "legacyContent"
	KeyOwnerChat     = "ownerChat"
	KeyReminders     = "reminders"
)

var ErrClosed = errors.New("storage: closed")

// Store persists raw serialized values by key.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns ok=false when the key was never written.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Load reads key and decodes it into T, falling back to def on absence,
// read failure or malformed content.
func Load[T any](ctx context.Context, s Store, key string, def T) T {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		logCorrupt(ctx, key, apperr.Corrupt("read failed", err))
		return def
	}
	if !ok || len(raw) == 0 {
		return def
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		logCorrupt(ctx, key, apperr.Corrupt("malformed value", err))
		return def
	}
	return v
}

// Save serializes v and writes it under key.
func Save[T any](ctx context.Context, s Store, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("storage: write %s: %w", key, err)
	}
	return nil
}

func logCorrupt(ctx context.Context, key string, err error) {
	zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("persisted value unreadable, using default")
}

// Value is a typed handle on one key: load on read, save on change.
type Value[T any] struct {
	store Store
	key   string
	def   func() T
}

// NewValue binds key with a default factory, so slice and map defaults are
// never shared between callers.
func NewValue[T any](s Store, key string, def func() T) *Value[T] {
	return &Value[T]{store: s, key: key, def: def}
}

func (v *Value[T]) Key() string { return v.key }

func (v *Value[T]) Load(ctx context.Context) T {
	return Load(ctx, v.store, v.key, v.def())
}

func (v *Value[T]) Save(ctx context.Context, val T) error {
	return Save(ctx, v.store, v.key, val)
}

// Update loads the current value, applies fn and saves the result.
// Callers serialize Update themselves when they need read-modify-write atomicity.
func (v *Value[T]) Update(ctx context.Context, fn func(T) T) (T, error) {
	next := fn(v.Load(ctx))
	if err := v.Save(ctx, next); err != nil {
		return next, err
	}
	return next, nil
}
