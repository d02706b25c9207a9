package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Record is a typed, JSON-encoded value under one Store key.
// Use a single Record per key so Update serializes all writers.
type Record[T any] struct {
	store   *Store
	key     string
	initial T

	mu sync.Mutex
}

// NewRecord binds key to a typed view with a default used until the first
// write, and whenever the stored value cannot be read.
func NewRecord[T any](s *Store, key string, initial T) *Record[T] {
	return &Record[T]{store: s, key: key, initial: initial}
}

// Load returns the current value, or the default when the key was never
// written. Read and decode failures are returned.
func (r *Record[T]) Load(ctx context.Context) (T, error) {
	raw, found, err := r.store.Get(ctx, r.key)
	if err != nil {
		return r.initial, fmt.Errorf("load %s: %w", r.key, err)
	}
	if !found {
		return r.initial, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return r.initial, fmt.Errorf("decode %s: %w", r.key, err)
	}
	return v, nil
}

// Get is Load for read-only callers: failures are logged and degrade to the
// default.
func (r *Record[T]) Get(ctx context.Context) T {
	v, err := r.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Str("key", r.key).Msg("read failed; using default")
	}
	return v
}

// Set replaces the value. Persistence happens in the background.
func (r *Record[T]) Set(ctx context.Context, v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.set(v)
}

// Update applies fn to the most recent value and stores the result. Updates
// on the same Record never interleave. When the current value cannot be
// loaded nothing is written and the error is returned with the default.
func (r *Record[T]) Update(ctx context.Context, fn func(T) T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, err := r.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Str("key", r.key).Msg("update skipped")
		return cur, err
	}
	next := fn(cur)
	r.set(next)
	return next, nil
}

func (r *Record[T]) set(v T) {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("key", r.key).Msg("encode failed; write dropped")
		return
	}
	r.store.Put(r.key, raw)
}
