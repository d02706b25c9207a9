// internal/store/cache.go
//
// Store layers caching and write ordering over a Backend.
// Responsibilities:
//   - Serve repeated reads of a key from memory after the first load.
//   - Collapse concurrent first reads of a key into one backend read.
//   - Apply writes to memory immediately, then persist them in submission
//     order per key on a background queue.
//
// Notes:
//   - A write that lands while a first read is in flight wins over the read.
//   - Backend write failures are logged and dropped; memory is not rolled back.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const defaultWriteTimeout = 5 * time.Second

type entry struct {
	value []byte
	found bool
}

// Store is the cached, write-ordered view of a Backend.
type Store struct {
	backend      Backend
	writeTimeout time.Duration

	mu    sync.Mutex
	cache map[string]entry
	tails map[string]chan struct{} // last queued write per key

	reads   singleflight.Group
	pending sync.WaitGroup
}

// New wraps backend.
func New(backend Backend) *Store {
	return &Store{
		backend:      backend,
		writeTimeout: defaultWriteTimeout,
		cache:        make(map[string]entry),
		tails:        make(map[string]chan struct{}),
	}
}

// Get returns the value for key. found is false when the key was never
// written. A backend failure is returned as err and nothing is cached, so a
// later call retries.
func (s *Store) Get(ctx context.Context, key string) (value []byte, found bool, err error) {
	if e, ok := s.cached(key); ok {
		return e.value, e.found, nil
	}
	v, err, _ := s.reads.Do(key, func() (any, error) {
		raw, err := s.backend.Get(ctx, key)
		e := entry{value: raw, found: true}
		if errors.Is(err, ErrNotFound) {
			e = entry{}
		} else if err != nil {
			return nil, err
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if cur, ok := s.cache[key]; ok {
			return cur, nil
		}
		s.cache[key] = e
		return e, nil
	})
	if err != nil {
		return nil, false, err
	}
	e := v.(entry)
	return e.value, e.found, nil
}

func (s *Store) cached(key string) (entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.cache[key]
	return e, ok
}

// Put makes value visible to readers immediately and queues it for the
// backend behind every earlier Put of the same key.
func (s *Store) Put(key string, value []byte) {
	value = append([]byte(nil), value...)

	s.mu.Lock()
	s.cache[key] = entry{value: value, found: true}
	prev := s.tails[key]
	done := make(chan struct{})
	s.tails[key] = done
	s.pending.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.pending.Done()
		defer func() {
			s.mu.Lock()
			if s.tails[key] == done {
				delete(s.tails, key)
			}
			s.mu.Unlock()
			close(done)
		}()
		if prev != nil {
			<-prev
		}
		ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
		defer cancel()
		if err := s.backend.Set(ctx, key, value); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("persist failed; keeping in-memory value")
		}
	}()
}

// Flush blocks until every queued write has been attempted or ctx ends.
func (s *Store) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
