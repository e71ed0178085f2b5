// Package session keeps per-user values in memory and expires them after a
// period of inactivity.
package session

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
)

var ErrClosed = errors.New("session store closed")

const (
	shardCount          = 16
	shutdownIntervalMax = 500 * time.Millisecond
)

type entry[V any] struct {
	value    V
	expireAt int64
}

type shard[V any] struct {
	mu    sync.RWMutex
	items map[string]entry[V]
}

// Store is a TTL cache split into shards picked by key hash, so lookups for
// different chats rarely contend on the same lock.
type Store[V any] struct {
	shards      [shardCount]*shard[V]
	ttl         time.Duration
	now         func() time.Time
	cleanerOnce sync.Once
	cleanerCh   chan struct{}
	inShutdown  atomic.Bool
}

func NewStore[V any](ttl, cleanupInterval time.Duration) *Store[V] {
	s := &Store[V]{
		ttl:       ttl,
		now:       time.Now,
		cleanerCh: make(chan struct{}),
	}
	for i := range s.shards {
		s.shards[i] = &shard[V]{items: make(map[string]entry[V])}
	}

	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.cleanerCh:
				return
			case <-ticker.C:
				s.cleanExpired()
			}
		}
	}()
	return s
}

func (s *Store[V]) shardFor(key string) *shard[V] {
	return s.shards[xxhash.Sum64String(key)%shardCount]
}

// Set stores value and restarts its TTL. During shutdown only existing
// sessions may be refreshed.
func (s *Store[V]) Set(key string, value V) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if _, exists := sh.items[key]; s.inShutdown.Load() && !exists {
		return
	}

	sh.items[key] = entry[V]{
		value:    value,
		expireAt: s.now().Add(s.ttl).UnixNano(),
	}
}

func (s *Store[V]) Get(key string) (V, bool) {
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	item, exists := sh.items[key]
	if !exists || s.now().UnixNano() > item.expireAt {
		var zero V
		return zero, false
	}
	return item.value, true
}

func (s *Store[V]) Delete(key string) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.items, key)
}

func (s *Store[V]) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		n += len(sh.items)
		sh.mu.RUnlock()
	}
	return n
}

func (s *Store[V]) IsEmpty() bool {
	return s.Len() == 0
}

// Shutdown stops accepting new sessions and waits, with growing intervals,
// for the existing ones to expire.
func (s *Store[V]) Shutdown(ctx context.Context) error {
	s.inShutdown.Store(true)
	s.closeCleaner()

	intervalBase := time.Millisecond
	nextInterval := func() time.Duration {
		interval := intervalBase + time.Duration(rand.Int63n(int64(intervalBase/10)+1))

		intervalBase *= 2
		if intervalBase > shutdownIntervalMax {
			intervalBase = shutdownIntervalMax
		}
		return interval
	}

	timer := time.NewTimer(nextInterval())
	defer timer.Stop()
	for {
		s.cleanExpired()
		if s.IsEmpty() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			timer.Reset(nextInterval())
		}
	}
}

// Close drops every session immediately.
func (s *Store[V]) Close() error {
	if !s.inShutdown.CompareAndSwap(false, true) {
		return ErrClosed
	}
	s.closeCleaner()

	for _, sh := range s.shards {
		sh.mu.Lock()
		clear(sh.items)
		sh.mu.Unlock()
	}
	return nil
}

func (s *Store[V]) cleanExpired() {
	now := s.now().UnixNano()
	for _, sh := range s.shards {
		sh.mu.Lock()
		for k, v := range sh.items {
			if now > v.expireAt {
				delete(sh.items, k)
			}
		}
		sh.mu.Unlock()
	}
}

func (s *Store[V]) closeCleaner() {
	s.cleanerOnce.Do(func() {
		close(s.cleanerCh)
	})
}
