// MotionStudio Admin Cache - Client Data Cache Engine
// Copyright 2026 DarkRiddle1212
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarkRiddle1212/motionstudio-sub001

package cache

import (
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/DarkRiddle1212/motionstudio-sub001/internal/logging"
	"github.com/DarkRiddle1212/motionstudio-sub001/internal/metrics"
)

// Construction errors. Invalid configuration is a caller bug and is never
// silently defaulted.
var (
	ErrInvalidMaxEntries = errors.New("cache: max entries must be positive")
	ErrInvalidTTL        = errors.New("cache: default TTL must be positive")
)

// Entry is a single cached item as it appears in a durable snapshot.
type Entry[V any] struct {
	Key       string    `json:"key"`
	Value     V         `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Snapshot is the full store state handed to a Persister: every entry plus
// the access-order ledger, least recently used first.
type Snapshot[V any] struct {
	Entries     []Entry[V] `json:"entries"`
	AccessOrder []string   `json:"access_order"`
}

// Persister writes and reads durable snapshots of the store state.
//
// Implementations must replace the prior record atomically (a concurrent
// Load observes the old snapshot or the new one, never a torn mix) and must
// treat a corrupt record as absent state on Load. See persist.BadgerStore.
type Persister[V any] interface {
	// Save replaces the durable record with the given snapshot.
	Save(snap *Snapshot[V]) error

	// Load returns the last saved snapshot, or (nil, nil) when no durable
	// state exists.
	Load() (*Snapshot[V], error)

	// Drop removes the durable record entirely.
	Drop() error
}

// Options configures a Store at construction.
type Options[V any] struct {
	// DefaultTTL is applied by Set when the caller does not pass an
	// explicit TTL. Must be positive.
	DefaultTTL time.Duration

	// MaxEntries is the hard cap on concurrently held entries. Must be
	// positive.
	MaxEntries int

	// Persister enables durable snapshots when non-nil. The store loads
	// the prior snapshot at construction and flushes after every mutation.
	Persister Persister[V]
}

// Stats is a point-in-time view of store occupancy and hit rate.
type Stats struct {
	Size         int     `json:"size"`
	MaxSize      int     `json:"max_size"`
	ExpiredCount int     `json:"expired_count"`
	Hits         int64   `json:"hits"`
	Misses       int64   `json:"misses"`
	HitRate      float64 `json:"hit_rate"`
}

// node is an entry threaded into the access-order ledger.
// head.next is the least recently used node, tail.prev the most recent.
type node[V any] struct {
	key       string
	value     V
	createdAt time.Time
	expiresAt time.Time
	prev      *node[V]
	next      *node[V]
}

// Store is a thread-safe TTL + LRU bounded cache with optional durable
// snapshots. Construct it with New; the zero value is not usable.
type Store[V any] struct {
	mu         sync.RWMutex
	defaultTTL time.Duration
	maxEntries int
	items      map[string]*node[V]
	head       *node[V] // sentinel, head.next = LRU
	tail       *node[V] // sentinel, tail.prev = MRU
	hits       int64
	misses     int64
	seq        uint64 // snapshot sequence, guarded by mu

	persister Persister[V]

	// flushMu serializes durable writes outside the store lock.
	// flushedSeq is guarded by flushMu and enforces last-write-wins.
	flushMu    sync.Mutex
	flushedSeq uint64
}

// New creates a Store and, when a Persister is configured, restores the
// prior durable snapshot. Entries that expired while the process was down
// are dropped before the store serves its first read.
func New[V any](opts Options[V]) (*Store[V], error) {
	if opts.MaxEntries <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxEntries, opts.MaxEntries)
	}
	if opts.DefaultTTL <= 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidTTL, opts.DefaultTTL)
	}

	s := &Store[V]{
		defaultTTL: opts.DefaultTTL,
		maxEntries: opts.MaxEntries,
		items:      make(map[string]*node[V], opts.MaxEntries),
		head:       &node[V]{},
		tail:       &node[V]{},
		persister:  opts.Persister,
	}
	s.head.next = s.tail
	s.tail.prev = s.head

	if s.persister != nil {
		s.restore()
	}
	return s, nil
}

// Get retrieves a value and marks the key most recently used. An entry at
// or past its expiry is removed and reported absent. Get never performs
// storage I/O.
func (s *Store[V]) Get(key string) (V, bool) {
	var zero V

	s.mu.Lock()
	n, ok := s.items[key]
	if !ok {
		s.misses++
		s.mu.Unlock()
		metrics.CacheMisses.Inc()
		return zero, false
	}

	if expired(n, time.Now()) {
		s.unlink(n)
		s.misses++
		size := len(s.items)
		s.mu.Unlock()
		metrics.CacheMisses.Inc()
		metrics.CacheExpiredRemoved.Inc()
		metrics.CacheEntries.Set(float64(size))
		return zero, false
	}

	s.moveToBack(n)
	s.hits++
	v := n.value
	s.mu.Unlock()
	metrics.CacheHits.Inc()
	return v, true
}

// Set stores a value under key with the default TTL.
func (s *Store[V]) Set(key string, value V) {
	s.SetWithTTL(key, value, s.defaultTTL)
}

// SetWithTTL stores a value under key with an explicit TTL. Overwriting an
// existing key refreshes its value and expiry without growing the store.
// A new key inserted at capacity evicts the least recently used entry
// first. A zero or negative TTL produces an entry that is already expired,
// which acts as a tombstone for the next read.
func (s *Store[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	now := time.Now()

	s.mu.Lock()
	if n, ok := s.items[key]; ok {
		n.value = value
		n.createdAt = now
		n.expiresAt = now.Add(ttl)
		s.moveToBack(n)
	} else {
		if len(s.items) >= s.maxEntries {
			s.evictOldest()
		}
		n := &node[V]{
			key:       key,
			value:     value,
			createdAt: now,
			expiresAt: now.Add(ttl),
		}
		s.items[key] = n
		s.pushBack(n)
	}
	size := len(s.items)
	snap, seq := s.snapshotLocked()
	s.mu.Unlock()

	metrics.CacheEntries.Set(float64(size))
	s.flush(snap, seq)
}

// Delete removes an entry and reports whether anything was removed.
func (s *Store[V]) Delete(key string) bool {
	s.mu.Lock()
	n, ok := s.items[key]
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.unlink(n)
	size := len(s.items)
	snap, seq := s.snapshotLocked()
	s.mu.Unlock()

	metrics.CacheEntries.Set(float64(size))
	s.flush(snap, seq)
	return true
}

// Has reports whether key holds a live entry. Like Get it removes an
// expired entry on sight, but it does not promote recency and does not
// count toward the hit rate.
func (s *Store[V]) Has(key string) bool {
	s.mu.Lock()
	n, ok := s.items[key]
	if !ok {
		s.mu.Unlock()
		return false
	}
	if expired(n, time.Now()) {
		s.unlink(n)
		size := len(s.items)
		s.mu.Unlock()
		metrics.CacheExpiredRemoved.Inc()
		metrics.CacheEntries.Set(float64(size))
		return false
	}
	s.mu.Unlock()
	return true
}

// Clear empties the store and removes the durable record entirely, so a
// later restart is indistinguishable from one that never persisted.
func (s *Store[V]) Clear() {
	s.mu.Lock()
	s.items = make(map[string]*node[V], s.maxEntries)
	s.head.next = s.tail
	s.tail.prev = s.head
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	metrics.CacheEntries.Set(0)

	if s.persister == nil {
		return
	}
	s.flushMu.Lock()
	defer s.flushMu.Unlock()
	if seq <= s.flushedSeq {
		return
	}
	if err := s.persister.Drop(); err != nil {
		logging.Warn().Err(err).Msg("dropping durable cache record failed")
		metrics.SnapshotErrors.Inc()
		return
	}
	s.flushedSeq = seq
}

// InvalidatePattern deletes every key matching re and returns the number
// removed. Expired-but-unswept entries match like any other; deleting an
// already dead key is harmless. A single snapshot flush covers the whole
// batch.
func (s *Store[V]) InvalidatePattern(re *regexp.Regexp) int {
	s.mu.Lock()
	var doomed []*node[V]
	for key, n := range s.items {
		if re.MatchString(key) {
			doomed = append(doomed, n)
		}
	}
	for _, n := range doomed {
		s.unlink(n)
	}
	removed := len(doomed)
	size := len(s.items)
	var (
		snap *Snapshot[V]
		seq  uint64
	)
	if removed > 0 {
		snap, seq = s.snapshotLocked()
	}
	s.mu.Unlock()

	if removed > 0 {
		metrics.CacheInvalidatedKeys.Add(float64(removed))
		metrics.CacheEntries.Set(float64(size))
		s.flush(snap, seq)
	}
	return removed
}

// Stats returns current occupancy and hit-rate counters. ExpiredCount is
// computed on demand over entries that are past expiry but not yet swept.
// HitRate is the fraction of Get calls since construction that hit.
func (s *Store[V]) Stats() Stats {
	now := time.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	expiredCount := 0
	for n := s.head.next; n != s.tail; n = n.next {
		if expired(n, now) {
			expiredCount++
		}
	}

	st := Stats{
		Size:         len(s.items),
		MaxSize:      s.maxEntries,
		ExpiredCount: expiredCount,
		Hits:         s.hits,
		Misses:       s.misses,
	}
	if total := s.hits + s.misses; total > 0 {
		st.HitRate = float64(s.hits) / float64(total)
	}
	return st
}

// Len returns the number of entries currently held, including expired
// entries that have not been swept yet.
func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// expired reports whether n is logically absent at the given instant.
// An entry dies exactly at its expiry timestamp, not after it.
func expired[V any](n *node[V], now time.Time) bool {
	return !now.Before(n.expiresAt)
}

// Ledger operations. All must be called with mu held.

// pushBack appends n at the MRU end.
func (s *Store[V]) pushBack(n *node[V]) {
	n.prev = s.tail.prev
	n.next = s.tail
	s.tail.prev.next = n
	s.tail.prev = n
}

// moveToBack re-threads an existing node to the MRU end.
func (s *Store[V]) moveToBack(n *node[V]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	s.pushBack(n)
}

// unlink removes n from both the ledger and the map, keeping the two in
// lockstep.
func (s *Store[V]) unlink(n *node[V]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev = nil
	n.next = nil
	delete(s.items, n.key)
}

// evictOldest removes the LRU entry to make room for an insert.
func (s *Store[V]) evictOldest() {
	oldest := s.head.next
	if oldest == s.tail {
		return
	}
	s.unlink(oldest)
	metrics.CacheEvictions.Inc()
}

// snapshotLocked captures the full state in ledger order and assigns it a
// sequence number. Returns (nil, 0) when persistence is disabled.
func (s *Store[V]) snapshotLocked() (*Snapshot[V], uint64) {
	if s.persister == nil {
		return nil, 0
	}
	snap := &Snapshot[V]{
		Entries:     make([]Entry[V], 0, len(s.items)),
		AccessOrder: make([]string, 0, len(s.items)),
	}
	for n := s.head.next; n != s.tail; n = n.next {
		snap.Entries = append(snap.Entries, Entry[V]{
			Key:       n.key,
			Value:     n.value,
			CreatedAt: n.createdAt,
			ExpiresAt: n.expiresAt,
		})
		snap.AccessOrder = append(snap.AccessOrder, n.key)
	}
	s.seq++
	return snap, s.seq
}

// flush writes a sequenced snapshot through the flush mutex. A snapshot
// older than the last write is discarded, so out-of-order arrivals cannot
// roll durable state backward. Storage failures are logged and swallowed;
// the in-memory map stays authoritative.
func (s *Store[V]) flush(snap *Snapshot[V], seq uint64) {
	if s.persister == nil || snap == nil {
		return
	}
	s.flushMu.Lock()
	defer s.flushMu.Unlock()
	if seq <= s.flushedSeq {
		return
	}
	if err := s.persister.Save(snap); err != nil {
		logging.Warn().Err(err).Msg("cache snapshot write failed, continuing in memory only")
		metrics.SnapshotErrors.Inc()
		return
	}
	s.flushedSeq = seq
	metrics.SnapshotWrites.Inc()
}

// restore rebuilds the map and ledger from the durable snapshot. It runs
// before the store is shared, so no locking is needed. Entries present in
// the snapshot but missing from the ledger (or vice versa) are reconciled
// rather than rejected, and anything past expiry is dropped immediately.
func (s *Store[V]) restore() {
	snap, err := s.persister.Load()
	if err != nil {
		logging.Warn().Err(err).Msg("cache snapshot unavailable, starting empty")
		metrics.SnapshotErrors.Inc()
		return
	}
	if snap == nil {
		return
	}

	byKey := make(map[string]Entry[V], len(snap.Entries))
	for _, e := range snap.Entries {
		if e.Key != "" {
			byKey[e.Key] = e
		}
	}

	for _, key := range snap.AccessOrder {
		e, ok := byKey[key]
		if !ok {
			continue // ledger orphan, nothing to restore
		}
		if _, dup := s.items[key]; dup {
			continue
		}
		s.insertRestored(e)
	}
	for _, e := range snap.Entries {
		if _, ok := s.items[e.Key]; ok || e.Key == "" {
			continue
		}
		// Entry missing from the ledger: treat it as least recently used
		// by appending after everything the ledger did order.
		s.insertRestored(e)
	}

	for len(s.items) > s.maxEntries {
		s.evictOldest()
	}

	now := time.Now()
	removedExpired := 0
	for n := s.head.next; n != s.tail; {
		next := n.next
		if expired(n, now) {
			s.unlink(n)
			removedExpired++
		}
		n = next
	}

	logging.Info().
		Int("entries", len(s.items)).
		Int("expired_dropped", removedExpired).
		Msg("cache state restored from durable snapshot")
	metrics.CacheEntries.Set(float64(len(s.items)))
}

func (s *Store[V]) insertRestored(e Entry[V]) {
	n := &node[V]{
		key:       e.Key,
		value:     e.Value,
		createdAt: e.CreatedAt,
		expiresAt: e.ExpiresAt,
	}
	s.items[e.Key] = n
	s.pushBack(n)
}
