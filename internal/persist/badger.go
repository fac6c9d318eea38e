// MotionStudio Admin Cache - Client Data Cache Engine
// Copyright 2026 DarkRiddle1212
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarkRiddle1212/motionstudio-sub001

// Package persist stores cache snapshots durably in BadgerDB.
//
// The whole store state lives in ONE record under a fixed key, written
// inside a single Badger transaction. A concurrent load therefore sees the
// previous snapshot or the new one, never a torn mix, and the record is
// replaced atomically on every save. A corrupt record is discarded on load
// and deleted so the failure does not repeat on every future startup.
//
// Saves go through a circuit breaker: once the storage medium fails
// repeatedly, further writes short-circuit for a cooldown instead of
// hammering a dead disk on every cache mutation. The cache engine treats
// the resulting errors as non-fatal and keeps serving from memory.
package persist

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/DarkRiddle1212/motionstudio-sub001/internal/cache"
	"github.com/DarkRiddle1212/motionstudio-sub001/internal/logging"
	"github.com/DarkRiddle1212/motionstudio-sub001/internal/metrics"
)

// DefaultRecordKey is the well-known key of the snapshot record.
const DefaultRecordKey = "cache:snapshot:v1"

// Verify interface implementation at compile time
var _ cache.Persister[struct{}] = (*BadgerStore[struct{}])(nil)

// errNoRecord distinguishes "nothing persisted yet" from real read errors.
var errNoRecord = errors.New("persist: no snapshot record")

// Options configures a BadgerStore.
type Options struct {
	// RecordKey overrides the durable record key.
	// Default: DefaultRecordKey
	RecordKey string

	// BreakerFailureThreshold is the number of consecutive failed saves
	// before the breaker opens. Default: 5
	BreakerFailureThreshold uint32

	// BreakerTimeout is how long the breaker stays open before probing
	// the medium again. Default: 30s
	BreakerTimeout time.Duration

	// BreakerMaxRequests is the number of probe saves allowed in the
	// half-open state. Default: 1
	BreakerMaxRequests uint32
}

// BadgerStore implements cache.Persister using BadgerDB for durable
// storage. It is suitable for production use with snapshots surviving
// process restarts.
type BadgerStore[V any] struct {
	db      *badger.DB
	key     []byte
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// NewBadgerStore creates a BadgerDB-backed snapshot store. The caller owns
// the *badger.DB lifecycle.
func NewBadgerStore[V any](db *badger.DB, opts Options) *BadgerStore[V] {
	if opts.RecordKey == "" {
		opts.RecordKey = DefaultRecordKey
	}
	if opts.BreakerFailureThreshold == 0 {
		opts.BreakerFailureThreshold = 5
	}
	if opts.BreakerTimeout == 0 {
		opts.BreakerTimeout = 30 * time.Second
	}
	if opts.BreakerMaxRequests == 0 {
		opts.BreakerMaxRequests = 1
	}

	settings := gobreaker.Settings{
		Name:        "cache-snapshot-writes",
		MaxRequests: opts.BreakerMaxRequests,
		Timeout:     opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.BreakerFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("snapshot write breaker state changed")
			if to == gobreaker.StateOpen {
				metrics.SnapshotBreakerOpen.Set(1)
			} else {
				metrics.SnapshotBreakerOpen.Set(0)
			}
		},
	}

	return &BadgerStore[V]{
		db:      db,
		key:     []byte(opts.RecordKey),
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

// Save replaces the durable record with the given snapshot. While the
// breaker is open the write is skipped and gobreaker.ErrOpenState is
// returned; the caller degrades to memory-only.
func (s *BadgerStore[V]) Save(snap *cache.Snapshot[V]) error {
	_, err := s.breaker.Execute(func() (struct{}, error) {
		data, err := json.Marshal(snap)
		if err != nil {
			return struct{}{}, fmt.Errorf("marshal snapshot: %w", err)
		}
		err = s.db.Update(func(txn *badger.Txn) error {
			return txn.Set(s.key, data)
		})
		if err != nil {
			return struct{}{}, fmt.Errorf("write snapshot: %w", err)
		}
		return struct{}{}, nil
	})
	return err
}

// Load reads the last saved snapshot. It returns (nil, nil) when no record
// exists, and treats a record that fails to decode the same way after
// deleting it, so a corrupt record cannot poison every future load.
func (s *BadgerStore[V]) Load() (*cache.Snapshot[V], error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return errNoRecord
		}
		if err != nil {
			return fmt.Errorf("read snapshot: %w", err)
		}
		return item.Value(func(val []byte) error {
			data = append([]byte(nil), val...)
			return nil
		})
	})
	if errors.Is(err, errNoRecord) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap cache.Snapshot[V]
	if err := json.Unmarshal(data, &snap); err != nil {
		logging.Warn().Err(err).Msg("corrupt cache snapshot discarded")
		metrics.SnapshotErrors.Inc()
		if derr := s.Drop(); derr != nil {
			logging.Warn().Err(derr).Msg("removing corrupt snapshot record failed")
		}
		return nil, nil
	}
	return &snap, nil
}

// Drop removes the durable record entirely. Dropping an absent record is
// not an error.
func (s *BadgerStore[V]) Drop() error {
	err := s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(s.key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}
