// MotionStudio Admin Cache - Client Data Cache Engine
// Copyright 2026 DarkRiddle1212
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarkRiddle1212/motionstudio-sub001

// Package cache implements the in-memory data cache used by the MotionStudio
// admin console to avoid redundant fetches for list and detail views.
//
// The store is a generic key/value map bounded two ways:
//
//   - TTL expiration: every entry carries an absolute expiry timestamp.
//     Expired entries are treated as absent by every read path; physical
//     removal happens lazily on access or proactively via Sweep.
//   - LRU capacity: the store holds at most MaxEntries entries. Inserting a
//     new key at capacity evicts the least recently used entry first.
//
// Recency is tracked in an intrusive doubly-linked ledger with sentinel
// nodes (least recently used at the head, most recently used at the tail).
// The ledger's key set and the map's key set are identical after every
// mutation; no operation can observe an entry in one but not the other.
//
// When a Persister is configured, every mutating operation writes a full
// snapshot (entries plus access order) to durable storage. Snapshots are
// sequenced and written outside the store lock through a dedicated flush
// mutex, so readers are never stalled by storage I/O and a slow write can
// never overwrite a newer one. Persistence is best effort: the in-memory
// map is always the source of truth, and storage failures are logged and
// swallowed.
//
// Usage:
//
//	store, err := cache.New(cache.Options[Payload]{
//	    DefaultTTL: 5 * time.Minute,
//	    MaxEntries: 1000,
//	})
//	if err != nil {
//	    return err
//	}
//	store.Set(cache.GenerateKey("users", params), payload)
//	if v, ok := store.Get(key); ok {
//	    // use cached value
//	}
package cache
