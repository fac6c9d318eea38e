// MotionStudio Admin Cache - Client Data Cache Engine
// Copyright 2026 DarkRiddle1212
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarkRiddle1212/motionstudio-sub001

package cache

import (
	"time"

	"github.com/DarkRiddle1212/motionstudio-sub001/internal/metrics"
)

// Sweep removes every expired entry in one pass and returns the number
// removed. It takes the same lock as all other operations, so callers and
// the sweep never observe a half-removed entry. When persistence is
// enabled and the pass removed anything, a single snapshot flush records
// the cleaned state.
//
// Sweep is a single pass, not a loop; periodic scheduling belongs to the
// caller (see services.SweepService).
func (s *Store[V]) Sweep() int {
	start := time.Now()

	s.mu.Lock()
	removed := 0
	for n := s.head.next; n != s.tail; {
		next := n.next
		if expired(n, start) {
			s.unlink(n)
			removed++
		}
		n = next
	}
	size := len(s.items)
	var (
		snap *Snapshot[V]
		seq  uint64
	)
	if removed > 0 {
		snap, seq = s.snapshotLocked()
	}
	s.mu.Unlock()

	metrics.SweepDuration.Observe(time.Since(start).Seconds())
	if removed > 0 {
		metrics.CacheExpiredRemoved.Add(float64(removed))
		metrics.CacheEntries.Set(float64(size))
		s.flush(snap, seq)
	}
	return removed
}
