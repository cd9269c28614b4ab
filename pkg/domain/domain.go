// Package domain attaches a symbolic owner to every allocation the
// reflection core makes, the way warren tags cluster state with a
// component name before logging or measuring it.
package domain

import (
	"sync"
	"sync/atomic"
)

// Tag names the subsystem an allocation is charged to. Two allocators
// differ iff their tag or policy differs.
type Tag string

// Well-known tags used throughout the core.
const (
	Container   Tag = "container"
	RTTI        Tag = "rtti"
	Serialize   Tag = "serialize"
	Transaction Tag = "transaction"
	Database    Tag = "database"
	Pool        Tag = "pool"
)

// Stats is a point-in-time read of a Tracker.
type Stats struct {
	Allocations int64
	Bytes       int64
	PeakBytes   int64
}

// Tracker accumulates allocation counters for one Tag. All fields are
// updated with atomics so readers never block writers.
type Tracker struct {
	allocations int64
	bytes       int64
	peakBytes   int64
}

// Record charges n bytes to the tracker, updating the high-water mark.
func (t *Tracker) Record(n int64) {
	atomic.AddInt64(&t.allocations, 1)
	cur := atomic.AddInt64(&t.bytes, n)
	for {
		peak := atomic.LoadInt64(&t.peakBytes)
		if cur <= peak || atomic.CompareAndSwapInt64(&t.peakBytes, peak, cur) {
			break
		}
	}
}

// Release gives back n bytes previously charged with Record.
func (t *Tracker) Release(n int64) {
	atomic.AddInt64(&t.bytes, -n)
}

// Stats returns a consistent-enough snapshot of the tracker's counters.
func (t *Tracker) Stats() Stats {
	return Stats{
		Allocations: atomic.LoadInt64(&t.allocations),
		Bytes:       atomic.LoadInt64(&t.bytes),
		PeakBytes:   atomic.LoadInt64(&t.peakBytes),
	}
}

var trackers sync.Map // Tag -> *Tracker

// TrackerFor returns the process-wide tracker for tag, creating it on
// first use.
func TrackerFor(tag Tag) *Tracker {
	v, _ := trackers.LoadOrStore(tag, &Tracker{})
	return v.(*Tracker)
}

// AllStats returns a snapshot of every tag that has been touched so far.
func AllStats() map[Tag]Stats {
	out := make(map[Tag]Stats)
	trackers.Range(func(k, v any) bool {
		out[k.(Tag)] = v.(*Tracker).Stats()
		return true
	})
	return out
}
