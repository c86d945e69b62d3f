// Package sample implements single-pass uniform reservoir sampling of spill
// events (Vitter's Algorithm R).
package sample

import (
	"math/rand"
	"time"

	"github.com/gem5tools/spillscope/event"
)

// DefaultSize is the reservoir capacity used when none is configured.
const DefaultSize = 10000

// Reservoir holds a fixed-size uniform random sample of the events observed
// so far.  After n observations every event has had k/n probability of being
// in the reservoir (1 while n <= k).  Memory is O(k) regardless of stream
// length.  Not threadsafe.
type Reservoir struct {
	k      int
	rng    *rand.Rand
	events []event.SpillEvent
	seen   uint64
}

// New creates a Reservoir with capacity k.  rng may be nil, in which case a
// time-seeded source is used; tests inject a fixed seed for reproducible
// samples.
func New(k int, rng *rand.Rand) *Reservoir {
	if k <= 0 {
		k = DefaultSize
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Reservoir{
		k:      k,
		rng:    rng,
		events: make([]event.SpillEvent, 0, k),
	}
}

// Observe offers one event to the reservoir.  The first k events are kept
// outright; afterwards the i-th event replaces a random slot with
// probability k/i.
func (r *Reservoir) Observe(e event.SpillEvent) {
	r.seen++
	if len(r.events) < r.k {
		r.events = append(r.events, e)
		return
	}
	j := r.rng.Int63n(int64(r.seen))
	if j < int64(r.k) {
		r.events[j] = e
	}
}

// Events returns the sampled events in reservoir order.  The slice is owned
// by the reservoir; callers must not mutate it while observing continues.
func (r *Reservoir) Events() []event.SpillEvent {
	return r.events
}

// Seen returns the total number of events observed.
func (r *Reservoir) Seen() uint64 {
	return r.seen
}

// Size returns the number of events currently held, min(k, seen).
func (r *Reservoir) Size() int {
	return len(r.events)
}
