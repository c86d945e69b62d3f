// Package stats implements accumulation of a spill event stream into exact
// summary statistics.
package stats

import (
	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"

	"github.com/gem5tools/spillscope/event"
)

// DefaultUniqueCeiling is the per-dimension limit on exact distinct-value
// tracking.
const DefaultUniqueCeiling = 50000

// maxTrackableDuration is the longest spill duration the percentile
// histogram can resolve.  Larger values are clamped to it.
const maxTrackableDuration = int64(1) << 40

// Unique is a distinct-value count for one dimension.  Estimated is true
// once the exact tracking ceiling was exceeded; LowerBound then holds the
// last exact value.
type Unique struct {
	Count      uint64 `json:"count"`
	Estimated  bool   `json:"estimated"`
	LowerBound uint64 `json:"lower_bound"`
}

// Snapshot is a point-in-time copy of the aggregates.  All values are exact
// over every event observed, independent of any sampling done elsewhere.
type Snapshot struct {
	Count       uint64  `json:"count"`
	SumDuration uint64  `json:"sum_duration"`
	MinDuration uint64  `json:"min_duration"`
	MaxDuration uint64  `json:"max_duration"`
	AvgDuration float64 `json:"avg_duration"`

	P50Duration uint64 `json:"p50_duration"`
	P90Duration uint64 `json:"p90_duration"`
	P99Duration uint64 `json:"p99_duration"`

	UniqueMemoryAddresses Unique `json:"unique_memory_addresses"`
	UniqueStorePCs        Unique `json:"unique_store_pcs"`
	UniqueLoadPCs         Unique `json:"unique_load_pcs"`
}

// Accumulator consumes an event stream once and maintains running
// aggregates over spill durations and distinct-value counts.  It is not
// threadsafe; each analysis pass owns its own Accumulator.
type Accumulator struct {
	count uint64
	sum   uint64
	min   uint64
	max   uint64
	hist  *hdrhistogram.Histogram

	addresses *UniqueCounter
	storePCs  *UniqueCounter
	loadPCs   *UniqueCounter
}

// NewAccumulator creates an empty Accumulator.  uniqueCeiling bounds exact
// distinct-value tracking per dimension; zero or negative selects
// DefaultUniqueCeiling.
func NewAccumulator(uniqueCeiling int) *Accumulator {
	if uniqueCeiling <= 0 {
		uniqueCeiling = DefaultUniqueCeiling
	}
	return &Accumulator{
		hist:      hdrhistogram.New(1, maxTrackableDuration, 3),
		addresses: NewUniqueCounter(uniqueCeiling),
		storePCs:  NewUniqueCounter(uniqueCeiling),
		loadPCs:   NewUniqueCounter(uniqueCeiling),
	}
}

// Observe records one event.  O(1) amortized.
func (a *Accumulator) Observe(e *event.SpillEvent) {
	d := e.TickDiff
	if a.count == 0 || d < a.min {
		a.min = d
	}
	if d > a.max {
		a.max = d
	}
	a.count++
	a.sum += d

	if err := a.hist.RecordValue(int64(d)); err != nil {
		// duration beyond the trackable range, clamp
		a.hist.RecordValue(a.hist.HighestTrackableValue())
	}

	a.addresses.Add(e.MemoryAddress)
	a.storePCs.Add(e.StorePC)
	a.loadPCs.Add(e.LoadPC)
}

// Count returns the number of events observed so far.
func (a *Accumulator) Count() uint64 {
	return a.count
}

// Snapshot returns a copy of the current aggregates.  It is a pure read and
// may be called at any time, including on an empty Accumulator.
func (a *Accumulator) Snapshot() Snapshot {
	s := Snapshot{
		Count:       a.count,
		SumDuration: a.sum,
		MinDuration: a.min,
		MaxDuration: a.max,
	}
	if a.count > 0 {
		s.AvgDuration = float64(a.sum) / float64(a.count)
		s.P50Duration = uint64(a.hist.ValueAtQuantile(50))
		s.P90Duration = uint64(a.hist.ValueAtQuantile(90))
		s.P99Duration = uint64(a.hist.ValueAtQuantile(99))
	}
	s.UniqueMemoryAddresses = uniqueResult(a.addresses)
	s.UniqueStorePCs = uniqueResult(a.storePCs)
	s.UniqueLoadPCs = uniqueResult(a.loadPCs)
	return s
}

func uniqueResult(u *UniqueCounter) Unique {
	n, estimated := u.Count()
	return Unique{Count: n, Estimated: estimated, LowerBound: u.LowerBound()}
}
