package stats

import (
	"fmt"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/gem5tools/spillscope/event"
)

func observeDurations(a *Accumulator, durations ...uint64) {
	for i, d := range durations {
		a.Observe(&event.SpillEvent{
			StorePC:       fmt.Sprintf("0x%x", 0x400000+i),
			LoadPC:        fmt.Sprintf("0x%x", 0x500000+i),
			MemoryAddress: fmt.Sprintf("0x%x", 0x7fff0000+i),
			TickDiff:      d,
		})
	}
}

func TestAccumulatorAggregates(t *testing.T) {
	a := NewAccumulator(0)
	observeDurations(a, 10, 20, 30, 40, 50)

	s := a.Snapshot()
	if s.Count != 5 || s.MinDuration != 10 || s.MaxDuration != 50 || s.SumDuration != 150 {
		t.Error(spew.Sdump(s))
	}
	if s.AvgDuration != 30 {
		t.Error(s.AvgDuration)
	}
	if s.MinDuration > s.MaxDuration {
		t.Error(spew.Sdump(s))
	}
	avg := float64(s.SumDuration) / float64(s.Count)
	if float64(s.MinDuration) > avg || avg > float64(s.MaxDuration) {
		t.Error(spew.Sdump(s))
	}
}

func TestAccumulatorEmpty(t *testing.T) {
	s := NewAccumulator(0).Snapshot()
	if s.Count != 0 || s.AvgDuration != 0 || s.MinDuration != 0 || s.MaxDuration != 0 {
		t.Error(spew.Sdump(s))
	}
}

func TestAccumulatorUniqueCounts(t *testing.T) {
	a := NewAccumulator(0)
	// two events sharing one store PC
	a.Observe(&event.SpillEvent{StorePC: "0x1", LoadPC: "0xa", MemoryAddress: "0x100", TickDiff: 5})
	a.Observe(&event.SpillEvent{StorePC: "0x1", LoadPC: "0xb", MemoryAddress: "0x200", TickDiff: 5})

	s := a.Snapshot()
	if s.UniqueStorePCs.Count != 1 || s.UniqueStorePCs.Estimated {
		t.Error(spew.Sdump(s.UniqueStorePCs))
	}
	if s.UniqueLoadPCs.Count != 2 || s.UniqueMemoryAddresses.Count != 2 {
		t.Error(spew.Sdump(s))
	}
}

func TestAccumulatorPercentiles(t *testing.T) {
	a := NewAccumulator(0)
	for d := uint64(1); d <= 1000; d++ {
		a.Observe(&event.SpillEvent{StorePC: "0x1", TickDiff: d})
	}
	s := a.Snapshot()
	// hdrhistogram is accurate to 3 significant figures
	if s.P50Duration < 495 || s.P50Duration > 505 {
		t.Error(s.P50Duration)
	}
	if s.P99Duration < 985 || s.P99Duration > 995 {
		t.Error(s.P99Duration)
	}
}

func TestAccumulatorDurationOverflowClamped(t *testing.T) {
	a := NewAccumulator(0)
	observeDurations(a, 1<<50)
	s := a.Snapshot()
	if s.MaxDuration != 1<<50 {
		t.Error(s.MaxDuration)
	}
	// the histogram clamps, exact aggregates do not
	if s.Count != 1 || s.SumDuration != 1<<50 {
		t.Error(spew.Sdump(s))
	}
}

func TestUniqueCounterExact(t *testing.T) {
	u := NewUniqueCounter(100)
	for i := 0; i < 50; i++ {
		u.Add(fmt.Sprintf("0x%x", i))
		u.Add(fmt.Sprintf("0x%x", i)) // duplicates do not count twice
	}
	n, estimated := u.Count()
	if n != 50 || estimated {
		t.Error(n, estimated)
	}
	if u.LowerBound() != 50 {
		t.Error(u.LowerBound())
	}
}

func TestUniqueCounterCeiling(t *testing.T) {
	u := NewUniqueCounter(100)
	for i := 0; i < 10000; i++ {
		u.Add(fmt.Sprintf("0x%x", i))
	}
	n, estimated := u.Count()
	if !estimated {
		t.Fatal("want estimate past the ceiling")
	}
	if u.LowerBound() != 100 {
		t.Error(u.LowerBound())
	}
	if n < 100 {
		t.Error("estimate below the exact lower bound:", n)
	}
	// HyperLogLog at precision 14 is well within 5% at this cardinality
	if n < 9500 || n > 10500 {
		t.Error(n)
	}
}
