package stats

import (
	"github.com/axiomhq/hyperloglog"
)

// UniqueCounter tracks the number of distinct string values seen.  Counts
// are exact up to a configured ceiling; past it the exact set freezes and a
// HyperLogLog sketch carries on, so large streams report an estimate instead
// of an unbounded map.  The frozen exact set remains a guaranteed lower
// bound on the true cardinality.
type UniqueCounter struct {
	ceiling int
	exact   map[string]struct{}
	sketch  *hyperloglog.Sketch
	frozen  bool
}

// NewUniqueCounter creates a counter that is exact up to ceiling distinct
// values.
func NewUniqueCounter(ceiling int) *UniqueCounter {
	return &UniqueCounter{
		ceiling: ceiling,
		exact:   make(map[string]struct{}),
		sketch:  hyperloglog.New14(),
	}
}

// Add records one value.  O(1) amortized.
func (u *UniqueCounter) Add(v string) {
	u.sketch.Insert([]byte(v))
	if u.frozen {
		return
	}
	if _, ok := u.exact[v]; ok {
		return
	}
	if len(u.exact) >= u.ceiling {
		u.frozen = true
		return
	}
	u.exact[v] = struct{}{}
}

// Count returns the distinct-value count and whether it is an estimate.
// The estimate is clamped to never fall below the exact lower bound.
func (u *UniqueCounter) Count() (n uint64, estimated bool) {
	if !u.frozen {
		return uint64(len(u.exact)), false
	}
	est := u.sketch.Estimate()
	if lb := uint64(len(u.exact)); est < lb {
		est = lb
	}
	return est, true
}

// LowerBound returns the exact number of distinct values retained before the
// ceiling was hit.  Below the ceiling this equals Count.
func (u *UniqueCounter) LowerBound() uint64 {
	return uint64(len(u.exact))
}
