package chart

import (
	"github.com/gem5tools/spillscope/event"
	"github.com/gem5tools/spillscope/hotlist"
)

// topListSize is the length of the categorical top lists in a suite,
// matching the heatmap depth of the original frontend.
const topListSize = 20

// addressSuffixLen groups memory addresses by their trailing hex digits for
// the heat list, collapsing the address space into pages.
const addressSuffixLen = 4

// Point is one timeline sample: instruction counter on x, spill duration
// on y.
type Point struct {
	X uint64 `json:"x"`
	Y uint64 `json:"y"`
}

// Suite is the standard chart set computed for an analysis run.
type Suite struct {
	Histograms map[string][]Bucket `json:"histograms"`
	Timeline   []Point             `json:"timeline"`
}

// BuildSuite reduces events into the standard charts, spending at most
// pointBudget data points in total: half on the timeline scatter, the rest
// split between the numeric histograms and two fixed-size top lists.
func BuildSuite(events []event.SpillEvent, pointBudget int) Suite {
	if pointBudget <= 0 {
		pointBudget = DefaultPointBudget
	}
	bins := pointBudget / 20
	if bins < 1 {
		bins = 1
	}

	s := Suite{Histograms: make(map[string][]Bucket)}
	if len(events) == 0 {
		return s
	}

	s.Histograms["duration"] = Reduce(events, Duration, bins)
	s.Histograms["address_range"] = Reduce(events, AddressRange, bins)
	s.Histograms["instruction_distance"] = Reduce(events, InstructionDistance, bins)
	s.Histograms["time_window"] = Reduce(events, TimeWindow, bins)
	s.Histograms["top_store_pcs"] = Reduce(events, PCFrequency, topListSize)
	s.Histograms["address_heat"] = addressHeat(events, topListSize)
	s.Timeline = timeline(events, pointBudget/2)
	return s
}

// addressHeat ranks memory addresses by their trailing hex digits, the
// poor-man's page heat map carried over from the original frontend.
func addressHeat(events []event.SpillEvent, k int) []Bucket {
	hl := hotlist.New()
	for i := range events {
		addr := events[i].MemoryAddress
		if n := len(addr); n > addressSuffixLen {
			addr = addr[n-addressSuffixLen:]
		}
		hl.Add(addr)
	}
	entries := hl.Top(k)
	buckets := make([]Bucket, 0, len(entries))
	for _, e := range entries {
		buckets = append(buckets, Bucket{Label: e.Value, Count: e.Count})
	}
	return buckets
}

// timeline picks at most maxPoints events at a fixed stride and projects
// them to (store_inst_count, tick_diff) pairs.
func timeline(events []event.SpillEvent, maxPoints int) []Point {
	if maxPoints < 1 {
		maxPoints = 1
	}
	stride := len(events) / maxPoints
	if stride < 1 {
		stride = 1
	}
	points := make([]Point, 0, maxPoints)
	for i := 0; i < len(events) && len(points) < maxPoints; i += stride {
		points = append(points, Point{
			X: events[i].StoreInstCount,
			Y: events[i].TickDiff,
		})
	}
	return points
}
