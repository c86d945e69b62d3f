// Package chart reduces event sets to bounded bucketed series suitable for
// visualization.  Output size is capped by a point budget independent of
// input size, so chart payloads stay small even for a 10,000 event sample.
package chart

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gem5tools/spillscope/event"
	"github.com/gem5tools/spillscope/hotlist"
)

// DefaultPointBudget is the total number of data points allowed across all
// charts of a standard suite.
const DefaultPointBudget = 1000

// Dimension selects the event attribute a reduction buckets over.
type Dimension int

const (
	// Duration buckets over tick_diff.
	Duration Dimension = iota
	// AddressRange buckets over the numeric memory address.
	AddressRange
	// InstructionDistance buckets over load_inst_count - store_inst_count.
	InstructionDistance
	// PCFrequency ranks store PCs by occurrence count, ties in first-seen
	// order.
	PCFrequency
	// TimeWindow buckets event counts over store_tick.
	TimeWindow
)

// ParseDimension maps a dimension name as used in query strings to a
// Dimension.
func ParseDimension(name string) (Dimension, error) {
	switch name {
	case "duration":
		return Duration, nil
	case "address", "address_range":
		return AddressRange, nil
	case "instruction_distance":
		return InstructionDistance, nil
	case "pc", "pc_frequency":
		return PCFrequency, nil
	case "time", "time_window":
		return TimeWindow, nil
	}
	return 0, fmt.Errorf("unknown chart dimension %q", name)
}

// Bucket is one aggregated chart point.  Numeric dimensions fill Low/High
// with the bin edges; categorical dimensions fill Label with the value.
type Bucket struct {
	Label string `json:"label"`
	Low   uint64 `json:"low"`
	High  uint64 `json:"high"`
	Count uint64 `json:"count"`
}

// Reduce buckets events along dim into at most bucketCount output points.
// Numeric dimensions use linear min-max partitioning into equal-width bins;
// the final bin is inclusive of the maximum value.  The input is never
// mutated and may be either a full event set or a reservoir sample.
func Reduce(events []event.SpillEvent, dim Dimension, bucketCount int) []Bucket {
	if bucketCount <= 0 || len(events) == 0 {
		return nil
	}
	if dim == PCFrequency {
		return topValues(events, bucketCount, func(e *event.SpillEvent) string {
			return e.StorePC
		})
	}
	return numericBuckets(events, dim, bucketCount)
}

func numericBuckets(events []event.SpillEvent, dim Dimension, bucketCount int) []Bucket {
	values := make([]uint64, 0, len(events))
	for i := range events {
		v, ok := numericValue(&events[i], dim)
		if !ok {
			continue
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if min == max {
		return []Bucket{{
			Label: bucketLabel(dim, min, max),
			Low:   min,
			High:  max,
			Count: uint64(len(values)),
		}}
	}

	span := float64(max-min) / float64(bucketCount)
	counts := make([]uint64, bucketCount)
	for _, v := range values {
		idx := int(float64(v-min) / span)
		if idx >= bucketCount {
			// the maximum value lands in the last bin
			idx = bucketCount - 1
		}
		counts[idx]++
	}

	buckets := make([]Bucket, bucketCount)
	for i := range buckets {
		low := min + uint64(float64(i)*span)
		high := min + uint64(float64(i+1)*span)
		if i == bucketCount-1 {
			high = max
		}
		buckets[i] = Bucket{
			Label: bucketLabel(dim, low, high),
			Low:   low,
			High:  high,
			Count: counts[i],
		}
	}
	return buckets
}

func numericValue(e *event.SpillEvent, dim Dimension) (uint64, bool) {
	switch dim {
	case Duration:
		return e.TickDiff, true
	case AddressRange:
		return parseAddress(e.MemoryAddress)
	case InstructionDistance:
		return e.InstructionDistance(), true
	case TimeWindow:
		return e.StoreTick, true
	}
	return 0, false
}

func bucketLabel(dim Dimension, low, high uint64) string {
	if dim == AddressRange {
		return fmt.Sprintf("0x%x-0x%x", low, high)
	}
	return fmt.Sprintf("%d-%d", low, high)
}

func parseAddress(addr string) (uint64, bool) {
	s := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(addr)), "0x")
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func topValues(events []event.SpillEvent, k int, key func(*event.SpillEvent) string) []Bucket {
	hl := hotlist.New()
	for i := range events {
		hl.Add(key(&events[i]))
	}
	entries := hl.Top(k)
	buckets := make([]Bucket, 0, len(entries))
	for _, e := range entries {
		buckets = append(buckets, Bucket{Label: e.Value, Count: e.Count})
	}
	return buckets
}
