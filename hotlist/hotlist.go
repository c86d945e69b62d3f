// Package hotlist provides utilities for summarizing the most frequently
// encountered values in a stream.
package hotlist

import (
	"sort"
)

// Entry is one value with its occurrence count.
type Entry struct {
	Value string
	Count uint64
}

type counter struct {
	count     uint64
	firstSeen int
}

// HotList counts occurrences of string values and reports the busiest ones.
// Ties are broken by first-seen order so repeated reports over the same data
// stay stable.
type HotList struct {
	counts map[string]*counter
	next   int
}

// New returns an empty HotList.
func New() *HotList {
	return &HotList{counts: make(map[string]*counter)}
}

// Add records one occurrence of v.
func (h *HotList) Add(v string) {
	h.AddN(v, 1)
}

// AddN records n occurrences of v.
func (h *HotList) AddN(v string, n uint64) {
	c, ok := h.counts[v]
	if !ok {
		c = &counter{firstSeen: h.next}
		h.next++
		h.counts[v] = c
	}
	c.count += n
}

// Len returns the number of distinct values tracked.
func (h *HotList) Len() int {
	return len(h.counts)
}

// Reset clears all recorded values.
func (h *HotList) Reset() {
	h.counts = make(map[string]*counter)
	h.next = 0
}

// Top returns up to k entries in descending order by count, ties in
// first-seen order.
func (h *HotList) Top(k int) []Entry {
	type ranked struct {
		Entry
		firstSeen int
	}
	all := make([]ranked, 0, len(h.counts))
	for v, c := range h.counts {
		all = append(all, ranked{Entry{v, c.count}, c.firstSeen})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Count != all[j].Count {
			return all[j].Count < all[i].Count
		}
		return all[i].firstSeen < all[j].firstSeen
	})

	if k > len(all) {
		k = len(all)
	}
	entries := make([]Entry, 0, k)
	for _, r := range all[:k] {
		entries = append(entries, r.Entry)
	}
	return entries
}
