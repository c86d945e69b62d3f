package query

import (
	"context"
	"fmt"

	"github.com/gem5tools/spillscope/event"
	"github.com/gem5tools/spillscope/stream"
)

// CountResult is the outcome of a streaming count.
type CountResult struct {
	// Matched is the number of events satisfying the predicate among the
	// lines scanned.
	Matched uint64 `json:"matched"`
	// Scanned is the number of lines examined.
	Scanned uint64 `json:"scanned"`
	// Partial is true when the scan stopped at the scan limit before
	// reaching the end of the log, making Matched a lower bound.
	Partial bool `json:"partial"`
}

// Count counts events matching pred.  A non-zero scanLimit bounds latency
// on exploratory queries by stopping after that many lines scanned, not
// matched; the result is then flagged partial.
func Count(ctx context.Context, path string, pred *Predicate, scanLimit uint64) (CountResult, error) {
	var res CountResult
	err := stream.Scan(ctx, path, func(n uint64, line string) error {
		if scanLimit > 0 && res.Scanned >= scanLimit {
			res.Partial = true
			return stream.ErrStop
		}
		res.Scanned++
		ev, err := event.Decode(line, n)
		if err != nil {
			return nil
		}
		if pred.Match(&ev) {
			res.Matched++
		}
		return nil
	})
	if err != nil {
		return CountResult{}, wrapScanErr(ctx, err)
	}
	return res, nil
}

// Page is one page of search results.
type Page struct {
	Events []event.SpillEvent `json:"events"`
	// HasMore is true when at least one further match exists beyond this
	// page.
	HasMore bool `json:"has_more"`
	// Scanned is the number of lines examined to build the page.
	Scanned uint64 `json:"scanned"`
}

// Search skips offset matches and returns up to limit further matches.
// There is no index, so a large offset costs a proportionally long scan;
// that is the documented price of statelessness, not a defect.
func Search(ctx context.Context, path string, pred *Predicate, offset, limit uint64) (Page, error) {
	page := Page{Events: []event.SpillEvent{}}
	var matched uint64
	err := stream.Scan(ctx, path, func(n uint64, line string) error {
		page.Scanned++
		ev, err := event.Decode(line, n)
		if err != nil {
			return nil
		}
		if !pred.Match(&ev) {
			return nil
		}
		matched++
		if matched <= offset {
			return nil
		}
		if uint64(len(page.Events)) < limit {
			page.Events = append(page.Events, ev)
			return nil
		}
		// one match beyond the page is enough to know there is more
		page.HasMore = true
		return stream.ErrStop
	})
	if err != nil {
		return Page{}, wrapScanErr(ctx, err)
	}
	return page, nil
}

// RangeBy selects the attribute a range query filters on.
type RangeBy int

const (
	// ByOffset selects events by line number.
	ByOffset RangeBy = iota
	// ByTime selects events by store tick.
	ByTime
)

// ParseRangeBy maps a range mode name to a RangeBy.
func ParseRangeBy(name string) (RangeBy, error) {
	switch name {
	case "", "offset":
		return ByOffset, nil
	case "time":
		return ByTime, nil
	}
	return 0, fmt.Errorf("unknown range mode %q", name)
}

// Range returns events whose line number (ByOffset) or store tick (ByTime)
// falls in [start, end).  Line numbers are 1-based.  A ByOffset scan stops
// as soon as the range is passed; ticks are not assumed sorted, so a ByTime
// scan always reads the whole log.
func Range(ctx context.Context, path string, start, end uint64, by RangeBy) ([]event.SpillEvent, error) {
	events := []event.SpillEvent{}
	err := stream.Scan(ctx, path, func(n uint64, line string) error {
		if by == ByOffset && n >= end {
			return stream.ErrStop
		}
		ev, err := event.Decode(line, n)
		if err != nil {
			return nil
		}
		v := ev.LineNumber
		if by == ByTime {
			v = ev.StoreTick
		}
		if v >= start && v < end {
			events = append(events, ev)
		}
		return nil
	})
	if err != nil {
		return nil, wrapScanErr(ctx, err)
	}
	return events, nil
}

func wrapScanErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("query cancelled: %w", ctx.Err())
	}
	return err
}
