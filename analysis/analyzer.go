// Package analysis orchestrates whole-log analysis: a cheap counting pass,
// strategy selection, and a single streaming aggregation pass.  Small logs
// are fully materialized; large ones are reduced to exact statistics plus a
// uniform reservoir sample.  Aggregate numbers are always exact either way;
// only the data retained for visualization is sampled.
package analysis

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/gem5tools/spillscope/chart"
	"github.com/gem5tools/spillscope/event"
	"github.com/gem5tools/spillscope/log"
	"github.com/gem5tools/spillscope/sample"
	"github.com/gem5tools/spillscope/stats"
	"github.com/gem5tools/spillscope/stream"
)

// Defaults for strategy selection.
const (
	DefaultMaxEvents      = 50000
	DefaultLargeThreshold = 100000
)

// Options configures an Analyzer.  The zero value selects all defaults.
type Options struct {
	// MaxEvents is the largest line count for which the full event set is
	// materialized in memory.  Inclusive.
	MaxEvents uint64
	// LargeThreshold marks logs that are certainly sampled.  Anything
	// above MaxEvents is sampled regardless; this exists so callers can
	// tune the two independently.
	LargeThreshold uint64
	// SampleSize is the reservoir capacity for the sampled strategy.
	SampleSize int
	// UniqueCeiling bounds exact distinct-value tracking per dimension.
	UniqueCeiling int
	// PointBudget caps the total chart payload size.
	PointBudget int
	// Seed makes sampling reproducible when non-zero.
	Seed int64
	// Logger receives progress messages.  No logging is done if nil.
	Logger log.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxEvents == 0 {
		o.MaxEvents = DefaultMaxEvents
	}
	if o.LargeThreshold == 0 {
		o.LargeThreshold = DefaultLargeThreshold
	}
	if o.SampleSize <= 0 {
		o.SampleSize = sample.DefaultSize
	}
	if o.UniqueCeiling <= 0 {
		o.UniqueCeiling = stats.DefaultUniqueCeiling
	}
	if o.PointBudget <= 0 {
		o.PointBudget = chart.DefaultPointBudget
	}
	return o
}

// Result is the outcome of one analysis run.  It is constructed once,
// immutable afterwards, and holds no references to the source log.
type Result struct {
	// TotalSpills is the exact number of valid records.
	TotalSpills uint64 `json:"total_spills"`
	// Sampled reports whether ChartBuckets derive from a reservoir sample
	// rather than the full event set.  Statistics are exact either way.
	Sampled bool `json:"sampled"`
	// SampleSize is the number of events retained for visualization.
	SampleSize int `json:"sample_size"`
	// SkippedCount is the number of lines that failed to decode.
	SkippedCount uint64 `json:"skipped_count"`

	Statistics     stats.Snapshot `json:"statistics"`
	ChartBuckets   chart.Suite    `json:"chart_buckets"`
	ProcessingTime time.Duration  `json:"processing_time"`
}

// Analyzer runs analysis passes over spill logs.  It keeps no state between
// runs; concurrent Analyze calls each open their own read handles.
type Analyzer struct {
	opts Options
}

// New returns an Analyzer with the given options.
func New(opts Options) *Analyzer {
	return &Analyzer{opts: opts.withDefaults()}
}

// Analyze processes the log at path and returns its aggregate statistics
// and chart data.  A log of MaxEvents lines or fewer is decoded in full;
// anything larger is re-scanned once, feeding the statistics accumulator
// and a reservoir sampler concurrently.  A file with zero valid records
// yields an empty result, not an error.  Cancelling ctx aborts the scan
// within one line and surfaces the context error.
func (a *Analyzer) Analyze(ctx context.Context, path string) (*Result, error) {
	start := time.Now()

	lines, err := stream.CountLines(path)
	if err != nil {
		return nil, err
	}

	var res *Result
	if lines <= a.opts.MaxEvents {
		res, err = a.analyzeFull(ctx, path)
	} else {
		if lines > a.opts.LargeThreshold && a.opts.Logger != nil {
			a.opts.Logger.Log("large log:", lines, "lines, reservoir size", a.opts.SampleSize)
		}
		res, err = a.analyzeSampled(ctx, path)
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("analysis cancelled: %w", ctx.Err())
		}
		return nil, err
	}

	res.ProcessingTime = time.Since(start)
	if a.opts.Logger != nil {
		a.opts.Logger.Log("analyzed", path, "spills:", res.TotalSpills,
			"sampled:", res.Sampled, "in", res.ProcessingTime)
	}
	return res, nil
}

// analyzeFull decodes and retains every event.  Charts see exact data and
// the result is marked unsampled.
func (a *Analyzer) analyzeFull(ctx context.Context, path string) (*Result, error) {
	acc := stats.NewAccumulator(a.opts.UniqueCeiling)
	events := make([]event.SpillEvent, 0, a.opts.MaxEvents)
	var skipped uint64

	err := stream.Scan(ctx, path, func(n uint64, line string) error {
		if line == "" {
			return nil
		}
		ev, err := event.Decode(line, n)
		if err != nil {
			skipped++
			a.logSkip(err)
			return nil
		}
		acc.Observe(&ev)
		events = append(events, ev)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		TotalSpills:  acc.Count(),
		Sampled:      false,
		SampleSize:   len(events),
		SkippedCount: skipped,
		Statistics:   acc.Snapshot(),
		ChartBuckets: chart.BuildSuite(events, a.opts.PointBudget),
	}, nil
}

// analyzeSampled feeds one scan into the accumulator and a reservoir.
// Resident memory stays O(sample size + unique ceiling) regardless of log
// size.
func (a *Analyzer) analyzeSampled(ctx context.Context, path string) (*Result, error) {
	acc := stats.NewAccumulator(a.opts.UniqueCeiling)
	res := sample.New(a.opts.SampleSize, a.rng())
	var skipped uint64

	err := stream.Scan(ctx, path, func(n uint64, line string) error {
		if line == "" {
			return nil
		}
		ev, err := event.Decode(line, n)
		if err != nil {
			skipped++
			a.logSkip(err)
			return nil
		}
		acc.Observe(&ev)
		res.Observe(ev)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		TotalSpills:  acc.Count(),
		Sampled:      true,
		SampleSize:   res.Size(),
		SkippedCount: skipped,
		Statistics:   acc.Snapshot(),
		ChartBuckets: chart.BuildSuite(res.Events(), a.opts.PointBudget),
	}, nil
}

// Sample draws an ad hoc uniform sample of up to k events, independent of a
// full analysis run.
func (a *Analyzer) Sample(ctx context.Context, path string, k int) ([]event.SpillEvent, error) {
	if k <= 0 {
		k = a.opts.SampleSize
	}
	res := sample.New(k, a.rng())
	err := stream.Scan(ctx, path, func(n uint64, line string) error {
		if line == "" {
			return nil
		}
		ev, err := event.Decode(line, n)
		if err != nil {
			return nil
		}
		res.Observe(ev)
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("sampling cancelled: %w", ctx.Err())
		}
		return nil, err
	}
	return res.Events(), nil
}

func (a *Analyzer) rng() *rand.Rand {
	if a.opts.Seed == 0 {
		return nil
	}
	return rand.New(rand.NewSource(a.opts.Seed))
}

func (a *Analyzer) logSkip(err error) {
	if a.opts.Logger != nil {
		a.opts.Logger.Log("skipping line:", err)
	}
}
