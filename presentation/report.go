// Package presentation renders analysis results for humans and for the
// HTTP API.
package presentation

import (
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/gem5tools/spillscope/analysis"
	"github.com/gem5tools/spillscope/event"
	"github.com/gem5tools/spillscope/stats"
)

// WriteReport renders res as a plain-text report.
func WriteReport(w io.Writer, path string, res *analysis.Result) error {
	s := res.Statistics

	fmt.Fprintf(w, "Spill analysis of %s\n", path)
	fmt.Fprintf(w, "  Total spills:    %s\n", humanize.Comma(int64(res.TotalSpills)))
	fmt.Fprintf(w, "  Skipped lines:   %s\n", humanize.Comma(int64(res.SkippedCount)))
	fmt.Fprintf(w, "  Sampled:         %v\n", res.Sampled)
	if res.Sampled {
		fmt.Fprintf(w, "  Sample size:     %s\n", humanize.Comma(int64(res.SampleSize)))
	}
	fmt.Fprintf(w, "  Processing time: %v\n", res.ProcessingTime)

	if s.Count > 0 {
		fmt.Fprintf(w, "Durations (ticks)\n")
		fmt.Fprintf(w, "  min=%s max=%s avg=%.2f sum=%s\n",
			humanize.Comma(int64(s.MinDuration)), humanize.Comma(int64(s.MaxDuration)),
			s.AvgDuration, humanize.Comma(int64(s.SumDuration)))
		fmt.Fprintf(w, "  p50=%s p90=%s p99=%s\n",
			humanize.Comma(int64(s.P50Duration)), humanize.Comma(int64(s.P90Duration)),
			humanize.Comma(int64(s.P99Duration)))
		fmt.Fprintf(w, "Unique values\n")
		fmt.Fprintf(w, "  memory addresses: %s\n", formatUnique(s.UniqueMemoryAddresses))
		fmt.Fprintf(w, "  store PCs:        %s\n", formatUnique(s.UniqueStorePCs))
		fmt.Fprintf(w, "  load PCs:         %s\n", formatUnique(s.UniqueLoadPCs))
	}

	if len(res.ChartBuckets.Histograms) > 0 {
		names := make([]string, 0, len(res.ChartBuckets.Histograms))
		for name := range res.ChartBuckets.Histograms {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintf(w, "Charts\n")
		for _, name := range names {
			fmt.Fprintf(w, "  %s (%d points)\n", name, len(res.ChartBuckets.Histograms[name]))
		}
	}
	return nil
}

func formatUnique(u stats.Unique) string {
	if u.Estimated {
		return fmt.Sprintf("~%s (estimated, at least %s)",
			humanize.Comma(int64(u.Count)), humanize.Comma(int64(u.LowerBound)))
	}
	return humanize.Comma(int64(u.Count))
}

// EventJSON is the wire shape of a spill event, including the comma-grouped
// renditions the frontend table shows verbatim.
type EventJSON struct {
	StorePC        string `json:"store_pc"`
	LoadPC         string `json:"load_pc"`
	MemoryAddress  string `json:"memory_address"`
	StoreTick      uint64 `json:"store_tick"`
	LoadTick       uint64 `json:"load_tick"`
	TickDiff       uint64 `json:"tick_diff"`
	StoreInstCount uint64 `json:"store_inst_count"`
	LoadInstCount  uint64 `json:"load_inst_count"`
	LineNumber     uint64 `json:"line_number"`

	TickDiffFormatted  string `json:"tick_diff_formatted"`
	StoreInstFormatted string `json:"store_inst_formatted"`
	LoadInstFormatted  string `json:"load_inst_formatted"`
}

// FormatEvent converts a decoded event to its wire shape.
func FormatEvent(e event.SpillEvent) EventJSON {
	return EventJSON{
		StorePC:            e.StorePC,
		LoadPC:             e.LoadPC,
		MemoryAddress:      e.MemoryAddress,
		StoreTick:          e.StoreTick,
		LoadTick:           e.LoadTick,
		TickDiff:           e.TickDiff,
		StoreInstCount:     e.StoreInstCount,
		LoadInstCount:      e.LoadInstCount,
		LineNumber:         e.LineNumber,
		TickDiffFormatted:  humanize.Comma(int64(e.TickDiff)),
		StoreInstFormatted: humanize.Comma(int64(e.StoreInstCount)),
		LoadInstFormatted:  humanize.Comma(int64(e.LoadInstCount)),
	}
}

// FormatEvents converts a slice of events to their wire shape.
func FormatEvents(events []event.SpillEvent) []EventJSON {
	out := make([]EventJSON, len(events))
	for i, e := range events {
		out[i] = FormatEvent(e)
	}
	return out
}
