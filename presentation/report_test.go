package presentation

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gem5tools/spillscope/analysis"
	"github.com/gem5tools/spillscope/event"
	"github.com/gem5tools/spillscope/stats"
)

func TestFormatEvent(t *testing.T) {
	e := event.SpillEvent{
		StorePC:        "0x400a10",
		TickDiff:       1234567,
		StoreInstCount: 42,
		LoadInstCount:  1000,
		LineNumber:     7,
	}
	j := FormatEvent(e)
	if j.TickDiffFormatted != "1,234,567" {
		t.Error(j.TickDiffFormatted)
	}
	if j.LoadInstFormatted != "1,000" || j.StoreInstFormatted != "42" {
		t.Error(j.StoreInstFormatted, j.LoadInstFormatted)
	}
	if j.LineNumber != 7 || j.StorePC != "0x400a10" {
		t.Error(j)
	}
}

func TestWriteReport(t *testing.T) {
	res := &analysis.Result{
		TotalSpills: 1500000,
		Sampled:     true,
		SampleSize:  10000,
		Statistics: stats.Snapshot{
			Count:       1500000,
			MinDuration: 10,
			MaxDuration: 900,
			SumDuration: 45000000,
			AvgDuration: 30,
			UniqueStorePCs: stats.Unique{
				Count: 60000, Estimated: true, LowerBound: 50000,
			},
		},
	}

	var buf bytes.Buffer
	if err := WriteReport(&buf, "spill.log", res); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"1,500,000",
		"Sampled:         true",
		"Sample size:     10,000",
		"~60,000 (estimated, at least 50,000)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
