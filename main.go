// spillscope analyzes register spill logs produced by gem5, computing exact
// aggregate statistics and bounded visualization data over logs of any size.
// It runs either as a one-shot command line tool or as an HTTP API server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	flag "github.com/spf13/pflag"

	"github.com/gem5tools/spillscope/analysis"
	"github.com/gem5tools/spillscope/api"
	"github.com/gem5tools/spillscope/config"
	"github.com/gem5tools/spillscope/log"
	"github.com/gem5tools/spillscope/presentation"
	"github.com/gem5tools/spillscope/query"
)

var (
	infile     = flag.StringP("read", "r", "", "spill log file to analyze")
	configPath = flag.StringP("config", "c", "", "YAML config file")
	op         = flag.String("op", "analyze", "operation (analyze, count, search, sample, range)")
	serve      = flag.Bool("serve", false, "run the HTTP API server instead of a one-shot operation")
	listen     = flag.String("listen", "", "HTTP listen address (overrides config)")

	pattern   = flag.StringP("query", "q", "", "match pattern (substring, or wildcard with *)")
	fieldName = flag.String("field", "", "event field to match (default all fields)")
	offset    = flag.Uint64("offset", 0, "matches to skip before the first result")
	limit     = flag.Uint64("limit", 100, "maximum results to return")
	scanLimit = flag.Uint64("scan-limit", 0, "stop counting after this many lines scanned (0 = no limit)")
	start     = flag.Uint64("start", 0, "range start (inclusive)")
	end       = flag.Uint64("end", 0, "range end (exclusive)")
	rangeBy   = flag.String("by", "offset", "range mode (offset or time)")
	sampleK   = flag.IntP("sample-size", "k", 0, "reservoir sample size (overrides config)")

	maxEvents = flag.Uint64("max-events", 0, "full-load ceiling in lines (overrides config)")
	seed      = flag.Int64("seed", 0, "random seed for reproducible sampling (0 = time-based)")

	profiles = flag.StringSlice("profile", []string{}, "profile types to store (one or more of cpu, heap, block)")

	displayVersion = flag.Bool("version", false, "display version information")
)

var logger log.Logger = log.ConsoleLogger{}

func main() {
	flag.Parse()
	if *displayVersion {
		fmt.Printf("spillscope version %v (revision %v)\n", Version, GitRevision)
		return
	}

	defer startProfiling()()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Log(err)
		os.Exit(1)
	}
	if *infile != "" {
		cfg.SpillLog = *infile
	}
	if *listen != "" {
		cfg.ListenAddr = *listen
	}
	if *sampleK > 0 {
		cfg.SampleSize = *sampleK
	}
	if *maxEvents > 0 {
		cfg.MaxEvents = *maxEvents
		if cfg.LargeThreshold < cfg.MaxEvents {
			cfg.LargeThreshold = cfg.MaxEvents
		}
	}

	if *serve {
		if err := api.NewServer(cfg, logger).Run(); err != nil {
			logger.Log(err)
			os.Exit(1)
		}
		return
	}

	if cfg.SpillLog == "" {
		logger.Log("no spill log given, use -r or a config file")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := runOp(ctx, cfg); err != nil {
		logger.Log(err)
		os.Exit(2)
	}
}

func runOp(ctx context.Context, cfg config.Config) error {
	opts := cfg.AnalyzerOptions()
	opts.Seed = *seed
	opts.Logger = log.NewContext(logger, "analysis:")
	analyzer := analysis.New(opts)

	switch *op {
	case "analyze":
		res, err := analyzer.Analyze(ctx, cfg.SpillLog)
		if err != nil {
			return err
		}
		return presentation.WriteReport(os.Stdout, cfg.SpillLog, res)

	case "count":
		pred, err := buildPredicate()
		if err != nil {
			return err
		}
		res, err := query.Count(ctx, cfg.SpillLog, pred, *scanLimit)
		if err != nil {
			return err
		}
		return printJSON(res)

	case "search":
		pred, err := buildPredicate()
		if err != nil {
			return err
		}
		page, err := query.Search(ctx, cfg.SpillLog, pred, *offset, *limit)
		if err != nil {
			return err
		}
		return printJSON(map[string]interface{}{
			"events":   presentation.FormatEvents(page.Events),
			"has_more": page.HasMore,
			"scanned":  page.Scanned,
		})

	case "sample":
		events, err := analyzer.Sample(ctx, cfg.SpillLog, cfg.SampleSize)
		if err != nil {
			return err
		}
		return printJSON(presentation.FormatEvents(events))

	case "range":
		by, err := query.ParseRangeBy(*rangeBy)
		if err != nil {
			return err
		}
		events, err := query.Range(ctx, cfg.SpillLog, *start, *end, by)
		if err != nil {
			return err
		}
		return printJSON(presentation.FormatEvents(events))
	}
	return fmt.Errorf("unknown operation %q", *op)
}

func buildPredicate() (*query.Predicate, error) {
	field, err := query.ParseField(*fieldName)
	if err != nil {
		return nil, err
	}
	return query.NewPredicate(field, *pattern)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
