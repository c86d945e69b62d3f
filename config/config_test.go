package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.SampleSize != 10000 || cfg.MaxEvents != 50000 ||
		cfg.LargeThreshold != 100000 || cfg.UniqueCeiling != 50000 ||
		cfg.PointBudget != 1000 {
		t.Error(cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Error(err)
	}
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spillscope.yaml")
	content := "spill_log: /var/log/x86_spill_stats.txt\nsample_size: 500\nmax_events: 1000\nlarge_threshold: 2000\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SpillLog != "/var/log/x86_spill_stats.txt" || cfg.SampleSize != 500 ||
		cfg.MaxEvents != 1000 || cfg.LargeThreshold != 2000 {
		t.Error(cfg)
	}
	// fields absent from the file keep their defaults
	if cfg.UniqueCeiling != 50000 || cfg.PointBudget != 1000 {
		t.Error(cfg)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Error(cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("want error for missing config file")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.SampleSize = 0
	if err := cfg.Validate(); err == nil {
		t.Error("want error for zero sample_size")
	}

	cfg = Default()
	cfg.LargeThreshold = cfg.MaxEvents - 1
	if err := cfg.Validate(); err == nil {
		t.Error("want error for large_threshold below max_events")
	}
}

func TestAnalyzerOptions(t *testing.T) {
	cfg := Default()
	cfg.SampleSize = 123
	opts := cfg.AnalyzerOptions()
	if opts.SampleSize != 123 || opts.MaxEvents != cfg.MaxEvents {
		t.Error(opts)
	}
}
