package stream

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spill.log")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCountLines(t *testing.T) {
	cases := []struct {
		content string
		want    uint64
	}{
		{"", 0},
		{"\n", 1},
		{"one\n", 1},
		{"one", 1},
		{"one\ntwo\nthree\n", 3},
		{"one\ntwo\nthree", 3},
	}
	for _, c := range cases {
		got, err := CountLines(writeLog(t, c.content))
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want {
			t.Errorf("%q: got %d, want %d", c.content, got, c.want)
		}
	}
}

func TestCountLinesMissingFile(t *testing.T) {
	_, err := CountLines(filepath.Join(t.TempDir(), "nope.log"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Error(err)
	}
}

func TestScanOrder(t *testing.T) {
	path := writeLog(t, "a\nb\nc")
	var lines []string
	var numbers []uint64
	err := Scan(context.Background(), path, func(n uint64, line string) error {
		numbers = append(numbers, n)
		lines = append(lines, line)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 3 || lines[0] != "a" || lines[1] != "b" || lines[2] != "c" {
		t.Error(lines)
	}
	if numbers[0] != 1 || numbers[2] != 3 {
		t.Error(numbers)
	}
}

func TestScanCRLF(t *testing.T) {
	path := writeLog(t, "a\r\nb\r\n")
	var lines []string
	err := Scan(context.Background(), path, func(n uint64, line string) error {
		lines = append(lines, line)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 || lines[0] != "a" || lines[1] != "b" {
		t.Error(lines)
	}
}

func TestScanEarlyStop(t *testing.T) {
	path := writeLog(t, "a\nb\nc\n")
	var seen int
	err := Scan(context.Background(), path, func(n uint64, line string) error {
		seen++
		if seen == 2 {
			return ErrStop
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if seen != 2 {
		t.Error(seen)
	}
}

func TestScanCallbackError(t *testing.T) {
	path := writeLog(t, "a\nb\n")
	boom := errors.New("boom")
	err := Scan(context.Background(), path, func(n uint64, line string) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Error(err)
	}
}

func TestScanCancellation(t *testing.T) {
	path := writeLog(t, "a\nb\nc\nd\n")
	ctx, cancel := context.WithCancel(context.Background())
	var seen int
	err := Scan(ctx, path, func(n uint64, line string) error {
		seen++
		cancel()
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Error(err)
	}
	if seen != 1 {
		t.Error(seen)
	}
}

func TestLineSourceNotRestartable(t *testing.T) {
	src, err := Open(writeLog(t, "a\n"))
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()
	if _, _, err := src.Next(); err != nil {
		t.Fatal(err)
	}
	if _, _, err := src.Next(); err == nil {
		t.Error("want EOF after last line")
	}
}
