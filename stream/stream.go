// Package stream provides sequential line access to spill logs without ever
// holding more than one line (plus a fixed read buffer) in memory.
package stream

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// readBufferSize is the size of the buffered reader used for scans and of
// the chunk buffer used by CountLines.
const readBufferSize = 64 * 1024

// ErrStop may be returned from a Scan callback to end the scan early without
// reporting an error to the caller.
var ErrStop = errors.New("stop scan")

// LineSource yields raw lines from a log file, in order, exactly once.  It
// is not restartable; open a new LineSource to scan again.
type LineSource struct {
	f    *os.File
	r    *bufio.Reader
	line uint64
}

// Open creates a LineSource for the file at path.  A missing or unreadable
// file is a fatal error for the whole operation.
func Open(path string) (*LineSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open spill log: %w", err)
	}
	return &LineSource{f: f, r: bufio.NewReaderSize(f, readBufferSize)}, nil
}

// Next returns the next line with its 1-based line number, without the
// trailing newline.  It returns io.EOF after the last line.
func (s *LineSource) Next() (string, uint64, error) {
	text, err := s.r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", 0, fmt.Errorf("read spill log: %w", err)
	}
	if text == "" && err == io.EOF {
		return "", 0, io.EOF
	}
	s.line++
	return strings.TrimRight(text, "\r\n"), s.line, nil
}

// Close releases the underlying file handle.  Closing mid-scan causes the
// next Next call to fail, which is how long scans are aborted.
func (s *LineSource) Close() error {
	return s.f.Close()
}

// Scan opens path and calls fn once per line until the file is exhausted,
// fn returns an error, or ctx is cancelled.  Cancellation is checked per
// line, so a scan stops well within one buffered chunk.  Returning ErrStop
// from fn ends the scan without error.
func Scan(ctx context.Context, path string, fn func(lineNumber uint64, line string) error) error {
	src, err := Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, n, err := src.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(n, line); err != nil {
			if err == ErrStop {
				return nil
			}
			return err
		}
	}
}
