package stream

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// CountLines counts newline-delimited records in the file at path without
// decoding them.  A final line without a trailing newline still counts as a
// record.  This is the cheap first pass used to pick an analysis strategy.
func CountLines(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open spill log: %w", err)
	}
	defer f.Close()

	var (
		count       uint64
		buf         = make([]byte, readBufferSize)
		endsNewline = true
		sawAnyByte  bool
	)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			sawAnyByte = true
			count += uint64(bytes.Count(buf[:n], []byte{'\n'}))
			endsNewline = buf[n-1] == '\n'
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read spill log: %w", err)
		}
	}
	if sawAnyByte && !endsNewline {
		count++
	}
	return count, nil
}
