package event

import (
	"fmt"
	"strconv"
	"strings"
)

// RecordTag is the marker gem5 writes at the start of each spill record.
// The decoder accepts lines with or without it.
const RecordTag = "SPILL"

// numFields is the number of data fields in a record, not counting the tag.
const numFields = 8

// MalformedRecordError reports a line that does not parse as a spill record.
type MalformedRecordError struct {
	LineNumber uint64
	Reason     string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("line %d: malformed record: %s", e.LineNumber, e.Reason)
}

// InvariantError reports a record whose load tick precedes its store tick.
type InvariantError struct {
	LineNumber uint64
	StoreTick  uint64
	LoadTick   uint64
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("line %d: load tick %d precedes store tick %d",
		e.LineNumber, e.LoadTick, e.StoreTick)
}

// Decode parses one log line into a SpillEvent.  The expected field order is
// store_pc, load_pc, memory_address, store_tick, load_tick, tick_diff,
// store_inst_count, load_inst_count, optionally preceded by the SPILL tag.
// Decode has no side effects; callers decide whether a failed line aborts
// the scan (it never should, per the skip-and-count policy).
func Decode(line string, lineNumber uint64) (SpillEvent, error) {
	fields := strings.Split(line, ",")
	if fields[0] == RecordTag {
		fields = fields[1:]
	}
	if len(fields) != numFields {
		return SpillEvent{}, &MalformedRecordError{
			LineNumber: lineNumber,
			Reason:     fmt.Sprintf("want %d fields, got %d", numFields, len(fields)),
		}
	}

	ev := SpillEvent{
		StorePC:       strings.TrimSpace(fields[0]),
		LoadPC:        strings.TrimSpace(fields[1]),
		MemoryAddress: strings.TrimSpace(fields[2]),
		LineNumber:    lineNumber,
	}

	nums := [...]*uint64{
		&ev.StoreTick, &ev.LoadTick, &ev.TickDiff,
		&ev.StoreInstCount, &ev.LoadInstCount,
	}
	for i, dst := range nums {
		raw := strings.TrimSpace(fields[3+i])
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return SpillEvent{}, &MalformedRecordError{
				LineNumber: lineNumber,
				Reason:     fmt.Sprintf("field %d: %q is not a number", 3+i, raw),
			}
		}
		*dst = n
	}

	if ev.LoadTick < ev.StoreTick {
		return SpillEvent{}, &InvariantError{
			LineNumber: lineNumber,
			StoreTick:  ev.StoreTick,
			LoadTick:   ev.LoadTick,
		}
	}
	return ev, nil
}
