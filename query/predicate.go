// Package query implements independent streaming operations over a spill
// log: filtered counts, paginated search, and range extraction.  Every call
// re-scans the source from the start; no derived indexes are ever built.
package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gem5tools/spillscope/event"
)

// Field selects which event attribute a predicate matches against.
type Field int

const (
	// AnyField matches if any attribute matches (logical OR).
	AnyField Field = iota
	FieldStorePC
	FieldLoadPC
	FieldMemoryAddress
	FieldStoreTick
	FieldLoadTick
	FieldTickDiff
	FieldStoreInstCount
	FieldLoadInstCount
)

var fieldNames = map[string]Field{
	"":                 AnyField,
	"all":              AnyField,
	"store_pc":         FieldStorePC,
	"load_pc":          FieldLoadPC,
	"memory_address":   FieldMemoryAddress,
	"store_tick":       FieldStoreTick,
	"load_tick":        FieldLoadTick,
	"tick_diff":        FieldTickDiff,
	"store_inst_count": FieldStoreInstCount,
	"load_inst_count":  FieldLoadInstCount,
}

// ParseField maps a field name as used in query strings to a Field.
func ParseField(name string) (Field, error) {
	f, ok := fieldNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown field %q", name)
	}
	return f, nil
}

// Predicate matches spill events against a pattern.  A plain pattern is an
// exact substring match; a pattern containing `*` is treated as a wildcard
// and compiled to an anchored regular expression.  The empty pattern
// matches everything.
type Predicate struct {
	field  Field
	substr string
	re     *regexp.Regexp
}

// NewPredicate compiles pattern into a Predicate over field.
func NewPredicate(field Field, pattern string) (*Predicate, error) {
	p := &Predicate{field: field, substr: pattern}
	if strings.Contains(pattern, "*") {
		expr := "^" + strings.ReplaceAll(regexp.QuoteMeta(pattern), `\*`, ".*") + "$"
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		p.re = re
	}
	return p, nil
}

// Match reports whether e satisfies the predicate.
func (p *Predicate) Match(e *event.SpillEvent) bool {
	if p.substr == "" {
		return true
	}
	if p.field == AnyField {
		for f := FieldStorePC; f <= FieldLoadInstCount; f++ {
			if p.matchValue(fieldValue(e, f)) {
				return true
			}
		}
		return false
	}
	return p.matchValue(fieldValue(e, p.field))
}

func (p *Predicate) matchValue(v string) bool {
	if p.re != nil {
		return p.re.MatchString(v)
	}
	return strings.Contains(v, p.substr)
}

func fieldValue(e *event.SpillEvent, f Field) string {
	switch f {
	case FieldStorePC:
		return e.StorePC
	case FieldLoadPC:
		return e.LoadPC
	case FieldMemoryAddress:
		return e.MemoryAddress
	case FieldStoreTick:
		return strconv.FormatUint(e.StoreTick, 10)
	case FieldLoadTick:
		return strconv.FormatUint(e.LoadTick, 10)
	case FieldTickDiff:
		return strconv.FormatUint(e.TickDiff, 10)
	case FieldStoreInstCount:
		return strconv.FormatUint(e.StoreInstCount, 10)
	case FieldLoadInstCount:
		return strconv.FormatUint(e.LoadInstCount, 10)
	}
	return ""
}
