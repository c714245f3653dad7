package dictionary

import (
	"log/slog"
	"strings"
)

const (
	// Placeholder stands in for an empty field so both columns stay aligned.
	Placeholder = "--------"
	// Delimiter separates the two fields of a record line.
	// Extraction collapses whitespace to single spaces, so a field never contains it.
	Delimiter = "\t"
)

// Record is a translation pair. Left is the source term and Right its translation.
type Record struct {
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
}

// Line returns the canonical store form of the record.
func (r Record) Line() string {
	return r.Left + Delimiter + r.Right
}

// IsEmpty reports whether both fields are the placeholder.
func (r Record) IsEmpty() bool {
	return r.Left == Placeholder && r.Right == Placeholder
}

// ParseRecord splits a store line into a record.
// A line without a delimiter becomes a record with the placeholder on the right.
func ParseRecord(line string) Record {
	left, right, ok := strings.Cut(line, Delimiter)
	if !ok {
		return Record{Left: line, Right: Placeholder}
	}
	return Record{Left: left, Right: right}
}

// Merge pairs left[i] with right[i] and drops pairs that are empty on both sides.
// When the lengths differ only the first min(len(left), len(right)) pairs are kept.
func Merge(left, right []string) []Record {
	n := len(left)
	if len(right) != n {
		slog.Default().Warn("array lengths differ, pairing up to the shorter one",
			"left", len(left),
			"right", len(right))
		n = min(n, len(right))
	}

	records := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		record := Record{Left: left[i], Right: right[i]}
		if record.IsEmpty() {
			continue
		}
		records = append(records, record)
	}
	return records
}
