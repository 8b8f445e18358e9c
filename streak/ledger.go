package streak

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// FormatVersion is the only on-disk layout this package reads and writes.
const FormatVersion = 1

// Record marks one day on which a run happened
type Record struct {
	Date Date `json:"date" yaml:"date"`
}

// Ledger is the content of a streak store.
//
// Runs are kept newest first: a new record is inserted at the position that
// keeps the dates in descending order, which for today's date is the front.
type Ledger struct {
	Version    int      `json:"version" yaml:"version"`
	TotalCount int      `json:"total_count" yaml:"total_count"`
	Runs       []Record `json:"runs" yaml:"runs"`
}

// NewLedger returns an empty ledger
func NewLedger() *Ledger {
	return &Ledger{
		Version: FormatVersion,
		Runs:    []Record{},
	}
}

// search returns the index of d in Runs, or the index it should be inserted at
func (l *Ledger) search(d Date) (int, bool) {
	i := sort.Search(len(l.Runs), func(i int) bool {
		return !l.Runs[i].Date.After(d)
	})
	return i, i < len(l.Runs) && l.Runs[i].Date == d
}

// Has reports whether a run is recorded for d
func (l *Ledger) Has(d Date) bool {
	_, ok := l.search(d)
	return ok
}

// Add records a run on d. It returns false, leaving the ledger unchanged, if
// d is already present.
func (l *Ledger) Add(d Date) bool {
	i, ok := l.search(d)
	if ok {
		return false
	}
	l.Runs = append(l.Runs, Record{})
	copy(l.Runs[i+1:], l.Runs[i:])
	l.Runs[i] = Record{Date: d}
	l.TotalCount++
	return true
}

// AddRange records every date from through down to since, inclusive. An empty
// range (since after through) adds nothing. It returns the number of dates added.
func (l *Ledger) AddRange(since, through Date) int {
	added := 0
	for d := through; !d.Before(since); d = d.AddDays(-1) {
		if l.Add(d) {
			added++
		}
	}
	return added
}

// Dates returns the recorded dates, newest first
func (l *Ledger) Dates() []Date {
	dates := make([]Date, len(l.Runs))
	for i, r := range l.Runs {
		dates[i] = r.Date
	}
	return dates
}

// Encode serializes the ledger in the on-disk layout: indented JSON with a
// trailing newline.
func (l *Ledger) Encode() ([]byte, error) {
	out := *l
	if out.Runs == nil {
		out.Runs = []Record{}
	}
	for _, r := range out.Runs {
		if err := r.Date.Validate(); err != nil {
			return nil, fmt.Errorf("failed to marshal ledger: %w", err)
		}
	}
	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ledger: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeLedger parses a store document. Documents without a version field
// are read as version 1. Runs written in append order are re-sorted; duplicate
// dates or a total_count that disagrees with the runs are rejected.
func DecodeLedger(data []byte) (*Ledger, error) {
	if looksLikeLineFormat(data) {
		return nil, ErrLineFormat
	}

	var doc *Ledger
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse ledger: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("ledger document is null")
	}
	l := *doc
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after ledger document")
	}

	if l.Version == 0 {
		l.Version = FormatVersion
	}
	if l.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported ledger version %d (want %d)", l.Version, FormatVersion)
	}
	if l.Runs == nil {
		l.Runs = []Record{}
	}

	sort.SliceStable(l.Runs, func(i, j int) bool {
		return l.Runs[i].Date.After(l.Runs[j].Date)
	})
	for i, r := range l.Runs {
		if r.Date.IsZero() {
			return nil, fmt.Errorf("run %d has no date", i)
		}
		if i > 0 && l.Runs[i-1].Date == r.Date {
			return nil, fmt.Errorf("duplicate run date %s", r.Date)
		}
	}
	if l.TotalCount != len(l.Runs) {
		return nil, fmt.Errorf("total_count is %d but %d runs are recorded", l.TotalCount, len(l.Runs))
	}

	return &l, nil
}

// looksLikeLineFormat reports whether data starts with a bare YYYY-MM-DD line
func looksLikeLineFormat(data []byte) bool {
	text := strings.TrimSpace(string(data))
	if text == "" || strings.HasPrefix(text, "{") {
		return false
	}
	first, _, _ := strings.Cut(text, "\n")
	_, err := ParseDate(strings.TrimSpace(first))
	return err == nil
}
