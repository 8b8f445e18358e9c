package rs

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/roessland/runstreak/streak"
)

// ParseLineFormat reads a streak file in the old one-date-per-line layout
// (newest at the top). Blank lines are skipped; any other malformed line
// aborts with its line number.
func ParseLineFormat(r io.Reader) ([]streak.Date, error) {
	var dates []streak.Date

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		d, err := streak.ParseDate(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		dates = append(dates, d)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read line file: %w", err)
	}

	return dates, nil
}
