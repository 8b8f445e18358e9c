package rs

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/roessland/runstreak/streak"
)

var durationRe = regexp.MustCompile(`^([0-9]+)([ywdm])$`)

// maxDurationDays is larger than any span between representable dates
const maxDurationDays = (streak.MaxYear + 1) * 366

// parseDurationDays parses a simplified prometheus-style duration string
// into a number of days.
// Supports: y (years), w (weeks), d (days), m (months)
// Examples: "30d", "2w", "1y", "6m"
// No combinations allowed (e.g., "1y2w" is invalid)
func parseDurationDays(durationStr string) (int, error) {
	matches := durationRe.FindStringSubmatch(durationStr)
	if len(matches) != 3 {
		return 0, fmt.Errorf("invalid duration format. Use format like '30d', '2w', '1y', or '6m' (no combinations allowed)")
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid duration value: %s", matches[1])
	}

	var unit int
	switch matches[2] {
	case "y":
		// Approximate: 365 days per year
		unit = 365
	case "w":
		unit = 7
	case "d":
		unit = 1
	default:
		// Approximate: 30 days per month
		unit = 30
	}

	if value > maxDurationDays/unit {
		return 0, fmt.Errorf("duration %s is too long", durationStr)
	}
	return value * unit, nil
}

// ParseSince parses the start of a backfill range. It accepts a YYYY-MM-DD
// date or a duration counted back from today ("30d" is today minus 30 days).
// Anything else, including a duration reaching back before year 1, is a
// *streak.InvalidDateError.
func ParseSince(sinceStr string, today streak.Date) (streak.Date, error) {
	if !durationRe.MatchString(sinceStr) {
		return streak.ParseDate(sinceStr)
	}

	days, err := parseDurationDays(sinceStr)
	if err != nil {
		return streak.Date{}, &streak.InvalidDateError{Value: sinceStr, Err: err}
	}
	since := today.AddDays(-days)
	if since.Validate() != nil {
		return streak.Date{}, &streak.InvalidDateError{
			Value: sinceStr,
			Err:   fmt.Errorf("reaches back before year %04d", streak.MinYear),
		}
	}
	return since, nil
}
