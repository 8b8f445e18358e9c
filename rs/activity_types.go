package rs

import (
	"regexp"
	"strings"
)

const unknownEmoji = "❓"

// IsRun reports whether an activity type label denotes running. The match is
// a case-insensitive substring test for "run", so "Running", "trail_run",
// "RUN" and "icon-running" all qualify.
func IsRun(typeLabel string) bool {
	return strings.Contains(strings.ToLower(typeLabel), "run")
}

// RanOn reports whether at least one of the activities is a run
func RanOn(activities []ActivityInfo) bool {
	for _, a := range activities {
		if IsRun(a.Type) {
			return true
		}
	}
	return false
}

// ActivityTypeDetector picks a display emoji for an activity
type ActivityTypeDetector struct {
	iconPatterns []iconPattern
	keywords     []keywordGroup
}

type iconPattern struct {
	emoji   string
	pattern *regexp.Regexp
}

type keywordGroup struct {
	emoji    string
	patterns []*regexp.Regexp
}

// NewActivityTypeDetector creates a new activity type detector with predefined patterns
func NewActivityTypeDetector() *ActivityTypeDetector {
	keywords := []struct {
		emoji string
		words []string
	}{
		{"🏃", []string{"running", "run", "jog", "jogging", "marathon", "5k", "10k"}},
		{"🚴", []string{"cycling", "cycle", "bike", "biking", "bicycle", "mtb"}},
		{"🏊", []string{"swimming", "swim", "pool"}},
		{"⛷️", []string{"skiing", "ski", "nordic", "snowboard"}},
		{"🥾", []string{"hiking", "hike", "walk", "walking", "trekking"}},
		{"💪", []string{"gym", "strength", "weight", "workout", "crossfit"}},
		{"🚣", []string{"rowing", "row", "kayak", "canoe", "paddle"}},
		{"🧘", []string{"yoga"}},
	}

	d := &ActivityTypeDetector{
		iconPatterns: []iconPattern{
			{"🏃", regexp.MustCompile(`icon.{0,3}running`)},
			{"🚴", regexp.MustCompile(`regular.biking`)},
			{"🤸", regexp.MustCompile(`sports-mode`)},
		},
	}
	for _, k := range keywords {
		group := keywordGroup{emoji: k.emoji}
		for _, w := range k.words {
			group.patterns = append(group.patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(w)+`\b`))
		}
		d.keywords = append(d.keywords, group)
	}
	return d
}

// DetectActivityType returns the appropriate emoji for an activity type,
// falling back to keywords in the surrounding HTML
func (d *ActivityTypeDetector) DetectActivityType(activityType string, fallbackHTML string) string {
	activityType = strings.ToLower(activityType)

	for _, p := range d.iconPatterns {
		if p.pattern.MatchString(activityType) {
			return p.emoji
		}
	}

	if emoji := d.detectFromText(activityType); emoji != unknownEmoji {
		return emoji
	}
	if fallbackHTML != "" {
		return d.detectFromText(strings.ToLower(fallbackHTML))
	}
	return unknownEmoji
}

// detectFromText returns the emoji of the earliest keyword in content
func (d *ActivityTypeDetector) detectFromText(content string) string {
	earliestPosition := len(content) + 1
	matchedEmoji := unknownEmoji

	for _, group := range d.keywords {
		for _, pattern := range group.patterns {
			if match := pattern.FindStringIndex(content); match != nil && match[0] < earliestPosition {
				earliestPosition = match[0]
				matchedEmoji = group.emoji
			}
		}
	}

	return matchedEmoji
}
