package rs

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Match "6,5 km" but NOT "18,7 km/h" (speed)
var distanceRe = regexp.MustCompile(`(\d+)[,.](\d+)\s*km$`)

// ActivityInfo represents information about an activity
type ActivityInfo struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"` // free-text type label, the sport icon class on Runalyze
	TypeEmoji  string  `json:"-"`
	Date       string  `json:"date"` // Activity date in YYYY-MM-DD format
	DistanceKm float64 `json:"distance_km,omitempty"`
}

// parseActivitiesFromHTML extracts activities from a Runalyze data browser page
func parseActivitiesFromHTML(htmlContent []byte, logger Logger) ([]ActivityInfo, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	var activities []ActivityInfo
	detector := NewActivityTypeDetector()

	// Rows after the first of a day don't repeat the date link
	var currentDate string

	doc.Find("tr[id^='training_']").Each(func(i int, s *goquery.Selection) {
		id, exists := s.Attr("id")
		if !exists {
			return
		}
		activityID := strings.TrimPrefix(id, "training_")

		rowHTML, _ := s.Html()

		// Extract date from health note link (e.g., href="https://runalyze.com/health/note/2025-05-26")
		activityDate := ""
		s.Find("a[href*='/health/note/']").Each(func(j int, a *goquery.Selection) {
			if href, exists := a.Attr("href"); exists {
				if idx := strings.LastIndex(href, "/"); idx != -1 {
					activityDate = href[idx+1:]
				}
			}
		})
		if activityDate == "" {
			activityDate = currentDate
		} else {
			currentDate = activityDate
		}

		activityType := ""
		if class, exists := s.Find("td").First().Find("i").First().Attr("class"); exists {
			activityType = class
		}
		if activityType == "" {
			if class, exists := s.Find("i[class*='icon']").First().Attr("class"); exists {
				activityType = class
			}
		}

		emoji := detector.DetectActivityType(activityType, rowHTML)
		if emoji == unknownEmoji && logger != nil {
			logger.Debug("unknown activity type found", "activity_id", activityID, "type", activityType, "row_html_snippet", truncateHTML(rowHTML, 200))
		}

		activities = append(activities, ActivityInfo{
			ID:         activityID,
			Type:       activityType,
			TypeEmoji:  emoji,
			Date:       activityDate,
			DistanceKm: parseDistance(s),
		})
	})

	return activities, nil
}

// parseDistance extracts distance in km from an activity row
// Handles European format like "6,5 km" or "18,6 km"
func parseDistance(s *goquery.Selection) float64 {
	var distance float64
	s.Find("td").Each(func(i int, td *goquery.Selection) {
		// Replace non-breaking space with regular space and trim
		text := strings.TrimSpace(strings.ReplaceAll(td.Text(), "\u00a0", " "))
		if matches := distanceRe.FindStringSubmatch(text); matches != nil {
			if v, err := strconv.ParseFloat(matches[1]+"."+matches[2], 64); err == nil {
				distance = v
			}
		}
	})
	return distance
}

// truncateHTML truncates HTML content for logging
func truncateHTML(html string, maxLen int) string {
	if len(html) <= maxLen {
		return html
	}
	return html[:maxLen] + "..."
}
