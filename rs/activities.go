package rs

import (
	"time"

	"github.com/roessland/runstreak/streak"
)

// ActivityService looks up activities on Runalyze for a calendar date
type ActivityService struct {
	client RunalyzeClient
	logger Logger
	loc    *time.Location
}

// NewActivityService creates an activity service. Dates are interpreted in loc.
func NewActivityService(client RunalyzeClient, logger Logger, loc *time.Location) *ActivityService {
	return &ActivityService{
		client: client,
		logger: logger,
		loc:    loc,
	}
}

// ActivitiesForDate fetches the activities recorded on d. It returns
// ErrNoSession when Runalyze sends the client to the login page.
func (s *ActivityService) ActivitiesForDate(d streak.Date) ([]ActivityInfo, error) {
	start := d.Midnight(s.loc)
	end := d.AddDays(1).Midnight(s.loc).Add(-time.Second)

	s.logger.Debug("getting activities for date", "date", d.String(), "start", start.Unix(), "end", end.Unix())

	html, err := s.client.GetDataBrowser(start, end)
	if err != nil {
		return nil, remoteError("activity lookup", err)
	}

	parsed, err := parseActivitiesFromHTML(html, s.logger)
	if err != nil {
		return nil, &RemoteServiceError{Op: "activity parsing", Err: err}
	}

	// Rows without a date link belong to the requested range
	want := d.String()
	activities := make([]ActivityInfo, 0, len(parsed))
	for _, a := range parsed {
		if a.Date != "" && a.Date != want {
			s.logger.Debug("skipping activity from another day", "activity_id", a.ID, "date", a.Date)
			continue
		}
		a.Date = want
		activities = append(activities, a)
	}

	s.logger.Debug("found activities", "date", want, "count", len(activities))
	return activities, nil
}
