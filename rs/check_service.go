package rs

import (
	"fmt"

	"github.com/roessland/runstreak/streak"
)

// CheckService decides whether a day had a run and records it in the streak
type CheckService struct {
	activities ActivitySource
	store      StreakStore
	logger     Logger
}

// NewCheckService creates a new check service
func NewCheckService(activities ActivitySource, store StreakStore, logger Logger) *CheckService {
	return &CheckService{
		activities: activities,
		store:      store,
		logger:     logger,
	}
}

// Check looks up the activities of d and records d when one of them is a run.
// Lookup errors are returned before the store is touched.
func (c *CheckService) Check(d streak.Date) (*CheckResult, error) {
	activities, err := c.activities.ActivitiesForDate(d)
	if err != nil {
		return nil, err
	}

	result := &CheckResult{
		Date:       d,
		Activities: activities,
		Ran:        RanOn(activities),
	}
	if !result.Ran {
		c.logger.Info("no run found", "date", d.String(), "activities", len(activities))
		return result, nil
	}

	recorded, err := c.store.Record(d)
	if err != nil {
		return result, fmt.Errorf("failed to record run for %s: %w", d, err)
	}
	result.Recorded = recorded

	c.logger.Info("run found", "date", d.String(), "newly_recorded", recorded)
	return result, nil
}
