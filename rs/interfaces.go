package rs

import (
	"time"

	"github.com/roessland/runstreak/streak"
)

// RunalyzeClient interface abstracts the Runalyze client for testing
type RunalyzeClient interface {
	GetDataBrowser(start, end time.Time) ([]byte, error)
	Login(username, password string) error
	Tokens() (string, error)
}

// ActivitySource returns the activities recorded on a calendar date
type ActivitySource interface {
	ActivitiesForDate(d streak.Date) ([]ActivityInfo, error)
}

// StreakStore is the persistence the services need
type StreakStore interface {
	Load() (*streak.Ledger, error)
	Record(d streak.Date) (bool, error)
	Backfill(since, through streak.Date) (int, error)
	Import(dates []streak.Date) (int, error)
}

// Prompter asks the operator for input
type Prompter interface {
	Prompt(label string) (string, error)
	PromptSecret(label string) (string, error)
}

// Logger interface abstracts logging for testing
type Logger interface {
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// CheckResult is the outcome of checking one day for runs
type CheckResult struct {
	Date       streak.Date
	Activities []ActivityInfo
	Ran        bool
	Recorded   bool // false when the day was already in the ledger
}

// BackfillResult summarizes a backfill
type BackfillResult struct {
	Since   streak.Date
	Through streak.Date
	Added   int
}
