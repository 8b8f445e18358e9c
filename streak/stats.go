package streak

// Stats summarizes a ledger relative to a given day
type Stats struct {
	TotalDays     int  `json:"total_days" yaml:"total_days"`
	CurrentStreak int  `json:"current_streak" yaml:"current_streak"`
	LongestStreak int  `json:"longest_streak" yaml:"longest_streak"`
	LastRun       Date `json:"last_run,omitzero" yaml:"last_run,omitempty"`
}

// Stats computes totals and consecutive-day streaks. The current streak
// counts back from today, or from yesterday when today has no run yet.
func (l *Ledger) Stats(today Date) Stats {
	s := Stats{TotalDays: len(l.Runs)}
	if len(l.Runs) == 0 {
		return s
	}
	s.LastRun = l.Runs[0].Date

	run := 0
	for i, r := range l.Runs {
		if i > 0 && l.Runs[i-1].Date.AddDays(-1) == r.Date {
			run++
		} else {
			run = 1
		}
		if run > s.LongestStreak {
			s.LongestStreak = run
		}
	}

	if s.LastRun == today || s.LastRun == today.AddDays(-1) {
		s.CurrentStreak = 1
		for i := 1; i < len(l.Runs); i++ {
			if l.Runs[i-1].Date.AddDays(-1) != l.Runs[i].Date {
				break
			}
			s.CurrentStreak++
		}
	}

	return s
}
