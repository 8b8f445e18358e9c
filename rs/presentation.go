package rs

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/roessland/runstreak/pkg/output"
	"github.com/roessland/runstreak/streak"
	"gopkg.in/yaml.v3"
)

// Output formats for the show command
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Report is the document the show command prints
type Report struct {
	Stats  streak.Stats   `json:"stats" yaml:"stats"`
	Ledger *streak.Ledger `json:"ledger" yaml:"ledger"`
}

// EncodeReport writes report as JSON or YAML
func EncodeReport(w io.Writer, report Report, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q (use %s, %s or %s)", format, FormatTable, FormatJSON, FormatYAML)
	}
}

// PresentationService handles all presentation logic
type PresentationService struct {
	ol *output.OutputLogger
}

// NewPresentationService creates a new presentation service
func NewPresentationService(ol *output.OutputLogger) *PresentationService {
	return &PresentationService{ol: ol}
}

// ShowProgress displays a progress message
func (ps *PresentationService) ShowProgress(msg string, args ...any) {
	ps.ol.Progress(msg, args...)
}

// ShowError logs and displays an error
func (ps *PresentationService) ShowError(err error, msg string, args ...any) {
	ps.ol.LogAndShowError(err, msg, args...)
}

// ShowNoSession tells the operator how to log in
func (ps *PresentationService) ShowNoSession() {
	ps.ol.Warning("Not logged in to Runalyze. Run 'runstreak login' and export the printed token as %s.", TokenEnvVar)
}

// ShowRemoteError reports a failed activity lookup
func (ps *PresentationService) ShowRemoteError(err *RemoteServiceError) {
	if err.RateLimited() {
		ps.ShowError(err, "Runalyze is rate limiting requests, try again later")
		return
	}
	ps.ShowError(err, "Could not reach Runalyze: %v", err.Err)
}

// ShowCheckResult displays the activities of the day and whether it counted
func (ps *PresentationService) ShowCheckResult(result *CheckResult) {
	if len(result.Activities) == 0 {
		ps.ol.Progress("No activities found for %s", result.Date)
	}
	for _, a := range result.Activities {
		ps.ol.ActivityLine(a.TypeEmoji, a.ID, a.Type, a.DistanceKm)
	}

	switch {
	case result.Ran && result.Recorded:
		ps.ol.Result("You ran on %s! Added to your streak.", result.Date)
	case result.Ran:
		ps.ol.Result("You ran on %s! Already in your streak.", result.Date)
	default:
		ps.ol.Status("You did not run on %s", result.Date)
	}

	ps.ol.JSON(map[string]any{
		"date":       result.Date.String(),
		"ran":        result.Ran,
		"recorded":   result.Recorded,
		"activities": result.Activities,
	})
}

// ShowBackfillResult displays what a backfill added
func (ps *PresentationService) ShowBackfillResult(result BackfillResult) {
	ps.ol.Result("Backfilled %s to %s: %d new days", result.Since, result.Through, result.Added)
	ps.ol.JSON(map[string]any{
		"since":   result.Since.String(),
		"through": result.Through.String(),
		"added":   result.Added,
	})
}

// ShowImportResult displays what a migration imported
func (ps *PresentationService) ShowImportResult(path string, given, added int) {
	ps.ol.Result("Imported %s: %d dates read, %d new days", path, given, added)
	ps.ol.JSON(map[string]any{
		"file":  path,
		"read":  given,
		"added": added,
	})
}

// ShowToken prints the session blob on its own line so it can be captured
func (ps *PresentationService) ShowToken(tokens string) {
	ps.ol.Status("Logged in. Export the line below as %s:", TokenEnvVar)
	ps.ol.Raw(tokens)
}

// ShowReport prints the ledger as a table or as an encoded document
func (ps *PresentationService) ShowReport(report Report, format string, w io.Writer) error {
	if format == FormatTable && ps.ol.JSONMode() {
		format = FormatJSON
	}
	if format != FormatTable {
		return EncodeReport(w, report, format)
	}

	s := report.Stats
	lastRun := "-"
	if !s.LastRun.IsZero() {
		lastRun = s.LastRun.String()
	}
	rows := [][]string{
		{"Total days", "Current streak", "Longest streak", "Last run"},
		{strconv.Itoa(s.TotalDays), strconv.Itoa(s.CurrentStreak), strconv.Itoa(s.LongestStreak), lastRun},
	}
	return ps.ol.Table(rows)
}
