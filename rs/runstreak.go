package rs

import (
	"errors"
	"fmt"
	"os"

	"github.com/roessland/runstreak/pkg/output"
	"github.com/roessland/runstreak/runalyze"
	"github.com/roessland/runstreak/streak"
)

// Check looks up today's activities and extends the streak if one was a run.
// Missing sessions and Runalyze failures are reported but are not errors.
func Check(config Config) error {
	// 1. Validate configuration
	if err := config.Prepare(); err != nil {
		return err
	}

	// 2. Setup dependencies
	ol, logger, presentation, err := setupDependencies(config, "check")
	if err != nil {
		return err
	}

	// 3. Restore the Runalyze session
	client, err := restoreClient(config, ol)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			logger.Info("no session available", "reason", err.Error())
			presentation.ShowNoSession()
			return nil
		}
		return err
	}

	// 4. Check today
	today := config.Today()
	presentation.ShowProgress("Checking Runalyze activities for %s", today)

	activities := NewActivityService(client, ol.Component("activities"), config.Location())
	service := NewCheckService(activities, newStore(config, ol), logger)

	result, err := service.Check(today)
	var remoteErr *RemoteServiceError
	switch {
	case errors.Is(err, ErrNoSession):
		presentation.ShowNoSession()
		return nil
	case errors.As(err, &remoteErr):
		presentation.ShowRemoteError(remoteErr)
		return nil
	case err != nil:
		presentation.ShowError(err, "Failed to update streak")
		return err
	}

	// 5. Show results
	presentation.ShowCheckResult(result)
	return nil
}

// Login signs in interactively and prints the session token
func Login(config Config) error {
	if err := config.Prepare(); err != nil {
		return err
	}

	ol, logger, presentation, err := setupDependencies(config, "login")
	if err != nil {
		return err
	}

	client, err := runalyze.New(runalyze.Options{
		BaseURL: config.BaseURL,
		Logger:  ol.Component("runalyze"),
	})
	if err != nil {
		return fmt.Errorf("failed to create Runalyze client: %w", err)
	}

	auth := NewAuthService(client, ol, logger)
	tokens, err := auth.Login(Credentials{Username: config.Username, Password: config.Password})
	if err != nil {
		presentation.ShowError(err, "Login failed: %v", err)
		return nil
	}

	presentation.ShowToken(tokens)
	return nil
}

// Backfill records every day from sinceStr through today. The date is
// parsed before anything else so a bad argument never touches the store.
func Backfill(config Config, sinceStr string) error {
	// 1. Validate configuration and dates
	if err := config.Prepare(); err != nil {
		return err
	}
	today := config.Today()
	since, err := ParseSince(sinceStr, today)
	if err != nil {
		return err
	}

	// 2. Setup dependencies
	ol, logger, presentation, err := setupDependencies(config, "backfill")
	if err != nil {
		return err
	}

	// 3. Fill the range
	if since.After(today) {
		logger.Warn("backfill start is in the future", "since", since.String(), "today", today.String())
	}
	added, err := newStore(config, ol).Backfill(since, today)
	if err != nil {
		presentation.ShowError(err, "Failed to backfill streak")
		return err
	}

	presentation.ShowBackfillResult(BackfillResult{Since: since, Through: today, Added: added})
	return nil
}

// Show prints the streak ledger and its statistics
func Show(config Config, format string) error {
	if err := config.Prepare(); err != nil {
		return err
	}

	ol, _, presentation, err := setupDependencies(config, "show")
	if err != nil {
		return err
	}

	ledger, err := newStore(config, ol).Load()
	if err != nil {
		presentation.ShowError(err, "Failed to read streak")
		return err
	}

	report := Report{Stats: ledger.Stats(config.Today()), Ledger: ledger}
	return presentation.ShowReport(report, format, os.Stdout)
}

// Migrate imports a file in the old one-date-per-line layout into the store
func Migrate(config Config, path string) error {
	if err := config.Prepare(); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	dates, err := ParseLineFormat(f)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	ol, _, presentation, err := setupDependencies(config, "migrate")
	if err != nil {
		return err
	}

	added, err := newStore(config, ol).Import(dates)
	if err != nil {
		presentation.ShowError(err, "Failed to import %s", path)
		return err
	}

	presentation.ShowImportResult(path, len(dates), added)
	return nil
}

// setupDependencies creates the output logger and presentation service
func setupDependencies(config Config, component string) (*output.OutputLogger, Logger, *PresentationService, error) {
	ol, err := output.New(config.JSONMode)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create output system: %w", err)
	}

	return ol, ol.Component(component), NewPresentationService(ol), nil
}

// restoreClient builds a client from the token blob. Absent or undecodable
// tokens are reported as ErrNoSession.
func restoreClient(config Config, ol *output.OutputLogger) (*runalyze.Client, error) {
	if config.Tokens == "" {
		return nil, fmt.Errorf("%w: %s is not set", ErrNoSession, TokenEnvVar)
	}

	client, err := runalyze.New(runalyze.Options{
		BaseURL: config.BaseURL,
		Tokens:  config.Tokens,
		Logger:  ol.Component("runalyze"),
	})
	if errors.Is(err, runalyze.ErrInvalidTokens) {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create Runalyze client: %w", err)
	}
	return client, nil
}

func newStore(config Config, ol *output.OutputLogger) *streak.Store {
	return streak.NewStore(streak.Options{
		Path:        config.StorePath,
		Logger:      ol.Component("store"),
		LockTimeout: config.LockTimeout,
	})
}
