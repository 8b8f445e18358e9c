package rs

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/go-homedir"
	"github.com/roessland/runstreak/streak"
)

// TokenEnvVar holds the session blob printed by 'runstreak login'. It is the
// only place a session is read from.
const TokenEnvVar = "RUNSTREAK_TOKENS"

// Config holds everything the commands need, gathered by the CLI from flags,
// the config file and the environment
type Config struct {
	StorePath      string        `validate:"required"`
	UTCOffsetHours int           `validate:"min=-12,max=14"`
	LockTimeout    time.Duration `validate:"gt=0"`
	BaseURL        string        `validate:"omitempty,url"`
	Username       string
	Password       string
	Tokens         string
	JSONMode       bool
}

// DefaultUTCOffsetHours matches streak.ReferenceOffset
const DefaultUTCOffsetHours = int(streak.ReferenceOffset / time.Hour)

// Prepare expands paths and validates the configuration
func (c *Config) Prepare() error {
	expanded, err := homedir.Expand(c.StorePath)
	if err != nil {
		return fmt.Errorf("failed to expand store path: %w", err)
	}
	c.StorePath = expanded

	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Location returns the fixed zone "today" is computed in
func (c *Config) Location() *time.Location {
	if c.UTCOffsetHours == DefaultUTCOffsetHours {
		return streak.ReferenceZone
	}
	return time.FixedZone(fmt.Sprintf("UTC%+03d:00", c.UTCOffsetHours), c.UTCOffsetHours*60*60)
}

// Today returns the current date in the configured zone
func (c *Config) Today() streak.Date {
	return streak.Today(time.Now(), c.Location())
}
