package streak

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrLockTimeout is returned when the store lock could not be acquired in time
	ErrLockTimeout = errors.New("timed out waiting for streak store lock")

	// ErrLineFormat marks a store file written in the old one-date-per-line layout
	ErrLineFormat = errors.New("file uses the unsupported one-date-per-line layout, import it with 'runstreak migrate'")
)

// CorruptStoreError is returned when a store file exists but does not hold a
// valid ledger. The file is left untouched.
type CorruptStoreError struct {
	Path string
	Err  error
}

func (e *CorruptStoreError) Error() string {
	return fmt.Sprintf("corrupt streak store %s: %v", e.Path, e.Err)
}

func (e *CorruptStoreError) Unwrap() error {
	return e.Err
}

// InvalidDateError is returned when a string is not a YYYY-MM-DD date
type InvalidDateError struct {
	Value string
	Err   error
}

func (e *InvalidDateError) Error() string {
	var parseErr *time.ParseError
	if e.Err == nil || errors.As(e.Err, &parseErr) {
		return fmt.Sprintf("invalid date %q: use YYYY-MM-DD", e.Value)
	}
	return fmt.Sprintf("invalid date %q: %v", e.Value, e.Err)
}

func (e *InvalidDateError) Unwrap() error {
	return e.Err
}
