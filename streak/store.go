package streak

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const (
	// DefaultLockTimeout bounds how long a mutation waits for another invocation
	DefaultLockTimeout = 10 * time.Second

	lockRetryDelay = 100 * time.Millisecond
)

// FileSystem abstracts the file operations the store needs
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	// WriteFile must replace path atomically
	WriteFile(path string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
}

// Logger is the logging surface used by the store
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Options configures a Store
type Options struct {
	Path        string
	FS          FileSystem
	Logger      Logger
	LockTimeout time.Duration
}

// Store is a streak ledger persisted as a single JSON file. Every operation
// is a complete load-mutate-save cycle under an exclusive lock on a sibling
// ".lock" file.
type Store struct {
	path        string
	fs          FileSystem
	logger      Logger
	lockTimeout time.Duration
}

// NewStore creates a store for the file at opts.Path
func NewStore(opts Options) *Store {
	s := &Store{
		path:        opts.Path,
		fs:          opts.FS,
		logger:      opts.Logger,
		lockTimeout: opts.LockTimeout,
	}
	if s.fs == nil {
		s.fs = NewOSFileSystem()
	}
	if s.logger == nil {
		s.logger = nopLogger{}
	}
	if s.lockTimeout <= 0 {
		s.lockTimeout = DefaultLockTimeout
	}
	return s
}

// Path returns the location of the store file
func (s *Store) Path() string {
	return s.path
}

// Load reads the ledger. A missing file yields an empty ledger.
func (s *Store) Load() (*Ledger, error) {
	var ledger *Ledger
	err := s.withLock(false, func() error {
		var err error
		ledger, err = s.load()
		return err
	})
	return ledger, err
}

// Record adds a run for d. It reports whether the ledger changed; when it
// did not, nothing is written.
func (s *Store) Record(d Date) (bool, error) {
	if err := d.Validate(); err != nil {
		return false, err
	}
	added, err := s.update(func(l *Ledger) int {
		if l.Add(d) {
			return 1
		}
		return 0
	})
	if err != nil {
		return false, err
	}
	if added > 0 {
		s.logger.Info("recorded run", "date", d.String())
	} else {
		s.logger.Debug("run already recorded", "date", d.String())
	}
	return added > 0, nil
}

// Backfill records every date in [since, through] and returns how many were
// new. The file is written once, after the whole range. An empty range
// (since after through) touches nothing.
func (s *Store) Backfill(since, through Date) (int, error) {
	if since.After(through) {
		s.logger.Debug("empty backfill range", "since", since.String(), "through", through.String())
		return 0, nil
	}
	if err := validateDates(since, through); err != nil {
		return 0, err
	}
	added, err := s.update(func(l *Ledger) int {
		return l.AddRange(since, through)
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("backfilled runs", "since", since.String(), "through", through.String(), "added", added)
	return added, nil
}

// Import records each of dates, skipping those already present
func (s *Store) Import(dates []Date) (int, error) {
	if err := validateDates(dates...); err != nil {
		return 0, err
	}
	added, err := s.update(func(l *Ledger) int {
		n := 0
		for _, d := range dates {
			if l.Add(d) {
				n++
			}
		}
		return n
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("imported runs", "given", len(dates), "added", added)
	return added, nil
}

// update runs mutate inside a locked load-mutate-save cycle. The ledger is
// only written when mutate reports at least one change.
func (s *Store) update(mutate func(*Ledger) int) (int, error) {
	var changed int
	err := s.withLock(true, func() error {
		ledger, err := s.load()
		if err != nil {
			return err
		}
		changed = mutate(ledger)
		if changed == 0 {
			return nil
		}
		return s.save(ledger)
	})
	return changed, err
}

func (s *Store) load() (*Ledger, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("no streak store yet, starting empty", "path", s.path)
			return NewLedger(), nil
		}
		return nil, fmt.Errorf("failed to read streak store: %w", err)
	}

	ledger, err := DecodeLedger(data)
	if err != nil {
		return nil, &CorruptStoreError{Path: s.path, Err: err}
	}
	s.logger.Debug("loaded streak store", "path", s.path, "runs", ledger.TotalCount)
	return ledger, nil
}

func (s *Store) save(l *Ledger) error {
	data, err := l.Encode()
	if err != nil {
		return err
	}
	if err := s.fs.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write streak store: %w", err)
	}
	s.logger.Debug("saved streak store", "path", s.path, "runs", l.TotalCount)
	return nil
}

// withLock holds the store lock (exclusive or shared) while fn runs. The lock
// is released on every return path. Shared locks skip locking when the store
// directory does not exist.
func (s *Store) withLock(exclusive bool, fn func() error) error {
	dir := filepath.Dir(s.path)
	if !exclusive {
		// Readers never create the store directory. Without it there is no
		// store and no writer to wait for.
		if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
			return fn()
		}
	} else if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.lockTimeout)
	defer cancel()

	lock := flock.New(s.path + ".lock")
	var locked bool
	var err error
	if exclusive {
		locked, err = lock.TryLockContext(ctx, lockRetryDelay)
	} else {
		locked, err = lock.TryRLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s", ErrLockTimeout, s.lockTimeout)
		}
		return fmt.Errorf("failed to lock streak store: %w", err)
	}
	if !locked {
		return ErrLockTimeout
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			s.logger.Warn("failed to release streak store lock", "error", err)
		}
	}()

	return fn()
}

// validateDates rejects dates that could not be read back from the file,
// before the lock is taken
func validateDates(dates ...Date) error {
	for _, d := range dates {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
