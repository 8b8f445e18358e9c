package output

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pterm/pterm"
)

// Logger wraps slog.Logger with context-aware methods
type Logger interface {
	// Component returns a logger for a specific component
	Component(name string) Logger
	// With returns a logger with additional attributes
	With(args ...any) Logger

	// Standard log levels
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// OutputLogger handles both user output and structured logging
type OutputLogger struct {
	Logger
	jsonMode bool
	stdout   io.Writer
}

// New creates a new OutputLogger
// If jsonMode is true, only structured logs go to stdout
// If jsonMode is false, structured logs go to file and user messages use pterm
func New(jsonMode bool) (*OutputLogger, error) {
	var slogLogger *slog.Logger

	if jsonMode {
		// JSON mode: structured logs only to stdout
		handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: getLogLevel(),
		})
		slogLogger = slog.New(handler)
	} else {
		// Interactive mode: structured logs to file
		logFile, err := getLogFilePath()
		if err != nil {
			return nil, fmt.Errorf("failed to get log file path: %w", err)
		}

		// Create log directory if it doesn't exist
		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}

		handler := slog.NewTextHandler(file, &slog.HandlerOptions{
			Level: getLogLevel(),
		})
		slogLogger = slog.New(handler)
	}

	return &OutputLogger{
		Logger:   &loggerImpl{slog: slogLogger},
		jsonMode: jsonMode,
		stdout:   os.Stdout,
	}, nil
}

// NewWithHandler builds an OutputLogger around an existing slog handler and
// writes user output to w. Used by tests and embedders.
func NewWithHandler(h slog.Handler, w io.Writer, jsonMode bool) *OutputLogger {
	return &OutputLogger{
		Logger:   &loggerImpl{slog: slog.New(h)},
		jsonMode: jsonMode,
		stdout:   w,
	}
}

// JSONMode reports whether output is structured JSON
func (ol *OutputLogger) JSONMode() bool {
	return ol.jsonMode
}

// getLogLevel returns the log level from LOG_LEVEL env var, defaulting to info
func getLogLevel() slog.Level {
	level := os.Getenv("LOG_LEVEL")
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// getLogFilePath returns the path to the log file
func getLogFilePath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".runstreak", "runstreak.log"), nil
}

// Progress shows ongoing operations
func (ol *OutputLogger) Progress(format string, args ...any) {
	if ol.jsonMode {
		ol.Logger.Info("progress", "message", fmt.Sprintf(format, args...))
	} else {
		pterm.Info.Printf(format+"\n", args...)
	}
}

// Status shows important state changes
func (ol *OutputLogger) Status(format string, args ...any) {
	if ol.jsonMode {
		ol.Logger.Info("status", "message", fmt.Sprintf(format, args...))
	} else {
		pterm.Success.Printf(format+"\n", args...)
	}
}

// Result shows final results/summaries
func (ol *OutputLogger) Result(format string, args ...any) {
	if ol.jsonMode {
		ol.Logger.Info("result", "message", fmt.Sprintf(format, args...))
	} else {
		pterm.Success.Printf("🎯 "+format+"\n", args...)
	}
}

// Warning shows a non-fatal problem the user should act on
func (ol *OutputLogger) Warning(format string, args ...any) {
	if ol.jsonMode {
		ol.Logger.Warn("user_warning", "message", fmt.Sprintf(format, args...))
	} else {
		pterm.Warning.Printf(format+"\n", args...)
	}
}

// Error shows user-facing errors
func (ol *OutputLogger) Error(format string, args ...any) {
	if ol.jsonMode {
		ol.Logger.Error("user_error", "message", fmt.Sprintf(format, args...))
	} else {
		pterm.Error.Printf(format+"\n", args...)
	}
}

// ActivityLine shows one activity of the checked day
func (ol *OutputLogger) ActivityLine(emoji, activityID, activityType string, distanceKm float64) {
	if ol.jsonMode {
		ol.Logger.Info("activity",
			"activity_id", activityID,
			"type", activityType,
			"distance_km", distanceKm)
		return
	}

	distance := ""
	if distanceKm > 0 {
		distance = fmt.Sprintf(" %.1f km", distanceKm)
	}
	pterm.Println(fmt.Sprintf("  %s %s %s%s", emoji, activityID, pterm.FgGray.Sprint(activityType), distance))
}

// Table renders rows with the first row as header. In JSON mode nothing is
// rendered; callers emit structured data with JSON instead.
func (ol *OutputLogger) Table(rows [][]string) error {
	if ol.jsonMode {
		return nil
	}
	return pterm.DefaultTable.WithHasHeader().WithWriter(ol.stdout).WithData(pterm.TableData(rows)).Render()
}

// Raw writes text to stdout unchanged, regardless of mode
func (ol *OutputLogger) Raw(text string) {
	fmt.Fprintln(ol.stdout, text)
}

// JSON outputs structured data (only in JSON mode)
func (ol *OutputLogger) JSON(data any) error {
	if !ol.jsonMode {
		return nil // Don't output JSON in interactive mode
	}

	// In JSON mode, output structured data directly to stdout
	encoder := json.NewEncoder(ol.stdout)
	return encoder.Encode(data)
}

// LogAndShowError logs an error with full context and shows a user-friendly message
func (ol *OutputLogger) LogAndShowError(err error, userMsg string, args ...any) {
	// Log the full error with context
	ol.Logger.Error("operation_failed", "error", err.Error(), "user_message", fmt.Sprintf(userMsg, args...))

	// Show user-friendly message
	ol.Error(userMsg, args...)
}

// Prompt asks the user for a line of text on the terminal
func (ol *OutputLogger) Prompt(label string) (string, error) {
	return pterm.DefaultInteractiveTextInput.Show(label)
}

// PromptSecret asks for text without echoing it
func (ol *OutputLogger) PromptSecret(label string) (string, error) {
	return pterm.DefaultInteractiveTextInput.WithMask("*").Show(label)
}

// loggerImpl implements Logger interface
type loggerImpl struct {
	slog *slog.Logger
}

func (l *loggerImpl) Component(name string) Logger {
	return &loggerImpl{slog: l.slog.With("component", name)}
}

func (l *loggerImpl) With(args ...any) Logger {
	return &loggerImpl{slog: l.slog.With(args...)}
}

func (l *loggerImpl) Debug(msg string, args ...any) {
	l.slog.Debug(msg, args...)
}

func (l *loggerImpl) Info(msg string, args ...any) {
	l.slog.Info(msg, args...)
}

func (l *loggerImpl) Warn(msg string, args ...any) {
	l.slog.Warn(msg, args...)
}

func (l *loggerImpl) Error(msg string, args ...any) {
	l.slog.Error(msg, args...)
}
