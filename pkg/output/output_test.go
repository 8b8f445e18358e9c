package output

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSONOutput(logs, stdout io.Writer) *OutputLogger {
	return NewWithHandler(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}), stdout, true)
}

func decodeLogLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestOutputLogger_JSONModeLogsUserMessages(t *testing.T) {
	var logs bytes.Buffer
	ol := newJSONOutput(&logs, io.Discard)

	ol.Progress("checking %s", "2024-01-10")
	ol.Warning("not logged in")
	ol.Result("added %d days", 3)

	entries := decodeLogLines(t, &logs)
	require.Len(t, entries, 3)
	assert.Equal(t, "progress", entries[0]["msg"])
	assert.Equal(t, "checking 2024-01-10", entries[0]["message"])
	assert.Equal(t, "user_warning", entries[1]["msg"])
	assert.Equal(t, "WARN", entries[1]["level"])
	assert.Equal(t, "added 3 days", entries[2]["message"])
}

func TestOutputLogger_ComponentAttribute(t *testing.T) {
	var logs bytes.Buffer
	ol := newJSONOutput(&logs, io.Discard)

	ol.Component("store").Debug("saved", "path", "/tmp/streak.json")

	entries := decodeLogLines(t, &logs)
	require.Len(t, entries, 1)
	assert.Equal(t, "store", entries[0]["component"])
	assert.Equal(t, "/tmp/streak.json", entries[0]["path"])
}

func TestOutputLogger_LogAndShowError(t *testing.T) {
	var logs bytes.Buffer
	ol := newJSONOutput(&logs, io.Discard)

	ol.LogAndShowError(assert.AnError, "failed to save %s", "streak")

	entries := decodeLogLines(t, &logs)
	require.Len(t, entries, 2)
	assert.Equal(t, "operation_failed", entries[0]["msg"])
	assert.Equal(t, assert.AnError.Error(), entries[0]["error"])
	assert.Equal(t, "failed to save streak", entries[0]["user_message"])
	assert.Equal(t, "user_error", entries[1]["msg"])
}

func TestOutputLogger_JSONOnlyInJSONMode(t *testing.T) {
	var stdout bytes.Buffer
	interactive := NewWithHandler(slog.NewTextHandler(io.Discard, nil), &stdout, false)
	require.NoError(t, interactive.JSON(map[string]any{"added": 1}))
	assert.Empty(t, stdout.String())

	structured := newJSONOutput(io.Discard, &stdout)
	require.NoError(t, structured.JSON(map[string]any{"added": 1}))
	assert.JSONEq(t, `{"added": 1}`, stdout.String())
}

func TestOutputLogger_TableSkippedInJSONMode(t *testing.T) {
	var stdout bytes.Buffer
	ol := newJSONOutput(io.Discard, &stdout)

	require.NoError(t, ol.Table([][]string{{"Total days"}, {"3"}}))
	assert.Empty(t, stdout.String())
}

func TestOutputLogger_Table(t *testing.T) {
	var stdout bytes.Buffer
	ol := NewWithHandler(slog.NewTextHandler(io.Discard, nil), &stdout, false)

	require.NoError(t, ol.Table([][]string{{"Total days", "Longest streak"}, {"3", "2"}}))
	assert.Contains(t, stdout.String(), "Total days")
	assert.Contains(t, stdout.String(), "Longest streak")
}

func TestOutputLogger_RawIgnoresMode(t *testing.T) {
	for _, jsonMode := range []bool{false, true} {
		var stdout bytes.Buffer
		ol := NewWithHandler(slog.NewTextHandler(io.Discard, nil), &stdout, jsonMode)

		ol.Raw("token-blob")

		assert.Equal(t, "token-blob\n", stdout.String())
	}
}

func TestGetLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for value, expected := range tests {
		t.Run(value, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", value)
			assert.Equal(t, expected, getLogLevel())
		})
	}
}
