package rs

import (
	"fmt"
	"time"

	"github.com/roessland/runstreak/streak"
)

// MockRunalyzeClient implements RunalyzeClient for testing
type MockRunalyzeClient struct {
	BrowserData        []byte
	BrowserError       error
	LoginError         error
	TokensValue        string
	TokensError        error
	LoginCalled        bool
	LoginUsername      string
	LoginPassword      string
	BrowserCalls       []BrowserCall
	GetDataBrowserFunc func(start, end time.Time) ([]byte, error) // Allow custom behavior
}

type BrowserCall struct {
	Start time.Time
	End   time.Time
}

func (m *MockRunalyzeClient) GetDataBrowser(start, end time.Time) ([]byte, error) {
	m.BrowserCalls = append(m.BrowserCalls, BrowserCall{Start: start, End: end})
	if m.GetDataBrowserFunc != nil {
		return m.GetDataBrowserFunc(start, end)
	}
	if m.BrowserError != nil {
		return nil, m.BrowserError
	}
	return m.BrowserData, nil
}

func (m *MockRunalyzeClient) Login(username, password string) error {
	m.LoginCalled = true
	m.LoginUsername = username
	m.LoginPassword = password
	return m.LoginError
}

func (m *MockRunalyzeClient) Tokens() (string, error) {
	return m.TokensValue, m.TokensError
}

// MockActivitySource implements ActivitySource for testing
type MockActivitySource struct {
	Activities []ActivityInfo
	Error      error
	Calls      []streak.Date
}

func (m *MockActivitySource) ActivitiesForDate(d streak.Date) ([]ActivityInfo, error) {
	m.Calls = append(m.Calls, d)
	return m.Activities, m.Error
}

// MockStore implements StreakStore on an in-memory ledger
type MockStore struct {
	Ledger      *streak.Ledger
	RecordError error
	RecordCalls []streak.Date
}

func NewMockStore() *MockStore {
	return &MockStore{Ledger: streak.NewLedger()}
}

func (m *MockStore) Load() (*streak.Ledger, error) {
	return m.Ledger, nil
}

func (m *MockStore) Record(d streak.Date) (bool, error) {
	m.RecordCalls = append(m.RecordCalls, d)
	if m.RecordError != nil {
		return false, m.RecordError
	}
	return m.Ledger.Add(d), nil
}

func (m *MockStore) Backfill(since, through streak.Date) (int, error) {
	return m.Ledger.AddRange(since, through), nil
}

func (m *MockStore) Import(dates []streak.Date) (int, error) {
	n := 0
	for _, d := range dates {
		if m.Ledger.Add(d) {
			n++
		}
	}
	return n, nil
}

// MockPrompter implements Prompter for testing
type MockPrompter struct {
	Answers map[string]string
	Error   error
	Asked   []string
}

func (m *MockPrompter) Prompt(label string) (string, error) {
	m.Asked = append(m.Asked, label)
	if m.Error != nil {
		return "", m.Error
	}
	return m.Answers[label], nil
}

func (m *MockPrompter) PromptSecret(label string) (string, error) {
	return m.Prompt(label)
}

// MockLogger implements Logger for testing
type MockLogger struct {
	InfoCalls  []LogCall
	DebugCalls []LogCall
	WarnCalls  []LogCall
}

type LogCall struct {
	Message string
	Args    []any
}

func (m *MockLogger) Info(msg string, args ...any) {
	m.InfoCalls = append(m.InfoCalls, LogCall{Message: msg, Args: args})
}

func (m *MockLogger) Debug(msg string, args ...any) {
	m.DebugCalls = append(m.DebugCalls, LogCall{Message: msg, Args: args})
}

func (m *MockLogger) Warn(msg string, args ...any) {
	m.WarnCalls = append(m.WarnCalls, LogCall{Message: msg, Args: args})
}

// Helper function to create a connectivity error
func createNetworkError() error {
	return fmt.Errorf("failed to send request: dial tcp: connection refused")
}
