package streak

import (
	"os"
)

// MockFileSystem implements FileSystem for testing
type MockFileSystem struct {
	Files      map[string][]byte
	ReadError  error
	WriteError error
	WriteCalls []WriteCall
}

type WriteCall struct {
	Path string
	Data []byte
	Perm os.FileMode
}

func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		Files: make(map[string][]byte),
	}
}

func (m *MockFileSystem) ReadFile(path string) ([]byte, error) {
	if m.ReadError != nil {
		return nil, m.ReadError
	}
	data, ok := m.Files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func (m *MockFileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	m.WriteCalls = append(m.WriteCalls, WriteCall{Path: path, Data: data, Perm: perm})
	if m.WriteError != nil {
		return m.WriteError
	}
	m.Files[path] = data
	return nil
}

func (m *MockFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return nil
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
