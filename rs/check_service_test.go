package rs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/roessland/runstreak/streak"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var checkDay = streak.MustParseDate("2024-01-10")

func TestCheckService_RunIsRecorded(t *testing.T) {
	// Arrange
	source := &MockActivitySource{Activities: []ActivityInfo{
		{ID: "1", Type: "cycling"},
		{ID: "2", Type: "Trail Run"},
	}}
	store := NewMockStore()
	service := NewCheckService(source, store, &MockLogger{})

	// Act
	result, err := service.Check(checkDay)

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Ran)
	assert.True(t, result.Recorded)
	assert.Equal(t, checkDay, result.Date)
	assert.Equal(t, []streak.Date{checkDay}, store.RecordCalls)
	assert.Equal(t, 1, store.Ledger.TotalCount)
}

func TestCheckService_RunAlreadyRecorded(t *testing.T) {
	source := &MockActivitySource{Activities: []ActivityInfo{{ID: "2", Type: "RUNNING"}}}
	store := NewMockStore()
	store.Ledger.Add(checkDay)
	service := NewCheckService(source, store, &MockLogger{})

	result, err := service.Check(checkDay)

	require.NoError(t, err)
	assert.True(t, result.Ran)
	assert.False(t, result.Recorded)
	assert.Equal(t, 1, store.Ledger.TotalCount)
}

func TestCheckService_NoRunLeavesStoreAlone(t *testing.T) {
	source := &MockActivitySource{Activities: []ActivityInfo{{ID: "1", Type: "cycling"}}}
	store := NewMockStore()
	logger := &MockLogger{}
	service := NewCheckService(source, store, logger)

	result, err := service.Check(checkDay)

	require.NoError(t, err)
	assert.False(t, result.Ran)
	assert.Empty(t, store.RecordCalls)
	require.Len(t, logger.InfoCalls, 1)
	assert.Equal(t, "no run found", logger.InfoCalls[0].Message)
}

func TestCheckService_NoActivities(t *testing.T) {
	store := NewMockStore()
	service := NewCheckService(&MockActivitySource{}, store, &MockLogger{})

	result, err := service.Check(checkDay)

	require.NoError(t, err)
	assert.False(t, result.Ran)
	assert.Empty(t, store.RecordCalls)
}

func TestCheckService_LookupErrorsSkipStore(t *testing.T) {
	tests := []error{
		ErrNoSession,
		&RemoteServiceError{Op: "activity lookup", Err: createNetworkError()},
	}

	for _, lookupErr := range tests {
		t.Run(lookupErr.Error(), func(t *testing.T) {
			store := NewMockStore()
			service := NewCheckService(&MockActivitySource{Error: lookupErr}, store, &MockLogger{})

			result, err := service.Check(checkDay)

			assert.Nil(t, result)
			assert.True(t, errors.Is(err, lookupErr))
			assert.Empty(t, store.RecordCalls)
		})
	}
}

func TestCheckService_StoreError(t *testing.T) {
	source := &MockActivitySource{Activities: []ActivityInfo{{ID: "2", Type: "run"}}}
	store := NewMockStore()
	store.RecordError = &streak.CorruptStoreError{Path: "/tmp/streak.json", Err: fmt.Errorf("bad json")}
	service := NewCheckService(source, store, &MockLogger{})

	result, err := service.Check(checkDay)

	require.Error(t, err)
	var corrupt *streak.CorruptStoreError
	assert.True(t, errors.As(err, &corrupt))
	assert.True(t, result.Ran)
	assert.False(t, result.Recorded)
}
