package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionMap(t *testing.T) {
	t.Parallel()

	m := CompletionMap{1: true, 2: false, 3: true}
	assert.Equal(t, 2, m.CorrectCount())

	clone := m.Clone()
	clone[2] = true
	assert.False(t, m[2])
	assert.Equal(t, 0, CompletionMap(nil).CorrectCount())
}

func TestProgressStateJSON(t *testing.T) {
	t.Parallel()

	var state ProgressState
	err := json.Unmarshal([]byte(`{"completedScenarios":{"1":true,"2":false},"currentId":3}`), &state)
	require.NoError(t, err)

	assert.Equal(t, 3, state.CurrentScenarioID)
	assert.Equal(t, CompletionMap{1: true, 2: false}, state.CompletedScenarios)
	assert.Equal(t, int64(0), state.Version)
	assert.False(t, state.IsDone())
}

func TestProgressStateValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, NewProgressState(1).Validate())
	assert.NoError(t, ProgressState{CurrentScenarioID: DoneScenarioID}.Validate())

	err := ProgressState{CurrentScenarioID: -1}.Validate()
	assert.ErrorIs(t, err, ErrInvalidID)

	err = ProgressState{CurrentScenarioID: 1, CompletedScenarios: CompletionMap{0: true}}.Validate()
	assert.ErrorIs(t, err, ErrValidation)

	err = ProgressState{CurrentScenarioID: 1, Version: -2}.Validate()
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewAttemptRecord(t *testing.T) {
	t.Parallel()

	record, err := NewAttemptRecord(" student@example.com ", 2, true)
	require.NoError(t, err)
	assert.Equal(t, "student@example.com", record.Email)
	assert.Equal(t, 2, record.ScenarioID)
	assert.True(t, record.IsCorrect)
	assert.False(t, record.CreatedAt.IsZero())

	_, err = NewAttemptRecord("", 2, true)
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = NewAttemptRecord("student@example.com", 0, false)
	assert.ErrorIs(t, err, ErrInvalidID)
}
