package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []TaskStatus{TaskStatusToStart, TaskStatusStarted, TaskStatusCompleted}

func TestTaskStatusTransition(t *testing.T) {
	tests := []struct {
		from   TaskStatus
		action TaskAction
		want   TaskStatus
	}{
		{TaskStatusToStart, ActionNext, TaskStatusStarted},
		{TaskStatusStarted, ActionNext, TaskStatusCompleted},
		{TaskStatusCompleted, ActionNext, TaskStatusCompleted},
		{TaskStatusToStart, ActionPrevious, TaskStatusToStart},
		{TaskStatusStarted, ActionPrevious, TaskStatusToStart},
		{TaskStatusCompleted, ActionPrevious, TaskStatusStarted},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.action), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.Transition(tt.action))
		})
	}
}

func TestTaskStatusTransition_UnknownActionIsNoOp(t *testing.T) {
	for _, s := range allStatuses {
		for _, a := range []TaskAction{"", "NEXT", "skip", "prev", "next "} {
			assert.Equal(t, s, s.Transition(a), "state %s action %q", s, a)
		}
	}
}

func TestTaskStatusTransition_AlwaysLandsOnKnownState(t *testing.T) {
	for _, s := range allStatuses {
		for _, a := range []TaskAction{ActionNext, ActionPrevious, "bogus"} {
			assert.True(t, s.Transition(a).IsValid())
		}
	}
}

func TestTaskStatusTransition_BoundariesAreIdempotent(t *testing.T) {
	assert.Equal(t, TaskStatusCompleted,
		TaskStatusCompleted.Transition(ActionNext).Transition(ActionNext))
	assert.Equal(t, TaskStatusToStart,
		TaskStatusToStart.Transition(ActionPrevious).Transition(ActionPrevious))
}

func TestTaskStatusTransition_RoundTrips(t *testing.T) {
	for _, s := range []TaskStatus{TaskStatusToStart, TaskStatusStarted} {
		assert.Equal(t, s, s.Transition(ActionNext).Transition(ActionPrevious))
	}
	for _, s := range []TaskStatus{TaskStatusStarted, TaskStatusCompleted} {
		assert.Equal(t, s, s.Transition(ActionPrevious).Transition(ActionNext))
	}
}

func TestParseTaskAction(t *testing.T) {
	for raw, want := range map[string]TaskAction{
		"next":       ActionNext,
		"previous":   ActionPrevious,
		"Next":       ActionNext,
		" PREVIOUS ": ActionPrevious,
	} {
		got, err := ParseTaskAction(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}

	for _, raw := range []string{"", "skip", "back", "nextt"} {
		_, err := ParseTaskAction(raw)
		require.Error(t, err, raw)
		assert.ErrorIs(t, err, ErrValidation)
		assert.ErrorIs(t, err, ErrInvalidTaskAction)
	}
}

func TestParseTaskStatus(t *testing.T) {
	for _, s := range allStatuses {
		got, err := ParseTaskStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseTaskStatus("Done")
	assert.ErrorIs(t, err, ErrInvalidTaskStatus)
	_, err = ParseTaskStatus("tostart")
	assert.ErrorIs(t, err, ErrInvalidTaskStatus, "stored values are case sensitive")
}
