// internal/services/progress_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTrackerReturnsInFlightTracker(t *testing.T) {
	service := NewProgressService()

	first := service.CreateTracker("task-1")
	second := service.CreateTracker("task-1")

	assert.Same(t, first, second)
}

func TestTrackerSecondSettleIsNoOp(t *testing.T) {
	service := NewProgressService()
	tracker := service.CreateTracker("task-1")

	tracker.Fail("model call failed")

	// Settling an already-settled tracker must not panic or flip the state.
	assert.NotPanics(t, func() {
		tracker.Complete("late completion")
		tracker.Fail("late failure")
	})

	assert.Equal(t, "failed", tracker.Status)
}

func TestStartTrackerReusedTaskIDAfterFailure(t *testing.T) {
	service := NewProgressService()

	// A retry with the same task id after a failed generation gets a fresh
	// tracker instead of the settled one.
	first := service.StartTracker("task-1")
	first.Fail("model call failed")

	second := service.StartTracker("task-1")
	require.NotSame(t, first, second)
	assert.Equal(t, "running", second.Status)

	assert.NotPanics(t, func() {
		second.Complete("retry succeeded")
	})
	assert.Equal(t, "completed", second.Status)
	assert.Equal(t, 100, second.Progress)
}

func TestStartTrackerReturnsInFlightTracker(t *testing.T) {
	service := NewProgressService()

	first := service.StartTracker("task-1")
	second := service.StartTracker("task-1")

	assert.Same(t, first, second)
}

func TestCreateTrackerKeepsSettledTracker(t *testing.T) {
	service := NewProgressService()

	tracker := service.StartTracker("task-1")
	tracker.Complete("")

	// A late websocket subscriber still sees the final state.
	same := service.CreateTracker("task-1")
	assert.Same(t, tracker, same)
	assert.Equal(t, "completed", same.Status)
}

func TestCleanupRemovesOldFinishedTrackers(t *testing.T) {
	service := NewProgressService()

	old := service.CreateTracker("old-task")
	old.Complete("")
	old.UpdateTime = time.Now().Add(-time.Hour)

	recent := service.CreateTracker("recent-task")
	recent.Complete("")

	service.CleanupCompletedTasks(30 * time.Minute)

	_, oldExists := service.GetTracker("old-task")
	_, recentExists := service.GetTracker("recent-task")
	assert.False(t, oldExists)
	assert.True(t, recentExists)
}

func TestCleanupRemovesAbandonedRunningTrackers(t *testing.T) {
	service := NewProgressService()

	// A websocket client can create a tracker for a task that is never
	// submitted; those must age out as well.
	abandoned := service.CreateTracker("abandoned-task")
	abandoned.UpdateTime = time.Now().Add(-3 * time.Hour)

	service.CreateTracker("live-task")

	service.CleanupCompletedTasks(30 * time.Minute)

	_, abandonedExists := service.GetTracker("abandoned-task")
	_, liveExists := service.GetTracker("live-task")
	assert.False(t, abandonedExists)
	assert.True(t, liveExists)
}
