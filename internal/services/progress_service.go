// internal/services/progress_service.go
package services

import (
	"fmt"
	"sync"
	"time"
)

// ProgressUpdate is one progress notification pushed to subscribers.
type ProgressUpdate struct {
	Progress int    `json:"progress"` // 0-100
	Message  string `json:"message"`
	Status   string `json:"status"` // running, completed, failed
}

// ProgressTracker tracks one long-running generation task.
type ProgressTracker struct {
	TaskID      string
	Progress    int
	Message     string
	Status      string
	StartTime   time.Time
	UpdateTime  time.Time
	Subscribers map[chan ProgressUpdate]bool
	Done        chan struct{}
	mutex       sync.Mutex
}

// ProgressService manages progress trackers for in-flight tasks.
type ProgressService struct {
	trackers map[string]*ProgressTracker
	mutex    sync.RWMutex
}

// NewProgressService creates the progress service.
func NewProgressService() *ProgressService {
	return &ProgressService{
		trackers: make(map[string]*ProgressTracker),
	}
}

// CreateTracker creates a tracker for taskID, returning the existing one
// when already present. Settled trackers are kept so late subscribers still
// see the final state.
func (s *ProgressService) CreateTracker(taskID string) *ProgressTracker {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if tracker, exists := s.trackers[taskID]; exists {
		return tracker
	}

	return s.newTrackerLocked(taskID)
}

// StartTracker returns the tracker for taskID for a task that is about to
// run, replacing a settled tracker with a fresh one so a client may reuse a
// task id when retrying a failed request.
func (s *ProgressService) StartTracker(taskID string) *ProgressTracker {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if tracker, exists := s.trackers[taskID]; exists {
		tracker.mutex.Lock()
		settled := tracker.settledLocked()
		tracker.mutex.Unlock()
		if !settled {
			return tracker
		}
	}

	return s.newTrackerLocked(taskID)
}

func (s *ProgressService) newTrackerLocked(taskID string) *ProgressTracker {
	tracker := &ProgressTracker{
		TaskID:      taskID,
		Progress:    0,
		Message:     "Task initializing...",
		Status:      "running",
		StartTime:   time.Now(),
		UpdateTime:  time.Now(),
		Subscribers: make(map[chan ProgressUpdate]bool),
		Done:        make(chan struct{}),
	}

	s.trackers[taskID] = tracker
	return tracker
}

// GetTracker returns the tracker for taskID.
func (s *ProgressService) GetTracker(taskID string) (*ProgressTracker, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	tracker, exists := s.trackers[taskID]
	return tracker, exists
}

// UpdateProgress advances the task's progress and notifies subscribers.
// Progress never moves backwards.
func (t *ProgressTracker) UpdateProgress(progress int, message string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if progress > t.Progress {
		t.Progress = progress
	}
	if message != "" {
		t.Message = message
	}
	t.UpdateTime = time.Now()

	t.notifyLocked(ProgressUpdate{
		Progress: t.Progress,
		Message:  t.Message,
		Status:   t.Status,
	})
}

// settledLocked reports whether the task already finished. Callers hold
// t.mutex.
func (t *ProgressTracker) settledLocked() bool {
	return t.Status == "completed" || t.Status == "failed"
}

// Complete marks the task as finished. A second settle on the same tracker
// is a no-op; Done is only ever closed once.
func (t *ProgressTracker) Complete(message string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.settledLocked() {
		return
	}

	t.Progress = 100
	if message != "" {
		t.Message = message
	} else {
		t.Message = "Task completed"
	}
	t.Status = "completed"
	t.UpdateTime = time.Now()

	t.notifyLocked(ProgressUpdate{
		Progress: 100,
		Message:  t.Message,
		Status:   "completed",
	})

	close(t.Done)
}

// Fail marks the task as failed. A second settle on the same tracker is a
// no-op; Done is only ever closed once.
func (t *ProgressTracker) Fail(errorMsg string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.settledLocked() {
		return
	}

	t.Message = fmt.Sprintf("Task failed: %s", errorMsg)
	t.Status = "failed"
	t.UpdateTime = time.Now()

	t.notifyLocked(ProgressUpdate{
		Progress: t.Progress,
		Message:  t.Message,
		Status:   "failed",
	})

	close(t.Done)
}

func (t *ProgressTracker) notifyLocked(update ProgressUpdate) {
	for subscriber := range t.Subscribers {
		// Non-blocking send; slow subscribers miss intermediate updates.
		select {
		case subscriber <- update:
		default:
		}
	}
}

// Subscribe registers a new subscriber channel and immediately sends the
// current state.
func (t *ProgressTracker) Subscribe() chan ProgressUpdate {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	subscriber := make(chan ProgressUpdate, 10)
	t.Subscribers[subscriber] = true

	subscriber <- ProgressUpdate{
		Progress: t.Progress,
		Message:  t.Message,
		Status:   t.Status,
	}

	return subscriber
}

// Unsubscribe removes and closes a subscriber channel.
func (t *ProgressTracker) Unsubscribe(subscriber chan ProgressUpdate) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	delete(t.Subscribers, subscriber)
	close(subscriber)
}

// staleRunningAge is the point at which a still-running tracker is treated
// as abandoned. Websocket clients can create trackers for tasks that are
// never submitted, so running trackers must age out too.
const staleRunningAge = 2 * time.Hour

// CleanupCompletedTasks removes finished trackers older than maxAge, and
// abandoned running trackers that have not been touched for staleRunningAge.
func (s *ProgressService) CleanupCompletedTasks(maxAge time.Duration) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := time.Now()
	for id, tracker := range s.trackers {
		tracker.mutex.Lock()
		isFinished := tracker.settledLocked()
		age := now.Sub(tracker.UpdateTime)
		tracker.mutex.Unlock()

		if isFinished && age > maxAge {
			delete(s.trackers, id)
		} else if !isFinished && age > staleRunningAge {
			delete(s.trackers, id)
		}
	}
}
