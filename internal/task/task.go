package task

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the current state of a task
type Status string

// Possible task status values
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Progress tracks how far a task has advanced. Total is fixed when the task
// is created; Current only ever increases.
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Task is a tracked record of one asynchronous operation's lifecycle.
//
// A task is created pending, transitioned to in_progress by exactly one
// worker, advanced through zero or more progress updates, and finally moved
// to exactly one terminal state: completed (with a summary message) or
// failed (with an error detail). No mutation occurs after a terminal state.
type Task struct {
	ID        uuid.UUID `json:"id"`
	Status    Status    `json:"status"`
	Progress  *Progress `json:"progress,omitempty"`
	Message   string    `json:"message,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// clone returns a deep copy of the task so callers can never observe or
// mutate registry-owned state.
func (t *Task) clone() Task {
	out := *t
	if t.Progress != nil {
		progress := *t.Progress
		out.Progress = &progress
	}
	return out
}

// IsTerminal reports whether the task has reached a final state.
func (t *Task) IsTerminal() bool {
	return t.Status == StatusCompleted || t.Status == StatusFailed
}

// StatusPtr returns a pointer to s, for use in UpdateParams.
func StatusPtr(s Status) *Status { return &s }

// IntPtr returns a pointer to i, for use in UpdateParams.
func IntPtr(i int) *int { return &i }

// StringPtr returns a pointer to s, for use in UpdateParams.
func StringPtr(s string) *string { return &s }
