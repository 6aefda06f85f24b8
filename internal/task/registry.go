package task

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// UpdateParams holds the optional fields of a registry update. Only the
// fields that are non-nil are applied; everything else is left unchanged.
type UpdateParams struct {
	Status  *Status
	Current *int
	Message *string
	Error   *string
}

// Registry is a process-wide in-memory map from task ID to task state.
//
// All access is serialized per registry, so a concurrent Get never observes
// a partially applied update: it sees either the full field set before or
// after a given Update call. Get returns copies, never references to
// registry-owned state. The registry never deletes entries; expiry is out
// of scope.
type Registry struct {
	mu     sync.RWMutex
	tasks  map[uuid.UUID]*Task
	logger *slog.Logger
}

// NewRegistry creates an empty task registry.
// If logger is nil, a default logger will be used.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	return &Registry{
		tasks:  make(map[uuid.UUID]*Task),
		logger: logger.With(slog.String("component", "task_registry")),
	}
}

// Create allocates a new pending task with progress (0, totalItems) and
// returns a snapshot of it. Create never fails.
func (r *Registry) Create(totalItems int, message string) Task {
	now := time.Now().UTC()
	t := &Task{
		ID:     uuid.New(),
		Status: StatusPending,
		Progress: &Progress{
			Current: 0,
			Total:   totalItems,
		},
		Message:   message,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.mu.Lock()
	r.tasks[t.ID] = t
	r.mu.Unlock()

	r.logger.Debug("task created",
		slog.String("task_id", t.ID.String()),
		slog.Int("total_items", totalItems))

	return t.clone()
}

// Get returns a snapshot of the task with the given ID.
// The second return value is false if the ID is unknown; an unknown ID is
// not an error.
func (r *Registry) Get(id uuid.UUID) (Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return Task{}, false
	}
	return t.clone(), true
}

// Update applies the supplied fields to the task with the given ID,
// refreshes UpdatedAt, and returns the updated snapshot. It returns false
// if the ID is unknown. Updating Current on a task with no progress record
// is a no-op for that field.
func (r *Registry) Update(id uuid.UUID, params UpdateParams) (Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return Task{}, false
	}

	if params.Status != nil {
		t.Status = *params.Status
	}
	if params.Current != nil && t.Progress != nil {
		t.Progress.Current = *params.Current
	}
	if params.Message != nil {
		t.Message = *params.Message
	}
	if params.Error != nil {
		t.Error = *params.Error
	}

	t.UpdatedAt = time.Now().UTC()

	return t.clone(), true
}
