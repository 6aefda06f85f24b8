package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ahappyphrog/harmonic-take-home/internal/api/shared"
	"github.com/ahappyphrog/harmonic-take-home/internal/task"
)

// TaskRegistry defines the read access the handler needs on the task registry.
type TaskRegistry interface {
	// Get returns a snapshot of the task with the given ID
	Get(id uuid.UUID) (task.Task, bool)
}

// TaskProgressResponse mirrors a task's progress pair
type TaskProgressResponse struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// TaskResponse is the full task record returned to pollers
type TaskResponse struct {
	ID        string                `json:"id"`
	Status    string                `json:"status"`
	Progress  *TaskProgressResponse `json:"progress,omitempty"`
	Message   string                `json:"message,omitempty"`
	Error     string                `json:"error,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// TaskHandler handles task polling HTTP requests
type TaskHandler struct {
	registry TaskRegistry
	logger   *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(registry TaskRegistry, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskHandler{
		registry: registry,
		logger:   logger.With(slog.String("component", "task_handler")),
	}
}

// GetTask handles GET /tasks/{id} requests. It is a thin pass-through to the
// task registry: pollers see either the latest full snapshot or a not-found.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return
	}

	t, ok := h.registry.Get(taskID)
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(t))
}

// taskToResponse converts a task.Task to a TaskResponse
func taskToResponse(t task.Task) TaskResponse {
	response := TaskResponse{
		ID:        t.ID.String(),
		Status:    string(t.Status),
		Message:   t.Message,
		Error:     t.Error,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}

	if t.Progress != nil {
		response.Progress = &TaskProgressResponse{
			Current: t.Progress.Current,
			Total:   t.Progress.Total,
		}
	}

	return response
}
