// Package queries contains task read operations.
package queries

import (
	"context"

	"github.com/google/uuid"

	"github.com/helpmatch/helpmatch/internal/tasks/domain/task"
)

// GetTaskHandler retrieves a single task.
type GetTaskHandler struct {
	taskRepo task.Repository
}

// NewGetTaskHandler creates a new GetTaskHandler.
func NewGetTaskHandler(taskRepo task.Repository) *GetTaskHandler {
	return &GetTaskHandler{taskRepo: taskRepo}
}

// Handle returns the task with the given ID.
func (h *GetTaskHandler) Handle(ctx context.Context, taskID uuid.UUID) (*task.Task, error) {
	return h.taskRepo.FindByID(ctx, taskID)
}
