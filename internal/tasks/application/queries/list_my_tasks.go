package queries

import (
	"context"

	"github.com/google/uuid"

	"github.com/helpmatch/helpmatch/internal/tasks/domain/task"
)

// MyTasks groups a user's tasks by their role in them.
type MyTasks struct {
	// Posted are tasks the user created, newest first.
	Posted []*task.Task
	// Volunteering are tasks the user is or was assigned to.
	Volunteering []*task.Task
}

// ListMyTasksHandler lists the tasks a user is involved in.
type ListMyTasksHandler struct {
	taskRepo task.Repository
}

// NewListMyTasksHandler creates a new ListMyTasksHandler.
func NewListMyTasksHandler(taskRepo task.Repository) *ListMyTasksHandler {
	return &ListMyTasksHandler{taskRepo: taskRepo}
}

// Handle returns the user's posted and volunteering tasks.
func (h *ListMyTasksHandler) Handle(ctx context.Context, userID uuid.UUID) (*MyTasks, error) {
	posted, err := h.taskRepo.FindByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	volunteering, err := h.taskRepo.FindByVolunteer(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &MyTasks{
		Posted:       posted,
		Volunteering: volunteering,
	}, nil
}
