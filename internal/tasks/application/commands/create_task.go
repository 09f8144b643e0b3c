// Package commands contains task write operations.
package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	sharedApplication "github.com/helpmatch/helpmatch/internal/shared/application"
	"github.com/helpmatch/helpmatch/internal/shared/domain/geo"
	"github.com/helpmatch/helpmatch/internal/shared/infrastructure/outbox"
	"github.com/helpmatch/helpmatch/internal/tasks/domain/task"
)

// CreateTaskCommand contains the data needed to post a task.
type CreateTaskCommand struct {
	PostedBy    uuid.UUID
	Title       string
	Description string
	Category    string
	Priority    string
	Urgent      bool
	Deadline    *time.Time
	Latitude    *float64
	Longitude   *float64
	Address     string
}

// CreateTaskResult contains the result of posting a task.
type CreateTaskResult struct {
	TaskID uuid.UUID
}

// CreateTaskHandler handles the CreateTaskCommand.
type CreateTaskHandler struct {
	taskRepo   task.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewCreateTaskHandler creates a new CreateTaskHandler.
func NewCreateTaskHandler(taskRepo task.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *CreateTaskHandler {
	return &CreateTaskHandler{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the CreateTaskCommand.
func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (*CreateTaskResult, error) {
	category, err := task.ParseCategory(cmd.Category)
	if err != nil {
		return nil, err
	}

	priority, err := task.ParsePriority(cmd.Priority)
	if err != nil {
		return nil, err
	}

	var result *CreateTaskResult

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t, err := task.NewTask(cmd.PostedBy, cmd.Title, cmd.Description, category, priority)
		if err != nil {
			return err
		}

		t.SetUrgent(cmd.Urgent)
		t.SetDeadline(cmd.Deadline)

		if cmd.Latitude != nil && cmd.Longitude != nil {
			location, err := geo.NewCoordinate(*cmd.Latitude, *cmd.Longitude)
			if err != nil {
				return err
			}
			t.SetLocation(location, cmd.Address)
		}

		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return err
		}

		events := t.DomainEvents()
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(cmd.PostedBy))

		msgs, err := outbox.FromEvents(events)
		if err != nil {
			return err
		}
		if err := h.outboxRepo.SaveBatch(txCtx, msgs); err != nil {
			return err
		}

		result = &CreateTaskResult{TaskID: t.ID()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
