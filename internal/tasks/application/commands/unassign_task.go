package commands

import (
	"context"

	"github.com/google/uuid"

	sharedApplication "github.com/helpmatch/helpmatch/internal/shared/application"
	sharedDomain "github.com/helpmatch/helpmatch/internal/shared/domain"
	"github.com/helpmatch/helpmatch/internal/shared/infrastructure/outbox"
	"github.com/helpmatch/helpmatch/internal/tasks/domain/task"
)

// UnassignTaskCommand removes the assignee and reopens the task.
type UnassignTaskCommand struct {
	TaskID uuid.UUID
	UserID uuid.UUID
}

// UnassignTaskHandler handles the UnassignTaskCommand.
type UnassignTaskHandler struct {
	taskRepo   task.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewUnassignTaskHandler creates a new UnassignTaskHandler.
func NewUnassignTaskHandler(taskRepo task.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *UnassignTaskHandler {
	return &UnassignTaskHandler{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the UnassignTaskCommand.
func (h *UnassignTaskHandler) Handle(ctx context.Context, cmd UnassignTaskCommand) (*task.Task, error) {
	var reopened *task.Task

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}

		if t.PostedBy() != cmd.UserID {
			return sharedDomain.NewError(sharedDomain.KindForbidden, "only the task owner can unassign the task")
		}

		if err := t.Unassign(); err != nil {
			return err
		}

		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return err
		}

		events := t.DomainEvents()
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(cmd.UserID))

		msgs, err := outbox.FromEvents(events)
		if err != nil {
			return err
		}
		if err := h.outboxRepo.SaveBatch(txCtx, msgs); err != nil {
			return err
		}

		reopened = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	return reopened, nil
}
