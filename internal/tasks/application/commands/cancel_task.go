package commands

import (
	"context"

	"github.com/google/uuid"

	sharedApplication "github.com/helpmatch/helpmatch/internal/shared/application"
	sharedDomain "github.com/helpmatch/helpmatch/internal/shared/domain"
	"github.com/helpmatch/helpmatch/internal/shared/infrastructure/outbox"
	"github.com/helpmatch/helpmatch/internal/tasks/domain/task"
)

// CancelTaskCommand withdraws a task.
type CancelTaskCommand struct {
	TaskID uuid.UUID
	UserID uuid.UUID
}

// CancelTaskHandler handles the CancelTaskCommand.
type CancelTaskHandler struct {
	taskRepo   task.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewCancelTaskHandler creates a new CancelTaskHandler.
func NewCancelTaskHandler(taskRepo task.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *CancelTaskHandler {
	return &CancelTaskHandler{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the CancelTaskCommand.
func (h *CancelTaskHandler) Handle(ctx context.Context, cmd CancelTaskCommand) (*task.Task, error) {
	var cancelled *task.Task

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}

		if t.PostedBy() != cmd.UserID {
			return sharedDomain.NewError(sharedDomain.KindForbidden, "only the task owner can cancel the task")
		}

		if err := t.Cancel(); err != nil {
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

		cancelled = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	return cancelled, nil
}
