package commands

import (
	"context"

	"github.com/google/uuid"

	"github.com/helpmatch/helpmatch/internal/invites/domain/invite"
	sharedApplication "github.com/helpmatch/helpmatch/internal/shared/application"
	"github.com/helpmatch/helpmatch/internal/shared/infrastructure/outbox"
	"github.com/helpmatch/helpmatch/internal/tasks/domain/task"
)

// RespondInviteCommand applies the receiver's decision to an invite.
type RespondInviteCommand struct {
	InviteID uuid.UUID
	UserID   uuid.UUID
	Decision invite.Decision
}

// RespondInviteResult contains the resolved invite and, on acceptance,
// the task reflecting the new assignment.
type RespondInviteResult struct {
	Invite *invite.Invite
	Task   *task.Task
}

// RespondInviteHandler handles the RespondInviteCommand.
type RespondInviteHandler struct {
	inviteRepo invite.Repository
	taskRepo   task.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewRespondInviteHandler creates a new RespondInviteHandler.
func NewRespondInviteHandler(inviteRepo invite.Repository, taskRepo task.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *RespondInviteHandler {
	return &RespondInviteHandler{
		inviteRepo: inviteRepo,
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the RespondInviteCommand.
//
// The invite resolution and the task assignment happen in one unit of
// work. Resolve is conditional on the stored invite still being
// pending, so of two concurrent responses exactly one commits; the
// other rolls back without touching the task.
func (h *RespondInviteHandler) Handle(ctx context.Context, cmd RespondInviteCommand) (*RespondInviteResult, error) {
	var result *RespondInviteResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		inv, err := h.inviteRepo.FindByID(txCtx, cmd.InviteID)
		if err != nil {
			return err
		}

		if err := inv.Respond(cmd.UserID, cmd.Decision); err != nil {
			return err
		}

		if err := h.inviteRepo.Resolve(txCtx, inv); err != nil {
			return err
		}

		events := inv.DomainEvents()

		var assigned *task.Task
		if cmd.Decision == invite.DecisionAccepted {
			t, err := h.taskRepo.FindByID(txCtx, inv.TaskID())
			if err != nil {
				return err
			}

			if err := t.Assign(inv.SenderID()); err != nil {
				return err
			}

			if err := h.taskRepo.Save(txCtx, t); err != nil {
				return err
			}

			events = append(events, t.DomainEvents()...)
			assigned = t
		}

		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(cmd.UserID))

		msgs, err := outbox.FromEvents(events)
		if err != nil {
			return err
		}
		if err := h.outboxRepo.SaveBatch(txCtx, msgs); err != nil {
			return err
		}

		result = &RespondInviteResult{Invite: inv, Task: assigned}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
