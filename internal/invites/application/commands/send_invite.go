// Package commands contains invite write operations.
package commands

import (
	"context"

	"github.com/google/uuid"

	"github.com/helpmatch/helpmatch/internal/invites/domain/invite"
	sharedApplication "github.com/helpmatch/helpmatch/internal/shared/application"
	sharedDomain "github.com/helpmatch/helpmatch/internal/shared/domain"
	"github.com/helpmatch/helpmatch/internal/shared/infrastructure/outbox"
	"github.com/helpmatch/helpmatch/internal/tasks/domain/task"
)

// SendInviteCommand proposes that the sender takes on a task.
type SendInviteCommand struct {
	TaskID   uuid.UUID
	SenderID uuid.UUID
}

// SendInviteResult contains the created invite.
type SendInviteResult struct {
	Invite *invite.Invite
}

// SendInviteHandler handles the SendInviteCommand.
type SendInviteHandler struct {
	inviteRepo invite.Repository
	taskRepo   task.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewSendInviteHandler creates a new SendInviteHandler.
func NewSendInviteHandler(inviteRepo invite.Repository, taskRepo task.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *SendInviteHandler {
	return &SendInviteHandler{
		inviteRepo: inviteRepo,
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the SendInviteCommand. The receiver is always the
// task owner. The duplicate check here is advisory; the unique
// constraint on active invites is what makes it race-free.
func (h *SendInviteHandler) Handle(ctx context.Context, cmd SendInviteCommand) (*SendInviteResult, error) {
	var result *SendInviteResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}

		if cmd.SenderID == t.PostedBy() {
			return sharedDomain.NewError(sharedDomain.KindInvalidOperation, "cannot send an invite for your own task")
		}

		exists, err := h.inviteRepo.HasActiveInvite(txCtx, cmd.TaskID, cmd.SenderID)
		if err != nil {
			return err
		}
		if exists {
			return sharedDomain.NewError(sharedDomain.KindConflict, "an active invite already exists for this task")
		}

		inv, err := invite.NewInvite(cmd.TaskID, cmd.SenderID, t.PostedBy())
		if err != nil {
			return err
		}

		if err := h.inviteRepo.Create(txCtx, inv); err != nil {
			return err
		}

		events := inv.DomainEvents()
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(cmd.SenderID))

		msgs, err := outbox.FromEvents(events)
		if err != nil {
			return err
		}
		if err := h.outboxRepo.SaveBatch(txCtx, msgs); err != nil {
			return err
		}

		result = &SendInviteResult{Invite: inv}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
