package commands

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/helpmatch/helpmatch/internal/invites/domain/invite"
	sharedDomain "github.com/helpmatch/helpmatch/internal/shared/domain"
	"github.com/helpmatch/helpmatch/internal/tasks/domain/task"
)

func TestRespondInviteHandler_Handle(t *testing.T) {
	ownerID := uuid.New()
	senderID := uuid.New()

	newPendingInvite := func(t *testing.T, taskID uuid.UUID) *invite.Invite {
		t.Helper()
		inv, err := invite.NewInvite(taskID, senderID, ownerID)
		require.NoError(t, err)
		inv.ClearDomainEvents()
		return inv
	}

	t.Run("accept assigns the task", func(t *testing.T) {
		inviteRepo := new(mockInviteRepo)
		taskRepo := new(mockTaskRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewRespondInviteHandler(inviteRepo, taskRepo, outboxRepo, uow)

		ctx, txCtx := newTestContexts()
		existingTask := newOpenTask(t, ownerID)
		inv := newPendingInvite(t, existingTask.ID())

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		inviteRepo.On("FindByID", txCtx, inv.ID()).Return(inv, nil)
		inviteRepo.On("Resolve", txCtx, inv).Return(nil)
		taskRepo.On("FindByID", txCtx, existingTask.ID()).Return(existingTask, nil)
		taskRepo.On("Save", txCtx, existingTask).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		result, err := handler.Handle(ctx, RespondInviteCommand{
			InviteID: inv.ID(),
			UserID:   ownerID,
			Decision: invite.DecisionAccepted,
		})

		require.NoError(t, err)
		assert.Equal(t, invite.StatusAccepted, result.Invite.Status())
		require.NotNil(t, result.Task)
		assert.Equal(t, task.StatusAssigned, result.Task.Status())
		require.NotNil(t, result.Task.AssignedVolunteer())
		assert.Equal(t, senderID, *result.Task.AssignedVolunteer())

		uow.AssertExpectations(t)
		inviteRepo.AssertExpectations(t)
		taskRepo.AssertExpectations(t)
		outboxRepo.AssertExpectations(t)
	})

	t.Run("reject leaves the task untouched", func(t *testing.T) {
		inviteRepo := new(mockInviteRepo)
		taskRepo := new(mockTaskRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewRespondInviteHandler(inviteRepo, taskRepo, outboxRepo, uow)

		ctx, txCtx := newTestContexts()
		inv := newPendingInvite(t, uuid.New())

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		inviteRepo.On("FindByID", txCtx, inv.ID()).Return(inv, nil)
		inviteRepo.On("Resolve", txCtx, inv).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		result, err := handler.Handle(ctx, RespondInviteCommand{
			InviteID: inv.ID(),
			UserID:   ownerID,
			Decision: invite.DecisionRejected,
		})

		require.NoError(t, err)
		assert.Equal(t, invite.StatusRejected, result.Invite.Status())
		assert.Nil(t, result.Task)
		taskRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("fails when responder is not the receiver", func(t *testing.T) {
		inviteRepo := new(mockInviteRepo)
		taskRepo := new(mockTaskRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewRespondInviteHandler(inviteRepo, taskRepo, outboxRepo, uow)

		ctx, txCtx := newTestContexts()
		inv := newPendingInvite(t, uuid.New())

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		inviteRepo.On("FindByID", txCtx, inv.ID()).Return(inv, nil)

		_, err := handler.Handle(ctx, RespondInviteCommand{
			InviteID: inv.ID(),
			UserID:   uuid.New(),
			Decision: invite.DecisionAccepted,
		})

		require.Error(t, err)
		assert.Equal(t, sharedDomain.KindForbidden, sharedDomain.KindOf(err))
		inviteRepo.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
	})

	t.Run("fails when concurrent response already resolved the invite", func(t *testing.T) {
		inviteRepo := new(mockInviteRepo)
		taskRepo := new(mockTaskRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewRespondInviteHandler(inviteRepo, taskRepo, outboxRepo, uow)

		ctx, txCtx := newTestContexts()
		inv := newPendingInvite(t, uuid.New())

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		inviteRepo.On("FindByID", txCtx, inv.ID()).Return(inv, nil)
		inviteRepo.On("Resolve", txCtx, inv).
			Return(sharedDomain.NewError(sharedDomain.KindInvalidOperation, "invite is already resolved"))

		_, err := handler.Handle(ctx, RespondInviteCommand{
			InviteID: inv.ID(),
			UserID:   ownerID,
			Decision: invite.DecisionAccepted,
		})

		require.Error(t, err)
		assert.Equal(t, sharedDomain.KindInvalidOperation, sharedDomain.KindOf(err))
		taskRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
