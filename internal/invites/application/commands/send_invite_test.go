package commands

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/helpmatch/helpmatch/internal/shared/domain"
	"github.com/helpmatch/helpmatch/internal/tasks/domain/task"
)

type txKey struct{}

func newTestContexts() (context.Context, context.Context) {
	ctx := context.Background()
	return ctx, context.WithValue(ctx, txKey{}, "tx")
}

func newOpenTask(t *testing.T, ownerID uuid.UUID) *task.Task {
	t.Helper()
	tsk, err := task.NewTask(ownerID, "Walk the dog", "", task.CategoryErrands, task.PriorityLow)
	require.NoError(t, err)
	return tsk
}

func TestSendInviteHandler_Handle(t *testing.T) {
	ownerID := uuid.New()
	senderID := uuid.New()

	t.Run("creates pending invite", func(t *testing.T) {
		inviteRepo := new(mockInviteRepo)
		taskRepo := new(mockTaskRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewSendInviteHandler(inviteRepo, taskRepo, outboxRepo, uow)

		ctx, txCtx := newTestContexts()
		existingTask := newOpenTask(t, ownerID)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		taskRepo.On("FindByID", txCtx, existingTask.ID()).Return(existingTask, nil)
		inviteRepo.On("HasActiveInvite", txCtx, existingTask.ID(), senderID).Return(false, nil)
		inviteRepo.On("Create", txCtx, mock.AnythingOfType("*invite.Invite")).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		result, err := handler.Handle(ctx, SendInviteCommand{
			TaskID:   existingTask.ID(),
			SenderID: senderID,
		})

		require.NoError(t, err)
		require.NotNil(t, result.Invite)
		assert.Equal(t, senderID, result.Invite.SenderID())
		assert.Equal(t, ownerID, result.Invite.ReceiverID())

		uow.AssertExpectations(t)
		taskRepo.AssertExpectations(t)
		inviteRepo.AssertExpectations(t)
		outboxRepo.AssertExpectations(t)
	})

	t.Run("rejects invite for own task", func(t *testing.T) {
		inviteRepo := new(mockInviteRepo)
		taskRepo := new(mockTaskRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewSendInviteHandler(inviteRepo, taskRepo, outboxRepo, uow)

		ctx, txCtx := newTestContexts()
		existingTask := newOpenTask(t, ownerID)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		taskRepo.On("FindByID", txCtx, existingTask.ID()).Return(existingTask, nil)

		_, err := handler.Handle(ctx, SendInviteCommand{
			TaskID:   existingTask.ID(),
			SenderID: ownerID,
		})

		require.Error(t, err)
		assert.Equal(t, sharedDomain.KindInvalidOperation, sharedDomain.KindOf(err))
		inviteRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects duplicate active invite", func(t *testing.T) {
		inviteRepo := new(mockInviteRepo)
		taskRepo := new(mockTaskRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewSendInviteHandler(inviteRepo, taskRepo, outboxRepo, uow)

		ctx, txCtx := newTestContexts()
		existingTask := newOpenTask(t, ownerID)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		taskRepo.On("FindByID", txCtx, existingTask.ID()).Return(existingTask, nil)
		inviteRepo.On("HasActiveInvite", txCtx, existingTask.ID(), senderID).Return(true, nil)

		_, err := handler.Handle(ctx, SendInviteCommand{
			TaskID:   existingTask.ID(),
			SenderID: senderID,
		})

		require.Error(t, err)
		assert.Equal(t, sharedDomain.KindConflict, sharedDomain.KindOf(err))
	})

	t.Run("fails when task not found", func(t *testing.T) {
		inviteRepo := new(mockInviteRepo)
		taskRepo := new(mockTaskRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewSendInviteHandler(inviteRepo, taskRepo, outboxRepo, uow)

		ctx, txCtx := newTestContexts()
		taskID := uuid.New()

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		taskRepo.On("FindByID", txCtx, taskID).
			Return(nil, sharedDomain.NewError(sharedDomain.KindNotFound, "task not found"))

		_, err := handler.Handle(ctx, SendInviteCommand{
			TaskID:   taskID,
			SenderID: senderID,
		})

		require.Error(t, err)
		assert.Equal(t, sharedDomain.KindNotFound, sharedDomain.KindOf(err))
	})
}
