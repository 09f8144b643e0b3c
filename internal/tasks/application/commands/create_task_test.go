package commands

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/helpmatch/helpmatch/internal/shared/domain"
)

func TestCreateTaskHandler_Handle(t *testing.T) {
	userID := uuid.New()

	t.Run("creates open task", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewCreateTaskHandler(taskRepo, outboxRepo, uow)

		ctx, txCtx := newTestContexts()

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		taskRepo.On("Save", txCtx, mock.AnythingOfType("*task.Task")).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		deadline := time.Now().UTC().Add(48 * time.Hour)
		lat, lon := 52.52, 13.405

		result, err := handler.Handle(ctx, CreateTaskCommand{
			PostedBy:    userID,
			Title:       "Help moving boxes",
			Description: "Third floor, no elevator",
			Category:    "household",
			Priority:    "high",
			Urgent:      true,
			Deadline:    &deadline,
			Latitude:    &lat,
			Longitude:   &lon,
			Address:     "Kastanienallee 12",
		})

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, result.TaskID)

		uow.AssertExpectations(t)
		taskRepo.AssertExpectations(t)
		outboxRepo.AssertExpectations(t)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewCreateTaskHandler(taskRepo, outboxRepo, uow)

		ctx, _ := newTestContexts()

		_, err := handler.Handle(ctx, CreateTaskCommand{
			PostedBy: userID,
			Title:    "Help moving boxes",
			Category: "space-travel",
			Priority: "high",
		})

		require.Error(t, err)
		assert.Equal(t, sharedDomain.KindInvalidOperation, sharedDomain.KindOf(err))
		taskRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects invalid coordinate", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewCreateTaskHandler(taskRepo, outboxRepo, uow)

		ctx, txCtx := newTestContexts()

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)

		lat, lon := 91.0, 0.0

		_, err := handler.Handle(ctx, CreateTaskCommand{
			PostedBy:  userID,
			Title:     "Help moving boxes",
			Category:  "household",
			Priority:  "low",
			Latitude:  &lat,
			Longitude: &lon,
		})

		require.Error(t, err)
		taskRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
