// Package queries contains invite read operations.
package queries

import (
	"context"

	"github.com/google/uuid"

	identityDomain "github.com/helpmatch/helpmatch/internal/identity/domain"
	"github.com/helpmatch/helpmatch/internal/invites/domain/invite"
	"github.com/helpmatch/helpmatch/internal/tasks/domain/task"
)

// IncomingInvite is a pending invite enriched with sender and task
// display fields. Sender or Task may be nil if the referenced row is
// gone.
type IncomingInvite struct {
	Invite *invite.Invite
	Sender *identityDomain.User
	Task   *task.Task
}

// ListIncomingInvitesHandler lists pending invites addressed to a user.
type ListIncomingInvitesHandler struct {
	inviteRepo invite.Repository
	userRepo   identityDomain.UserRepository
	taskRepo   task.Repository
}

// NewListIncomingInvitesHandler creates a new ListIncomingInvitesHandler.
func NewListIncomingInvitesHandler(inviteRepo invite.Repository, userRepo identityDomain.UserRepository, taskRepo task.Repository) *ListIncomingInvitesHandler {
	return &ListIncomingInvitesHandler{
		inviteRepo: inviteRepo,
		userRepo:   userRepo,
		taskRepo:   taskRepo,
	}
}

// Handle returns the user's pending incoming invites, newest first,
// each joined with its sender's profile and task for display.
func (h *ListIncomingInvitesHandler) Handle(ctx context.Context, receiverID uuid.UUID) ([]IncomingInvite, error) {
	invites, err := h.inviteRepo.FindIncoming(ctx, receiverID)
	if err != nil {
		return nil, err
	}

	senderIDs := make([]uuid.UUID, 0, len(invites))
	taskIDs := make([]uuid.UUID, 0, len(invites))
	seenSenders := make(map[uuid.UUID]struct{}, len(invites))
	seenTasks := make(map[uuid.UUID]struct{}, len(invites))
	for _, inv := range invites {
		if _, ok := seenSenders[inv.SenderID()]; !ok {
			seenSenders[inv.SenderID()] = struct{}{}
			senderIDs = append(senderIDs, inv.SenderID())
		}
		if _, ok := seenTasks[inv.TaskID()]; !ok {
			seenTasks[inv.TaskID()] = struct{}{}
			taskIDs = append(taskIDs, inv.TaskID())
		}
	}

	users, err := h.userRepo.FindByIDs(ctx, senderIDs)
	if err != nil {
		return nil, err
	}
	senders := make(map[uuid.UUID]*identityDomain.User, len(users))
	for _, u := range users {
		senders[u.ID()] = u
	}

	tasks, err := h.taskRepo.FindByIDs(ctx, taskIDs)
	if err != nil {
		return nil, err
	}
	tasksByID := make(map[uuid.UUID]*task.Task, len(tasks))
	for _, t := range tasks {
		tasksByID[t.ID()] = t
	}

	result := make([]IncomingInvite, 0, len(invites))
	for _, inv := range invites {
		result = append(result, IncomingInvite{
			Invite: inv,
			Sender: senders[inv.SenderID()],
			Task:   tasksByID[inv.TaskID()],
		})
	}
	return result, nil
}
