package invite

import (
	"github.com/google/uuid"

	sharedDomain "github.com/helpmatch/helpmatch/internal/shared/domain"
)

// AggregateType identifies the invite aggregate in events and the outbox.
const AggregateType = "invite"

// Routing keys for invite events.
const (
	RoutingKeyInviteSent     = "community.invite.sent"
	RoutingKeyInviteAccepted = "community.invite.accepted"
	RoutingKeyInviteRejected = "community.invite.rejected"
)

// InviteSent is emitted when a volunteer proposes to take a task.
type InviteSent struct {
	sharedDomain.BaseEvent
	InviteID   uuid.UUID `json:"invite_id"`
	TaskID     uuid.UUID `json:"task_id"`
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
}

// NewInviteSent creates an InviteSent event.
func NewInviteSent(inviteID, taskID, senderID, receiverID uuid.UUID) *InviteSent {
	return &InviteSent{
		BaseEvent:  sharedDomain.NewBaseEvent(inviteID, AggregateType, RoutingKeyInviteSent),
		InviteID:   inviteID,
		TaskID:     taskID,
		SenderID:   senderID,
		ReceiverID: receiverID,
	}
}

// InviteAccepted is emitted when the task owner accepts an invite.
type InviteAccepted struct {
	sharedDomain.BaseEvent
	InviteID   uuid.UUID `json:"invite_id"`
	TaskID     uuid.UUID `json:"task_id"`
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
}

// NewInviteAccepted creates an InviteAccepted event.
func NewInviteAccepted(inviteID, taskID, senderID, receiverID uuid.UUID) *InviteAccepted {
	return &InviteAccepted{
		BaseEvent:  sharedDomain.NewBaseEvent(inviteID, AggregateType, RoutingKeyInviteAccepted),
		InviteID:   inviteID,
		TaskID:     taskID,
		SenderID:   senderID,
		ReceiverID: receiverID,
	}
}

// InviteRejected is emitted when the task owner declines an invite.
type InviteRejected struct {
	sharedDomain.BaseEvent
	InviteID   uuid.UUID `json:"invite_id"`
	TaskID     uuid.UUID `json:"task_id"`
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
}

// NewInviteRejected creates an InviteRejected event.
func NewInviteRejected(inviteID, taskID, senderID, receiverID uuid.UUID) *InviteRejected {
	return &InviteRejected{
		BaseEvent:  sharedDomain.NewBaseEvent(inviteID, AggregateType, RoutingKeyInviteRejected),
		InviteID:   inviteID,
		TaskID:     taskID,
		SenderID:   senderID,
		ReceiverID: receiverID,
	}
}
