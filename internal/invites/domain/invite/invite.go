// Package invite contains the invite aggregate and its state machine.
package invite

import (
	"strings"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/helpmatch/helpmatch/internal/shared/domain"
)

// Status represents the invite state. Pending is the only state with
// outgoing transitions; accepted and rejected are terminal.
type Status int

const (
	StatusPending Status = iota
	StatusAccepted
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusAccepted:
		return "accepted"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// IsTerminal returns true once the invite has been resolved.
func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// ParseStatus converts a string to a Status.
func ParseStatus(value string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "pending":
		return StatusPending, nil
	case "accepted":
		return StatusAccepted, nil
	case "rejected":
		return StatusRejected, nil
	default:
		return StatusPending, sharedDomain.NewError(sharedDomain.KindInvalidOperation, "invalid invite status: "+value)
	}
}

// Decision is a receiver's response to a pending invite.
type Decision int

const (
	DecisionAccepted Decision = iota
	DecisionRejected
)

// ParseDecision converts a string to a Decision.
func ParseDecision(value string) (Decision, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "accepted":
		return DecisionAccepted, nil
	case "rejected":
		return DecisionRejected, nil
	default:
		return DecisionAccepted, sharedDomain.NewError(sharedDomain.KindInvalidOperation, "invalid invite decision: "+value)
	}
}

// Invite is a directed proposal from a volunteer (sender) to a task
// owner (receiver) to take on one task.
type Invite struct {
	sharedDomain.BaseAggregateRoot
	taskID      uuid.UUID
	senderID    uuid.UUID
	receiverID  uuid.UUID
	status      Status
	respondedAt *time.Time
}

// NewInvite creates a pending invite. The receiver is always the task
// owner; callers enforce the self-invite rule against the task.
func NewInvite(taskID, senderID, receiverID uuid.UUID) (*Invite, error) {
	if taskID == uuid.Nil || senderID == uuid.Nil || receiverID == uuid.Nil {
		return nil, sharedDomain.NewError(sharedDomain.KindInvalidOperation, "invite references cannot be empty")
	}
	if senderID == receiverID {
		return nil, sharedDomain.NewError(sharedDomain.KindInvalidOperation, "cannot send an invite for your own task")
	}

	inv := &Invite{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		taskID:            taskID,
		senderID:          senderID,
		receiverID:        receiverID,
		status:            StatusPending,
	}

	inv.AddDomainEvent(NewInviteSent(inv.ID(), taskID, senderID, receiverID))

	return inv, nil
}

// RehydrateInvite recreates an invite from persisted state.
func RehydrateInvite(base sharedDomain.BaseAggregateRoot, taskID, senderID, receiverID uuid.UUID, status Status, respondedAt *time.Time) *Invite {
	return &Invite{
		BaseAggregateRoot: base,
		taskID:            taskID,
		senderID:          senderID,
		receiverID:        receiverID,
		status:            status,
		respondedAt:       respondedAt,
	}
}

func (i *Invite) TaskID() uuid.UUID     { return i.taskID }
func (i *Invite) SenderID() uuid.UUID   { return i.senderID }
func (i *Invite) ReceiverID() uuid.UUID { return i.receiverID }
func (i *Invite) Status() Status        { return i.status }

// RespondedAt returns when the invite was resolved, or nil while pending.
func (i *Invite) RespondedAt() *time.Time {
	if i.respondedAt == nil {
		return nil
	}
	t := *i.respondedAt
	return &t
}

// Respond applies the receiver's decision. Only the receiver may
// respond, and only while the invite is pending.
func (i *Invite) Respond(actorID uuid.UUID, decision Decision) error {
	if actorID != i.receiverID {
		return sharedDomain.NewError(sharedDomain.KindForbidden, "only the invite receiver can respond")
	}
	if i.status != StatusPending {
		return sharedDomain.NewError(sharedDomain.KindInvalidOperation, "invite is already "+i.status.String())
	}

	now := time.Now().UTC()
	i.respondedAt = &now

	switch decision {
	case DecisionAccepted:
		i.status = StatusAccepted
		i.AddDomainEvent(NewInviteAccepted(i.ID(), i.taskID, i.senderID, i.receiverID))
	case DecisionRejected:
		i.status = StatusRejected
		i.AddDomainEvent(NewInviteRejected(i.ID(), i.taskID, i.senderID, i.receiverID))
	default:
		return sharedDomain.NewError(sharedDomain.KindInvalidOperation, "invalid invite decision")
	}

	i.Touch()
	return nil
}
