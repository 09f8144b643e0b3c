package invite

import (
	"context"

	"github.com/google/uuid"
)

// Repository handles persistence for the invite aggregate.
type Repository interface {
	// Create inserts a new pending invite. Fails with a Conflict error
	// when an active (pending or accepted) invite already exists for
	// the same (task, sender) pair.
	Create(ctx context.Context, inv *Invite) error

	FindByID(ctx context.Context, id uuid.UUID) (*Invite, error)

	// FindIncoming returns pending invites addressed to the receiver.
	FindIncoming(ctx context.Context, receiverID uuid.UUID) ([]*Invite, error)

	// FindBySender returns all invites sent by the volunteer.
	FindBySender(ctx context.Context, senderID uuid.UUID) ([]*Invite, error)

	// HasActiveInvite reports whether a pending or accepted invite
	// exists for the (task, sender) pair.
	HasActiveInvite(ctx context.Context, taskID, senderID uuid.UUID) (bool, error)

	// Resolve persists a resolved invite with a conditional update
	// keyed on the pending status. It fails with an InvalidOperation
	// error when the invite was already resolved, so two concurrent
	// responses can never both succeed.
	Resolve(ctx context.Context, inv *Invite) error
}
