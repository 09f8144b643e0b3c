package task

import (
	"context"

	"github.com/google/uuid"
)

// Repository handles persistence for the task aggregate.
//
// Save uses optimistic locking: it fails with a Conflict error when the
// persisted version no longer matches the aggregate's loaded version.
type Repository interface {
	Save(ctx context.Context, t *Task) error

	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)

	// FindByIDs retrieves multiple tasks by ID. Missing IDs are skipped.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Task, error)

	// FindOpenForVolunteer returns open tasks not posted by the given
	// volunteer, the candidate set for ranking.
	FindOpenForVolunteer(ctx context.Context, volunteerID uuid.UUID) ([]*Task, error)

	// FindByOwner returns all tasks posted by the given user.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Task, error)

	// FindByVolunteer returns all tasks currently or previously worked
	// by the given volunteer (assigned, in progress or completed).
	FindByVolunteer(ctx context.Context, volunteerID uuid.UUID) ([]*Task, error)
}
