// Package persistence contains invite repository implementations.
package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/helpmatch/helpmatch/internal/invites/domain/invite"
	sharedDomain "github.com/helpmatch/helpmatch/internal/shared/domain"
	"github.com/helpmatch/helpmatch/internal/shared/infrastructure/database"
)

// PostgresInviteRepository implements invite.Repository using PostgreSQL.
type PostgresInviteRepository struct {
	conn database.Connection
}

// NewPostgresInviteRepository creates a new PostgreSQL invite repository.
func NewPostgresInviteRepository(conn database.Connection) *PostgresInviteRepository {
	return &PostgresInviteRepository{conn: conn}
}

const pgInviteColumns = `id, task_id, sender_id, receiver_id, status, responded_at, created_at, updated_at, version`

// Create inserts a new pending invite. The partial unique index on
// active invites turns a duplicate into a Conflict error, closing the
// check-then-act race between concurrent senders.
func (r *PostgresInviteRepository) Create(ctx context.Context, inv *invite.Invite) error {
	query := `
		INSERT INTO invites (id, task_id, sender_id, receiver_id, status, responded_at, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1)
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, query,
		inv.ID(),
		inv.TaskID(),
		inv.SenderID(),
		inv.ReceiverID(),
		inv.Status().String(),
		inv.RespondedAt(),
		inv.CreatedAt(),
		inv.UpdatedAt(),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return sharedDomain.NewError(sharedDomain.KindConflict, "an active invite already exists for this task")
		}
		return err
	}
	return nil
}

// FindByID retrieves an invite by its ID.
func (r *PostgresInviteRepository) FindByID(ctx context.Context, id uuid.UUID) (*invite.Invite, error) {
	query := `SELECT ` + pgInviteColumns + ` FROM invites WHERE id = $1`

	exec := database.ExecutorFromContext(ctx, r.conn)
	inv, err := scanPostgresInvite(exec.QueryRow(ctx, query, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, sharedDomain.NewError(sharedDomain.KindNotFound, "invite not found")
		}
		return nil, err
	}
	return inv, nil
}

// FindIncoming retrieves pending invites addressed to the receiver.
func (r *PostgresInviteRepository) FindIncoming(ctx context.Context, receiverID uuid.UUID) ([]*invite.Invite, error) {
	query := `
		SELECT ` + pgInviteColumns + `
		FROM invites
		WHERE receiver_id = $1 AND status = 'pending'
		ORDER BY created_at DESC
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, receiverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPostgresInvites(rows)
}

// FindBySender retrieves all invites sent by the volunteer.
func (r *PostgresInviteRepository) FindBySender(ctx context.Context, senderID uuid.UUID) ([]*invite.Invite, error) {
	query := `SELECT ` + pgInviteColumns + ` FROM invites WHERE sender_id = $1 ORDER BY created_at DESC`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, senderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPostgresInvites(rows)
}

// HasActiveInvite reports whether a pending or accepted invite exists
// for the (task, sender) pair.
func (r *PostgresInviteRepository) HasActiveInvite(ctx context.Context, taskID, senderID uuid.UUID) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM invites
		WHERE task_id = $1 AND sender_id = $2 AND status IN ('pending', 'accepted')
	`

	var count int64
	exec := database.ExecutorFromContext(ctx, r.conn)
	if err := exec.QueryRow(ctx, query, taskID, senderID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Resolve persists a resolved invite, conditional on the stored row
// still being pending.
func (r *PostgresInviteRepository) Resolve(ctx context.Context, inv *invite.Invite) error {
	query := `
		UPDATE invites
		SET status = $2, responded_at = $3, updated_at = $4, version = version + 1
		WHERE id = $1 AND status = 'pending'
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, query,
		inv.ID(),
		inv.Status().String(),
		inv.RespondedAt(),
		inv.UpdatedAt(),
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sharedDomain.NewError(sharedDomain.KindInvalidOperation, "invite is already resolved")
	}
	return nil
}

func scanPostgresInvites(rows database.Rows) ([]*invite.Invite, error) {
	var invites []*invite.Invite
	for rows.Next() {
		inv, err := scanPostgresInvite(rows)
		if err != nil {
			return nil, err
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

func scanPostgresInvite(row database.Row) (*invite.Invite, error) {
	var (
		id, taskID           uuid.UUID
		senderID, receiverID uuid.UUID
		statusStr            string
		respondedAt          *time.Time
		createdAt, updatedAt time.Time
		version              int
	)

	err := row.Scan(&id, &taskID, &senderID, &receiverID, &statusStr, &respondedAt, &createdAt, &updatedAt, &version)
	if err != nil {
		return nil, err
	}

	return rehydrateInvite(id, taskID, senderID, receiverID, statusStr, respondedAt, createdAt, updatedAt, version)
}

func rehydrateInvite(id, taskID, senderID, receiverID uuid.UUID, statusStr string, respondedAt *time.Time, createdAt, updatedAt time.Time, version int) (*invite.Invite, error) {
	status, err := invite.ParseStatus(statusStr)
	if err != nil {
		return nil, err
	}

	base := sharedDomain.RehydrateBaseAggregateRoot(
		sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		version,
	)

	return invite.RehydrateInvite(base, taskID, senderID, receiverID, status, respondedAt), nil
}
