package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/helpmatch/helpmatch/internal/invites/domain/invite"
	sharedDomain "github.com/helpmatch/helpmatch/internal/shared/domain"
	"github.com/helpmatch/helpmatch/internal/shared/infrastructure/database"
)

// SQLiteInviteRepository implements invite.Repository using SQLite.
// Timestamps are stored as RFC3339 text and UUIDs as text.
type SQLiteInviteRepository struct {
	conn database.Connection
}

// NewSQLiteInviteRepository creates a new SQLite invite repository.
func NewSQLiteInviteRepository(conn database.Connection) *SQLiteInviteRepository {
	return &SQLiteInviteRepository{conn: conn}
}

const sqliteInviteColumns = `id, task_id, sender_id, receiver_id, status, responded_at, created_at, updated_at, version`

// Create inserts a new pending invite.
func (r *SQLiteInviteRepository) Create(ctx context.Context, inv *invite.Invite) error {
	query := `
		INSERT INTO invites (id, task_id, sender_id, receiver_id, status, responded_at, created_at, updated_at, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1)
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, query,
		inv.ID().String(),
		inv.TaskID().String(),
		inv.SenderID().String(),
		inv.ReceiverID().String(),
		inv.Status().String(),
		formatOptionalTime(inv.RespondedAt()),
		inv.CreatedAt().Format(time.RFC3339Nano),
		inv.UpdatedAt().Format(time.RFC3339Nano),
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
func (r *SQLiteInviteRepository) FindByID(ctx context.Context, id uuid.UUID) (*invite.Invite, error) {
	query := `SELECT ` + sqliteInviteColumns + ` FROM invites WHERE id = ?`

	exec := database.ExecutorFromContext(ctx, r.conn)
	inv, err := scanSQLiteInvite(exec.QueryRow(ctx, query, id.String()))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, sharedDomain.NewError(sharedDomain.KindNotFound, "invite not found")
		}
		return nil, err
	}
	return inv, nil
}

// FindIncoming retrieves pending invites addressed to the receiver.
func (r *SQLiteInviteRepository) FindIncoming(ctx context.Context, receiverID uuid.UUID) ([]*invite.Invite, error) {
	query := `
		SELECT ` + sqliteInviteColumns + `
		FROM invites
		WHERE receiver_id = ? AND status = 'pending'
		ORDER BY created_at DESC
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, receiverID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSQLiteInvites(rows)
}

// FindBySender retrieves all invites sent by the volunteer.
func (r *SQLiteInviteRepository) FindBySender(ctx context.Context, senderID uuid.UUID) ([]*invite.Invite, error) {
	query := `SELECT ` + sqliteInviteColumns + ` FROM invites WHERE sender_id = ? ORDER BY created_at DESC`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, senderID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSQLiteInvites(rows)
}

// HasActiveInvite reports whether a pending or accepted invite exists
// for the (task, sender) pair.
func (r *SQLiteInviteRepository) HasActiveInvite(ctx context.Context, taskID, senderID uuid.UUID) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM invites
		WHERE task_id = ? AND sender_id = ? AND status IN ('pending', 'accepted')
	`

	var count int64
	exec := database.ExecutorFromContext(ctx, r.conn)
	if err := exec.QueryRow(ctx, query, taskID.String(), senderID.String()).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Resolve persists a resolved invite, conditional on the stored row
// still being pending.
func (r *SQLiteInviteRepository) Resolve(ctx context.Context, inv *invite.Invite) error {
	query := `
		UPDATE invites
		SET status = ?, responded_at = ?, updated_at = ?, version = version + 1
		WHERE id = ? AND status = 'pending'
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, query,
		inv.Status().String(),
		formatOptionalTime(inv.RespondedAt()),
		inv.UpdatedAt().Format(time.RFC3339Nano),
		inv.ID().String(),
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

func scanSQLiteInvites(rows database.Rows) ([]*invite.Invite, error) {
	var invites []*invite.Invite
	for rows.Next() {
		inv, err := scanSQLiteInvite(rows)
		if err != nil {
			return nil, err
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

func scanSQLiteInvite(row database.Row) (*invite.Invite, error) {
	var (
		idStr, taskIDStr           string
		senderIDStr, receiverIDStr string
		statusStr                  string
		respondedAtStr             *string
		createdAtStr, updatedAtStr string
		version                    int
	)

	err := row.Scan(&idStr, &taskIDStr, &senderIDStr, &receiverIDStr, &statusStr, &respondedAtStr, &createdAtStr, &updatedAtStr, &version)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	taskID, err := uuid.Parse(taskIDStr)
	if err != nil {
		return nil, err
	}
	senderID, err := uuid.Parse(senderIDStr)
	if err != nil {
		return nil, err
	}
	receiverID, err := uuid.Parse(receiverIDStr)
	if err != nil {
		return nil, err
	}

	respondedAt, err := parseOptionalTime(respondedAtStr)
	if err != nil {
		return nil, err
	}
	createdAt, err := time.Parse(time.RFC3339Nano, createdAtStr)
	if err != nil {
		return nil, err
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, updatedAtStr)
	if err != nil {
		return nil, err
	}

	return rehydrateInvite(id, taskID, senderID, receiverID, statusStr, respondedAt, createdAt, updatedAt, version)
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339Nano)
	return &s
}

func parseOptionalTime(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
