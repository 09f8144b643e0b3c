package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/helpmatch/helpmatch/internal/shared/domain"
	"github.com/helpmatch/helpmatch/internal/shared/infrastructure/database"
	"github.com/helpmatch/helpmatch/internal/tasks/domain/task"
)

// SQLiteTaskRepository implements task.Repository using SQLite.
// Timestamps are stored as RFC3339 text and UUIDs as text.
type SQLiteTaskRepository struct {
	conn database.Connection
}

// NewSQLiteTaskRepository creates a new SQLite task repository.
func NewSQLiteTaskRepository(conn database.Connection) *SQLiteTaskRepository {
	return &SQLiteTaskRepository{conn: conn}
}

const sqliteTaskColumns = `id, title, description, category, priority, urgent, deadline,
       latitude, longitude, address, status, posted_by, assigned_volunteer,
       created_at, updated_at, version`

// Save persists a task using optimistic locking.
func (r *SQLiteTaskRepository) Save(ctx context.Context, t *task.Task) error {
	query := `
		INSERT INTO tasks (
			id, title, description, category, priority, urgent, deadline,
			latitude, longitude, address, status, posted_by, assigned_volunteer,
			created_at, updated_at, version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			category = excluded.category,
			priority = excluded.priority,
			urgent = excluded.urgent,
			deadline = excluded.deadline,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			address = excluded.address,
			status = excluded.status,
			assigned_volunteer = excluded.assigned_volunteer,
			updated_at = excluded.updated_at,
			version = tasks.version + 1
		WHERE tasks.version = ?
		RETURNING version
	`

	var lat, lon *float64
	if loc := t.Location(); loc != nil {
		latV, lonV := loc.Lat(), loc.Lon()
		lat, lon = &latV, &lonV
	}

	var deadline *string
	if d := t.Deadline(); d != nil {
		s := d.UTC().Format(time.RFC3339Nano)
		deadline = &s
	}

	var assignedVolunteer *string
	if v := t.AssignedVolunteer(); v != nil {
		s := v.String()
		assignedVolunteer = &s
	}

	var newVersion int
	exec := database.ExecutorFromContext(ctx, r.conn)
	err := exec.QueryRow(ctx, query,
		t.ID().String(),
		t.Title(),
		t.Description(),
		t.Category().String(),
		t.Priority().String(),
		t.Urgent(),
		deadline,
		lat,
		lon,
		t.Address(),
		t.Status().String(),
		t.PostedBy().String(),
		assignedVolunteer,
		t.CreatedAt().Format(time.RFC3339Nano),
		t.UpdatedAt().Format(time.RFC3339Nano),
		t.Version(),
	).Scan(&newVersion)

	if err != nil {
		if database.IsNoRows(err) {
			return sharedDomain.NewError(sharedDomain.KindConflict, "task was modified concurrently")
		}
		return err
	}

	t.SetVersion(newVersion)
	return nil
}

// FindByID retrieves a task by its ID.
func (r *SQLiteTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	query := `SELECT ` + sqliteTaskColumns + ` FROM tasks WHERE id = ?`

	exec := database.ExecutorFromContext(ctx, r.conn)
	t, err := scanSQLiteTask(exec.QueryRow(ctx, query, id.String()))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, sharedDomain.NewError(sharedDomain.KindNotFound, "task not found")
		}
		return nil, err
	}
	return t, nil
}

// FindByIDs retrieves multiple tasks by ID.
func (r *SQLiteTaskRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*task.Task, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id.String()
	}
	query := `SELECT ` + sqliteTaskColumns + ` FROM tasks WHERE id IN (` + strings.Join(placeholders, ", ") + `)`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSQLiteTasks(rows)
}

// FindOpenForVolunteer retrieves the ranking candidate set.
func (r *SQLiteTaskRepository) FindOpenForVolunteer(ctx context.Context, volunteerID uuid.UUID) ([]*task.Task, error) {
	query := `
		SELECT ` + sqliteTaskColumns + `
		FROM tasks
		WHERE status = 'open' AND posted_by <> ?
		ORDER BY created_at DESC
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, volunteerID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSQLiteTasks(rows)
}

// FindByOwner retrieves all tasks posted by a user.
func (r *SQLiteTaskRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*task.Task, error) {
	query := `SELECT ` + sqliteTaskColumns + ` FROM tasks WHERE posted_by = ? ORDER BY created_at DESC`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, ownerID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSQLiteTasks(rows)
}

// FindByVolunteer retrieves tasks the volunteer is or was assigned to.
func (r *SQLiteTaskRepository) FindByVolunteer(ctx context.Context, volunteerID uuid.UUID) ([]*task.Task, error) {
	query := `SELECT ` + sqliteTaskColumns + ` FROM tasks WHERE assigned_volunteer = ? ORDER BY updated_at DESC`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, volunteerID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSQLiteTasks(rows)
}

func scanSQLiteTasks(rows database.Rows) ([]*task.Task, error) {
	var tasks []*task.Task
	for rows.Next() {
		t, err := scanSQLiteTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func scanSQLiteTask(row database.Row) (*task.Task, error) {
	var (
		idStr                      string
		title, description         string
		categoryStr, priorityStr   string
		urgent                     bool
		deadlineStr                *string
		lat, lon                   *float64
		address                    string
		statusStr                  string
		postedByStr                string
		assignedVolunteerStr       *string
		createdAtStr, updatedAtStr string
		version                    int
	)

	err := row.Scan(
		&idStr, &title, &description, &categoryStr, &priorityStr, &urgent, &deadlineStr,
		&lat, &lon, &address, &statusStr, &postedByStr, &assignedVolunteerStr,
		&createdAtStr, &updatedAtStr, &version,
	)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	postedBy, err := uuid.Parse(postedByStr)
	if err != nil {
		return nil, err
	}

	var assignedVolunteer *uuid.UUID
	if assignedVolunteerStr != nil {
		v, err := uuid.Parse(*assignedVolunteerStr)
		if err != nil {
			return nil, err
		}
		assignedVolunteer = &v
	}

	var deadline *time.Time
	if deadlineStr != nil && *deadlineStr != "" {
		d, err := time.Parse(time.RFC3339Nano, *deadlineStr)
		if err != nil {
			return nil, err
		}
		deadline = &d
	}

	createdAt, err := time.Parse(time.RFC3339Nano, createdAtStr)
	if err != nil {
		return nil, err
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, updatedAtStr)
	if err != nil {
		return nil, err
	}

	return rehydrateTask(
		id, title, description, categoryStr, priorityStr, urgent, deadline,
		lat, lon, address, statusStr, postedBy, assignedVolunteer, createdAt, updatedAt, version,
	)
}
