// Package persistence contains task repository implementations.
package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/helpmatch/helpmatch/internal/shared/domain"
	"github.com/helpmatch/helpmatch/internal/shared/domain/geo"
	"github.com/helpmatch/helpmatch/internal/shared/infrastructure/database"
	"github.com/helpmatch/helpmatch/internal/tasks/domain/task"
)

// PostgresTaskRepository implements task.Repository using PostgreSQL.
type PostgresTaskRepository struct {
	conn database.Connection
}

// NewPostgresTaskRepository creates a new PostgreSQL task repository.
func NewPostgresTaskRepository(conn database.Connection) *PostgresTaskRepository {
	return &PostgresTaskRepository{conn: conn}
}

const pgTaskColumns = `id, title, description, category, priority, urgent, deadline,
       latitude, longitude, address, status, posted_by, assigned_volunteer,
       created_at, updated_at, version`

// Save persists a task using optimistic locking. The conditional update
// only applies when the stored version matches the loaded one, so two
// concurrent writers cannot both succeed.
func (r *PostgresTaskRepository) Save(ctx context.Context, t *task.Task) error {
	query := `
		INSERT INTO tasks (
			id, title, description, category, priority, urgent, deadline,
			latitude, longitude, address, status, posted_by, assigned_volunteer,
			created_at, updated_at, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, 1)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			priority = EXCLUDED.priority,
			urgent = EXCLUDED.urgent,
			deadline = EXCLUDED.deadline,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			address = EXCLUDED.address,
			status = EXCLUDED.status,
			assigned_volunteer = EXCLUDED.assigned_volunteer,
			updated_at = EXCLUDED.updated_at,
			version = tasks.version + 1
		WHERE tasks.version = $16
		RETURNING version
	`

	var lat, lon *float64
	if loc := t.Location(); loc != nil {
		latV, lonV := loc.Lat(), loc.Lon()
		lat, lon = &latV, &lonV
	}

	var newVersion int
	exec := database.ExecutorFromContext(ctx, r.conn)
	err := exec.QueryRow(ctx, query,
		t.ID(),
		t.Title(),
		t.Description(),
		t.Category().String(),
		t.Priority().String(),
		t.Urgent(),
		t.Deadline(),
		lat,
		lon,
		t.Address(),
		t.Status().String(),
		t.PostedBy(),
		t.AssignedVolunteer(),
		t.CreatedAt(),
		t.UpdatedAt(),
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
func (r *PostgresTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	query := `SELECT ` + pgTaskColumns + ` FROM tasks WHERE id = $1`

	exec := database.ExecutorFromContext(ctx, r.conn)
	t, err := scanPostgresTask(exec.QueryRow(ctx, query, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, sharedDomain.NewError(sharedDomain.KindNotFound, "task not found")
		}
		return nil, err
	}
	return t, nil
}

// FindByIDs retrieves multiple tasks by ID.
func (r *PostgresTaskRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*task.Task, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + pgTaskColumns + ` FROM tasks WHERE id = ANY($1)`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPostgresTasks(rows)
}

// FindOpenForVolunteer retrieves the ranking candidate set: open tasks
// not posted by the volunteer.
func (r *PostgresTaskRepository) FindOpenForVolunteer(ctx context.Context, volunteerID uuid.UUID) ([]*task.Task, error) {
	query := `
		SELECT ` + pgTaskColumns + `
		FROM tasks
		WHERE status = 'open' AND posted_by <> $1
		ORDER BY created_at DESC
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, volunteerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPostgresTasks(rows)
}

// FindByOwner retrieves all tasks posted by a user.
func (r *PostgresTaskRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*task.Task, error) {
	query := `SELECT ` + pgTaskColumns + ` FROM tasks WHERE posted_by = $1 ORDER BY created_at DESC`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPostgresTasks(rows)
}

// FindByVolunteer retrieves tasks the volunteer is or was assigned to.
func (r *PostgresTaskRepository) FindByVolunteer(ctx context.Context, volunteerID uuid.UUID) ([]*task.Task, error) {
	query := `SELECT ` + pgTaskColumns + ` FROM tasks WHERE assigned_volunteer = $1 ORDER BY updated_at DESC`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, volunteerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPostgresTasks(rows)
}

func scanPostgresTasks(rows database.Rows) ([]*task.Task, error) {
	var tasks []*task.Task
	for rows.Next() {
		t, err := scanPostgresTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func scanPostgresTask(row database.Row) (*task.Task, error) {
	var (
		id                   uuid.UUID
		title, description   string
		categoryStr          string
		priorityStr          string
		urgent               bool
		deadline             *time.Time
		lat, lon             *float64
		address              string
		statusStr            string
		postedBy             uuid.UUID
		assignedVolunteer    *uuid.UUID
		createdAt, updatedAt time.Time
		version              int
	)

	err := row.Scan(
		&id, &title, &description, &categoryStr, &priorityStr, &urgent, &deadline,
		&lat, &lon, &address, &statusStr, &postedBy, &assignedVolunteer,
		&createdAt, &updatedAt, &version,
	)
	if err != nil {
		return nil, err
	}

	return rehydrateTask(
		id, title, description, categoryStr, priorityStr, urgent, deadline,
		lat, lon, address, statusStr, postedBy, assignedVolunteer, createdAt, updatedAt, version,
	)
}

func rehydrateTask(
	id uuid.UUID,
	title, description, categoryStr, priorityStr string,
	urgent bool,
	deadline *time.Time,
	lat, lon *float64,
	address string,
	statusStr string,
	postedBy uuid.UUID,
	assignedVolunteer *uuid.UUID,
	createdAt, updatedAt time.Time,
	version int,
) (*task.Task, error) {
	category, err := task.ParseCategory(categoryStr)
	if err != nil {
		return nil, fmt.Errorf("invalid category in database: %w", err)
	}

	priority, err := task.ParsePriority(priorityStr)
	if err != nil {
		return nil, fmt.Errorf("invalid priority in database: %w", err)
	}

	status, err := task.ParseStatus(statusStr)
	if err != nil {
		return nil, fmt.Errorf("invalid status in database: %w", err)
	}

	var location *geo.Coordinate
	if lat != nil && lon != nil {
		coord, err := geo.NewCoordinate(*lat, *lon)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate in database: %w", err)
		}
		location = &coord
	}

	base := sharedDomain.RehydrateBaseAggregateRoot(
		sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		version,
	)

	return task.RehydrateTask(
		base, title, description, category, priority, urgent, deadline,
		location, address, status, postedBy, assignedVolunteer,
	), nil
}
