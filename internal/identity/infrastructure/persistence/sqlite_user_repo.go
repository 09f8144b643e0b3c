package persistence

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/helpmatch/helpmatch/internal/identity/domain"
	sharedDomain "github.com/helpmatch/helpmatch/internal/shared/domain"
	"github.com/helpmatch/helpmatch/internal/shared/infrastructure/database"
)

// SQLiteUserRepository handles persistence for users using SQLite.
// Skills are stored as a JSON array, timestamps as RFC3339 text.
type SQLiteUserRepository struct {
	conn database.Connection
}

// NewSQLiteUserRepository creates a new SQLiteUserRepository.
func NewSQLiteUserRepository(conn database.Connection) *SQLiteUserRepository {
	return &SQLiteUserRepository{conn: conn}
}

const sqliteUserColumns = `id, email, name, image, skills, latitude, longitude, created_at, updated_at, version`

// Save persists a user to the database.
func (r *SQLiteUserRepository) Save(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, name, image, skills, latitude, longitude, created_at, updated_at, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT (id) DO UPDATE SET
			email = excluded.email,
			name = excluded.name,
			image = excluded.image,
			skills = excluded.skills,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			updated_at = excluded.updated_at,
			version = users.version + 1
	`

	skills, err := json.Marshal(user.Skills().Values())
	if err != nil {
		return err
	}

	var lat, lon *float64
	if loc := user.Location(); loc != nil {
		latV, lonV := loc.Lat(), loc.Lon()
		lat, lon = &latV, &lonV
	}

	var image *string
	if img := user.Image(); img != "" {
		image = &img
	}

	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err = exec.Exec(ctx, query,
		user.ID().String(),
		user.Email().String(),
		user.Name().String(),
		image,
		string(skills),
		lat,
		lon,
		user.CreatedAt().Format(time.RFC3339Nano),
		user.UpdatedAt().Format(time.RFC3339Nano),
	)
	return err
}

// FindByID retrieves a user by their ID.
func (r *SQLiteUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + sqliteUserColumns + ` FROM users WHERE id = ?`

	exec := database.ExecutorFromContext(ctx, r.conn)
	user, err := scanSQLiteUser(exec.QueryRow(ctx, query, id.String()))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, sharedDomain.NewError(sharedDomain.KindNotFound, "user not found")
		}
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves a user by their email address.
func (r *SQLiteUserRepository) FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	query := `SELECT ` + sqliteUserColumns + ` FROM users WHERE email = ?`

	exec := database.ExecutorFromContext(ctx, r.conn)
	user, err := scanSQLiteUser(exec.QueryRow(ctx, query, email.String()))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, sharedDomain.NewError(sharedDomain.KindNotFound, "user not found")
		}
		return nil, err
	}
	return user, nil
}

// FindByIDs retrieves multiple users by ID.
func (r *SQLiteUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id.String()
	}
	query := `SELECT ` + sqliteUserColumns + ` FROM users WHERE id IN (` + strings.Join(placeholders, ", ") + `)`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanSQLiteUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// ExistsByEmail checks if a user with the given email exists.
func (r *SQLiteUserRepository) ExistsByEmail(ctx context.Context, email domain.Email) (bool, error) {
	query := `SELECT COUNT(*) FROM users WHERE email = ?`

	var count int64
	exec := database.ExecutorFromContext(ctx, r.conn)
	if err := exec.QueryRow(ctx, query, email.String()).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func scanSQLiteUser(row database.Row) (*domain.User, error) {
	var (
		idStr, emailStr, nameStr string
		image                    *string
		skillsJSON               string
		lat, lon                 *float64
		createdAtStr, updatedAtStr string
		version                  int
	)

	err := row.Scan(&idStr, &emailStr, &nameStr, &image, &skillsJSON, &lat, &lon, &createdAtStr, &updatedAtStr, &version)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}

	var skills []string
	if err := json.Unmarshal([]byte(skillsJSON), &skills); err != nil {
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

	return rehydrateUser(id, emailStr, nameStr, image, skills, lat, lon, createdAt, updatedAt, version)
}
