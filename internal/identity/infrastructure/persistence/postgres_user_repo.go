// Package persistence contains user repository implementations.
package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/helpmatch/helpmatch/internal/identity/domain"
	sharedDomain "github.com/helpmatch/helpmatch/internal/shared/domain"
	"github.com/helpmatch/helpmatch/internal/shared/domain/geo"
	"github.com/helpmatch/helpmatch/internal/shared/infrastructure/database"
)

// PostgresUserRepository handles persistence for users using PostgreSQL.
type PostgresUserRepository struct {
	conn database.Connection
}

// NewPostgresUserRepository creates a new PostgresUserRepository.
func NewPostgresUserRepository(conn database.Connection) *PostgresUserRepository {
	return &PostgresUserRepository{conn: conn}
}

const pgUserColumns = `id, email, name, image, skills, latitude, longitude, created_at, updated_at, version`

// Save persists a user to the database.
func (r *PostgresUserRepository) Save(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, name, image, skills, latitude, longitude, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			image = EXCLUDED.image,
			skills = EXCLUDED.skills,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			updated_at = EXCLUDED.updated_at,
			version = users.version + 1
	`

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
	_, err := exec.Exec(ctx, query,
		user.ID(),
		user.Email().String(),
		user.Name().String(),
		image,
		user.Skills().Values(),
		lat,
		lon,
		user.CreatedAt(),
		user.UpdatedAt(),
	)
	return err
}

// FindByID retrieves a user by their ID.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + pgUserColumns + ` FROM users WHERE id = $1`

	exec := database.ExecutorFromContext(ctx, r.conn)
	user, err := scanPostgresUser(exec.QueryRow(ctx, query, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, sharedDomain.NewError(sharedDomain.KindNotFound, "user not found")
		}
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves a user by their email address.
func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	query := `SELECT ` + pgUserColumns + ` FROM users WHERE email = $1`

	exec := database.ExecutorFromContext(ctx, r.conn)
	user, err := scanPostgresUser(exec.QueryRow(ctx, query, email.String()))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, sharedDomain.NewError(sharedDomain.KindNotFound, "user not found")
		}
		return nil, err
	}
	return user, nil
}

// FindByIDs retrieves multiple users by ID.
func (r *PostgresUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + pgUserColumns + ` FROM users WHERE id = ANY($1)`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanPostgresUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// ExistsByEmail checks if a user with the given email exists.
func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email domain.Email) (bool, error) {
	query := `SELECT COUNT(*) FROM users WHERE email = $1`

	var count int64
	exec := database.ExecutorFromContext(ctx, r.conn)
	if err := exec.QueryRow(ctx, query, email.String()).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func scanPostgresUser(row database.Row) (*domain.User, error) {
	var (
		id                   uuid.UUID
		emailStr, nameStr    string
		image                *string
		skills               []string
		lat, lon             *float64
		createdAt, updatedAt time.Time
		version              int
	)

	err := row.Scan(&id, &emailStr, &nameStr, &image, &skills, &lat, &lon, &createdAt, &updatedAt, &version)
	if err != nil {
		return nil, err
	}

	return rehydrateUser(id, emailStr, nameStr, image, skills, lat, lon, createdAt, updatedAt, version)
}

func rehydrateUser(id uuid.UUID, emailStr, nameStr string, image *string, skills []string, lat, lon *float64, createdAt, updatedAt time.Time, version int) (*domain.User, error) {
	email, err := domain.NewEmail(emailStr)
	if err != nil {
		return nil, err
	}

	name, err := domain.NewName(nameStr)
	if err != nil {
		return nil, err
	}

	var location *geo.Coordinate
	if lat != nil && lon != nil {
		coord, err := geo.NewCoordinate(*lat, *lon)
		if err != nil {
			return nil, err
		}
		location = &coord
	}

	imageStr := ""
	if image != nil {
		imageStr = *image
	}

	base := sharedDomain.RehydrateBaseAggregateRoot(
		sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		version,
	)

	return domain.RehydrateUser(base, email, name, imageStr, domain.NewSkills(skills), location), nil
}
