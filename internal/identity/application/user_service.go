// Package application contains identity use cases.
package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/helpmatch/helpmatch/internal/identity/domain"
	sharedApplication "github.com/helpmatch/helpmatch/internal/shared/application"
	sharedDomain "github.com/helpmatch/helpmatch/internal/shared/domain"
	"github.com/helpmatch/helpmatch/internal/shared/domain/geo"
	"github.com/helpmatch/helpmatch/internal/shared/infrastructure/outbox"
)

// UserService handles user registration and profile updates.
type UserService struct {
	userRepo   domain.UserRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewUserService creates a new UserService.
func NewUserService(userRepo domain.UserRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *UserService {
	return &UserService{
		userRepo:   userRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// RegisterUserInput contains the data needed to register a user.
type RegisterUserInput struct {
	Email string
	Name  string
}

// Register creates a new user account.
func (s *UserService) Register(ctx context.Context, input RegisterUserInput) (*domain.User, error) {
	email, err := domain.NewEmail(input.Email)
	if err != nil {
		return nil, sharedDomain.WrapError(sharedDomain.KindInvalidOperation, "invalid email", err)
	}

	name, err := domain.NewName(input.Name)
	if err != nil {
		return nil, sharedDomain.WrapError(sharedDomain.KindInvalidOperation, "invalid name", err)
	}

	var registered *domain.User

	err = sharedApplication.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		exists, err := s.userRepo.ExistsByEmail(txCtx, email)
		if err != nil {
			return err
		}
		if exists {
			return sharedDomain.NewError(sharedDomain.KindConflict, "a user with this email already exists")
		}

		u := domain.NewUser(email, name)

		if err := s.userRepo.Save(txCtx, u); err != nil {
			return err
		}

		if err := s.saveEvents(txCtx, u); err != nil {
			return err
		}

		registered = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	return registered, nil
}

// UpdateProfileInput contains profile fields a user may change.
type UpdateProfileInput struct {
	Name      string
	Image     string
	Skills    []string
	Latitude  *float64
	Longitude *float64
}

// UpdateProfile updates a user's display name, avatar, skills and
// location in one operation.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*domain.User, error) {
	name, err := domain.NewName(input.Name)
	if err != nil {
		return nil, sharedDomain.WrapError(sharedDomain.KindInvalidOperation, "invalid name", err)
	}

	var location *geo.Coordinate
	if input.Latitude != nil && input.Longitude != nil {
		coord, err := geo.NewCoordinate(*input.Latitude, *input.Longitude)
		if err != nil {
			return nil, sharedDomain.WrapError(sharedDomain.KindInvalidOperation, "invalid coordinate", err)
		}
		location = &coord
	}

	var updated *domain.User

	err = sharedApplication.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		u, err := s.userRepo.FindByID(txCtx, userID)
		if err != nil {
			return err
		}

		u.UpdateProfile(name, input.Image)
		u.UpdateSkills(domain.NewSkills(input.Skills))
		if location != nil {
			u.UpdateLocation(*location)
		}

		if err := s.userRepo.Save(txCtx, u); err != nil {
			return err
		}

		if err := s.saveEvents(txCtx, u); err != nil {
			return err
		}

		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

func (s *UserService) saveEvents(ctx context.Context, u *domain.User) error {
	events := u.DomainEvents()
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(u.ID()))

	msgs, err := outbox.FromEvents(events)
	if err != nil {
		return err
	}
	return s.outboxRepo.SaveBatch(ctx, msgs)
}
