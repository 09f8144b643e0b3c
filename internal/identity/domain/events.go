package domain

import (
	"github.com/google/uuid"

	sharedDomain "github.com/helpmatch/helpmatch/internal/shared/domain"
)

// AggregateTypeUser identifies the user aggregate in events and the outbox.
const AggregateTypeUser = "user"

// Routing keys for user events.
const (
	RoutingKeyUserRegistered     = "community.user.registered"
	RoutingKeyUserProfileUpdated = "community.user.profile_updated"
	RoutingKeyUserSkillsUpdated  = "community.user.skills_updated"
)

// UserRegistered is emitted when a new user joins.
type UserRegistered struct {
	sharedDomain.BaseEvent
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
}

// NewUserRegistered creates a UserRegistered event.
func NewUserRegistered(userID uuid.UUID, email, name string) *UserRegistered {
	return &UserRegistered{
		BaseEvent: sharedDomain.NewBaseEvent(userID, AggregateTypeUser, RoutingKeyUserRegistered),
		UserID:    userID,
		Email:     email,
		Name:      name,
	}
}

// UserProfileUpdated is emitted when a user changes their profile.
type UserProfileUpdated struct {
	sharedDomain.BaseEvent
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
}

// NewUserProfileUpdated creates a UserProfileUpdated event.
func NewUserProfileUpdated(userID uuid.UUID, name string) *UserProfileUpdated {
	return &UserProfileUpdated{
		BaseEvent: sharedDomain.NewBaseEvent(userID, AggregateTypeUser, RoutingKeyUserProfileUpdated),
		UserID:    userID,
		Name:      name,
	}
}

// UserSkillsUpdated is emitted when a user changes their skill set.
type UserSkillsUpdated struct {
	sharedDomain.BaseEvent
	UserID uuid.UUID `json:"user_id"`
	Skills []string  `json:"skills"`
}

// NewUserSkillsUpdated creates a UserSkillsUpdated event.
func NewUserSkillsUpdated(userID uuid.UUID, skills []string) *UserSkillsUpdated {
	return &UserSkillsUpdated{
		BaseEvent: sharedDomain.NewBaseEvent(userID, AggregateTypeUser, RoutingKeyUserSkillsUpdated),
		UserID:    userID,
		Skills:    skills,
	}
}
