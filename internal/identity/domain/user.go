// Package domain contains the identity context's aggregates and value objects.
package domain

import (
	sharedDomain "github.com/helpmatch/helpmatch/internal/shared/domain"
	"github.com/helpmatch/helpmatch/internal/shared/domain/geo"
)

// User represents a community member who can post tasks and volunteer.
type User struct {
	sharedDomain.BaseAggregateRoot
	email    Email
	name     Name
	image    string
	skills   Skills
	location *geo.Coordinate
}

// NewUser creates a new user with the given email and name.
func NewUser(email Email, name Name) *User {
	u := &User{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		email:             email,
		name:              name,
		skills:            NewSkills(nil),
	}

	u.AddDomainEvent(NewUserRegistered(u.ID(), email.String(), name.String()))

	return u
}

// RehydrateUser recreates a user from persisted state.
func RehydrateUser(base sharedDomain.BaseAggregateRoot, email Email, name Name, image string, skills Skills, location *geo.Coordinate) *User {
	return &User{
		BaseAggregateRoot: base,
		email:             email,
		name:              name,
		image:             image,
		skills:            skills,
		location:          location,
	}
}

func (u *User) Email() Email   { return u.email }
func (u *User) Name() Name     { return u.name }
func (u *User) Image() string  { return u.image }
func (u *User) Skills() Skills { return u.skills }

// Location returns the user's home coordinate, or nil if not set.
func (u *User) Location() *geo.Coordinate {
	if u.location == nil {
		return nil
	}
	loc := *u.location
	return &loc
}

// UpdateProfile changes the user's display name and avatar image.
func (u *User) UpdateProfile(name Name, image string) {
	if u.name.Equals(name) && u.image == image {
		return
	}

	u.name = name
	u.image = image
	u.Touch()

	u.AddDomainEvent(NewUserProfileUpdated(u.ID(), name.String()))
}

// UpdateSkills replaces the user's skill set.
func (u *User) UpdateSkills(skills Skills) {
	u.skills = skills
	u.Touch()

	u.AddDomainEvent(NewUserSkillsUpdated(u.ID(), skills.Values()))
}

// UpdateLocation sets the user's home coordinate.
func (u *User) UpdateLocation(location geo.Coordinate) {
	loc := location
	u.location = &loc
	u.Touch()
}

// ClearLocation removes the user's home coordinate.
func (u *User) ClearLocation() {
	u.location = nil
	u.Touch()
}
