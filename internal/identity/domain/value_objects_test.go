package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpmatch/helpmatch/internal/identity/domain"
)

func TestNewEmail(t *testing.T) {
	email, err := domain.NewEmail("  Anna.Schmidt@Example.COM ")

	require.NoError(t, err)
	assert.Equal(t, "anna.schmidt@example.com", email.String())
}

func TestNewEmail_Invalid(t *testing.T) {
	tests := []string{"", "   ", "not-an-email", "missing@tld", "@example.com"}
	for _, value := range tests {
		t.Run(value, func(t *testing.T) {
			_, err := domain.NewEmail(value)
			assert.ErrorIs(t, err, domain.ErrInvalidEmail)
		})
	}
}

func TestNewName(t *testing.T) {
	name, err := domain.NewName("  Anna Schmidt  ")

	require.NoError(t, err)
	assert.Equal(t, "Anna Schmidt", name.String())
}

func TestNewName_Invalid(t *testing.T) {
	_, err := domain.NewName("   ")
	assert.ErrorIs(t, err, domain.ErrEmptyName)

	_, err = domain.NewName(strings.Repeat("a", domain.MaxNameLength+1))
	assert.ErrorIs(t, err, domain.ErrNameTooLong)
}

func TestNewSkills_Normalizes(t *testing.T) {
	skills := domain.NewSkills([]string{" Gardening ", "gardening", "", "IT Support", "it support", "Cooking"})

	assert.Equal(t, []string{"gardening", "it support", "cooking"}, skills.Values())
	assert.False(t, skills.IsEmpty())
	assert.True(t, skills.Contains("Gardening"))
	assert.False(t, skills.Contains("plumbing"))
}

func TestNewSkills_Empty(t *testing.T) {
	assert.True(t, domain.NewSkills(nil).IsEmpty())
	assert.True(t, domain.NewSkills([]string{"", "  "}).IsEmpty())
}

func TestNewUser(t *testing.T) {
	email, err := domain.NewEmail("anna@example.com")
	require.NoError(t, err)
	name, err := domain.NewName("Anna")
	require.NoError(t, err)

	u := domain.NewUser(email, name)

	assert.Equal(t, email, u.Email())
	assert.Equal(t, name, u.Name())
	assert.True(t, u.Skills().IsEmpty())
	assert.Nil(t, u.Location())

	events := u.DomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, domain.RoutingKeyUserRegistered, events[0].RoutingKey())
}
