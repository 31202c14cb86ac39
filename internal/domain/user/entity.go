package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         Role
	IsActive     bool
	ProfilePhoto string
	Country      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor is the identity a request is evaluated as.
type Actor struct {
	ID            uuid.UUID
	Email         string
	Role          Role
	Authenticated bool
}

func Anonymous() Actor {
	return Actor{}
}

func (u User) Actor() Actor {
	return Actor{ID: u.ID, Email: u.Email, Role: u.Role, Authenticated: true}
}
