package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash []byte
	Confirmed    bool
	CreatedAt    time.Time
}

type SessionToken = string

type Session struct {
	Token SessionToken
	User  User
}

// PendingConfirmation is the result of a sign-up: the account exists but
// cannot sign in until the emailed link is followed.
type PendingConfirmation struct {
	Email       string
	RedirectURL string
}
