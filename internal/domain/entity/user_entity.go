package entity

import (
	"time"
)

// User is either a customer or a provider; eligibility checks only look at Provider.
// PasswordHash is empty for users registered by a provider.
type User struct {
	ID           int64
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Provider     bool
	AvatarID     *int64
	Avatar       *File
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
