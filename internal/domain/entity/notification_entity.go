package entity

import (
	"time"

	"github.com/google/uuid"
)

// Notification is addressed to UserID, the provider of a new appointment.
type Notification struct {
	ID        uuid.UUID
	Content   string
	UserID    int64
	Read      bool
	CreatedAt time.Time
}
