package repository

import (
	"context"
	"time"

	"github.com/oksasatya/go-appointment-scheduler/internal/domain/entity"
)

type AppointmentRepository interface {
	// ExistsActive reports whether providerID has a non-canceled appointment at exactly slot.
	ExistsActive(ctx context.Context, providerID int64, slot time.Time) (bool, error)
	// Create returns ErrConflict when the slot was taken concurrently.
	Create(ctx context.Context, a *entity.Appointment) error
	ListActiveByUser(ctx context.Context, userID int64, limit, offset int) ([]entity.AppointmentView, error)
}
