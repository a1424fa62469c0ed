package repository

import (
	"context"

	"github.com/oksasatya/go-appointment-scheduler/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
// Lookups return ErrNotFound when no row matches; Create returns ErrConflict on a taken email.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	FindProvider(ctx context.Context, id int64) (*entity.User, error)
	ListProviders(ctx context.Context) ([]entity.User, error)
	SetAvatar(ctx context.Context, userID, fileID int64) error
}
