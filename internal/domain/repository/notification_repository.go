package repository

import (
	"context"

	"github.com/oksasatya/go-appointment-scheduler/internal/domain/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
}
