package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-appointment-scheduler/internal/domain/entity"
	"github.com/oksasatya/go-appointment-scheduler/internal/domain/repository"
)

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO notifications (id, content, user_id, read)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, n.ID, n.Content, n.UserID, n.Read).Scan(&n.CreatedAt)
}

var _ repository.NotificationRepository = (*NotificationRepository)(nil)
