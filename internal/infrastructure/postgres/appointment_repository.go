package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-appointment-scheduler/internal/domain/entity"
	"github.com/oksasatya/go-appointment-scheduler/internal/domain/repository"
)

type AppointmentRepository struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

func (r *AppointmentRepository) ExistsActive(ctx context.Context, providerID int64, slot time.Time) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE provider_id = $1 AND date = $2 AND canceled_at IS NULL
		)
	`, providerID, slot).Scan(&exists)
	return exists, err
}

// Create relies on appointments_provider_slot_active_uniq to reject a racing insert.
func (r *AppointmentRepository) Create(ctx context.Context, a *entity.Appointment) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (user_id, provider_id, date)
		VALUES ($1, $2, $3)
		RETURNING id, canceled_at, created_at, updated_at
	`, a.UserID, a.ProviderID, a.Date)

	return mapErr(row.Scan(&a.ID, &a.CanceledAt, &a.CreatedAt, &a.UpdatedAt))
}

func (r *AppointmentRepository) ListActiveByUser(ctx context.Context, userID int64, limit, offset int) ([]entity.AppointmentView, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.date, p.id, p.name, f.id, f.name, f.path
		FROM appointments a
		JOIN users p ON p.id = a.provider_id
		LEFT JOIN files f ON f.id = p.avatar_id
		WHERE a.user_id = $1 AND a.canceled_at IS NULL
		ORDER BY a.date ASC, a.id ASC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.AppointmentView{}
	for rows.Next() {
		var (
			v        entity.AppointmentView
			fileID   *int64
			fileName *string
			filePath *string
		)
		if err := rows.Scan(&v.ID, &v.Date, &v.Provider.ID, &v.Provider.Name, &fileID, &fileName, &filePath); err != nil {
			return nil, err
		}
		v.Date = v.Date.UTC()
		v.Provider.Avatar = joinedFile(fileID, fileName, filePath)
		out = append(out, v)
	}
	return out, rows.Err()
}

var _ repository.AppointmentRepository = (*AppointmentRepository)(nil)
