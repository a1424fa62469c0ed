package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-appointment-scheduler/internal/domain/entity"
	"github.com/oksasatya/go-appointment-scheduler/internal/domain/repository"
)

type FileRepository struct {
	pool *pgxpool.Pool
}

func NewFileRepository(pool *pgxpool.Pool) *FileRepository {
	return &FileRepository{pool: pool}
}

func (r *FileRepository) Create(ctx context.Context, f *entity.File) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO files (name, path) VALUES ($1, $2)
		RETURNING id, created_at
	`, f.Name, f.Path)
	return mapErr(row.Scan(&f.ID, &f.CreatedAt))
}

var _ repository.FileRepository = (*FileRepository)(nil)
