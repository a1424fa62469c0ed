package repository

import (
	"context"

	"github.com/oksasatya/go-appointment-scheduler/internal/domain/entity"
)

type FileRepository interface {
	Create(ctx context.Context, f *entity.File) error
}
