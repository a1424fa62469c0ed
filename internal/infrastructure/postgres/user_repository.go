package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-appointment-scheduler/internal/domain/entity"
	"github.com/oksasatya/go-appointment-scheduler/internal/domain/repository"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `u.id, u.name, u.email, u.phone, u.password_hash, u.provider, u.avatar_id,
	u.created_at, u.updated_at, f.id, f.name, f.path`

const userFrom = `FROM users u LEFT JOIN files f ON f.id = u.avatar_id`

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	var hash *string
	if u.PasswordHash != "" {
		hash = &u.PasswordHash
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, phone, password_hash, provider)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, u.Name, u.Email, u.Phone, hash, u.Provider)

	return mapErr(row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt))
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` `+userFrom+` WHERE u.id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` `+userFrom+` WHERE u.email = $1`, email))
}

func (r *UserRepository) FindProvider(ctx context.Context, id int64) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` `+userFrom+` WHERE u.id = $1 AND u.provider`, id))
}

func (r *UserRepository) ListProviders(ctx context.Context) ([]entity.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` `+userFrom+` WHERE u.provider ORDER BY u.name, u.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *UserRepository) SetAvatar(ctx context.Context, userID, fileID int64) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET avatar_id = $1, updated_at = now() WHERE id = $2
	`, fileID, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u        entity.User
		hash     *string
		fileID   *int64
		fileName *string
		filePath *string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &hash, &u.Provider, &u.AvatarID,
		&u.CreatedAt, &u.UpdatedAt, &fileID, &fileName, &filePath); err != nil {
		return nil, mapErr(err)
	}
	if hash != nil {
		u.PasswordHash = *hash
	}
	u.Avatar = joinedFile(fileID, fileName, filePath)
	return &u, nil
}

func joinedFile(id *int64, name, path *string) *entity.File {
	if id == nil {
		return nil
	}
	f := &entity.File{ID: *id}
	if name != nil {
		f.Name = *name
	}
	if path != nil {
		f.Path = *path
	}
	return f
}

var _ repository.UserRepository = (*UserRepository)(nil)
