package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-appointment-scheduler/internal/domain/entity"
	"github.com/oksasatya/go-appointment-scheduler/internal/domain/repository"
)

// newTestPool connects to SCHEDULER_TEST_DATABASE_URL inside a throwaway schema
// with the migrations applied.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("SCHEDULER_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("SCHEDULER_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	schema := fmt.Sprintf("test_%d", time.Now().UnixNano())

	admin, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := admin.Exec(ctx, "CREATE SCHEMA "+schema); err != nil {
		admin.Close()
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
		admin.Close()
	})

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		t.Fatalf("parse dsn: %v", err)
	}
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	t.Cleanup(pool.Close)

	ddl, err := os.ReadFile(filepath.Join("..", "..", "..", "db", "migrations", "000001_init_schema.up.sql"))
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if _, err := pool.Exec(ctx, string(ddl)); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}

func TestRepositories(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	users := NewUserRepository(pool)
	appts := NewAppointmentRepository(pool)
	files := NewFileRepository(pool)
	notes := NewNotificationRepository(pool)

	provider := &entity.User{Name: "Dr. Paulo", Email: "paulo@example.com", Phone: "11 99999-9999", Provider: true}
	customer := &entity.User{Name: "Carla", Email: "carla@example.com", PasswordHash: "hash"}
	for _, u := range []*entity.User{provider, customer} {
		if err := users.Create(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}
	if err := users.Create(ctx, &entity.User{Name: "Dup", Email: "carla@example.com"}); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("duplicate email err = %v", err)
	}

	if _, err := users.FindProvider(ctx, customer.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("customer as provider err = %v", err)
	}

	avatar := &entity.File{Name: "p.png", Path: "avatars/1/p.png"}
	if err := files.Create(ctx, avatar); err != nil {
		t.Fatalf("create file: %v", err)
	}
	if err := users.SetAvatar(ctx, provider.ID, avatar.ID); err != nil {
		t.Fatalf("set avatar: %v", err)
	}
	p, err := users.FindProvider(ctx, provider.ID)
	if err != nil || p.Avatar == nil || p.Avatar.Path != avatar.Path {
		t.Fatalf("provider = %+v, %v", p, err)
	}
	list, err := users.ListProviders(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("providers = %v, %v", list, err)
	}

	slot := time.Date(2030, 3, 10, 14, 0, 0, 0, time.UTC)
	a := &entity.Appointment{UserID: customer.ID, ProviderID: provider.ID, Date: slot}
	if err := appts.Create(ctx, a); err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	if taken, err := appts.ExistsActive(ctx, provider.ID, slot); err != nil || !taken {
		t.Fatalf("exists = %v, %v", taken, err)
	}
	if err := appts.Create(ctx, &entity.Appointment{UserID: customer.ID, ProviderID: provider.ID, Date: slot}); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("second active booking err = %v", err)
	}

	if _, err := pool.Exec(ctx, "UPDATE appointments SET canceled_at = now() WHERE id = $1", a.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if taken, _ := appts.ExistsActive(ctx, provider.ID, slot); taken {
		t.Fatalf("canceled appointment still blocks the slot")
	}
	if err := appts.Create(ctx, &entity.Appointment{UserID: customer.ID, ProviderID: provider.ID, Date: slot}); err != nil {
		t.Fatalf("rebook canceled slot: %v", err)
	}

	for i := 1; i <= 22; i++ {
		if err := appts.Create(ctx, &entity.Appointment{UserID: customer.ID, ProviderID: provider.ID, Date: slot.Add(time.Duration(i) * time.Hour)}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
	page1, err := appts.ListActiveByUser(ctx, customer.ID, 20, 0)
	if err != nil || len(page1) != 20 {
		t.Fatalf("page 1 = %d, %v", len(page1), err)
	}
	if !page1[0].Date.Equal(slot) || page1[0].Provider.Avatar == nil {
		t.Fatalf("first item = %+v", page1[0])
	}
	page2, err := appts.ListActiveByUser(ctx, customer.ID, 20, 20)
	if err != nil || len(page2) != 3 {
		t.Fatalf("page 2 = %d, %v", len(page2), err)
	}

	n := &entity.Notification{ID: uuid.New(), Content: "Novo agendamento", UserID: provider.ID}
	if err := notes.Create(ctx, n); err != nil {
		t.Fatalf("create notification: %v", err)
	}
}
