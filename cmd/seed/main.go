package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/go-appointment-scheduler/config"
	"github.com/oksasatya/go-appointment-scheduler/pkg/helpers"
)

type seedUser struct {
	name, email, phone string
	provider           bool
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	users := []seedUser{
		{name: "Demo Provider", email: "provider@example.com", phone: "(11) 99999-0001", provider: true},
		{name: "Demo Customer", email: "customer@example.com", phone: "(11) 99999-0002"},
	}
	for _, u := range users {
		var id int64
		err = db.QueryRow(`
			INSERT INTO users (name, email, phone, password_hash, provider)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, provider = EXCLUDED.provider, updated_at = now()
			RETURNING id
		`, u.name, u.email, u.phone, hash, u.provider).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed %s: %v", u.email, err)
		}
		fmt.Printf("seeded user: id=%d email=%s provider=%t password=%s\n", id, u.email, u.provider, password)
	}
}
