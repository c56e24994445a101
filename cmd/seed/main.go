package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/ngocweb/membership-api/config"
	"github.com/ngocweb/membership-api/pkg/helpers"
)

// Seeds an active admin account. Without one the role-change endpoint is
// unreachable, since only an admin can grant admin.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	email := getenvDefault("SEED_ADMIN_EMAIL", "admin@example.com")
	password := getenvDefault("SEED_ADMIN_PASSWORD", "changeme123")
	name := getenvDefault("SEED_ADMIN_NAME", "Administrator")

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (name, email, phone, password_hash, role, status)
		VALUES ($1, $2, '', $3, 'admin', 'active')
		ON CONFLICT (email) DO UPDATE SET role = 'admin', status = 'active', updated_at = now()
		RETURNING id
	`, name, email, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s\n", id, email)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
