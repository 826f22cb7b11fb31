package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"pressgate/internal/authz"
	"pressgate/internal/models"
)

// seedAdminSubject is the fixed subject identifier of the development
// admin, so seeded tokens stay valid across database resets.
const seedAdminSubject = "seed-admin"

// Seed populates the database with initial development data: one admin
// user with a matching identity account, and a starter category. No-op if
// users already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO identity_accounts (subject, email, password_hash, display_name)
		VALUES ($1, $2, $3, $4)
	`, seedAdminSubject, "admin@pressgate.local", string(hash), "Admin")
	if err != nil {
		return fmt.Errorf("seed insert identity account: %w", err)
	}

	perms, err := json.Marshal(authz.DefaultPermissions(models.RoleAdmin))
	if err != nil {
		return fmt.Errorf("seed marshal permissions: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (id, email, display_name, role, permissions, active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
	`, seedAdminSubject, "admin@pressgate.local", "Admin", "admin", perms)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO categories (name, slug, description, meta_title, meta_description)
		VALUES ($1, $2, $3, $1, $3)
	`, "General", "general", "Uncategorized posts")
	if err != nil {
		return fmt.Errorf("seed insert category: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@pressgate.local",
		"password", "admin",
	)

	return nil
}
