// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"pressgate/internal/models"
	"pressgate/internal/pagination"
)

// UserStore handles all user-related database operations. Users are keyed
// by the subject identifier the identity provider issued; records are
// deactivated via the active flag, never hard-deleted.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, email, display_name, role, permissions, active, post_count, draft_count, created_at, updated_at`

// scanUser scans a row into a User struct.
func scanUser(scanner interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	var perms []byte
	err := scanner.Scan(
		&u.ID, &u.Email, &u.DisplayName, &u.Role, &perms,
		&u.Active, &u.PostCount, &u.DraftCount, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if u.Permissions, err = stringsFromJSON(perms); err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByID retrieves a user by subject identifier. Returns nil if not found.
func (s *UserStore) FindByID(id string) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// EmailExists reports whether a user record already uses the given email.
func (s *UserStore) EmailExists(email string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user email: %w", err)
	}
	return exists, nil
}

// Create inserts a new user record and returns it.
func (s *UserStore) Create(u *models.User) (*models.User, error) {
	perms, err := stringsJSON(u.Permissions)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRow(`
		INSERT INTO users (id, email, display_name, role, permissions, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userColumns,
		u.ID, u.Email, u.DisplayName, u.Role, perms, u.Active,
	)
	result, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return result, nil
}

// List returns a page of users ordered by creation date, plus the total
// row count for the pagination envelope.
func (s *UserStore) List(p pagination.Params) ([]models.User, int, error) {
	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT `+userColumns+` FROM users
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2
	`, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

// Update modifies the mutable fields of a user record: display name, role,
// permission set, and active flag.
func (s *UserStore) Update(u *models.User) error {
	perms, err := stringsJSON(u.Permissions)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		UPDATE users SET
			display_name = $1, role = $2, permissions = $3, active = $4,
			updated_at = NOW()
		WHERE id = $5
	`, u.DisplayName, u.Role, perms, u.Active, u.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}
