// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package identity

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// LocalProvider is the self-hosted identity provider backend. It keeps
// provider accounts in the identity_accounts table with bcrypt-hashed
// credentials. Deployments that delegate to a hosted provider swap this
// out behind the Provisioner interface.
type LocalProvider struct {
	db *sql.DB
}

// NewLocalProvider returns a LocalProvider on the given database.
func NewLocalProvider(db *sql.DB) *LocalProvider {
	return &LocalProvider{db: db}
}

// CreateAccount provisions a provider account and returns its subject
// identifier. The email must be unused.
func (p *LocalProvider) CreateAccount(_ context.Context, email, password, displayName string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	subject := uuid.NewString()
	_, err = p.db.Exec(`
		INSERT INTO identity_accounts (subject, email, password_hash, display_name)
		VALUES ($1, $2, $3, $4)
	`, subject, email, string(hash), displayName)
	if err != nil {
		return "", fmt.Errorf("create identity account: %w", err)
	}
	return subject, nil
}

// Authenticate verifies a plaintext password against the stored account
// credential and returns the account's claims. Returns false for unknown
// emails as well as bad passwords, without distinguishing the two.
func (p *LocalProvider) Authenticate(email, password string) (*Claims, bool) {
	var subject, hash, name string
	err := p.db.QueryRow(`
		SELECT subject, password_hash, display_name FROM identity_accounts WHERE email = $1
	`, email).Scan(&subject, &hash, &name)
	if err != nil {
		return nil, false
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, false
	}
	return &Claims{Subject: subject, Email: email, Name: name}, true
}
