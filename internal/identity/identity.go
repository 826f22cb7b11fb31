// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package identity adapts the external identity provider. The rest of the
// application consumes it as a black box: a bearer credential goes in, a
// subject identifier and claims come out. Token cryptography beyond
// verifying the provider's signed tokens lives with the provider.
package identity

import "context"

// Claims is the verified identity extracted from a bearer credential.
type Claims struct {
	Subject string
	Email   string
	Name    string
}

// Verifier validates a bearer credential with the identity provider.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// Provisioner creates an account at the identity provider for users added
// through the admin API, returning the new subject identifier.
type Provisioner interface {
	CreateAccount(ctx context.Context, email, password, displayName string) (string, error)
}
