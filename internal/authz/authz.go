// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package authz maps roles to the actions they may perform. It is a pure
// lookup evaluated before any repository I/O; a denied request produces
// no side effects.
package authz

import "pressgate/internal/models"

// Action identifies an operation a request principal may attempt.
type Action string

const (
	ActionPostList   Action = "posts:list"
	ActionPostCreate Action = "posts:create"
	ActionPostRead   Action = "posts:read"
	ActionPostUpdate Action = "posts:update"
	ActionPostDelete Action = "posts:delete"

	ActionCategoryRead   Action = "categories:read"
	ActionCategoryCreate Action = "categories:create"
	ActionCategoryUpdate Action = "categories:update"
	ActionCategoryDelete Action = "categories:delete"

	ActionUserList   Action = "users:list"
	ActionUserCreate Action = "users:create"
	ActionUserUpdate Action = "users:update"
)

// Allowed reports whether a role may perform an action. Authors pass the
// post update/delete gate here; ownership of the post is enforced by the
// handler on top of this check.
func Allowed(role models.Role, action Action) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleEditor:
		switch action {
		case ActionPostList, ActionPostCreate, ActionPostRead, ActionPostUpdate, ActionPostDelete,
			ActionCategoryRead, ActionCategoryCreate, ActionCategoryUpdate:
			return true
		}
		return false
	case models.RoleAuthor:
		switch action {
		case ActionPostList, ActionPostCreate, ActionPostRead, ActionPostUpdate, ActionPostDelete,
			ActionCategoryRead:
			return true
		}
		return false
	}
	return false
}

// DefaultPermissions returns the permission set stored on a user record at
// creation time. The set is derived once and persisted; it is not
// re-derived on read.
func DefaultPermissions(role models.Role) []string {
	switch role {
	case models.RoleAdmin:
		return []string{
			"posts:read", "posts:write", "posts:delete",
			"categories:read", "categories:write", "categories:delete",
			"users:read", "users:write",
		}
	case models.RoleEditor:
		return []string{
			"posts:read", "posts:write", "posts:delete",
			"categories:read", "categories:write",
		}
	case models.RoleAuthor:
		return []string{"posts:read", "posts:write", "categories:read"}
	}
	return []string{}
}
