// Package user provides account use cases: registration, password
// authentication, role management and the start-up admin bootstrap.
package user

import (
	"fmt"

	"brazucas-cork/internal/domain/entity"
)

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong
	// password. The two cases are indistinguishable to the caller.
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", entity.ErrUnauthorized)

	// ErrUserNotFound indicates that the account does not exist.
	ErrUserNotFound = fmt.Errorf("user: %w", entity.ErrNotFound)

	// ErrSelfRoleChange prevents an admin from changing their own role.
	ErrSelfRoleChange = &entity.ForbiddenError{Reason: "admins cannot change their own role"}
)
