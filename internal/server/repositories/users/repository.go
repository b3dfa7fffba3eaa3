// Package users stores registered accounts and enforces username/email
// uniqueness.
package users

import (
	"context"

	"github.com/Lg0ma/MessagesVS/internal/server/models"
)

// Repository is the persistence contract for user accounts.
//
// Create must be combined with the existence checks inside one atomic unit by
// the caller (a transaction for the Postgres implementation, a single critical
// section for the in-memory one), so that two concurrent registrations with
// the same username or email cannot both succeed.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}
