// Package repomanager vends repository implementations for a chosen storage
// backend and exposes the schema migration hook.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/Lg0ma/MessagesVS/internal/dbx"
	"github.com/Lg0ma/MessagesVS/internal/server/repositories/users"
)

// RepositoryManager constructs repositories bound to a database handle.
// Implementations exist for PostgreSQL and for process memory.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
