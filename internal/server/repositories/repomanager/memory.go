package repomanager

import (
	"context"
	"database/sql"

	"github.com/Lg0ma/MessagesVS/internal/dbx"
	"github.com/Lg0ma/MessagesVS/internal/server/repositories/users"
)

// MemoryRepositoryManager vends in-memory repositories. The same repository
// instance backs every Users call so all callers share one registry.
type MemoryRepositoryManager struct {
	users *users.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{users: users.NewMemoryRepository()}
}

func (m *MemoryRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return m.users
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}
