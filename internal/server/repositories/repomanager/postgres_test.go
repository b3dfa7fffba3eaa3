package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
)

func TestPostgresManager_UsersNotNil(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	defer db.Close()

	m := NewPostgresRepositoryManager()
	if m.Users(db) == nil {
		t.Fatalf("Users returned nil repository")
	}
}

func TestPostgresManager_RunMigrations_Error(t *testing.T) {
	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	wantErr := errors.New("migrate failed")
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return wantErr
	}

	m := NewPostgresRepositoryManager()
	if err := m.RunMigrations(context.Background(), nil); !errors.Is(err, wantErr) {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}
}

func TestMemoryManager_SharesOneRegistry(t *testing.T) {
	m := NewMemoryRepositoryManager()

	if m.Users(nil) != m.Users(nil) {
		t.Fatalf("expected the same repository instance on every call")
	}
	if err := m.RunMigrations(context.Background(), nil); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
}
