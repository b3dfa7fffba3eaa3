// Package services holds the application services sitting between the HTTP
// gateway and the repositories.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Lg0ma/MessagesVS/internal/common"
	"github.com/Lg0ma/MessagesVS/internal/dbx"
	"github.com/Lg0ma/MessagesVS/internal/server/auth"
	"github.com/Lg0ma/MessagesVS/internal/server/config"
	"github.com/Lg0ma/MessagesVS/internal/server/models"
	"github.com/Lg0ma/MessagesVS/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// UserService implements registration and login over a user repository.
// db may be nil when the repository manager is memory-backed; in that case
// the repository itself guarantees atomic check-and-insert.
type UserService struct {
	db        *sql.DB
	rm        repomanager.RepositoryManager
	jwtSecret []byte
}

func NewUserService(db *sql.DB, rm repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:        db,
		rm:        rm,
		jwtSecret: []byte(cfg.SecretKey),
	}
}

// Register stores a new account with a bcrypt-hashed password. The username
// check runs before the email check, so when both conflict the caller sees
// common.ErrUsernameTaken. The checks and the insert form one atomic unit:
// a transaction on Postgres, a single critical section in memory.
func (s *UserService) Register(ctx context.Context, username, email, password string) error {

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}

	if s.db == nil {
		_, err := s.rm.Users(nil).Create(ctx, user)
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Users(tx)

		taken, err := repo.UsernameExists(ctx, username)
		if err != nil {
			return common.ErrInternal
		}
		if taken {
			return common.ErrUsernameTaken
		}

		taken, err = repo.EmailExists(ctx, email)
		if err != nil {
			return common.ErrInternal
		}
		if taken {
			return common.ErrEmailTaken
		}

		_, err = repo.Create(ctx, user)
		return err
	})
}

// Login verifies the credentials and issues a session token with the user's
// email as subject. Unknown emails and wrong passwords are distinguishable to
// the gateway via common.ErrUnknownEmail and common.ErrBadCredential.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {

	user, err := s.rm.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", common.ErrUnknownEmail
		}
		return nil, "", common.ErrInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", common.ErrBadCredential
	}

	token, err := auth.GenerateToken(user.Email, s.jwtSecret, auth.TokenValidity)
	if err != nil {
		return nil, "", common.ErrInternal
	}

	return user, token, nil
}
