package users

import (
	"context"
	"sync"
	"time"

	"github.com/Lg0ma/MessagesVS/internal/common"
	"github.com/Lg0ma/MessagesVS/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps users in process memory. Create checks both
// uniqueness constraints and inserts under one lock, so it is an atomic
// insert-if-absent and needs no surrounding transaction.
type MemoryRepository struct {
	mu      sync.RWMutex
	byName  map[string]*models.User
	byEmail map[string]*models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byName:  make(map[string]*models.User),
		byEmail: make(map[string]*models.User),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Username conflict is reported first even when both collide.
	if _, ok := r.byName[user.Username]; ok {
		return nil, common.ErrUsernameTaken
	}
	if _, ok := r.byEmail[user.Email]; ok {
		return nil, common.ErrEmailTaken
	}

	stored := *user
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}

	r.byName[stored.Username] = &stored
	r.byEmail[stored.Email] = &stored

	out := stored
	return &out, nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}

	out := *user
	return &out, nil
}

func (r *MemoryRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byName[username]
	return ok, nil
}

func (r *MemoryRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byEmail[email]
	return ok, nil
}
