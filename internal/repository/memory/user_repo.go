package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"personal_finance/internal/domain"
	"personal_finance/internal/repository"
)

type UserRepository struct {
	mu            sync.RWMutex
	users         map[string]*domain.User
	usernameIndex map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:         make(map[string]*domain.User),
		usernameIndex: make(map[string]string),
	}
}

func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.ID]; exists {
		return fmt.Errorf("%w: user %s", repository.ErrDuplicate, user.ID)
	}
	if _, exists := r.usernameIndex[user.Username]; exists {
		return fmt.Errorf("%w: username %s", repository.ErrDuplicate, user.Username)
	}

	r.users[user.ID] = user
	r.usernameIndex[user.Username] = user.ID

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, fmt.Errorf("%w: user %s", repository.ErrNotFound, id)
	}
	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.usernameIndex[username]
	if !exists {
		return nil, fmt.Errorf("%w: username %s", repository.ErrNotFound, username)
	}
	return r.users[id], nil
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		result = append(result, user)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

func (r *UserRepository) DeleteByUsername(ctx context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, exists := r.usernameIndex[username]
	if !exists {
		return fmt.Errorf("%w: username %s", repository.ErrNotFound, username)
	}

	delete(r.users, id)
	delete(r.usernameIndex, username)

	return nil
}
