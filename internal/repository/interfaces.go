package repository

import (
	"context"
	"errors"
	"time"

	"personal_finance/internal/domain"
)

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetAll(ctx context.Context) ([]*domain.User, error)
	DeleteByUsername(ctx context.Context, username string) error
}

type TransactionRepository interface {
	Save(ctx context.Context, tx *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByUserID(ctx context.Context, userID string) ([]*domain.Transaction, error)
	GetFlaggedByUserID(ctx context.Context, userID string) ([]*domain.Transaction, error)
	CountByUserSince(ctx context.Context, userID string, since time.Time) (int, error)
}

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate entry")
)
