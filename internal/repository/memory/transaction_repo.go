package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"personal_finance/internal/domain"
	"personal_finance/internal/repository"
)

type TransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction
	userIndex    map[string][]string
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{
		transactions: make(map[string]*domain.Transaction),
		userIndex:    make(map[string][]string),
	}
}

func (r *TransactionRepository) Save(ctx context.Context, tx *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.transactions[tx.ID]; exists {
		return fmt.Errorf("%w: transaction %s", repository.ErrDuplicate, tx.ID)
	}

	r.transactions[tx.ID] = tx
	r.userIndex[tx.UserID] = append(r.userIndex[tx.UserID], tx.ID)

	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, exists := r.transactions[id]
	if !exists {
		return nil, fmt.Errorf("%w: transaction %s", repository.ErrNotFound, id)
	}
	return tx, nil
}

func (r *TransactionRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Transaction, 0, len(r.userIndex[userID]))
	for _, id := range r.userIndex[userID] {
		result = append(result, r.transactions[id])
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})

	return result, nil
}

func (r *TransactionRepository) GetFlaggedByUserID(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.Transaction
	for _, id := range r.userIndex[userID] {
		if tx := r.transactions[id]; tx.IsFraud {
			result = append(result, tx)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})

	return result, nil
}

func (r *TransactionRepository) CountByUserSince(ctx context.Context, userID string, since time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int
	for _, id := range r.userIndex[userID] {
		if !r.transactions[id].Date.Before(since) {
			count++
		}
	}

	return count, nil
}
