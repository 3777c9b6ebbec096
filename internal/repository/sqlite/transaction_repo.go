package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"personal_finance/internal/domain"
	"personal_finance/internal/repository"
)

type TransactionRepository struct {
	db *sql.DB
}

func (r *TransactionRepository) Save(ctx context.Context, tx *domain.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, amount, category, description, date, is_fraud, fraud_score, fraud_flags)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.UserID, tx.Amount.String(), tx.Category, tx.Description, tx.Date,
		tx.IsFraud, tx.FraudScore, strings.Join(tx.FraudFlags, ","),
	)
	if isConstraintViolation(err) {
		return fmt.Errorf("%w: transaction %s", repository.ErrDuplicate, tx.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, amount, category, description, date, is_fraud, fraud_score, fraud_flags
		 FROM transactions WHERE id = ?`, id)

	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: transaction %s", repository.ErrNotFound, id)
	}
	return tx, err
}

func (r *TransactionRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	return r.query(ctx,
		`SELECT id, user_id, amount, category, description, date, is_fraud, fraud_score, fraud_flags
		 FROM transactions WHERE user_id = ? ORDER BY date`, userID)
}

func (r *TransactionRepository) GetFlaggedByUserID(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	return r.query(ctx,
		`SELECT id, user_id, amount, category, description, date, is_fraud, fraud_score, fraud_flags
		 FROM transactions WHERE user_id = ? AND is_fraud = 1 ORDER BY date`, userID)
}

func (r *TransactionRepository) CountByUserSince(ctx context.Context, userID string, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE user_id = ? AND date >= ?`,
		userID, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

func (r *TransactionRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, tx)
	}

	return result, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (*domain.Transaction, error) {
	var (
		tx          domain.Transaction
		amount      string
		description sql.NullString
		flags       sql.NullString
	)

	err := row.Scan(&tx.ID, &tx.UserID, &amount, &tx.Category, &description,
		&tx.Date, &tx.IsFraud, &tx.FraudScore, &flags)
	if err != nil {
		return nil, err
	}

	tx.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored amount %q: %w", amount, err)
	}
	tx.Description = description.String
	if flags.Valid && flags.String != "" {
		tx.FraudFlags = strings.Split(flags.String, ",")
	}

	return &tx, nil
}
