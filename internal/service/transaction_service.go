package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"personal_finance/internal/domain"
	"personal_finance/internal/fraud"
	"personal_finance/internal/repository"
	"personal_finance/pkg/metrics"
	"personal_finance/pkg/validator"
)

// TransactionService scores every incoming transaction and persists it
// together with its verdict. All transactions are stored, fraudulent or
// not; the verdict travels with the record.
type TransactionService struct {
	txRepo    repository.TransactionRepository
	evaluator fraud.Evaluator
	validator *validator.TransactionValidator
	metrics   *metrics.MetricsCollector
	alerts    *AlertService
	logger    *slog.Logger
}

func NewTransactionService(
	txRepo repository.TransactionRepository,
	evaluator fraud.Evaluator,
	metricsCollector *metrics.MetricsCollector,
	alerts *AlertService,
	logger *slog.Logger,
) *TransactionService {
	if logger == nil {
		logger = slog.Default()
	}

	return &TransactionService{
		txRepo:    txRepo,
		evaluator: evaluator,
		validator: validator.NewTransactionValidator(),
		metrics:   metricsCollector,
		alerts:    alerts,
		logger:    logger,
	}
}

func (s *TransactionService) Add(
	ctx context.Context,
	userID string,
	amount *decimal.Decimal,
	category, description string,
) (*domain.Transaction, error) {
	if err := s.validator.ValidateSubmission(amount, category); err != nil {
		s.recordFailure()
		return nil, fmt.Errorf("%w: %w", fraud.ErrValidation, err)
	}

	tx := domain.NewTransaction(userID, *amount, category).WithDescription(description)

	startTime := time.Now()
	verdict, err := s.evaluator.Evaluate(ctx, fraud.Input{
		UserID:   userID,
		Amount:   amount.InexactFloat64(),
		Category: category,
		Date:     tx.Date,
	})
	if err != nil {
		s.recordFailure()
		return nil, fmt.Errorf("fraud evaluation failed: %w", err)
	}
	duration := time.Since(startTime)

	tx.ApplyVerdict(verdict.Score, verdict.Flagged, verdict.Flags)

	if err := s.txRepo.Save(ctx, tx); err != nil {
		s.recordFailure()
		return nil, fmt.Errorf("failed to persist transaction: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordTransaction(duration, verdict.Score, verdict.Flagged)
	}

	if verdict.Flagged {
		s.logger.WarnContext(ctx, "Transaction flagged as fraudulent",
			slog.String("transaction_id", tx.ID),
			slog.String("user_id", userID),
			slog.Float64("fraud_score", verdict.Score),
			slog.Any("flags", verdict.Flags))
		if s.alerts != nil {
			if err := s.alerts.QueueFraudAlert(ctx, tx); err != nil {
				s.logger.ErrorContext(ctx, "Failed to queue fraud alert",
					slog.String("transaction_id", tx.ID),
					slog.String("error", err.Error()))
			}
		}
	}

	return tx, nil
}

func (s *TransactionService) ListByUser(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	return s.txRepo.GetByUserID(ctx, userID)
}

func (s *TransactionService) FraudAlerts(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	return s.txRepo.GetFlaggedByUserID(ctx, userID)
}

func (s *TransactionService) recordFailure() {
	if s.metrics != nil {
		s.metrics.RecordFailure()
	}
}
