package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	Date        time.Time       `json:"date"`
	IsFraud     bool            `json:"is_fraud"`
	FraudScore  float64         `json:"fraud_score"`
	FraudFlags  []string        `json:"fraud_flags,omitempty"`
}

func NewTransaction(userID string, amount decimal.Decimal, category string) *Transaction {
	return &Transaction{
		ID:       uuid.NewString(),
		UserID:   userID,
		Amount:   amount,
		Category: category,
		Date:     time.Now().UTC(),
	}
}

func (tx *Transaction) WithDescription(desc string) *Transaction {
	tx.Description = desc
	return tx
}

// ApplyVerdict records the scoring outcome. Called exactly once, before the
// transaction is first persisted; the verdict is immutable afterwards.
func (tx *Transaction) ApplyVerdict(score float64, flagged bool, flags []string) {
	tx.FraudScore = score
	tx.IsFraud = flagged
	tx.FraudFlags = flags
}
