package fraud

import (
	"context"
	"fmt"
	"slices"
	"time"
)

const (
	// ruleAmountLimit is a strict bound: exactly 5000 passes, 5001 does not.
	ruleAmountLimit = 5000.0

	// ruleBurstWindow and ruleBurstLimit flag a 6th transaction by the
	// same user within the trailing minute. The count covers persisted
	// transactions only; the in-flight one is excluded from it.
	ruleBurstWindow = 60 * time.Second
	ruleBurstLimit  = 5
)

var disallowedCategories = []string{"Gambling", "Luxury", "High-Risk Investment"}

// TransactionCounter is the slice of transaction storage the rule
// evaluator needs: how many transactions a user has on record since a
// point in time.
type TransactionCounter interface {
	CountByUserSince(ctx context.Context, userID string, since time.Time) (int, error)
}

type rulePattern struct {
	name   string
	detect func(ctx context.Context, in Input) (bool, error)
}

// RuleEvaluator is the deterministic, history-aware fallback behind the
// same Evaluator contract as the model engine. Unlike the engine it may
// block on the storage layer for the burst-window count.
type RuleEvaluator struct {
	counter  TransactionCounter
	patterns []rulePattern
	now      func() time.Time
}

func NewRuleEvaluator(counter TransactionCounter) *RuleEvaluator {
	ev := &RuleEvaluator{
		counter: counter,
		now:     time.Now,
	}
	ev.patterns = []rulePattern{
		{
			name: "large_amount",
			detect: func(_ context.Context, in Input) (bool, error) {
				return in.Amount > ruleAmountLimit, nil
			},
		},
		{
			name:   "transaction_burst",
			detect: ev.detectBurst,
		},
		{
			name: "disallowed_category",
			detect: func(_ context.Context, in Input) (bool, error) {
				return slices.Contains(disallowedCategories, in.Category), nil
			},
		},
	}
	return ev
}

func (ev *RuleEvaluator) Evaluate(ctx context.Context, in Input) (Verdict, error) {
	if err := validateInput(in); err != nil {
		return Verdict{}, err
	}

	var flags []string
	for _, pattern := range ev.patterns {
		detected, err := pattern.detect(ctx, in)
		if err != nil {
			return Verdict{}, fmt.Errorf("rule %s failed: %w", pattern.name, err)
		}
		if detected {
			flags = append(flags, pattern.name)
		}
	}

	if len(flags) == 0 {
		return Verdict{Score: 0}, nil
	}
	return Verdict{Score: 1, Flagged: true, Flags: flags}, nil
}

func (ev *RuleEvaluator) detectBurst(ctx context.Context, in Input) (bool, error) {
	if ev.counter == nil || in.UserID == "" {
		return false, nil
	}

	count, err := ev.counter.CountByUserSince(ctx, in.UserID, ev.now().Add(-ruleBurstWindow))
	if err != nil {
		return false, err
	}
	return count > ruleBurstLimit, nil
}
