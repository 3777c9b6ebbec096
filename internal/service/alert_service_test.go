package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"personal_finance/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAlertService_DeliversToBothChannels(t *testing.T) {
	email := &MockEmailSender{}
	slack := &MockSlackSender{}
	svc := NewAlertService(email, slack, 2, nil)

	tx := domain.NewTransaction("u1", decimal.NewFromInt(30000), "Luxury")
	tx.ApplyVerdict(0.93, true, []string{"large_amount"})

	if err := svc.QueueFraudAlert(context.Background(), tx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		email.mu.Lock()
		emails := len(email.SentEmails)
		email.mu.Unlock()
		slack.mu.Lock()
		messages := len(slack.SentMessages)
		slack.mu.Unlock()

		if emails == 1 && messages == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("alerts not delivered: emails=%d slack=%d", emails, messages)
		case <-time.After(10 * time.Millisecond):
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := svc.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
}

func TestAlertService_QueueRespectsContext(t *testing.T) {
	// No workers draining and a canceled context: queueing must not hang.
	svc := &AlertService{
		emailSender:  &MockEmailSender{},
		slackSender:  &MockSlackSender{},
		messageQueue: make(chan AlertMessage),
		shutdownChan: make(chan struct{}),
		logger:       discardLogger(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tx := domain.NewTransaction("u1", decimal.NewFromInt(10), "Dining")
	if err := svc.QueueFraudAlert(ctx, tx); err == nil {
		t.Error("expected context error")
	}
}
