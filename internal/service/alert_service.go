package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"personal_finance/internal/domain"
)

type AlertChannel string

const (
	AlertEmail AlertChannel = "email"
	AlertSlack AlertChannel = "slack"
)

type EmailSender interface {
	SendEmail(to, subject, body string) error
}

type SlackSender interface {
	SendMessage(channel, message string) error
}

type AlertMessage struct {
	Channel   AlertChannel
	Recipient string
	Subject   string
	Message   string
	Metadata  map[string]string
	CreatedAt time.Time
}

// AlertService fans fraud alerts out to the configured channels through
// a small worker pool, so alert delivery never blocks transaction
// processing.
type AlertService struct {
	emailSender  EmailSender
	slackSender  SlackSender
	messageQueue chan AlertMessage
	workers      int
	shutdownChan chan struct{}
	wg           sync.WaitGroup
	logger       *slog.Logger
}

func NewAlertService(emailSender EmailSender, slackSender SlackSender, workers int, logger *slog.Logger) *AlertService {
	if logger == nil {
		logger = slog.Default()
	}

	service := &AlertService{
		emailSender:  emailSender,
		slackSender:  slackSender,
		messageQueue: make(chan AlertMessage, 1000),
		workers:      workers,
		shutdownChan: make(chan struct{}),
		logger:       logger,
	}

	service.startWorkers()

	return service
}

func (s *AlertService) QueueFraudAlert(ctx context.Context, tx *domain.Transaction) error {
	message := fmt.Sprintf(
		"Fraud alert!\nTransaction ID: %s\nUser: %s\nAmount: %s\nCategory: %s\nScore: %.2f\nFlags: %v",
		tx.ID, tx.UserID, tx.Amount.String(), tx.Category, tx.FraudScore, tx.FraudFlags,
	)

	alerts := []AlertMessage{
		{
			Channel:   AlertSlack,
			Recipient: "#fraud-alerts",
			Subject:   "Fraud Alert",
			Message:   message,
			Metadata: map[string]string{
				"transaction_id": tx.ID,
				"fraud_score":    fmt.Sprintf("%.4f", tx.FraudScore),
			},
			CreatedAt: time.Now(),
		},
		{
			Channel:   AlertEmail,
			Recipient: "security@example.com",
			Subject:   fmt.Sprintf("Fraud Alert: %s", tx.ID),
			Message:   message,
			Metadata: map[string]string{
				"transaction_id": tx.ID,
			},
			CreatedAt: time.Now(),
		},
	}

	for _, alert := range alerts {
		select {
		case s.messageQueue <- alert:
			s.logger.Warn("Fraud alert queued",
				slog.String("channel", string(alert.Channel)),
				slog.String("transaction_id", tx.ID))
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

func (s *AlertService) startWorkers() {
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
}

func (s *AlertService) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case msg := <-s.messageQueue:
			s.processAlert(msg, id)
		case <-s.shutdownChan:
			return
		}
	}
}

func (s *AlertService) processAlert(msg AlertMessage, workerID int) {
	var err error

	switch msg.Channel {
	case AlertEmail:
		err = s.emailSender.SendEmail(msg.Recipient, msg.Subject, msg.Message)
	case AlertSlack:
		err = s.slackSender.SendMessage(msg.Recipient, msg.Message)
	default:
		err = fmt.Errorf("unknown alert channel: %s", msg.Channel)
	}

	if err != nil {
		s.logger.Error("Failed to send fraud alert",
			slog.String("channel", string(msg.Channel)),
			slog.String("recipient", msg.Recipient),
			slog.String("error", err.Error()),
			slog.Int("worker_id", workerID))
		return
	}

	s.logger.Info("Fraud alert sent",
		slog.String("channel", string(msg.Channel)),
		slog.String("recipient", msg.Recipient),
		slog.Int("worker_id", workerID))
}

func (s *AlertService) Shutdown(ctx context.Context) error {
	close(s.shutdownChan)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Alert service shutdown complete")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type MockEmailSender struct {
	mu         sync.Mutex
	SentEmails []struct {
		To      string
		Subject string
		Body    string
	}
}

func (m *MockEmailSender) SendEmail(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentEmails = append(m.SentEmails, struct {
		To      string
		Subject string
		Body    string
	}{to, subject, body})
	return nil
}

func (m *MockEmailSender) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SentEmails)
}

type MockSlackSender struct {
	mu           sync.Mutex
	SentMessages []struct {
		Channel string
		Message string
	}
}

func (m *MockSlackSender) SendMessage(channel, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentMessages = append(m.SentMessages, struct {
		Channel string
		Message string
	}{channel, message})
	return nil
}

func (m *MockSlackSender) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SentMessages)
}
