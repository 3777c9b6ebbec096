package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"personal_finance/internal/auth"
	"personal_finance/internal/domain"
	"personal_finance/internal/repository"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type UserService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
	logger   *slog.Logger
}

func NewUserService(userRepo repository.UserRepository, tokens *auth.TokenManager, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}

	return &UserService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

func (s *UserService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := domain.NewUser(username, hash)
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "User registered",
		slog.String("user_id", user.ID),
		slog.String("username", username))

	return user, nil
}

// Login verifies the credentials and returns a signed access token.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Issue(user.ID)
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.GetAll(ctx)
}

func (s *UserService) DeleteByUsername(ctx context.Context, username string) error {
	return s.userRepo.DeleteByUsername(ctx, username)
}
