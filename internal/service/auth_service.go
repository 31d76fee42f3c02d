package service

import (
	"context"
	"fmt"

	"focusos/internal/logger"
	"focusos/internal/model"
	"focusos/internal/repository"
)

// AccountLinks reports whether a user has linked Google credentials.
type AccountLinks interface {
	IsConnected(ctx context.Context, userID string) (bool, error)
}

type authService struct {
	userRepo repository.UserRepository
	links    AccountLinks
	logger   *logger.Logger
}

func NewAuthService(userRepo repository.UserRepository, links AccountLinks, logger *logger.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		links:    links,
		logger:   logger,
	}
}

func (s *authService) Me(ctx context.Context, userID string) (*model.User, bool, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	connected, err := s.links.IsConnected(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check linked account: %w", err)
	}
	return user, connected, nil
}
