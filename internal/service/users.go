package service

import (
	"context"
	"errors"
	"fmt"

	"nextgen_download_bot/internal/model"
	"nextgen_download_bot/internal/repository"
)

// UserService covers user bookkeeping: first-contact registration and
// activity touches.
type UserService struct {
	users UserRepository
}

func NewUserService(users UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetOrCreateUser(ctx context.Context, userID int64, username, firstName string) (*model.User, error) {
	user, err := s.users.GetOrCreateUser(ctx, userID, username, firstName)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
