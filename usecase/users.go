package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"famdo/model"
	"famdo/services"

	"github.com/google/uuid"
)

type UsersService struct {
	users UserStore
}

func NewUsersService(users UserStore) *UsersService {
	return &UsersService{users: users}
}

// CreateUser registers a new account with a hashed password. Usernames are
// unique; the store's index backstops a racing duplicate as ErrConflict.
func (svc *UsersService) CreateUser(ctx context.Context, user *model.User) error {
	user.Username = strings.TrimSpace(user.Username)
	if user.Username == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidOperation)
	}

	existing, err := svc.users.FindUserByUsername(ctx, user.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: username already exists", ErrConflict)
	}

	hashed, err := services.HashPassword(user.Password)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOperation, err)
	}
	user.Password = hashed

	if user.UserID == "" {
		user.UserID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	return svc.users.AddUser(ctx, user)
}

// Authenticate verifies the credentials and returns the user record.
func (svc *UsersService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := svc.users.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}

	match, err := services.VerifyPassword(user.Password, password)
	if err != nil || !match {
		return nil, fmt.Errorf("%w: invalid credentials", ErrForbidden)
	}
	return user, nil
}

// GetProfile returns the user record for the profile endpoint.
func (svc *UsersService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	user, err := svc.users.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	return user, nil
}
