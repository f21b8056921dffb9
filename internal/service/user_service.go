package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"todo-api/internal/domain"
	"todo-api/internal/repository"
)

// CreateUserRequest holds the data needed to create a new user.
type CreateUserRequest struct {
	Name string `json:"name" validate:"required"`
}

// UpdateUserRequest holds the data for a partial user update.
type UpdateUserRequest struct {
	Name *string `json:"name" validate:"omitnil,min=1"`
}

// UserService defines the operations for managing users.
type UserService interface {
	Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	List(ctx context.Context, includeTodos bool) ([]UserResponse, error)
	Get(ctx context.Context, id uint, includeTodos bool) (*UserResponse, error)
	Update(ctx context.Context, id uint, req UpdateUserRequest) (*UserResponse, error)

	// Delete removes a user and returns its pre-delete snapshot with
	// the todos that went down with it. The cascade itself is the
	// storage layer's job.
	Delete(ctx context.Context, id uint) (*UserResponse, error)
}

type userService struct {
	users repository.UserRepository
}

// NewUserService creates a new UserService backed by the given repository.
func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	if err := checkStruct(req); err != nil {
		return nil, err
	}

	user := &domain.User{Name: req.Name}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return newUserResponse(user), nil
}

func (s *userService) List(ctx context.Context, includeTodos bool) ([]UserResponse, error) {
	users, err := s.users.FindAll(ctx, includeTodos)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *newUserResponse(&users[i]))
	}
	return responses, nil
}

func (s *userService) Get(ctx context.Context, id uint, includeTodos bool) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, id, includeTodos)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, ErrUserNotFound)
		}
		return nil, fmt.Errorf("fetching user %d: %w", id, err)
	}
	return newUserResponse(user), nil
}

func (s *userService) Update(ctx context.Context, id uint, req UpdateUserRequest) (*UserResponse, error) {
	if err := checkStruct(req); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, ErrUserNotFound)
		}
		return nil, fmt.Errorf("fetching user %d for update: %w", id, err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("updating user %d: %w", id, err)
	}
	return newUserResponse(user), nil
}

func (s *userService) Delete(ctx context.Context, id uint) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, id, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, ErrUserNotFound)
		}
		return nil, fmt.Errorf("fetching user %d for deletion: %w", id, err)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("deleting user %d: %w", id, err)
	}
	return newUserResponse(user), nil
}
