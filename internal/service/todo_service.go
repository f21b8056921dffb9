package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"todo-api/internal/domain"
	"todo-api/internal/repository"
)

// CreateTodoRequest holds the data needed to create a new todo.
type CreateTodoRequest struct {
	Title     string `json:"title" validate:"required"`
	Completed *bool  `json:"completed"`
	UserID    uint   `json:"userId" validate:"required"`
}

// UpdateTodoRequest holds the data for a partial todo update. Pointers
// distinguish a field being omitted from being set to its zero value.
type UpdateTodoRequest struct {
	Title     *string `json:"title" validate:"omitnil,min=1"`
	Completed *bool   `json:"completed"`
	UserID    *uint   `json:"userId" validate:"omitnil,gt=0"`
}

// TodoService defines the operations for managing todos.
type TodoService interface {
	// Create inserts a new todo after checking the referenced user
	// exists, and returns it with its owner embedded.
	Create(ctx context.Context, req CreateTodoRequest) (*TodoResponse, error)

	// List retrieves todos newest-first, filtered to one owner when
	// ownerID is non-zero.
	List(ctx context.Context, ownerID uint, includeUser bool) ([]TodoResponse, error)

	// Get retrieves a single todo by id.
	Get(ctx context.Context, id uint, includeUser bool) (*TodoResponse, error)

	// Update applies the provided subset of fields to an existing todo.
	Update(ctx context.Context, id uint, req UpdateTodoRequest) (*TodoResponse, error)

	// Delete removes a todo and returns its pre-delete snapshot.
	Delete(ctx context.Context, id uint) (*TodoResponse, error)
}

type todoService struct {
	todos repository.TodoRepository
	users repository.UserRepository
}

// NewTodoService creates a new TodoService backed by the given
// repositories. The user repository serves the owner-existence check.
func NewTodoService(todos repository.TodoRepository, users repository.UserRepository) TodoService {
	return &todoService{
		todos: todos,
		users: users,
	}
}

// ownerExists maps a missing owner row onto ErrUnknownUser.
func (s *todoService) ownerExists(ctx context.Context, userID uint) error {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("checking user %d: %w", userID, err)
	}
	if !ok {
		return fmt.Errorf("user %d: %w", userID, ErrUnknownUser)
	}
	return nil
}

func (s *todoService) Create(ctx context.Context, req CreateTodoRequest) (*TodoResponse, error) {
	if err := checkStruct(req); err != nil {
		return nil, err
	}
	if err := s.ownerExists(ctx, req.UserID); err != nil {
		return nil, err
	}

	todo := &domain.Todo{
		Title:  req.Title,
		UserID: req.UserID,
	}
	if req.Completed != nil {
		todo.Completed = *req.Completed
	}
	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("creating todo: %w", err)
	}

	// Re-read so the response carries the owner and the timestamps the
	// database actually stored.
	created, err := s.todos.FindByID(ctx, todo.ID, true)
	if err != nil {
		return nil, fmt.Errorf("loading created todo %d: %w", todo.ID, err)
	}
	return newTodoResponse(created), nil
}

func (s *todoService) List(ctx context.Context, ownerID uint, includeUser bool) ([]TodoResponse, error) {
	todos, err := s.todos.FindAll(ctx, ownerID, includeUser)
	if err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}
	responses := make([]TodoResponse, 0, len(todos))
	for i := range todos {
		responses = append(responses, *newTodoResponse(&todos[i]))
	}
	return responses, nil
}

func (s *todoService) Get(ctx context.Context, id uint, includeUser bool) (*TodoResponse, error) {
	todo, err := s.todos.FindByID(ctx, id, includeUser)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("todo %d: %w", id, ErrTodoNotFound)
		}
		return nil, fmt.Errorf("fetching todo %d: %w", id, err)
	}
	return newTodoResponse(todo), nil
}

func (s *todoService) Update(ctx context.Context, id uint, req UpdateTodoRequest) (*TodoResponse, error) {
	if err := checkStruct(req); err != nil {
		return nil, err
	}

	todo, err := s.todos.FindByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("todo %d: %w", id, ErrTodoNotFound)
		}
		return nil, fmt.Errorf("fetching todo %d for update: %w", id, err)
	}

	if req.UserID != nil {
		if err := s.ownerExists(ctx, *req.UserID); err != nil {
			return nil, err
		}
		todo.UserID = *req.UserID
	}
	if req.Title != nil {
		todo.Title = *req.Title
	}
	if req.Completed != nil {
		todo.Completed = *req.Completed
	}

	if err := s.todos.Save(ctx, todo); err != nil {
		return nil, fmt.Errorf("updating todo %d: %w", id, err)
	}

	updated, err := s.todos.FindByID(ctx, id, true)
	if err != nil {
		return nil, fmt.Errorf("loading updated todo %d: %w", id, err)
	}
	return newTodoResponse(updated), nil
}

func (s *todoService) Delete(ctx context.Context, id uint) (*TodoResponse, error) {
	// Snapshot before deleting so the caller gets the removed record.
	todo, err := s.todos.FindByID(ctx, id, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("todo %d: %w", id, ErrTodoNotFound)
		}
		return nil, fmt.Errorf("fetching todo %d for deletion: %w", id, err)
	}
	if err := s.todos.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("deleting todo %d: %w", id, err)
	}
	return newTodoResponse(todo), nil
}
