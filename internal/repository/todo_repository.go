package repository

import (
	"context"

	"gorm.io/gorm"

	"todo-api/internal/domain"
)

// TodoRepository defines the interface for todo data operations.
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) error
	FindByID(ctx context.Context, id uint, withUser bool) (*domain.Todo, error)
	FindAll(ctx context.Context, ownerID uint, withUser bool) ([]domain.Todo, error)
	Save(ctx context.Context, todo *domain.Todo) error
	Delete(ctx context.Context, id uint) error
}

type gormTodoRepository struct {
	db *gorm.DB
}

// NewGormTodoRepository creates a new GORM todo repository.
func NewGormTodoRepository(db *gorm.DB) TodoRepository {
	return &gormTodoRepository{db: db}
}

func (r *gormTodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	return r.db.WithContext(ctx).Create(todo).Error
}

// FindByID retrieves a todo by its ID, optionally preloading its owner.
func (r *gormTodoRepository) FindByID(ctx context.Context, id uint, withUser bool) (*domain.Todo, error) {
	tx := r.db.WithContext(ctx)
	if withUser {
		tx = tx.Preload("User")
	}
	var todo domain.Todo
	if err := tx.First(&todo, id).Error; err != nil {
		return nil, err
	}
	return &todo, nil
}

// FindAll retrieves todos newest-first. ownerID 0 means all owners.
func (r *gormTodoRepository) FindAll(ctx context.Context, ownerID uint, withUser bool) ([]domain.Todo, error) {
	tx := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if withUser {
		tx = tx.Preload("User")
	}
	if ownerID != 0 {
		tx = tx.Where("user_id = ?", ownerID)
	}
	var todos []domain.Todo
	if err := tx.Find(&todos).Error; err != nil {
		return nil, err
	}
	return todos, nil
}

// Save writes all fields of an existing todo, refreshing UpdatedAt.
func (r *gormTodoRepository) Save(ctx context.Context, todo *domain.Todo) error {
	// Omit the association so a preloaded User is never upserted.
	return r.db.WithContext(ctx).Omit("User").Save(todo).Error
}

func (r *gormTodoRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Todo{}, id).Error
}
