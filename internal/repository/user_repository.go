package repository

import (
	"context"

	"gorm.io/gorm"

	"todo-api/internal/domain"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint, withTodos bool) (*domain.User, error)
	FindAll(ctx context.Context, withTodos bool) ([]domain.User, error)
	Save(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uint) error
	Exists(ctx context.Context, id uint) (bool, error)
}

type gormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository.
func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *gormUserRepository) FindByID(ctx context.Context, id uint, withTodos bool) (*domain.User, error) {
	tx := r.db.WithContext(ctx)
	if withTodos {
		tx = tx.Preload("Todos", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC, id DESC")
		})
	}
	var user domain.User
	if err := tx.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindAll retrieves users newest-first, optionally with each user's todos.
func (r *gormUserRepository) FindAll(ctx context.Context, withTodos bool) ([]domain.User, error) {
	tx := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if withTodos {
		tx = tx.Preload("Todos", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC, id DESC")
		})
	}
	var users []domain.User
	if err := tx.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *gormUserRepository) Save(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Omit("Todos").Save(user).Error
}

// Delete removes the user row; dependent todos go with it through the
// foreign-key cascade.
func (r *gormUserRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.User{}, id).Error
}

func (r *gormUserRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
