package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"todo-api/internal/domain"
	"todo-api/internal/repository"
)

// newTestDB opens a fresh in-memory SQLite database named after the
// test, with foreign keys on so cascades behave like production.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Todo{}))
	return db
}

func newTestServices(t *testing.T) (TodoService, UserService) {
	t.Helper()
	db := newTestDB(t)
	userRepo := repository.NewGormUserRepository(db)
	todoRepo := repository.NewGormTodoRepository(db)
	return NewTodoService(todoRepo, userRepo), NewUserService(userRepo)
}

func createUser(t *testing.T, users UserService, name string) *UserResponse {
	t.Helper()
	user, err := users.Create(context.Background(), CreateUserRequest{Name: name})
	require.NoError(t, err)
	return user
}

func createTodo(t *testing.T, todos TodoService, title string, userID uint) *TodoResponse {
	t.Helper()
	todo, err := todos.Create(context.Background(), CreateTodoRequest{Title: title, UserID: userID})
	require.NoError(t, err)
	return todo
}

func ptr[T any](v T) *T { return &v }
