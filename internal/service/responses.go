package service

import (
	"time"

	"todo-api/internal/domain"
)

// TodoResponse is the standard representation of a todo returned by the
// service layer. User is present only when the caller asked for the
// owner to be embedded.
type TodoResponse struct {
	ID        uint          `json:"id"`
	Title     string        `json:"title"`
	Completed bool          `json:"completed"`
	UserID    uint          `json:"userId"`
	CreatedAt string        `json:"createdAt"`
	UpdatedAt string        `json:"updatedAt"`
	User      *UserResponse `json:"user,omitempty"`
}

// UserResponse is the standard representation of a user. Todos is
// present only when the caller asked for the todo list to be embedded.
type UserResponse struct {
	ID        uint           `json:"id"`
	Name      string         `json:"name"`
	CreatedAt string         `json:"createdAt"`
	UpdatedAt string         `json:"updatedAt"`
	Todos     []TodoResponse `json:"todos,omitempty"`
}

func newTodoResponse(todo *domain.Todo) *TodoResponse {
	resp := &TodoResponse{
		ID:        todo.ID,
		Title:     todo.Title,
		Completed: todo.Completed,
		UserID:    todo.UserID,
		CreatedAt: todo.CreatedAt.Format(time.RFC3339),
		UpdatedAt: todo.UpdatedAt.Format(time.RFC3339),
	}
	if todo.User != nil {
		resp.User = newUserResponse(todo.User)
	}
	return resp
}

func newUserResponse(user *domain.User) *UserResponse {
	resp := &UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
	for i := range user.Todos {
		resp.Todos = append(resp.Todos, *newTodoResponse(&user.Todos[i]))
	}
	return resp
}
