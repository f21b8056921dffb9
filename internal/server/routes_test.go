package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"todo-api/internal/database"
	"todo-api/internal/domain"
	"todo-api/internal/repository"
	"todo-api/internal/service"
)

func newTestHandler(t *testing.T) http.Handler {
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

	userRepo := repository.NewGormUserRepository(db)
	todoRepo := repository.NewGormTodoRepository(db)
	s := &Server{
		todoService: service.NewTodoService(todoRepo, userRepo),
		userService: service.NewUserService(userRepo),
		db:          database.NewWithDB(db),
	}
	return s.RegisterRoutes()
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "up", body["status"])
}

// Mirrors the basic lifecycle: create a user, create a todo for it,
// complete the todo, then delete the user and watch the todo go away.
func TestTodoLifecycle(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(t, h, http.MethodPost, "/users", `{"name":"Ann"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	user := decodeBody[service.UserResponse](t, rec)
	assert.Equal(t, uint(1), user.ID)
	assert.Equal(t, "Ann", user.Name)
	assert.NotEmpty(t, user.CreatedAt)

	rec = doRequest(t, h, http.MethodPost, "/todos", `{"title":"Buy milk","userId":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	todo := decodeBody[service.TodoResponse](t, rec)
	assert.Equal(t, uint(1), todo.ID)
	assert.Equal(t, "Buy milk", todo.Title)
	assert.False(t, todo.Completed)
	assert.Equal(t, uint(1), todo.UserID)
	require.NotNil(t, todo.User)
	assert.Equal(t, "Ann", todo.User.Name)

	// Round-trip: the created todo reads back identically.
	rec = doRequest(t, h, http.MethodGet, "/todos/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := decodeBody[service.TodoResponse](t, rec)
	assert.Equal(t, todo.ID, fetched.ID)
	assert.Equal(t, todo.Title, fetched.Title)
	assert.Equal(t, todo.Completed, fetched.Completed)
	assert.Equal(t, todo.CreatedAt, fetched.CreatedAt)

	// Repeating the read returns identical content.
	rec = doRequest(t, h, http.MethodGet, "/todos/1", "")
	again := decodeBody[service.TodoResponse](t, rec)
	assert.Equal(t, fetched, again)

	rec = doRequest(t, h, http.MethodPatch, "/todos/1", `{"completed":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	patched := decodeBody[service.TodoResponse](t, rec)
	assert.True(t, patched.Completed)
	assert.Equal(t, "Buy milk", patched.Title)

	rec = doRequest(t, h, http.MethodDelete, "/users/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	deleted := decodeBody[service.UserResponse](t, rec)
	assert.Equal(t, uint(1), deleted.ID)

	rec = doRequest(t, h, http.MethodGet, "/todos/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateTodoUnknownUser(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(t, h, http.MethodPost, "/todos", `{"title":"X","userId":999}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Contains(t, body["error"], "user")

	// No row may be persisted.
	rec = doRequest(t, h, http.MethodGet, "/todos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	todos := decodeBody[[]service.TodoResponse](t, rec)
	assert.Empty(t, todos)
}

func TestCreateTodoValidation(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(t, h, http.MethodPost, "/todos", `{"userId":1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Contains(t, body["error"], "title")
}

func TestRejectUnknownBodyFields(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(t, h, http.MethodPost, "/users", `{"name":"Ann","role":"admin"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Contains(t, body["error"], "unknown field")
}

func TestRejectMalformedBodies(t *testing.T) {
	h := newTestHandler(t)

	for name, body := range map[string]string{
		"empty":      "",
		"badJSON":    `{"name":`,
		"wrongType":  `{"name":42}`,
		"twoObjects": `{"name":"Ann"}{"name":"Bob"}`,
	} {
		rec := doRequest(t, h, http.MethodPost, "/users", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "case %s", name)
	}
}

func TestRejectNonIntegerID(t *testing.T) {
	h := newTestHandler(t)

	for _, path := range []string{"/todos/abc", "/todos/1.5", "/todos/0", "/users/abc"} {
		rec := doRequest(t, h, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, "path %s", path)
	}
}

func TestRejectBadQueryParams(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/todos?includeUser=banana", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/todos?userId=banana", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/users?includeTodos=banana", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNotFoundStatuses(t *testing.T) {
	h := newTestHandler(t)

	cases := []struct {
		method, path, body string
	}{
		{http.MethodGet, "/todos/42", ""},
		{http.MethodPatch, "/todos/42", `{"completed":true}`},
		{http.MethodDelete, "/todos/42", ""},
		{http.MethodGet, "/users/42", ""},
		{http.MethodPatch, "/users/42", `{"name":"X"}`},
		{http.MethodDelete, "/users/42", ""},
	}
	for _, tc := range cases {
		rec := doRequest(t, h, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusNotFound, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestListTodosFilterAndInclude(t *testing.T) {
	h := newTestHandler(t)

	doRequest(t, h, http.MethodPost, "/users", `{"name":"Ann"}`)
	doRequest(t, h, http.MethodPost, "/users", `{"name":"Bob"}`)
	doRequest(t, h, http.MethodPost, "/todos", `{"title":"one","userId":1}`)
	doRequest(t, h, http.MethodPost, "/todos", `{"title":"two","userId":2}`)
	doRequest(t, h, http.MethodPost, "/todos", `{"title":"three","userId":1}`)

	// Default embeds the owner.
	rec := doRequest(t, h, http.MethodGet, "/todos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	todos := decodeBody[[]service.TodoResponse](t, rec)
	require.Len(t, todos, 3)
	assert.Equal(t, "three", todos[0].Title, "listing must be newest-first")
	require.NotNil(t, todos[0].User)

	rec = doRequest(t, h, http.MethodGet, "/todos?userId=1&includeUser=false", "")
	todos = decodeBody[[]service.TodoResponse](t, rec)
	require.Len(t, todos, 2)
	for _, todo := range todos {
		assert.Equal(t, uint(1), todo.UserID)
		assert.Nil(t, todo.User)
	}
}

func TestListUsersIncludeTodos(t *testing.T) {
	h := newTestHandler(t)

	doRequest(t, h, http.MethodPost, "/users", `{"name":"Ann"}`)
	doRequest(t, h, http.MethodPost, "/todos", `{"title":"one","userId":1}`)

	// Default leaves todos out.
	rec := doRequest(t, h, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	users := decodeBody[[]service.UserResponse](t, rec)
	require.Len(t, users, 1)
	assert.Empty(t, users[0].Todos)

	rec = doRequest(t, h, http.MethodGet, "/users?includeTodos=true", "")
	users = decodeBody[[]service.UserResponse](t, rec)
	require.Len(t, users, 1)
	require.Len(t, users[0].Todos, 1)
	assert.Equal(t, "one", users[0].Todos[0].Title)

	rec = doRequest(t, h, http.MethodGet, "/users/1?includeTodos=true", "")
	user := decodeBody[service.UserResponse](t, rec)
	require.Len(t, user.Todos, 1)
}

func TestDeleteTodoReturnsSnapshot(t *testing.T) {
	h := newTestHandler(t)

	doRequest(t, h, http.MethodPost, "/users", `{"name":"Ann"}`)
	doRequest(t, h, http.MethodPost, "/todos", `{"title":"Buy milk","userId":1}`)

	rec := doRequest(t, h, http.MethodDelete, "/todos/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	deleted := decodeBody[service.TodoResponse](t, rec)
	assert.Equal(t, uint(1), deleted.ID)
	assert.Equal(t, "Buy milk", deleted.Title)

	rec = doRequest(t, h, http.MethodGet, "/todos/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserDeleteCascadesOverHTTP(t *testing.T) {
	h := newTestHandler(t)

	doRequest(t, h, http.MethodPost, "/users", `{"name":"Ann"}`)
	for i := 0; i < 3; i++ {
		rec := doRequest(t, h, http.MethodPost, "/todos", fmt.Sprintf(`{"title":"todo %d","userId":1}`, i))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doRequest(t, h, http.MethodDelete, "/users/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	for id := 1; id <= 3; id++ {
		rec := doRequest(t, h, http.MethodGet, fmt.Sprintf("/todos/%d", id), "")
		assert.Equal(t, http.StatusNotFound, rec.Code, "todo %d must be gone", id)
	}
	rec = doRequest(t, h, http.MethodGet, "/todos", "")
	todos := decodeBody[[]service.TodoResponse](t, rec)
	assert.Empty(t, todos)
}

func TestPatchUserRename(t *testing.T) {
	h := newTestHandler(t)

	doRequest(t, h, http.MethodPost, "/users", `{"name":"Ann"}`)

	rec := doRequest(t, h, http.MethodPatch, "/users/1", `{"name":"Anne"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	user := decodeBody[service.UserResponse](t, rec)
	assert.Equal(t, "Anne", user.Name)

	// Empty patch object is a no-op.
	rec = doRequest(t, h, http.MethodPatch, "/users/1", `{}`)
	require.Equal(t, http.StatusOK, rec.Code)
	user = decodeBody[service.UserResponse](t, rec)
	assert.Equal(t, "Anne", user.Name)
}
