package server

import (
	"net/http"

	"todo-api/internal/service"
)

func (s *Server) createTodoHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTodoRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	todo, err := s.todoService.Create(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, "Failed to create todo")
		return
	}
	respondWithJSON(w, http.StatusCreated, todo)
}

func (s *Server) listTodosHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, err := uintQuery(r, "userId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	includeUser, err := boolQuery(r, "includeUser", true)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	todos, err := s.todoService.List(r.Context(), ownerID, includeUser)
	if err != nil {
		respondServiceError(w, err, "Failed to retrieve todos")
		return
	}
	respondWithJSON(w, http.StatusOK, todos)
}

func (s *Server) getTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	includeUser, err := boolQuery(r, "includeUser", true)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	todo, err := s.todoService.Get(r.Context(), id, includeUser)
	if err != nil {
		respondServiceError(w, err, "Failed to retrieve todo")
		return
	}
	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) updateTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req service.UpdateTodoRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	todo, err := s.todoService.Update(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, err, "Failed to update todo")
		return
	}
	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) deleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	todo, err := s.todoService.Delete(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "Failed to delete todo")
		return
	}
	respondWithJSON(w, http.StatusOK, todo)
}
