package server

import (
	"net/http"

	"todo-api/internal/service"
)

func (s *Server) createUserHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.userService.Create(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, "Failed to create user")
		return
	}
	respondWithJSON(w, http.StatusCreated, user)
}

func (s *Server) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	includeTodos, err := boolQuery(r, "includeTodos", false)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	users, err := s.userService.List(r.Context(), includeTodos)
	if err != nil {
		respondServiceError(w, err, "Failed to retrieve users")
		return
	}
	respondWithJSON(w, http.StatusOK, users)
}

func (s *Server) getUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	includeTodos, err := boolQuery(r, "includeTodos", false)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.userService.Get(r.Context(), id, includeTodos)
	if err != nil {
		respondServiceError(w, err, "Failed to retrieve user")
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

func (s *Server) updateUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req service.UpdateUserRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.userService.Update(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, err, "Failed to update user")
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

func (s *Server) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.userService.Delete(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "Failed to delete user")
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}
