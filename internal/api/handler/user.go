// internal/api/handler/user.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"wakala-ledger/internal/service"
)

// UserHandler handles user registration.
type UserHandler struct {
	responder
	service service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{responder: newResponder(logger), service: svc}
}

// RegisterUserRequest represents the request body for registration.
type RegisterUserRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=16"`
}

// Register creates a user and their profile.
// POST /users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, profile, err := h.service.RegisterUser(r.Context(), req.Username, req.Email, req.PhoneNumber)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"user":    user,
		"profile": profile,
	})
}

// Get returns a user.
// GET /users/{userID}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, user)
}
