// internal/handler/auth.go
package handler

import (
	"net/http"

	"github.com/ai4local/ai4local/internal/middleware"
	"github.com/ai4local/ai4local/internal/service"
)

type AuthHandler struct {
	userService *service.UserService
}

func NewAuthHandler(userService *service.UserService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

type AuthResponse struct {
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    *service.UserView `json:"user"`
}

type MeResponse struct {
	User *service.UserView `json:"user"`
}

type RefreshResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

func (h *AuthHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var input service.SignupInput
	if !decodeJSON(w, r, &input) {
		return
	}

	output, err := h.userService.Signup(r.Context(), input)
	if err != nil {
		respondWithServiceError(w, r, "User registration", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, AuthResponse{
		Message: "signup successful",
		Token:   output.Token,
		User:    output.User,
	})
}

func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if !decodeJSON(w, r, &input) {
		return
	}

	output, err := h.userService.Login(r.Context(), input)
	if err != nil {
		respondWithServiceError(w, r, "User login", err)
		return
	}

	respondWithJSON(w, http.StatusOK, AuthResponse{
		Message: "login successful",
		Token:   output.Token,
		User:    output.User,
	})
}

// MeHandler runs behind AuthMiddleware
func (h *AuthHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "token missing")
		return
	}

	user, err := h.userService.Me(r.Context(), claims.UserID)
	if err != nil {
		respondWithServiceError(w, r, "Current user lookup", err)
		return
	}

	respondWithJSON(w, http.StatusOK, MeResponse{User: user})
}

// RefreshHandler accepts expired tokens, so it reads the header itself
// instead of running behind AuthMiddleware.
func (h *AuthHandler) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	token, err := middleware.BearerToken(r)
	if err != nil {
		respondWithServiceError(w, r, "Token refresh", err)
		return
	}

	newToken, err := h.userService.Refresh(r.Context(), token)
	if err != nil {
		respondWithServiceError(w, r, "Token refresh", err)
		return
	}

	respondWithJSON(w, http.StatusOK, RefreshResponse{
		Message: "token refreshed",
		Token:   newToken,
	})
}
