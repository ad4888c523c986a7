package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"ecomlens/internal/auth"
	"ecomlens/internal/models"
	"ecomlens/internal/users"

	"github.com/google/uuid"
)

type CredentialsRequest struct {
	Email    string `json:"email" example:"shop@example.com"`
	Password string `json:"password,omitempty" example:"password123"`
}

type TokenResponse struct {
	AccessToken string       `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9...."`
	User        *models.User `json:"user"`
}

func (s *Server) issueToken(w http.ResponseWriter, status int, user *models.User, sessionID string) {
	token, err := auth.GenerateJWT(user, sessionID, s.config.JWT.Secret, s.config.JWT.TTL)
	if err != nil {
		s.log.Error("failed to sign token", slog.String("user_id", user.ID), slog.Any("error", err))
		http.Error(w, "Failed to generate access token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, status, TokenResponse{AccessToken: token, User: user})
}

// @Summary      Sign up
// @Description  Creates a standard account with the default daily limit and starts a session for it.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      CredentialsRequest  true  "Email and optional password"
// @Success      201          {object}  TokenResponse
// @Failure      400          {string}  string "Invalid email address"
// @Failure      409          {string}  string "User already exists"
// @Failure      500          {string}  string "Internal Server Error"
// @Router       /auth/signup [post]
func (s *Server) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sessionID := uuid.NewString()
	user, err := s.users.Signup(r.Context(), sessionID, req.Email, req.Password)
	switch {
	case errors.Is(err, users.ErrInvalidEmail):
		http.Error(w, "Invalid email address", http.StatusBadRequest)
		return
	case errors.Is(err, users.ErrDuplicateUser):
		http.Error(w, "User already exists", http.StatusConflict)
		return
	case err != nil:
		s.log.Error("signup failed", slog.Any("error", err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.issueToken(w, http.StatusCreated, user, sessionID)
}

// @Summary      Log in
// @Description  Starts a session for an existing account. Accounts created without a password log in by email alone.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      CredentialsRequest  true  "Email and password"
// @Success      200          {object}  TokenResponse
// @Failure      400          {string}  string "Invalid request body"
// @Failure      401          {string}  string "Invalid email or password"
// @Failure      500          {string}  string "Internal Server Error"
// @Router       /auth/login [post]
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sessionID := uuid.NewString()
	user, err := s.users.Login(r.Context(), sessionID, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) || errors.Is(err, users.ErrInvalidCredentials) {
			http.Error(w, "Invalid email or password", http.StatusUnauthorized)
			return
		}
		s.log.Error("login failed", slog.Any("error", err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.issueToken(w, http.StatusOK, user, sessionID)
}

// @Summary      Log out
// @Description  Ends the current session and discards its workspace.
// @Tags         auth
// @Security     BearerAuth
// @Success      204  {null}    nil "No Content"
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /auth/logout [post]
func (s *Server) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())

	if err := s.users.Logout(r.Context(), claims.SessionID); err != nil {
		s.log.Error("logout failed", slog.Any("error", err))
		http.Error(w, "Failed to log out", http.StatusInternalServerError)
		return
	}
	s.studio.Clear(claims.SessionID)

	w.WriteHeader(http.StatusNoContent)
}
