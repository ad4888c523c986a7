package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"ecomlens/internal/models"
	"ecomlens/internal/users"

	"github.com/go-chi/chi/v5"
)

type SetLimitRequest struct {
	Limit int `json:"limit" example:"25"`
}

type AdjustLimitRequest struct {
	Delta int `json:"delta" example:"5"`
}

// @Summary      List users
// @Description  Lists every account in insertion order.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.User
// @Failure      401  {string}  string "Unauthorized"
// @Failure      403  {string}  string "Admin access required"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /admin/users [get]
func (s *Server) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	list, err := s.users.ListAllUsers(r.Context())
	if err != nil {
		s.log.Error("failed to list users", slog.Any("error", err))
		http.Error(w, "Failed to list users", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// @Summary      Set a user's daily limit
// @Description  Stores a new daily generation limit. Negative values are stored as 0.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId   path      string           true  "User ID"
// @Param        request  body      SetLimitRequest  true  "New limit"
// @Success      200      {object}  models.User
// @Failure      400      {string}  string "Invalid request body"
// @Failure      403      {string}  string "Admin access required"
// @Failure      404      {string}  string "User not found"
// @Router       /admin/users/{userId}/limit [put]
func (s *Server) SetLimitHandler(w http.ResponseWriter, r *http.Request) {
	var req SetLimitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := s.users.SetLimit(r.Context(), chi.URLParam(r, "userId"), req.Limit)
	s.writeLimitResult(w, user, err)
}

// @Summary      Adjust a user's daily limit
// @Description  Moves the daily limit by delta (the dashboard uses +5 and -5), floored at 0.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId   path      string              true  "User ID"
// @Param        request  body      AdjustLimitRequest  true  "Change to apply"
// @Success      200      {object}  models.User
// @Failure      400      {string}  string "Invalid request body"
// @Failure      403      {string}  string "Admin access required"
// @Failure      404      {string}  string "User not found"
// @Router       /admin/users/{userId}/limit/adjust [post]
func (s *Server) AdjustLimitHandler(w http.ResponseWriter, r *http.Request) {
	var req AdjustLimitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := s.users.AdjustLimit(r.Context(), chi.URLParam(r, "userId"), req.Delta)
	s.writeLimitResult(w, user, err)
}

func (s *Server) writeLimitResult(w http.ResponseWriter, user *models.User, err error) {
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		s.log.Error("failed to update limit", slog.Any("error", err))
		http.Error(w, "Failed to update limit", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
