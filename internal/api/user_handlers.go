package api

import (
	"net/http"

	"ecomlens/internal/models"
	"ecomlens/internal/users"
)

type MeResponse struct {
	User      *models.User `json:"user"`
	Remaining int          `json:"remaining" example:"3"`
	Allowed   bool         `json:"allowed" example:"true"`
	HasSource bool         `json:"has_source" example:"false"`
}

// @Summary      Get current user
// @Description  Returns the logged-in user's record, re-read from the store with the daily reset applied.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  MeResponse
// @Failure      401  {string}  string "Unauthorized"
// @Router       /me [get]
func (s *Server) GetCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	claims := GetClaimsFromContext(r.Context())

	writeJSON(w, http.StatusOK, MeResponse{
		User:      user,
		Remaining: user.Remaining(),
		Allowed:   users.IsAllowed(user),
		HasSource: s.studio.HasSource(claims.SessionID),
	})
}
