package api

import (
	"log/slog"
	"net/http"

	"ecomlens/internal/auth"
	"ecomlens/internal/websocket"
)

// @Summary      Progress stream
// @Description  Upgrades to a websocket that receives per-style generation progress for the token's user.
// @Tags         studio
// @Param        token  query  string  true  "Access token"
// @Success      101    {null}  nil "Switching Protocols"
// @Failure      401    {string}  string "Unauthorized"
// @Router       /ws [get]
func (s *Server) ServeWsHandler(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		http.Error(w, "Token required", http.StatusUnauthorized)
		return
	}

	claims, err := auth.VerifyJWT(tokenString, s.config.JWT.Secret)
	if err != nil {
		s.log.Debug("websocket attempt with invalid token", slog.Any("error", err))
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return
	}

	user, err := s.users.Current(r.Context(), claims.SessionID)
	if err != nil || user == nil {
		http.Error(w, "Session expired or user no longer exists", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := websocket.NewClient(s.wsHub, conn, user.ID)
	s.wsHub.Register <- client

	go client.ReadPump()
	go client.WritePump()
}
