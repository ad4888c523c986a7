package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"ecomlens/internal/config"
	"ecomlens/internal/studio"
	"ecomlens/internal/users"
	"ecomlens/internal/websocket"
)

// Pinger is a dependency checked by /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	config *config.Config
	users  *users.Service
	studio *studio.Service
	wsHub  *websocket.Hub
	log    *slog.Logger
	checks map[string]Pinger
}

func NewServer(cfg *config.Config, usersSvc *users.Service, studioSvc *studio.Service, wsHub *websocket.Hub, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config: cfg,
		users:  usersSvc,
		studio: studioSvc,
		wsHub:  wsHub,
		log:    logger,
		checks: map[string]Pinger{},
	}
}

// AddHealthCheck registers a dependency reported by /health.
func (s *Server) AddHealthCheck(name string, p Pinger) {
	s.checks[name] = p
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
