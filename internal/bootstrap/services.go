package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"ecomlens/internal/config"
	"ecomlens/internal/generation"
	"ecomlens/internal/studio"
	"ecomlens/internal/users"
)

func NewUsers(cfg *config.Config, st *Stores, log *slog.Logger) (*users.Service, error) {
	loc, err := cfg.Quota.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid quota timezone: %w", err)
	}
	return users.NewService(st.Users, st.Sessions, users.Options{
		DefaultLimit: &cfg.Quota.DefaultLimit,
		AdminEmail:   cfg.Quota.AdminEmail,
		AdminLimit:   cfg.Quota.AdminLimit,
		Location:     loc,
		Logger:       log,
	}), nil
}

func NewStudio(ctx context.Context, cfg *config.Config, usersSvc *users.Service, notifier studio.Notifier, log *slog.Logger) (*studio.Service, error) {
	gen, err := generation.NewClient(ctx, cfg.Generation.APIKey,
		generation.WithBaseURL(cfg.Generation.BaseURL),
		generation.WithModel(cfg.Generation.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("generation client: %w", err)
	}
	return studio.NewService(gen, usersSvc, studio.Options{
		WorkspaceTTL: cfg.Workspace.TTL,
		Notifier:     notifier,
		Logger:       log,
	})
}
