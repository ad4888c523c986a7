package api

import (
	"ecomlens/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes builds the /api/v1 router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(metrics.HTTPMetricsMiddleware)

	r.Post("/auth/signup", s.SignupHandler)
	r.Post("/auth/login", s.LoginHandler)
	r.Get("/presets", s.ListPresetsHandler)
	r.Get("/health", s.HealthCheckHandler)
	r.Get("/ws", s.ServeWsHandler)

	r.Group(func(r chi.Router) {
		r.Use(s.AuthMiddleware)

		r.Post("/auth/logout", s.LogoutHandler)
		r.Get("/me", s.GetCurrentUserHandler)
		r.Put("/workspace/image", s.UploadImageHandler)
		r.Delete("/workspace", s.ClearWorkspaceHandler)
		r.Post("/generate/batch", s.GenerateBatchHandler)
		r.Post("/generate/custom", s.GenerateCustomHandler)
		r.Get("/assets", s.ListAssetsHandler)
		r.Get("/assets/{assetId}/download", s.DownloadAssetHandler)

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.AdminMiddleware)
			r.Get("/users", s.ListUsersHandler)
			r.Put("/users/{userId}/limit", s.SetLimitHandler)
			r.Post("/users/{userId}/limit/adjust", s.AdjustLimitHandler)
		})
	})

	return r
}
