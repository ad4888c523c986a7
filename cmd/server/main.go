// @title           EcomLens API
// @version         1.0
// @description     Product photo studio: upload a product image, render preset or custom styles, download the results.
// @host            localhost:8080
// @schemes         http https
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecomlens/internal/api"
	"ecomlens/internal/bootstrap"
	"ecomlens/internal/config"
	"ecomlens/internal/logging"
	"ecomlens/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "ecomlens/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("cannot load configuration: %v", err)
	}

	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("cannot configure logging: %v", err)
	}
	defer closer.Close()
	slog.SetDefault(logger)

	if cfg.JWT.Secret == "" {
		logger.Error("jwt.secret must be set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := bootstrap.OpenStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("cannot open stores", slog.Any("error", err))
		os.Exit(1)
	}
	defer stores.Close()

	usersSvc, err := bootstrap.NewUsers(cfg, stores, logger)
	if err != nil {
		logger.Error("cannot build user service", slog.Any("error", err))
		os.Exit(1)
	}
	if err := usersSvc.Initialize(ctx); err != nil {
		logger.Error("cannot seed admin", slog.Any("error", err))
		os.Exit(1)
	}

	wsHub := websocket.NewHub(logger)
	go wsHub.Run(ctx.Done())

	studioSvc, err := bootstrap.NewStudio(ctx, cfg, usersSvc, wsHub, logger)
	if err != nil {
		logger.Error("cannot build studio", slog.Any("error", err))
		os.Exit(1)
	}

	server := api.NewServer(cfg, usersSvc, studioSvc, wsHub, logger)
	for name, check := range stores.Checks {
		server.AddHealthCheck(name, check)
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("EcomLens is running. API docs at /swagger/index.html"))
	})
	r.Mount("/api/v1", server.Routes())

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
		}
	}()

	logger.Info("starting server", slog.String("addr", cfg.Server.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
