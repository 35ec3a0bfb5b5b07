package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/whatwillyoucook/backend/config"
	"github.com/whatwillyoucook/backend/internal/api"
	"github.com/whatwillyoucook/backend/internal/database"
	"github.com/whatwillyoucook/backend/internal/router"
	"github.com/whatwillyoucook/backend/internal/server"
	"github.com/whatwillyoucook/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	db, err := database.New(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to Redis")
	}

	s3Config, err := config.NewS3Config(context.Background(), cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize S3 storage")
	}
	if s3Config == nil {
		logrus.Warn("S3 storage not configured; image uploads disabled")
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db)
	savedService := service.NewSavedRecipeService(db)
	imageService := service.NewImageService(s3Config)

	engine := router.Setup(
		cfg,
		api.NewAuthHandler(authService, cfg),
		api.NewRecipeHandler(recipeService, imageService),
		api.NewSavedRecipeHandler(savedService),
		authService,
		redisClient,
	)

	srv := server.New(engine, net.JoinHostPort(cfg.ServerHost, cfg.ServerPort))

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logrus.WithError(err).Fatal("server error")
		}
	case sig := <-quit:
		logrus.WithField("signal", sig.String()).Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("server shutdown error")
	}
	logrus.Info("server stopped")
}
