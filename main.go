package main

import (
	"context"

	api "github.com/maniishbhandarii/learning-backend-app/cmd/api"
	authdomain "github.com/maniishbhandarii/learning-backend-app/internal/auth/domain"
	authRepo "github.com/maniishbhandarii/learning-backend-app/internal/auth/repository"
	authUsecase "github.com/maniishbhandarii/learning-backend-app/internal/auth/usecase"
	"github.com/maniishbhandarii/learning-backend-app/pkg/config"
	"github.com/maniishbhandarii/learning-backend-app/pkg/database"
	"github.com/maniishbhandarii/learning-backend-app/pkg/logger"
	"github.com/maniishbhandarii/learning-backend-app/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info")
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(cfg.LogLevel)

	db, err := database.NewPostgresConnection(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := db.AutoMigrate(&authdomain.User{}); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	uploader, err := storage.NewS3Uploader(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize media storage")
	}

	userRepo := authRepo.NewUserRepository(db)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, uploader, cfg, log)

	handler := api.NewHandler(authUsecaseInstance, cfg, log)

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
