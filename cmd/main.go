package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/xuanphong03/nest-auth/config"
	"github.com/xuanphong03/nest-auth/db"
	"github.com/xuanphong03/nest-auth/internal/auth/handler"
	repo "github.com/xuanphong03/nest-auth/internal/auth/repository/postgres"
	"github.com/xuanphong03/nest-auth/internal/auth/service"
)

func main() {
	cfg := config.Load()

	dbPool, err := db.NewPostgresPool(context.Background(), cfg.DBURL)
	if err != nil {
		log.Fatalf("failed to set up database: %v", err)
	}
	defer dbPool.Close()

	userRepo := repo.NewPostgresRepository(dbPool)
	tokenService := service.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessExpiryMin, cfg.RefreshExpiryMin)
	hasher := service.NewBcryptHasher()
	userService := service.NewUserService(userRepo, tokenService, hasher, slog.Default())
	authHandler := handler.NewAuthHandler(userService, tokenService)

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())
	handler.RegisterRoutes(app, authHandler)

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
