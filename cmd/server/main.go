package main

import (
	"log"
	"net/http"
	"os"

	"voteapp/docs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"voteapp/internal/auth"
	"voteapp/internal/cache"
	"voteapp/internal/config"
	"voteapp/internal/db"
	"voteapp/internal/handler"
	"voteapp/internal/mailer"
	"voteapp/internal/model"
	"voteapp/internal/repository"
	"voteapp/internal/router"
	"voteapp/internal/service"
)

// @title Vote App Accounts API
// @version 1.0
// @description Account management API for the voting app: registration, token authentication, profile CRUD and password flows.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	cfg := config.Load()

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping users table...")
		if err := gormDB.Migrator().DropTable(&model.User{}); err != nil {
			log.Printf("Warning: Failed to drop table (may not exist): %v", err)
		}
	}

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	rdb := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	cacheClient := cache.New(rdb)

	userRepo := repository.NewUserRepository(gormDB)

	tokenStore := auth.NewTokenStore(rdb, cfg.SessionTTL)
	resetTokens := auth.NewResetTokenService(cfg.ResetSecret)

	var mail mailer.Mailer
	if cfg.MailAPIURL != "" {
		mail = mailer.NewAPIClient(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailFrom, cfg.ResetURL)
	} else {
		log.Println("MAIL_API_URL not set, reset tokens will be logged instead of mailed")
		mail = mailer.LogMailer{}
	}

	userService := service.NewUserService(userRepo, cacheClient)
	authService := service.NewAuthService(userRepo, tokenStore, resetTokens, mail, cacheClient)

	authMW := auth.NewMiddleware(tokenStore, userRepo)

	userHandler := handler.NewUserHandler(userService, tokenStore)
	authHandler := handler.NewAuthHandler(authService)
	adminHandler := handler.NewAdminHandler(userService)

	router.Register(e, cfg, authMW, userHandler, authHandler, adminHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
