package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"water-report-service/internal/auth"
	"water-report-service/internal/config"
	"water-report-service/internal/db"
	"water-report-service/internal/logger"
	"water-report-service/internal/model"
	"water-report-service/internal/repository"
	"water-report-service/internal/service"
)

func main() {
	email := flag.String("email", "", "admin email (required)")
	password := flag.String("password", "", "admin password, minimum 8 characters (required)")
	name := flag.String("name", "", "display name")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	adminRepo := repository.NewAdminRepository(database)
	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := service.NewAuthService(adminRepo, tokens)

	profile, err := authService.CreateAdmin(context.Background(), *email, *password, *name, model.AdminRoleAdmin)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create admin user")
	}

	log.Info().Uint("id", profile.ID).Str("email", profile.Email).Msg("admin user created")
}
