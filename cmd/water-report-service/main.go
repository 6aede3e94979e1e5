package main

import (
	"fmt"
	"os"

	"water-report-service/internal/auth"
	"water-report-service/internal/config"
	"water-report-service/internal/db"
	"water-report-service/internal/geocode"
	httphandler "water-report-service/internal/http"
	"water-report-service/internal/http/middleware"
	"water-report-service/internal/logger"
	"water-report-service/internal/repository"
	"water-report-service/internal/service"
	"water-report-service/internal/storage"
)

func main() {
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

	reportRepo := repository.NewReportRepository(database)
	adminRepo := repository.NewAdminRepository(database)

	geocoder := geocode.NewClient(cfg.Geocode, log)
	photoStore := storage.NewPhotoStore(cfg.Files.UploadDir, cfg.Files.MaxPhotoSize)
	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	reportService := service.NewReportService(
		reportRepo,
		geocoder,
		photoStore,
		cfg.Files.MaxPhotosPerReport,
		cfg.Reports.DeleteWindow,
	)
	statsService := service.NewStatsService(reportRepo)
	authService := service.NewAuthService(adminRepo, tokens)

	handler := httphandler.NewHandler(reportService, statsService, authService, geocoder, database, cfg.Environment, log)
	limiter := middleware.NewRateLimiter(cfg.RateLimit.Window, cfg.RateLimit.MaxRequests)
	router := httphandler.NewRouter(
		handler,
		middleware.Auth(tokens, authService),
		middleware.RateLimit(limiter),
		cfg.Files.UploadDir,
		cfg.Environment,
	)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting water report service")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
