package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	httpapi "rentinspect-backend/internal/api/http"
	"rentinspect-backend/internal/config"
	"rentinspect-backend/internal/logger"
	"rentinspect-backend/internal/repository/postgres"
	"rentinspect-backend/internal/security"
	"rentinspect-backend/internal/service"
	"rentinspect-backend/internal/storage"
	"rentinspect-backend/internal/validation"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Rentinspect Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize Storage Service
	var storageService storage.StorageInterface
	if cfg.Storage.Type == "" || cfg.Storage.Type == "local" {
		logger.Info("Using local storage", "upload_dir", cfg.Storage.UploadDir)
		localStorage, err := storage.NewLocalStorageService(cfg.Storage.BaseURL, cfg.Storage.UploadDir)
		if err != nil {
			logger.Error("Failed to initialize local storage", "error", err)
			log.Fatalf("Failed to initialize local storage: %v", err)
		}
		storageService = localStorage
	} else {
		logger.Error("Unsupported storage type", "type", cfg.Storage.Type)
		log.Fatalf("Storage type '%s' not yet implemented", cfg.Storage.Type)
	}

	// Initialize Email Service
	emailSvc := service.NewEmailService(
		cfg.SendGrid.APIKey,
		cfg.SendGrid.FromEmail,
		cfg.SendGrid.FromName,
	)

	// Initialize Services
	photoPolicy := validation.PhotoPolicy{
		MinPhotos:       cfg.Inspection.MinPhotos,
		MaxPhotos:       cfg.Inspection.MaxPhotos,
		RequireLocation: cfg.Inspection.RequireLocation,
	}
	inspectionSvc := service.NewInspectionService(
		store.InspectionRepository,
		store.DisputeRepository,
		store.BookingRepository,
		store.UserRepository,
		store.NotificationRepository,
		emailSvc,
		photoPolicy,
		service.DiscrepancyPolicy(cfg.Inspection.DiscrepancyPolicy),
	)
	disputeSvc := service.NewDisputeService(
		store.InspectionRepository,
		store.DisputeRepository,
		store.UserRepository,
		store.NotificationRepository,
		emailSvc,
	)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	// Wire the gateway
	router := httpapi.NewRouter(inspectionSvc, disputeSvc, noteSvc, storageService, tokenManager)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
