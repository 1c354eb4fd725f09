package main

import (
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/vidarr1412/projectFacebook-MarketPlace/config"
	"github.com/vidarr1412/projectFacebook-MarketPlace/internal/api"
	"github.com/vidarr1412/projectFacebook-MarketPlace/internal/assets"
	"github.com/vidarr1412/projectFacebook-MarketPlace/internal/dispatch"
	"github.com/vidarr1412/projectFacebook-MarketPlace/internal/mailer"
	"github.com/vidarr1412/projectFacebook-MarketPlace/internal/queue"
	"github.com/vidarr1412/projectFacebook-MarketPlace/internal/store"
	"github.com/vidarr1412/projectFacebook-MarketPlace/internal/submit"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	// Load .env if present; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if err := config.LoadCategoryConfig(); err != nil {
		logger.WithError(err).Fatal("Failed to load category configuration")
	}

	// Listing store backend
	var listings store.ListingStore
	switch cfg.Store.Backend {
	case "sqlite":
		logger.Infof("Using local listing store at: %s", cfg.Store.SQLitePath)
		listings, err = store.NewSQLiteStore(cfg.Store.SQLitePath, logger)
	default:
		logger.Info("Using hosted listing store")
		listings, err = store.NewSupabaseStore(cfg.Store.SupabaseURL, cfg.Store.SupabaseKey, cfg.Store.Table, logger)
	}
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize listing store")
	}

	// Asset store backend
	var assetStore assets.Store
	if cfg.Assets.Backend == "stub" {
		logger.Warn("Using in-memory asset store; uploads will not survive restarts")
		assetStore = assets.NewStubStore()
	} else {
		assetStore, err = assets.NewS3Store(&cfg.Assets, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to initialize asset store")
		}
	}

	workflow := submit.NewWorkflow(assetStore, listings, logger)

	// Contact queue and mail dispatcher
	contacts := queue.NewContactQueue(cfg.Mail.QueueSize, logger)
	relay, err := mailer.NewClient(cfg.Mail.Endpoint, cfg.Mail.ServiceID, cfg.Mail.TemplateID, cfg.Mail.PublicKey, logger)
	if err != nil {
		logger.WithError(err).Warn("Mail relay not configured; contact messages will be discarded")
		dispatch.StartDrain(contacts, logger)
	} else {
		dispatcher := dispatch.NewDispatcher(relay, contacts, cfg, logger)
		dispatcher.Start()
		defer dispatcher.Stop()
	}

	handler := api.NewHandler(listings, workflow, contacts, logger)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
	}))

	api.SetupRoutes(router, handler)

	logger.Infof("Starting server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
