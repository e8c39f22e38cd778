package main

import (
	"context"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"salesboard/internal/ai"
	"salesboard/internal/api"
	"salesboard/internal/config"
	"salesboard/internal/repository"
	"salesboard/internal/service"
	"salesboard/internal/utils"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()
	utils.InitLogger()
	cfg := config.LoadConfig()

	// Set up the in-memory database
	db, err := config.SetupDatabase(cfg)
	if err != nil {
		logrus.Fatalf("Failed to set up database: %v", err)
	}
	defer db.Close()

	// Create the store and load demo data
	store := repository.NewSQLiteStore(db)
	if cfg.SeedDemo {
		if err := store.SeedDemoData(context.Background()); err != nil {
			logrus.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	// Create the AI analyzer
	summarizer := ai.NewGeminiClient(cfg.Gemini.APIKey, cfg.Gemini.Model)
	if cfg.Gemini.APIKey == "" {
		logrus.Warn("Gemini API key not found. AI features will be disabled. Please set the GEMINI_API_KEY environment variable.")
	}
	analyzer := ai.NewAnalyzer(summarizer)

	// Create service
	svc := service.NewDefaultService(store, analyzer, cfg.Auth.JWTSecret)

	// Create API handler
	handler := api.NewHandler(svc, cfg.Uploads.Dir)

	// Set up Gin router
	router := gin.Default()
	router.Use(cors.Default())

	// Add middleware for JWT secret
	router.Use(func(c *gin.Context) {
		c.Set("jwtSecret", []byte(cfg.Auth.JWTSecret))
		c.Next()
	})

	// Serve uploaded product images
	if err := os.MkdirAll(cfg.Uploads.Dir, 0o755); err != nil {
		logrus.Fatalf("Failed to create upload directory: %v", err)
	}
	router.Static("/uploads", cfg.Uploads.Dir)

	// Set up routes
	handler.SetupRoutes(router)

	// Start server
	logrus.Infof("Starting server on %s", cfg.Server.Addr())
	if err := http.ListenAndServe(cfg.Server.Addr(), router); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}
