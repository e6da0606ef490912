package main

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hindisamiti/hindisamiti-mitsdu/database"
	"github.com/hindisamiti/hindisamiti-mitsdu/middleware"
	"github.com/hindisamiti/hindisamiti-mitsdu/models"
	"github.com/hindisamiti/hindisamiti-mitsdu/routes"
	"github.com/hindisamiti/hindisamiti-mitsdu/utils"
)

func main() {
	// Load .env if present (ignore if it does not exist)
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Connect to database
	database.Connect()

	// Auto-migrate models
	err := database.DB.AutoMigrate(
		&models.Admin{},
		&models.Image{},
		&models.Intro{},
		&models.Event{},
		&models.EventFormField{},
		&models.Registration{},
		&models.RegistrationFieldResponse{},
		&models.TeamMember{},
		&models.Blog{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to auto-migrate")
	}

	createDefaultAdmin()

	// Initialize Gin
	router := gin.New()
	router.Use(middleware.RequestLogger(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}))

	// Register routes and static uploads
	routes.SetupRoutes(router)
	router.Static("/uploads", utils.UploadDir())

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	log.Info().Str("port", port).Msg("server starting")
	if err := router.Run("0.0.0.0:" + port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// createDefaultAdmin seeds an admin account on first run so the console
// is reachable before any credentials are provisioned
func createDefaultAdmin() {
	var count int64
	if err := database.DB.Model(&models.Admin{}).Count(&count).Error; err != nil {
		log.Fatal().Err(err).Msg("failed to query admins")
	}
	if count > 0 {
		return
	}

	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "hsadmin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "changeme"
	}

	admin := models.Admin{Username: username}
	if err := admin.SetPassword(password); err != nil {
		log.Fatal().Err(err).Msg("failed to hash default admin password")
	}
	if err := database.DB.Create(&admin).Error; err != nil {
		log.Fatal().Err(err).Msg("failed to create default admin")
	}
	log.Info().Str("username", username).Msg("default admin created")
}
