package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/asharma/portfolio-backend/api"
	"github.com/asharma/portfolio-backend/config"
	"github.com/asharma/portfolio-backend/database"
	"github.com/asharma/portfolio-backend/services"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}
	c := config.New()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	// Build connection string from the environment
	connStr := config.GetString(c, "DATABASE_URL", "")
	if connStr == "" {
		connStr = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			config.GetString(c, "DB_HOST", "localhost"),
			config.GetString(c, "DB_USER", "postgres"),
			config.GetString(c, "DB_PASSWORD", ""),
			config.GetString(c, "DB_NAME", "portfolio"),
			config.GetString(c, "DB_PORT", "5432"),
			config.GetString(c, "DB_SSLMODE", "require"),
		)
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		fmt.Printf("Error migrating database: %v\n", err)
		os.Exit(1)
	}
	currentDB := database.New(db)

	// External collaborators: image host, outbound mail, MX verification
	images, err := services.NewS3ImageHost(context.Background(), services.S3Config{
		Region:    config.GetString(c, "AWS_REGION", "us-east-1"),
		Bucket:    config.GetString(c, "S3_IMAGE_BUCKET", ""),
		AccessKey: config.GetString(c, "AWS_ACCESS_KEY_ID", ""),
		SecretKey: config.GetString(c, "AWS_SECRET_ACCESS_KEY", ""),
	})
	if err != nil {
		fmt.Printf("Error initializing image host: %v\n", err)
		os.Exit(1)
	}

	deps := api.HandlerDeps{
		Mailer: services.NewResendSender(
			config.GetString(c, "RESEND_API_KEY", ""),
			config.GetString(c, "EMAIL_FROM", ""),
		),
		Verifier:   services.NewMXVerifier(),
		Images:     images,
		OwnerEmail: config.GetString(c, "EMAIL_TO", ""),
		Auth: api.AuthConfig{
			GoogleClientID:     config.GetString(c, "GOOGLE_CLIENT_ID", ""),
			GoogleClientSecret: config.GetString(c, "GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:        config.GetString(c, "OAUTH_REDIRECT_URL", "http://localhost:8080/api/auth/callback/google"),
			SessionSecret:      config.GetString(c, "SESSION_SECRET", ""),
			FrontendURL:        config.GetString(c, "FRONTEND_URL", "http://localhost:3000"),
			SecureCookies:      config.GetString(c, "ENV", "development") == "production",
		},
	}
	if deps.Auth.SessionSecret == "" {
		fmt.Println("SESSION_SECRET must be set. Exiting...")
		os.Exit(1)
	}

	server, err := api.NewServer(currentDB, deps)
	if err != nil {
		fmt.Printf("Error creating server: %v\n", err)
		os.Exit(1)
	}

	errChannel := make(chan error, 1)
	go server.Start(errChannel)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChannel:
		zlog.Error().Msgf("Server error: %v", err)
	case sig := <-stop:
		zlog.Info().Msgf("Received signal: %v", sig)
	}

	server.ShutdownGracefully(10 * time.Second)
}
