package main

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"github.com/MananRajppout/newamplify/internal/caching"
	"github.com/MananRajppout/newamplify/internal/handlers"
	"github.com/MananRajppout/newamplify/internal/jobs/background"
	"github.com/MananRajppout/newamplify/internal/middleware"
	"github.com/MananRajppout/newamplify/internal/repositories"
	"github.com/MananRajppout/newamplify/internal/services"
	"github.com/MananRajppout/newamplify/pkg/database"
)

const version = "1.0.0"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables")
	}

	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration. The secret must stay constant for the process
	// lifetime; every issued token dies with a restart when the dev
	// fallback is used.
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32)
		log.Printf("WARNING: JWT_SECRET not set, using generated secret (dev only)")
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// Email configuration. Without an SMTP host emails go to the log.
	appBaseURL := os.Getenv("APP_BASE_URL")
	if appBaseURL == "" {
		appBaseURL = "http://localhost:3000"
	}

	var sender services.EmailSender
	if smtpHost := os.Getenv("SMTP_HOST"); smtpHost != "" {
		smtpPort := 587
		if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
			if p, err := strconv.Atoi(portStr); err == nil {
				smtpPort = p
			}
		}
		smtpFrom := os.Getenv("SMTP_FROM")
		if smtpFrom == "" {
			smtpFrom = "no-reply@amplifyresearch.com"
		}
		sender = services.NewSMTPSender(smtpHost, smtpPort, os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD"), smtpFrom)
	} else {
		log.Printf("WARNING: SMTP_HOST not set, emails will be logged instead of sent")
		sender = services.LogSender{}
	}

	// Wiring: repositories, cache, services
	userRepo := repositories.NewUserRepo(pool)
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)
	tokenSvc := services.NewTokenService(jwtSecret)
	emailSvc := services.NewEmailService(sender, cacheSvc, appBaseURL)
	accountSvc := services.NewAccountService(userRepo, tokenSvc, emailSvc)

	userHandlers := handlers.NewUserHandlers(accountSvc)

	// Background jobs
	scheduler, err := background.NewJobScheduler(emailSvc)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoint (no auth required)
	e.GET("/health", func(c echo.Context) error {
		return handlers.HealthCheck(c, pool, version)
	})

	// API routes
	users := e.Group("/api/v1/users")

	// Public credential routes
	users.POST("/register", userHandlers.Register)
	users.POST("/login", userHandlers.Login)
	users.POST("/forgot-password", userHandlers.ForgotPassword)
	users.POST("/reset-password", userHandlers.ResetPassword)
	users.GET("/verify-email", userHandlers.VerifyEmail)

	// Session-protected routes
	protected := users.Group("")
	protected.Use(middleware.SessionMiddleware(tokenSvc))
	protected.POST("/change-password", userHandlers.ChangePassword)
	protected.GET("/find-by-id", userHandlers.FindByID)
	protected.PUT("/edit/:id", userHandlers.UpdateUser)
	protected.DELETE("/:id", userHandlers.DeleteUser)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}

	log.Printf("Amplify account service v%s starting on port %s", version, portStr)

	e.Logger.Fatal(e.Start(":" + portStr))
}
