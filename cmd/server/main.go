package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"clubci-checkin/auth"
	"clubci-checkin/config"
	"clubci-checkin/handlers"
)

func connectToDatabase(dbURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := pool.Ping(context.Background()); err != nil {
		return nil, err
	}

	log.Println("Successfully connected to the database!")
	return pool, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using default environment variables")
	}

	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatalf("Unable to load configuration: %v\n", err)
	}

	pool, err := connectToDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer pool.Close()

	authHandler := handlers.NewAuthHandler(pool, cfg.JWTSecret, time.Duration(cfg.TokenTTLMin)*time.Minute)
	eventHandler := handlers.NewEventHandler(pool)
	attendanceHandler := handlers.NewAttendanceHandler(pool)

	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Routes sit at the root so the mobile client's endpoint paths work
	// unchanged.
	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)
	router.GET("/events", eventHandler.GetEvents)
	router.GET("/events/:id", eventHandler.GetEvent)

	authed := router.Group("", auth.JWTAuth(cfg.JWTSecret))
	authed.POST("/events/:id/register", eventHandler.RegisterUser)
	authed.GET("/events/:id/registrations", eventHandler.GetRegistrations)
	authed.GET("/events/:id/qr", eventHandler.EventQR)

	admin := authed.Group("", auth.RequireAdmin())
	admin.POST("/events", eventHandler.CreateEvent)
	admin.POST("/events/:id/attendance/:username", attendanceHandler.MarkAttendance)
	admin.POST("/events/:id/attendance", attendanceHandler.MarkAttendanceLegacy)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		if err := pool.Ping(context.Background()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
		})
	})

	log.Printf("Server starting on port %s\n", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v\n", err)
	}
}
