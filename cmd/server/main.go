package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"marketplace/internal/api"        // Custom package for API handlers
	"marketplace/internal/config"     // Custom package for configuration
	"marketplace/internal/middleware" // Custom package for middleware

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Auth routes: registration, login, and a JWT-protected profile lookup
	authGroup := r.Group("/api/auth")
	authGroup.POST("/register", api.RegisterHandler(db))
	authGroup.POST("/login", api.LoginHandler(db, cfg.JWTSecret))
	authGroup.GET("/me", middleware.JWTAuthMiddleware(cfg.JWTSecret), api.MeHandler(db))

	// Buyer routes: browse sellers and catalogs, place orders
	buyerGroup := r.Group("/api/buyer")
	buyerGroup.GET("/list-of-sellers", api.ListSellersHandler(db, redisClient))
	buyerGroup.GET("/seller-catalog/:seller_id", api.SellerCatalogHandler(db, redisClient))
	buyerGroup.POST("/create-order/:seller_id", api.CreateOrderHandler(db))

	// Seller routes: catalog creation and received orders
	sellerGroup := r.Group("/api/seller")
	sellerGroup.POST("/create-catalog", api.CreateCatalogHandler(db, redisClient))
	sellerGroup.GET("/orders", api.ListSellerOrdersHandler(db))

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
