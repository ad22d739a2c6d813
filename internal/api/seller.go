package api

import (
	"context"       // Context for Redis operations
	"encoding/json" // Raw handling of the catalogItems payload
	"net/http"      // HTTP status codes
	"strconv"       // String conversion
	"time"          // Time durations

	"marketplace/internal/domain" // Importing domain models
	"marketplace/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library

	"github.com/sirupsen/logrus" // Logging library
)

// CatalogItemRequest is one product to seed into a new catalog
type CatalogItemRequest struct {
	ProductName string  `json:"product_name"` // Display name of the product
	Price       float64 `json:"price"`        // Unit price
}

// CreateCatalogRequest represents a catalog creation request.
// CatalogItems is kept raw so a non-array payload gets its own error.
type CreateCatalogRequest struct {
	UserID       uint            `json:"user_id" binding:"required"`      // Acting seller
	CatalogName  string          `json:"catalog_name" binding:"required"` // Catalog display name
	CatalogItems json.RawMessage `json:"catalogItems"`                    // Products to create
}

// CreateCatalogHandler creates a seller's catalog and its products.
// Same shape as order creation: validate first, then write the catalog
// row and every product row inside one transaction.
func CreateCatalogHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateCatalogRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// The acting user must exist and hold the seller role
		var user domain.User
		if err := db.First(&user, req.UserID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		if user.Role != domain.RoleSeller {
			c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied. User is not a seller."})
			return
		}
		// catalogItems must be a JSON array of products
		var items []CatalogItemRequest
		if err := json.Unmarshal(req.CatalogItems, &items); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid catalogItems format"})
			return
		}
		// One catalog per seller
		var existing domain.Catalog
		if err := db.Where("seller_id = ?", req.UserID).First(&existing).Error; err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Seller already has a catalog"})
			return
		}
		// Write the catalog and its products atomically
		catalog := domain.Catalog{SellerID: req.UserID, CatalogName: req.CatalogName}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&catalog).Error; err != nil {
				return err // Return error to rollback
			}
			for _, item := range items {
				product := domain.Product{
					CatalogID:   catalog.CatalogID, // Captured from the freshly created catalog
					ProductName: item.ProductName,
					Price:       item.Price,
				}
				if err := tx.Create(&product).Error; err != nil {
					return err // Return error to rollback
				}
			}
			return nil // Commit transaction
		})
		if err != nil {
			// Log full detail server-side, return a generic message
			logrus.WithFields(logrus.Fields{
				"user_id": req.UserID,
				"items":   len(items),
				"error":   err.Error(),
			}).Error("Catalog creation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create catalog"})
			return
		}
		// Log successful catalog creation
		logrus.WithFields(logrus.Fields{
			"catalog_id": catalog.CatalogID,
			"seller_id":  req.UserID,
			"items":      len(items),
			"timestamp":  time.Now().Format(time.RFC3339),
		}).Info("Catalog created")
		// Invalidate the cached catalog for this seller
		_ = utils.DeleteCache(context.Background(), rdb, catalogCacheKey(int(req.UserID)))
		c.JSON(http.StatusOK, gin.H{"message": "Catalog created successfully", "catalog_id": catalog.CatalogID})
	}
}

// ListSellerOrdersHandler returns the orders received by a seller
func ListSellerOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerParam := c.Query("seller_id") // Seller id from the query string
		if sellerParam == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing seller_id parameter"})
			return
		}
		sellerID, err := strconv.Atoi(sellerParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid seller_id parameter"})
			return
		}
		var orders []domain.Order
		// Include each order's line items
		if err := db.Preload("Items").Where("seller_id = ?", sellerID).Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}
