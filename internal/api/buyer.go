package api

import (
	"context"       // Context for Redis operations
	"encoding/json" // Raw handling of the orderItems payload
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

// OrderItemRequest is one requested line item
type OrderItemRequest struct {
	ProductID uint `json:"product_id"` // Product to order
	Quantity  int  `json:"quantity"`   // Units requested
}

// CreateOrderRequest represents an order placement request.
// OrderItems is kept raw so a non-array payload can be rejected
// with its own error message instead of a generic binding error.
type CreateOrderRequest struct {
	BuyerID    uint            `json:"buyer_id" binding:"required"` // Acting buyer
	OrderItems json.RawMessage `json:"orderItems"`                  // Requested line items
}

// sellersCacheKey caches the public seller listing
const sellersCacheKey = "sellers:all"

// catalogCacheKey builds the cache key for one seller's catalog
func catalogCacheKey(sellerID int) string {
	return "catalog:seller:" + strconv.Itoa(sellerID)
}

// ListSellersHandler returns all users with the seller role
func ListSellersHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Context for Redis operations
		var sellers []domain.User
		// Try to serve the listing from cache first
		found, err := utils.GetCache(ctx, rdb, sellersCacheKey, &sellers)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"sellers": sellers, "cached": true})
			return
		}
		// Cache miss or redis failure: fall through to the database
		if err := db.Where("role = ?", domain.RoleSeller).Find(&sellers).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sellers"})
			return
		}
		_ = utils.SetCache(ctx, rdb, sellersCacheKey, sellers, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, gin.H{"sellers": sellers, "cached": false})
	}
}

// sellerCatalogResponse is the cached shape of a seller's catalog
type sellerCatalogResponse struct {
	Catalog  domain.Catalog   `json:"catalog"`  // The seller's catalog
	Products []domain.Product `json:"products"` // Products in the catalog
}

// SellerCatalogHandler returns a seller's catalog together with its products
func SellerCatalogHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID, err := strconv.Atoi(c.Param("seller_id")) // Parse seller id from the path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid seller id"})
			return
		}
		ctx := context.Background()           // Context for Redis operations
		cacheKey := catalogCacheKey(sellerID) // Cache key for this seller's catalog
		var resp sellerCatalogResponse
		// Try to serve from cache first
		found, err := utils.GetCache(ctx, rdb, cacheKey, &resp)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"catalog": resp.Catalog, "products": resp.Products, "cached": true})
			return
		}
		// Fetch the catalog owned by the seller
		if err := db.Where("seller_id = ?", sellerID).First(&resp.Catalog).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Catalog not found for the specified seller"})
			return
		}
		// Fetch the catalog's products
		if err := db.Where("catalog_id = ?", resp.Catalog.CatalogID).Find(&resp.Products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch catalog"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, gin.H{"catalog": resp.Catalog, "products": resp.Products, "cached": false})
	}
}

// CreateOrderHandler places an order for a buyer against one seller.
// Validation runs first and short-circuits on the first failure; all
// writes then happen inside a single transaction, so a rejected item
// never leaves a partial order behind.
func CreateOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID, err := strconv.Atoi(c.Param("seller_id")) // Parse seller id from the path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid seller id"})
			return
		}
		var req CreateOrderRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// The acting user must exist and hold the buyer role
		var buyer domain.User
		if err := db.First(&buyer, req.BuyerID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Buyer not found"})
			return
		}
		if buyer.Role != domain.RoleBuyer {
			c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied. User is not a buyer."})
			return
		}
		// The target user must exist and hold the seller role
		var seller domain.User
		if err := db.Where("id = ? AND role = ?", sellerID, domain.RoleSeller).First(&seller).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Seller not found"})
			return
		}
		// orderItems must be a JSON array of line items
		var items []OrderItemRequest
		if err := json.Unmarshal(req.OrderItems, &items); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid orderItems format"})
			return
		}
		// An order is never created without at least one item
		if len(items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderItems must not be empty"})
			return
		}
		// Merge repeated product ids by summing quantities; the composite
		// (order_id, product_id) key admits one row per product.
		merged := make([]OrderItemRequest, 0, len(items))
		position := make(map[uint]int, len(items))
		for _, item := range items {
			if pos, ok := position[item.ProductID]; ok {
				merged[pos].Quantity += item.Quantity
				continue
			}
			position[item.ProductID] = len(merged)
			merged = append(merged, item)
		}
		// Phase one: every product must belong to a catalog owned by the
		// target seller. Any miss rejects the whole request before any write.
		for _, item := range merged {
			var count int64
			err := db.Model(&domain.Product{}).
				Joins("JOIN catalogs ON catalogs.catalog_id = products.catalog_id").
				Where("products.product_id = ? AND catalogs.seller_id = ?", item.ProductID, sellerID).
				Count(&count).Error
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"buyer_id":   req.BuyerID,
					"seller_id":  sellerID,
					"product_id": item.ProductID,
					"error":      err.Error(),
				}).Error("Product ownership lookup failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
				return
			}
			if count == 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not belong to the specified seller"})
				return
			}
		}
		// Phase two: insert the order and all its line items atomically
		order := domain.Order{BuyerID: req.BuyerID, SellerID: uint(sellerID)}
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&order).Error; err != nil {
				return err // Return error to rollback
			}
			for _, item := range merged {
				line := domain.OrderItem{
					OrderID:   order.OrderID,  // Captured from the freshly created order
					ProductID: item.ProductID, // Validated above
					Quantity:  item.Quantity,  // Merged quantity
				}
				if err := tx.Create(&line).Error; err != nil {
					return err // Return error to rollback
				}
			}
			return nil // Commit transaction
		})
		if err != nil {
			// Log full detail server-side, return a generic message
			logrus.WithFields(logrus.Fields{
				"buyer_id":  req.BuyerID,
				"seller_id": sellerID,
				"items":     len(merged),
				"error":     err.Error(),
			}).Error("Order creation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
			return
		}
		// Log successful order placement
		logrus.WithFields(logrus.Fields{
			"order_id":  order.OrderID,
			"buyer_id":  req.BuyerID,
			"seller_id": sellerID,
			"items":     len(merged),
			"timestamp": time.Now().Format(time.RFC3339),
		}).Info("Order created")
		c.JSON(http.StatusOK, gin.H{"message": "Order created successfully", "order_id": order.OrderID})
	}
}
