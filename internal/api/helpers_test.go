package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"marketplace/internal/api"
	"marketplace/internal/domain"
	"marketplace/internal/middleware"
)

const testJWTSecret = "test-secret-key"

// setupTestRouter builds a router wired exactly like cmd/server, backed by
// an in-memory SQLite database and an in-process redis.
func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB, *miniredis.Miniredis) {
	gin.SetMode(gin.TestMode)

	// A per-test shared-cache DSN keeps the database alive across the
	// connections GORM pools, without leaking state between test functions.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = testDB.AutoMigrate(
		&domain.User{},
		&domain.Catalog{},
		&domain.Product{},
		&domain.Order{},
		&domain.OrderItem{},
	)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	r.Use(gin.Recovery())

	authGroup := r.Group("/api/auth")
	authGroup.POST("/register", api.RegisterHandler(testDB))
	authGroup.POST("/login", api.LoginHandler(testDB, testJWTSecret))
	authGroup.GET("/me", middleware.JWTAuthMiddleware(testJWTSecret), api.MeHandler(testDB))

	buyerGroup := r.Group("/api/buyer")
	buyerGroup.GET("/list-of-sellers", api.ListSellersHandler(testDB, rdb))
	buyerGroup.GET("/seller-catalog/:seller_id", api.SellerCatalogHandler(testDB, rdb))
	buyerGroup.POST("/create-order/:seller_id", api.CreateOrderHandler(testDB))

	sellerGroup := r.Group("/api/seller")
	sellerGroup.POST("/create-catalog", api.CreateCatalogHandler(testDB, rdb))
	sellerGroup.GET("/orders", api.ListSellerOrdersHandler(testDB))

	return r, testDB, mr
}

// performRequest serves one JSON request through the router
func performRequest(router *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

// decodeBody unmarshals a recorded JSON response
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func seedUser(t *testing.T, db *gorm.DB, username, role string) domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := domain.User{Username: username, Password: string(hash), Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedCatalog(t *testing.T, db *gorm.DB, sellerID uint, name string) domain.Catalog {
	catalog := domain.Catalog{SellerID: sellerID, CatalogName: name}
	require.NoError(t, db.Create(&catalog).Error)
	return catalog
}

func seedProduct(t *testing.T, db *gorm.DB, catalogID uint, name string, price float64) domain.Product {
	product := domain.Product{CatalogID: catalogID, ProductName: name, Price: price}
	require.NoError(t, db.Create(&product).Error)
	return product
}

// countRows returns the number of rows for a model
func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}
