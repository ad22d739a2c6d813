package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/domain"
)

func catalogBody(userID uint, name string, items any) map[string]any {
	return map[string]any{"user_id": userID, "catalog_name": name, "catalogItems": items}
}

func TestCreateCatalogSuccess(t *testing.T) {
	router, db, mr := setupTestRouter(t)

	seller := seedUser(t, db, "bob", domain.RoleSeller)

	// A stale cached catalog must not survive catalog creation
	cacheKey := fmt.Sprintf("catalog:seller:%d", seller.ID)
	require.NoError(t, mr.Set(cacheKey, `{"stale":true}`))

	rec := performRequest(router, http.MethodPost, "/api/seller/create-catalog", catalogBody(seller.ID, "Bobs Goods", []map[string]any{
		{"product_name": "Laptop", "price": 999.99},
		{"product_name": "Mouse", "price": 19.99},
	}), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Catalog created successfully", body["message"])
	assert.NotZero(t, body["catalog_id"])

	var catalog domain.Catalog
	require.NoError(t, db.Where("seller_id = ?", seller.ID).First(&catalog).Error)
	assert.Equal(t, "Bobs Goods", catalog.CatalogName)

	var products []domain.Product
	require.NoError(t, db.Where("catalog_id = ?", catalog.CatalogID).Find(&products).Error)
	require.Len(t, products, 2)

	assert.False(t, mr.Exists(cacheKey))
}

func TestCreateCatalogValidation(t *testing.T) {
	router, db, _ := setupTestRouter(t)

	buyer := seedUser(t, db, "alice", domain.RoleBuyer)
	seller := seedUser(t, db, "bob", domain.RoleSeller)
	items := []map[string]any{{"product_name": "Laptop", "price": 999.99}}

	t.Run("unknown user", func(t *testing.T) {
		rec := performRequest(router, http.MethodPost, "/api/seller/create-catalog", catalogBody(9999, "Ghost", items), nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "User not found", decodeBody(t, rec)["error"])
	})

	t.Run("buyer actor", func(t *testing.T) {
		rec := performRequest(router, http.MethodPost, "/api/seller/create-catalog", catalogBody(buyer.ID, "Nope", items), nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Permission denied. User is not a seller.", decodeBody(t, rec)["error"])
	})

	t.Run("non-array catalogItems", func(t *testing.T) {
		rec := performRequest(router, http.MethodPost, "/api/seller/create-catalog", catalogBody(seller.ID, "Bobs Goods", "oops"), nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid catalogItems format", decodeBody(t, rec)["error"])
	})

	// None of the rejected calls wrote anything
	assert.Zero(t, countRows(t, db, &domain.Catalog{}))
	assert.Zero(t, countRows(t, db, &domain.Product{}))

	t.Run("second catalog for the same seller", func(t *testing.T) {
		rec := performRequest(router, http.MethodPost, "/api/seller/create-catalog", catalogBody(seller.ID, "Bobs Goods", items), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = performRequest(router, http.MethodPost, "/api/seller/create-catalog", catalogBody(seller.ID, "Another", items), nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Seller already has a catalog", decodeBody(t, rec)["error"])
		assert.EqualValues(t, 1, countRows(t, db, &domain.Catalog{}))
	})
}

func TestListSellerOrders(t *testing.T) {
	router, db, _ := setupTestRouter(t)

	buyer := seedUser(t, db, "alice", domain.RoleBuyer)
	seller := seedUser(t, db, "bob", domain.RoleSeller)
	other := seedUser(t, db, "carol", domain.RoleSeller)

	order := domain.Order{BuyerID: buyer.ID, SellerID: seller.ID}
	require.NoError(t, db.Create(&order).Error)
	require.NoError(t, db.Create(&domain.OrderItem{OrderID: order.OrderID, ProductID: 1, Quantity: 2}).Error)
	otherOrder := domain.Order{BuyerID: buyer.ID, SellerID: other.ID}
	require.NoError(t, db.Create(&otherOrder).Error)

	t.Run("missing seller_id", func(t *testing.T) {
		rec := performRequest(router, http.MethodGet, "/api/seller/orders", nil, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Missing seller_id parameter", decodeBody(t, rec)["error"])
	})

	t.Run("invalid seller_id", func(t *testing.T) {
		rec := performRequest(router, http.MethodGet, "/api/seller/orders?seller_id=abc", nil, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid seller_id parameter", decodeBody(t, rec)["error"])
	})

	t.Run("orders with items", func(t *testing.T) {
		rec := performRequest(router, http.MethodGet, fmt.Sprintf("/api/seller/orders?seller_id=%d", seller.ID), nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		orders, ok := decodeBody(t, rec)["orders"].([]any)
		require.True(t, ok)
		require.Len(t, orders, 1)
		first, ok := orders[0].(map[string]any)
		require.True(t, ok)
		assert.EqualValues(t, order.OrderID, first["order_id"])
		assert.Len(t, first["items"], 1)
	})

	t.Run("seller with no orders", func(t *testing.T) {
		fresh := seedUser(t, db, "dave", domain.RoleSeller)
		rec := performRequest(router, http.MethodGet, fmt.Sprintf("/api/seller/orders?seller_id=%d", fresh.ID), nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decodeBody(t, rec)["orders"])
	})
}
