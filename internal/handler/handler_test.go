package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"shopmobile/internal/account"
	"shopmobile/internal/address"
	"shopmobile/internal/admin"
	"shopmobile/internal/catalog"
	"shopmobile/internal/coupon"
	"shopmobile/internal/model"
	"shopmobile/internal/order"
	"shopmobile/internal/promotion"
	"shopmobile/internal/testutil"
	"shopmobile/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
	jwt.SetSecret("test-secret")
}

type env struct {
	db     *gorm.DB
	router *gin.Engine
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.OpenDB(t)
	h := New(
		catalog.NewStore(db),
		catalog.NewQuery(db),
		promotion.NewEngine(db),
		coupon.NewService(db),
		account.NewService(db, newMemTokens()),
		address.NewManager(db),
		order.NewLedger(db),
		admin.NewService(db),
	)
	return &env{db: db, router: h.Router()}
}

type memTokens struct {
	m map[string]uint
}

func newMemTokens() *memTokens { return &memTokens{m: make(map[string]uint)} }

func (s *memTokens) Save(_ context.Context, token string, userID uint, _ time.Duration) error {
	s.m[token] = userID
	return nil
}

func (s *memTokens) Consume(_ context.Context, token string) (uint, error) {
	id, ok := s.m[token]
	if !ok {
		return 0, fmt.Errorf("invalid or expired reset token")
	}
	delete(s.m, token)
	return id, nil
}

func (e *env) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

var userSeq atomic.Int64

func (e *env) token(t *testing.T, isStaff bool) string {
	t.Helper()
	n := userSeq.Add(1)
	u := model.User{
		Username: fmt.Sprintf("user%d", n),
		Email:    fmt.Sprintf("user%d@example.com", n),
		Password: "hash",
		IsStaff:  isStaff,
	}
	require.NoError(t, e.db.Create(&u).Error)
	token, err := jwt.GenerateToken(u.ID, u.Username, u.IsStaff)
	require.NoError(t, err)
	return token
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestAuthRequired(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodGet, "/api/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStaffGate(t *testing.T) {
	e := newEnv(t)
	userToken := e.token(t, false)
	staffToken := e.token(t, true)

	w := e.do(http.MethodGet, "/api/admin/dashboard", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(http.MethodGet, "/api/admin/dashboard", staffToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
}

func TestRegisterLoginFlow(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodPost, "/api/register", "", gin.H{
		"username": "alice", "email": "alice@example.com",
		"password": "s3cret99", "full_name": "Alice",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	data := body["data"].(map[string]interface{})
	token := data["token"].(string)
	require.NotEmpty(t, token)

	w = e.do(http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "alice", profile["username"])

	// Duplicate registration conflicts.
	w = e.do(http.MethodPost, "/api/register", "", gin.H{
		"username": "alice", "email": "other@example.com", "password": "s3cret99",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.do(http.MethodPost, "/api/login", "", gin.H{
		"username": "alice", "password": "wrong",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodPost, "/api/login", "", gin.H{
		"username": "alice", "password": "s3cret99",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProductsJSONContract(t *testing.T) {
	e := newEnv(t)

	cat := model.Category{Name: "iPhone", IsActive: true}
	require.NoError(t, e.db.Create(&cat).Error)
	for i := 0; i < 13; i++ {
		require.NoError(t, e.db.Create(&model.Product{
			Name:       fmt.Sprintf("iPhone model %02d", i),
			Price:      int64(20000000 + i),
			Brand:      "Apple",
			CategoryID: &cat.ID,
			IsActive:   true,
		}).Error)
	}

	w := e.do(http.MethodGet, "/api/products?brand=Apple&page=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)

	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["current_page"])
	assert.Equal(t, float64(2), body["total_pages"])
	assert.Equal(t, float64(13), body["total_products"])
	assert.Equal(t, false, body["has_previous"])
	assert.Equal(t, true, body["has_next"])
	assert.Nil(t, body["previous_page"])
	assert.Equal(t, "?brand=Apple&page=2", body["next_page"])
	assert.Equal(t, float64(1), body["start_index"])
	assert.Equal(t, float64(10), body["end_index"])

	products := body["products"].([]interface{})
	require.Len(t, products, 10)
	first := products[0].(map[string]interface{})
	for _, key := range []string{"id", "name", "slug", "brand", "price", "discount_percent", "is_on_sale", "image", "stock", "category_name"} {
		assert.Contains(t, first, key)
	}
	assert.Equal(t, "iPhone", first["category_name"])

	filters := body["filters"].(map[string]interface{})
	assert.Equal(t, "Apple", filters["brand"])
	assert.Equal(t, "default", filters["sort"])

	// Page two links back without a next page.
	w = e.do(http.MethodGet, "/api/products?brand=Apple&page=2", "", nil)
	body = decode(t, w)
	assert.Equal(t, "?brand=Apple&page=1", body["previous_page"])
	assert.Nil(t, body["next_page"])
	assert.Equal(t, float64(11), body["start_index"])
	assert.Equal(t, float64(13), body["end_index"])
}

func TestProductDetailEndpoint(t *testing.T) {
	e := newEnv(t)

	p := model.Product{Name: "Benco S1", Price: 2990000, IsActive: true}
	require.NoError(t, e.db.Create(&p).Error)
	require.NoError(t, e.db.Create(&model.SpecialPromotion{
		ProductID: p.ID, DiscountPercent: 10, IsActive: true,
	}).Error)

	w := e.do(http.MethodGet, "/api/products/benco-s1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})

	product := data["product"].(map[string]interface{})
	assert.Equal(t, "Benco S1", product["name"])
	assert.Equal(t, "benco-s1", product["slug"])

	promo := data["promotion"].(map[string]interface{})
	assert.Equal(t, float64(2691000), promo["discounted_price"])

	w = e.do(http.MethodGet, "/api/products/unknown-slug", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHomeEndpoint(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.db.Create(&model.Category{Name: "iPhone", SortOrder: 1, IsActive: true}).Error)
	p := model.Product{Name: "iPhone 16", Price: 22990000, IsActive: true}
	require.NoError(t, e.db.Create(&p).Error)
	require.NoError(t, e.db.Create(&model.SpecialPromotion{
		ProductID: p.ID, DiscountPercent: 5, IsActive: true,
	}).Error)

	w := e.do(http.MethodGet, "/api/home", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})

	assert.Len(t, data["categories"], 1)
	assert.Len(t, data["special_promotions"], 1)
	assert.Len(t, data["products"], 1)
}

func TestAddressEndpoints(t *testing.T) {
	e := newEnv(t)
	token := e.token(t, false)

	w := e.do(http.MethodPost, "/api/addresses", token, gin.H{
		"full_name": "Alice", "phone": "0900000000",
		"province": "TP HCM", "district": "Quan 1", "address_detail": "12 Nguyen Trai",
	})
	require.Equal(t, http.StatusOK, w.Code)
	first := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, true, first["is_default"])

	w = e.do(http.MethodPost, "/api/addresses", token, gin.H{
		"full_name": "Alice", "phone": "0900000000",
		"province": "TP HCM", "district": "Quan 3", "address_detail": "99 Le Loi",
		"is_default": true,
	})
	require.Equal(t, http.StatusOK, w.Code)
	second := decode(t, w)["data"].(map[string]interface{})

	w = e.do(http.MethodGet, "/api/addresses", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	addrs := decode(t, w)["data"].([]interface{})
	require.Len(t, addrs, 2)
	top := addrs[0].(map[string]interface{})
	assert.Equal(t, second["id"], top["id"])

	firstID := int(first["id"].(float64))
	w = e.do(http.MethodPost, fmt.Sprintf("/api/addresses/%d/default", firstID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodDelete, fmt.Sprintf("/api/addresses/%d", firstID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Another user cannot touch what is left.
	other := e.token(t, false)
	secondID := int(second["id"].(float64))
	w = e.do(http.MethodDelete, fmt.Sprintf("/api/addresses/%d", secondID), other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderEndpoints(t *testing.T) {
	e := newEnv(t)
	token := e.token(t, false)
	staff := e.token(t, true)

	p := model.Product{Name: "Phone", Price: 1000000, IsActive: true}
	require.NoError(t, e.db.Create(&p).Error)

	w := e.do(http.MethodPost, "/api/orders", token, gin.H{
		"payment_method": "cod",
		"items":          []gin.H{{"product_id": p.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	created := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "pending", created["status"])
	assert.Equal(t, float64(2000000), created["total_amount"])
	orderID := int(created["id"].(float64))

	w = e.do(http.MethodGet, "/api/orders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	orders := decode(t, w)["data"].([]interface{})
	assert.Len(t, orders, 1)

	// Another user's order detail reads as absent.
	other := e.token(t, false)
	w = e.do(http.MethodGet, fmt.Sprintf("/api/orders/%d", orderID), other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(http.MethodPost, fmt.Sprintf("/api/admin/orders/%d/status", orderID), staff, gin.H{
		"status": "approved",
	})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "approved", updated["status"])

	w = e.do(http.MethodPost, fmt.Sprintf("/api/admin/orders/%d/status", orderID), staff, gin.H{
		"status": "cancelled",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPromotionEndpoints(t *testing.T) {
	e := newEnv(t)
	staff := e.token(t, true)

	ids := make([]uint, 6)
	for i := range ids {
		p := model.Product{Name: fmt.Sprintf("Phone %d", i), Price: 1000000, IsActive: true}
		require.NoError(t, e.db.Create(&p).Error)
		ids[i] = p.ID
	}

	for i := 0; i < 5; i++ {
		w := e.do(http.MethodPost, "/api/admin/promotions", staff, gin.H{
			"product_id": ids[i], "discount_percent": 10,
		})
		require.Equal(t, http.StatusOK, w.Code, "promotion %d", i)
	}

	w := e.do(http.MethodPost, "/api/admin/promotions", staff, gin.H{
		"product_id": ids[5], "discount_percent": 10,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.do(http.MethodGet, "/api/admin/promotions", staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	promos := decode(t, w)["data"].([]interface{})
	assert.Len(t, promos, 5)
}

func TestCouponEndpoints(t *testing.T) {
	e := newEnv(t)
	token := e.token(t, false)
	staff := e.token(t, true)

	w := e.do(http.MethodPost, "/api/admin/coupons", staff, gin.H{
		"code": "sale10", "name": "Ten percent off",
		"discount_type": "percent", "discount_value": 10,
		"start_date": time.Now().Add(-time.Hour).Format(time.RFC3339),
		"end_date":   time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusOK, w.Code)
	created := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "SALE10", created["code"])

	w = e.do(http.MethodGet, "/api/coupons", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	coupons := decode(t, w)["data"].([]interface{})
	assert.Len(t, coupons, 1)

	// Creating coupons is staff-only.
	w = e.do(http.MethodPost, "/api/admin/coupons", token, gin.H{
		"code": "NOPE", "name": "x",
		"discount_type": "percent", "discount_value": 1,
		"start_date": time.Now().Format(time.RFC3339),
		"end_date":   time.Now().Add(time.Hour).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminProductLifecycle(t *testing.T) {
	e := newEnv(t)
	staff := e.token(t, true)

	w := e.do(http.MethodPost, "/api/admin/products", staff, gin.H{
		"name": "Benco S1", "price": 2990000, "brand": "Benco", "stock": 10,
		"storage_options": []string{"64GB", "128GB"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	created := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "benco-s1", created["slug"])

	// The single-record path conflicts instead of suffixing.
	w = e.do(http.MethodPost, "/api/admin/products", staff, gin.H{
		"name": "Benco S1", "price": 3490000,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.do(http.MethodGet, "/api/admin/products", staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["total_products"])

	id := int(created["id"].(float64))
	w = e.do(http.MethodDelete, fmt.Sprintf("/api/admin/products/%d", id), staff, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodDelete, fmt.Sprintf("/api/admin/products/%d", id), staff, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
