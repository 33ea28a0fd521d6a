package router

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"marketplace_api/internal/api/dto"
	"marketplace_api/internal/middleware"
	"marketplace_api/internal/model"
	"marketplace_api/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
	dto.RegisterValidators()
}

type env struct {
	t      *testing.T
	db     *gorm.DB
	client *resty.Client
}

func newEnv(t *testing.T, opts Options) *env {
	db := testutil.NewDB(t)
	log := zap.NewNop()
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.MinCost
	}

	r := NewEngine(log, []string{"*"})
	InitRoutes(r, NewHandlers(db, opts, log))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	client := resty.New().
		SetBaseURL(srv.URL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(5 * time.Second)
	return &env{t: t, db: db, client: client}
}

func (e *env) count(m interface{}) int64 {
	var n int64
	require.NoError(e.t, e.db.Model(m).Count(&n).Error)
	return n
}

func (e *env) createSeller(email string) dto.SellerResponse {
	var out dto.SellerResponse
	resp, err := e.client.R().
		SetBody(map[string]interface{}{"name": "A", "email": email, "password": "pw123456"}).
		SetResult(&out).
		Post("/sellers/")
	require.NoError(e.t, err)
	require.Equal(e.t, http.StatusCreated, resp.StatusCode(), resp.String())
	return out
}

func (e *env) createProduct(sellerID int64, body map[string]interface{}) dto.ProductResponse {
	var out dto.ProductResponse
	resp, err := e.client.R().SetBody(body).SetResult(&out).Post(fmt.Sprintf("/sellers/%d/products/", sellerID))
	require.NoError(e.t, err)
	require.Equal(e.t, http.StatusCreated, resp.StatusCode(), resp.String())
	return out
}

// ==================== scenarios ====================

func TestScenario_SellerProductAndEmptyFilter(t *testing.T) {
	e := newEnv(t, Options{})

	seller := e.createSeller("a@x.com")
	product := e.createProduct(seller.ID, map[string]interface{}{"name": "Widget", "price": 50, "status": "active"})
	assert.Equal(t, seller.ID, product.SellerID)

	var page dto.Page[dto.ProductResponse]
	resp, err := e.client.R().SetResult(&page).Get("/products/?max_price=10")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(0), page.Total)
	assert.Equal(t, 0, page.Pages)

	var dup dto.ErrorResponse
	resp, err = e.client.R().
		SetBody(map[string]interface{}{"name": "B", "email": "a@x.com", "password": "pw123456"}).
		SetError(&dup).
		Post("/sellers/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	assert.Equal(t, "EMAIL_ALREADY_REGISTERED", dup.ErrorCode)
	assert.Equal(t, int64(1), e.count(&model.Seller{}))
}

func TestScenario_DeleteSellerCascades(t *testing.T) {
	e := newEnv(t, Options{})
	seller := e.createSeller("a@x.com")
	product := e.createProduct(seller.ID, map[string]interface{}{"name": "Widget", "price": 50})

	resp, err := e.client.R().SetBody(map[string]interface{}{"quantity": 4}).Post(fmt.Sprintf("/products/%d/inventory", product.ID))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode())
	resp, err = e.client.R().SetBody(map[string]interface{}{"product_id": product.ID, "rating": 5}).Post("/reviews/")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode())

	resp, err = e.client.R().Delete(fmt.Sprintf("/sellers/%d", seller.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode())

	assert.Equal(t, int64(0), e.count(&model.Product{}))
	assert.Equal(t, int64(0), e.count(&model.Inventory{}))
	assert.Equal(t, int64(0), e.count(&model.Review{}))

	resp, err = e.client.R().Delete(fmt.Sprintf("/sellers/%d", seller.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())
}

func TestScenario_Inventory(t *testing.T) {
	e := newEnv(t, Options{})
	seller := e.createSeller("a@x.com")
	product := e.createProduct(seller.ID, map[string]interface{}{"name": "Widget", "price": 50})
	path := fmt.Sprintf("/products/%d/inventory", product.ID)

	resp, err := e.client.R().Get(path)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())

	resp, err = e.client.R().SetBody(map[string]interface{}{"quantity": 20, "reorder_level": 5}).Post(path)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode())

	resp, err = e.client.R().SetBody(map[string]interface{}{"quantity": 1}).Post(path)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())

	var inv dto.InventoryResponse
	resp, err = e.client.R().SetBody(map[string]interface{}{"quantity": 3}).SetResult(&inv).Put(path)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, 3, inv.Quantity)
	assert.Equal(t, 5, inv.ReorderLevel)
	assert.True(t, inv.NeedsReorder)
}

func TestScenario_CategoryAssociations(t *testing.T) {
	e := newEnv(t, Options{})
	seller := e.createSeller("a@x.com")
	product := e.createProduct(seller.ID, map[string]interface{}{"name": "Widget", "price": 50})

	var root, child dto.CategoryResponse
	_, err := e.client.R().SetBody(map[string]interface{}{"name": "Home"}).SetResult(&root).Post("/categories/")
	require.NoError(t, err)
	_, err = e.client.R().SetBody(map[string]interface{}{"name": "Kitchen", "parent_id": root.ID}).SetResult(&child).Post("/categories/")
	require.NoError(t, err)

	path := fmt.Sprintf("/products/%d/categories/%d", product.ID, child.ID)
	resp, err := e.client.R().Post(path)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode())
	resp, err = e.client.R().Post(path)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())

	resp, err = e.client.R().Delete(fmt.Sprintf("/products/%d/categories/%d", product.ID, root.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())

	var subs []dto.CategoryResponse
	_, err = e.client.R().SetResult(&subs).Get(fmt.Sprintf("/categories/%d/subcategories", root.ID))
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, child.ID, subs[0].ID)

	var parent dto.CategoryResponse
	_, err = e.client.R().SetResult(&parent).Get(fmt.Sprintf("/categories/%d/parent", child.ID))
	require.NoError(t, err)
	assert.Equal(t, root.ID, parent.ID)

	var page dto.Page[dto.ProductResponse]
	_, err = e.client.R().
		SetQueryParamsFromValues(map[string][]string{"category_ids": {fmt.Sprint(child.ID), fmt.Sprint(root.ID)}}).
		SetResult(&page).
		Get("/products/search")
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	resp, err = e.client.R().Delete(path)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode())
}

func TestScenario_ReviewRatingRejectedBeforeWrite(t *testing.T) {
	e := newEnv(t, Options{})
	seller := e.createSeller("a@x.com")
	product := e.createProduct(seller.ID, map[string]interface{}{"name": "Widget", "price": 50})

	for _, rating := range []int{0, 6} {
		var body dto.ValidationErrorResponse
		resp, err := e.client.R().
			SetBody(map[string]interface{}{"product_id": product.ID, "rating": rating}).
			SetError(&body).
			Post("/reviews/")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode())
		require.NotEmpty(t, body.Errors)
		assert.Equal(t, "rating", body.Errors[0].Field)
	}
	assert.Equal(t, int64(0), e.count(&model.Review{}))

	var review dto.ReviewResponse
	resp, err := e.client.R().
		SetBody(map[string]interface{}{"product_id": product.ID, "rating": 4, "comment": "good"}).
		SetResult(&review).
		Post("/reviews/")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode())
	assert.Nil(t, review.UserID)

	var got dto.ReviewResponse
	_, err = e.client.R().SetResult(&got).Get(fmt.Sprintf("/reviews/%d", review.ID))
	require.NoError(t, err)
	assert.Equal(t, 4, got.Rating)
}

func TestScenario_StaticRoutesAndDetail(t *testing.T) {
	e := newEnv(t, Options{})
	seller := e.createSeller("a@x.com")
	e.createProduct(seller.ID, map[string]interface{}{"name": "Widget", "price": 50})
	e.createProduct(seller.ID, map[string]interface{}{"name": "Gadget", "price": 150})

	var stats dto.SellerStatisticsResponse
	resp, err := e.client.R().SetResult(&stats).Get("/sellers/statistics")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, int64(1), stats.TotalSellers)
	assert.Equal(t, 100.0, stats.AveragePrice)

	var expensive []dto.ProductResponse
	_, err = e.client.R().SetResult(&expensive).Get("/products/expensive")
	require.NoError(t, err)
	require.Len(t, expensive, 1)
	assert.Equal(t, "Gadget", expensive[0].Name)

	var detail dto.SellerDetailResponse
	_, err = e.client.R().SetResult(&detail).Get(fmt.Sprintf("/sellers/%d/detailed", seller.ID))
	require.NoError(t, err)
	assert.Len(t, detail.Products, 2)
	assert.Nil(t, detail.Profile)

	var count dto.SellerProductCountResponse
	_, err = e.client.R().SetResult(&count).Get(fmt.Sprintf("/sellers/%d/products/count", seller.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count.ProductCount)

	var listed []dto.ProductResponse
	resp, err = e.client.R().SetResult(&listed).Get(fmt.Sprintf("/sellers/%d/products/?skip=0&limit=1", seller.ID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Len(t, listed, 1)
}

func TestScenario_LoginAndMe(t *testing.T) {
	middleware.SetJWTConfig(&middleware.JWTConfig{SecretKey: "e2e", AccessTokenTTL: time.Hour, Issuer: "e2e"})
	t.Cleanup(func() { middleware.SetJWTConfig(middleware.DefaultJWTConfig()) })

	e := newEnv(t, Options{LoginCooldown: time.Minute})
	seller := e.createSeller("a@x.com")

	resp, err := e.client.R().Get("/sellers/me")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())

	var login dto.SellerLoginResponse
	resp, err = e.client.R().
		SetBody(map[string]interface{}{"email": "a@x.com", "password": "pw123456"}).
		SetResult(&login).
		Post("/sellers/login")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode(), resp.String())
	assert.Equal(t, "bearer", login.TokenType)

	var me dto.SellerResponse
	resp, err = e.client.R().SetAuthToken(login.AccessToken).SetResult(&me).Get("/sellers/me")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, seller.ID, me.ID)

	resp, err = e.client.R().
		SetBody(map[string]interface{}{"email": "a@x.com", "password": "pw123456"}).
		Post("/sellers/login")
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode())
}

func TestOperationalRoutes(t *testing.T) {
	e := newEnv(t, Options{})

	resp, err := e.client.R().SetHeader(middleware.HeaderRequestID, "trace-1").Get("/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "trace-1", resp.Header().Get(middleware.HeaderRequestID))

	var notFound dto.ErrorResponse
	resp, err = e.client.R().SetError(&notFound).Get("/nowhere")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())
	assert.Equal(t, "ROUTE_NOT_FOUND", notFound.ErrorCode)
}

func TestCORSConfig(t *testing.T) {
	assert.True(t, corsConfig([]string{"*"}).AllowAllOrigins)
	assert.True(t, corsConfig(nil).AllowAllOrigins)

	cfg := corsConfig([]string{"http://shop.test"})
	assert.False(t, cfg.AllowAllOrigins)
	assert.Equal(t, []string{"http://shop.test"}, cfg.AllowOrigins)
	assert.Contains(t, cfg.AllowHeaders, "Authorization")
}

// ==================== input rejected before write ====================

func TestScenario_LongPasswordRejected(t *testing.T) {
	e := newEnv(t, Options{})

	var body dto.ValidationErrorResponse
	resp, err := e.client.R().
		SetBody(map[string]interface{}{"name": "A", "email": "long@x.com", "password": strings.Repeat("a", 100)}).
		SetError(&body).
		Post("/sellers/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode(), resp.String())
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "password", body.Errors[0].Field)
	assert.Equal(t, int64(0), e.count(&model.Seller{}))

	seller := e.createSeller("a@x.com")
	resp, err = e.client.R().
		SetBody(map[string]interface{}{"password": strings.Repeat("ü", 40)}).
		Put(fmt.Sprintf("/sellers/%d", seller.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode(), resp.String())
}

func TestScenario_BlankNamesRejected(t *testing.T) {
	e := newEnv(t, Options{})
	seller := e.createSeller("a@x.com")

	tests := []struct {
		name   string
		method string
		path   string
		body   map[string]interface{}
		field  string
	}{
		{"seller", http.MethodPost, "/sellers/", map[string]interface{}{"name": "   ", "email": "b@x.com", "password": "pw123456"}, "name"},
		{"seller update", http.MethodPut, fmt.Sprintf("/sellers/%d", seller.ID), map[string]interface{}{"name": "  "}, "name"},
		{"product", http.MethodPost, fmt.Sprintf("/sellers/%d/products/", seller.ID), map[string]interface{}{"name": "\t", "price": 5}, "name"},
		{"category", http.MethodPost, "/categories/", map[string]interface{}{"name": " "}, "name"},
		{"user", http.MethodPost, "/users/", map[string]interface{}{"username": "     ", "email": "u@x.com"}, "username"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body dto.ValidationErrorResponse
			resp, err := e.client.R().SetBody(tt.body).SetError(&body).Execute(tt.method, tt.path)
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode(), resp.String())
			require.NotEmpty(t, body.Errors)
			assert.Equal(t, tt.field, body.Errors[0].Field)
		})
	}

	assert.Equal(t, int64(1), e.count(&model.Seller{}))
	assert.Equal(t, int64(0), e.count(&model.Product{}))
	assert.Equal(t, int64(0), e.count(&model.Category{}))
	assert.Equal(t, int64(0), e.count(&model.User{}))

	var got dto.SellerResponse
	_, err := e.client.R().SetResult(&got).Get(fmt.Sprintf("/sellers/%d", seller.ID))
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)
}

func TestScenario_FollowMissingSeller(t *testing.T) {
	e := newEnv(t, Options{})

	var body dto.ErrorResponse
	resp, err := e.client.R().SetError(&body).Post("/sellers/999/following/999")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())
	assert.Equal(t, "SELLER_NOT_FOUND", body.ErrorCode)

	seller := e.createSeller("a@x.com")
	resp, err = e.client.R().SetError(&body).Post(fmt.Sprintf("/sellers/%d/following/%d", seller.ID, seller.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
}
