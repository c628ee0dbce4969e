package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dmarochkin/keebshop/internal/models"
	"github.com/dmarochkin/keebshop/internal/repo"
	"github.com/dmarochkin/keebshop/internal/service"
	"github.com/dmarochkin/keebshop/internal/tokens"
	"github.com/dmarochkin/keebshop/internal/transport"
)

var testJWTSecret = []byte("test-jwt-secret")

type testEnv struct {
	T    *testing.T
	E    *echo.Echo
	Repo *repo.GormRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.User{},
		&models.RefreshToken{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	r := &repo.GormRepo{DB: db}
	e := echo.New()

	Register(e, &Deps{
		Products:  &ProductHTTP{Svc: &service.CatalogService{Repo: r}},
		Cart:      &CartHTTP{Svc: &service.CartService{Repo: r}},
		Orders:    &OrderHTTP{Svc: &service.OrderService{Repo: r}},
		Analytics: &AnalyticsHTTP{Svc: &service.AnalyticsService{Repo: r}},
		Auth: &AuthHTTP{Svc: &service.AuthService{
			Repo:          r,
			JWTSecret:     testJWTSecret,
			RefreshSecret: []byte("test-refresh-secret"),
		}},
		Profile:   &ProfileHTTP{Svc: &service.ProfileService{Repo: r}},
		Checkout:  &CheckoutHTTP{Svc: &service.CheckoutService{Repo: r, Currency: "usd"}},
		JWTSecret: testJWTSecret,
	})

	return &testEnv{T: t, E: e, Repo: r}
}

func (env *testEnv) tokenFor(role string) (uuid.UUID, string) {
	env.T.Helper()

	user := &models.User{
		Email:        fmt.Sprintf("%s-%s@example.com", role, uuid.NewString()[:8]),
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(env.T, env.Repo.DB.Create(user).Error)

	token, err := tokens.NewAccessToken(testJWTSecret, user.ID, role, time.Now().Add(time.Hour))
	require.NoError(env.T, err)
	return user.ID, token
}

func (env *testEnv) doJSON(method, path string, body any, token string) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func TestProductCRUDOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	_, admin := env.tokenFor("admin")

	rec := env.doJSON(http.MethodPost, "/api/products", transport.CreateProductRequest{
		Title:    "Ortho60",
		Price:    12900,
		Quantity: 25,
		Specs:    map[string]string{"layout": "60%"},
	}, admin)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "Ortho60", created.Title)

	rec = env.doJSON(http.MethodGet, "/api/products/"+created.ID.String(), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	newTitle := "Ortho60 v2"
	rec = env.doJSON(http.MethodPatch, "/api/products/"+created.ID.String(),
		transport.PatchProductRequest{Title: &newTitle}, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	var patched models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &patched))
	require.Equal(t, "Ortho60 v2", patched.Title)

	rec = env.doJSON(http.MethodDelete, "/api/products/"+created.ID.String(), nil, admin)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.doJSON(http.MethodGet, "/api/products/"+created.ID.String(), nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductWritesRequireAdmin(t *testing.T) {
	env := newTestEnv(t)
	_, user := env.tokenFor("user")

	body := transport.CreateProductRequest{Title: "Nope", Price: 1, Quantity: 1}

	rec := env.doJSON(http.MethodPost, "/api/products", body, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.doJSON(http.MethodPost, "/api/products", body, user)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCartFlowOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.tokenFor("user")

	prod := &models.Product{Title: "Board", Price: 10000, Quantity: 10}
	require.NoError(t, env.Repo.DB.Create(prod).Error)

	rec := env.doJSON(http.MethodPost, "/api/cart",
		transport.AddToCartRequest{ProductID: prod.ID, Quantity: 2}, token)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.doJSON(http.MethodGet, "/api/cart", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var view transport.CartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Items, 1)
	require.EqualValues(t, 2, view.TotalItems)
	require.EqualValues(t, 20000, view.TotalPrice)

	rec = env.doJSON(http.MethodPut, "/api/cart/items",
		transport.SetCartQuantityRequest{ProductID: prod.ID, Quantity: 0}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSON(http.MethodGet, "/api/cart", nil, token)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Empty(t, view.Items)
}

func TestAuthFlowOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/api/auth/register", transport.RegisterRequest{
		Email:    "new@example.com",
		Password: "secret",
		FullName: "New User",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.doJSON(http.MethodPost, "/api/auth/login", transport.LoginRequest{
		Email:    "new@example.com",
		Password: "secret",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var pair transport.TokenPairResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	require.NotEmpty(t, pair.AccessToken)

	rec = env.doJSON(http.MethodGet, "/api/profile", nil, pair.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	require.Equal(t, "new@example.com", profile.Email)
	require.Equal(t, "New User", profile.FullName)
}

func TestAdminOrderStatusOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	userID, _ := env.tokenFor("user")
	_, admin := env.tokenFor("admin")

	order := &models.Order{
		UserID:          userID,
		Email:           "buyer@example.com",
		TotalAmount:     5000,
		Status:          models.OrderStatusProcessing,
		PaymentIntentID: "pi_http_test",
	}
	require.NoError(t, env.Repo.DB.Create(order).Error)

	rec := env.doJSON(http.MethodPatch, "/api/admin/orders/"+order.ID.String()+"/status",
		transport.UpdateOrderStatusRequest{Status: models.OrderStatusShipped}, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, models.OrderStatusShipped, updated.Status)

	rec = env.doJSON(http.MethodPatch, "/api/admin/orders/"+order.ID.String()+"/status",
		transport.UpdateOrderStatusRequest{Status: "Lost"}, admin)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
