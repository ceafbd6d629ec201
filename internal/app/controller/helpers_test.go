package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/authz"
	"github.com/ikkim/storefront-backend/internal/db"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
	"github.com/ikkim/storefront-backend/pkg/util"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testJWTSecret = "test-jwt-secret-for-controllers"

var errStorage = errors.New("storage unavailable")

func init() {
	util.BcryptCost = bcrypt.MinCost
}

// failingOrderRepo fails order creation while createErr is set.
type failingOrderRepo struct {
	repository.OrderRepository
	createErr error
}

func (r *failingOrderRepo) Create(order *model.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	return r.OrderRepository.Create(order)
}

type testEnv struct {
	db        *gorm.DB
	engine    *gin.Engine
	orderRepo *failingOrderRepo
}

// setupControllerTest wires every controller over an in-memory database and
// registers the routes the way the router does.
func setupControllerTest(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	checkoutRepo := repository.NewCheckoutRepository(testDB)
	orderRepo := &failingOrderRepo{OrderRepository: repository.NewOrderRepository(testDB)}

	authCtrl := NewAuthController(service.NewAuthService(userRepo, nil, testJWTSecret, time.Hour, 24*time.Hour))
	productCtrl := NewProductController(service.NewCatalogService(productRepo))
	cartCtrl := NewCartController(service.NewCartService(cartRepo, productRepo))
	checkoutCtrl := NewCheckoutController(service.NewCheckoutService(
		checkoutRepo,
		service.NewFinalizer(checkoutRepo, orderRepo, cartRepo),
	))
	orderCtrl := NewOrderController(service.NewOrderService(orderRepo))
	subscriberCtrl := NewSubscriberController(service.NewSubscriberService(repository.NewSubscriberRepository(testDB)))

	authMW := middleware.NewAuthMiddleware(testJWTSecret)
	auth := authMW.Authenticate()

	engine := gin.New()
	engine.Use(middleware.LoggingMiddleware())
	api := engine.Group("/api")

	api.POST("/users/register", authCtrl.Register)
	api.POST("/users/login", authCtrl.Login)
	api.POST("/users/refresh-token", authCtrl.RefreshToken)
	api.POST("/users/logout", authCtrl.Logout)
	api.GET("/users/profile", auth, authCtrl.GetProfile)

	api.POST("/subscribers/subscribe", subscriberCtrl.Subscribe)

	api.GET("/products", productCtrl.ListProducts)
	api.GET("/products/best-selling", productCtrl.BestSelling)
	api.GET("/products/new-arrivals", productCtrl.NewArrivals)
	api.GET("/products/similar/:id", productCtrl.Similar)
	api.GET("/products/:id", productCtrl.GetProduct)

	cart := api.Group("/cart", authMW.OptionalAuthenticate())
	cart.GET("", cartCtrl.GetCart)
	cart.POST("", cartCtrl.AddItem)
	cart.PUT("", cartCtrl.UpdateItem)
	cart.DELETE("", cartCtrl.RemoveItem)
	cart.POST("/merge", auth, cartCtrl.Merge)

	checkout := api.Group("/checkout", auth)
	checkout.POST("", checkoutCtrl.CreateCheckout)
	checkout.GET("/user/checkouts", checkoutCtrl.ListMine)
	checkout.GET("/user/summary", checkoutCtrl.Summary)
	checkout.GET("/:id", checkoutCtrl.GetCheckout)
	checkout.PUT("/:id/pay", checkoutCtrl.Pay)
	checkout.PUT("/:id/mark-paid", checkoutCtrl.MarkPaid)
	checkout.PUT("/:id/mark-paid-simple", checkoutCtrl.MarkPaidSimple)
	checkout.POST("/:id/convert-to-order", checkoutCtrl.ConvertToOrder)

	api.GET("/orders/myorders", auth, orderCtrl.MyOrders)
	api.GET("/orders/:id", auth, orderCtrl.GetOrder)

	admin := api.Group("/admin", auth)
	products := admin.Group("/products", authMW.Authorize(authz.ActionManageProducts))
	products.GET("", productCtrl.AdminListProducts)
	products.POST("", productCtrl.CreateProduct)
	products.PUT("/:id", productCtrl.UpdateProduct)
	products.DELETE("/:id", productCtrl.DeleteProduct)
	users := admin.Group("/users", authMW.Authorize(authz.ActionManageUsers))
	users.GET("", authCtrl.ListUsers)
	users.POST("", authCtrl.CreateUser)
	users.PUT("/:id", authCtrl.UpdateUser)
	users.DELETE("/:id", authCtrl.DeleteUser)
	orders := admin.Group("/orders", authMW.Authorize(authz.ActionManageOrders))
	orders.GET("", orderCtrl.AdminListOrders)
	orders.GET("/export", orderCtrl.AdminExport)
	orders.PUT("/:id", orderCtrl.AdminUpdateStatus)
	orders.DELETE("/:id", orderCtrl.AdminDeleteOrder)

	return &testEnv{db: testDB, engine: engine, orderRepo: orderRepo}
}

func (e *testEnv) createUser(t *testing.T, email string, role model.UserRole) (*model.User, string) {
	t.Helper()
	hash, err := util.HashPassword("secret123")
	require.NoError(t, err)
	user := &model.User{Name: "Test User", Email: email, PasswordHash: hash, Role: role}
	require.NoError(t, e.db.Create(user).Error)

	tokens, err := util.GenerateTokenPair(user.ID, user.Email, string(user.Role), testJWTSecret, time.Hour, 24*time.Hour)
	require.NoError(t, err)
	return user, tokens.AccessToken
}

func (e *testEnv) createProduct(t *testing.T, sku, price string) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:        "Product " + sku,
		Description: "Soft cotton",
		Price:       decimal.RequireFromString(price),
		SKU:         sku,
		Category:    "Top Wear",
		Collections: "Summer",
		Gender:      model.GenderMen,
		Sizes:       []string{"S", "M"},
		Colors:      []string{"Red", "Blue"},
		Images:      []model.ProductImage{{URL: "https://img.test/" + sku + ".jpg"}},
		IsPublished: true,
	}
	require.NoError(t, e.db.Create(product).Error)
	return product
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apperrors.ErrorResponse {
	t.Helper()
	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func checkoutBody(prices ...string) map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(prices))
	total := decimal.Zero
	for i, p := range prices {
		price := decimal.RequireFromString(p)
		items = append(items, map[string]interface{}{
			"productId": i + 1,
			"name":      fmt.Sprintf("Item %d", i+1),
			"image":     "https://img.test/item.jpg",
			"price":     price,
			"color":     "Red",
			"size":      "M",
			"quantity":  1,
		})
		total = total.Add(price)
	}
	return map[string]interface{}{
		"checkoutItems": items,
		"shippingAddress": map[string]string{
			"address": "1 Main St", "city": "Springfield", "postalCode": "12345", "country": "US",
		},
		"paymentMethod": "PayPal",
		"totalPrice":    total,
	}
}

func idPath(format string, id interface{}) string {
	return fmt.Sprintf(format, id)
}
