package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/authz"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/ikkim/storefront-backend/pkg/util"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var errStorage = errors.New("storage unavailable")

func init() {
	util.BcryptCost = bcrypt.MinCost
}

func setupServiceTest(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return testDB
}

func createTestUser(t *testing.T, testDB *gorm.DB, email string, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{Name: "Test User", Email: email, PasswordHash: "hash", Role: role}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func actorFor(user *model.User) authz.Actor {
	return authz.Actor{UserID: user.ID, Role: user.Role}
}

func createTestProduct(t *testing.T, testDB *gorm.DB, sku string, price string) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:        fmt.Sprintf("Product %s", sku),
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
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func testCheckoutInput(prices ...string) CheckoutInput {
	input := CheckoutInput{
		ShippingAddress: model.ShippingAddress{Address: "1 Main St", City: "Springfield", PostalCode: "12345", Country: "US"},
		PaymentMethod:   "PayPal",
		TotalPrice:      decimal.Zero,
	}
	for i, p := range prices {
		price := decimal.RequireFromString(p)
		input.CheckoutItems = append(input.CheckoutItems, model.CheckoutItem{
			ProductID: uint(i + 1),
			Name:      fmt.Sprintf("Item %d", i+1),
			Price:     price,
			Color:     "Red",
			Size:      "M",
			Quantity:  1,
		})
		input.TotalPrice = input.TotalPrice.Add(price)
	}
	return input
}

// failingCartRepo injects errors into cart cleanup.
type failingCartRepo struct {
	repository.CartRepository
	deleteErr       error
	deleteByUserErr error
}

func (r *failingCartRepo) Delete(id uint) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	return r.CartRepository.Delete(id)
}

func (r *failingCartRepo) DeleteByUserID(userID uint) error {
	if r.deleteByUserErr != nil {
		return r.deleteByUserErr
	}
	return r.CartRepository.DeleteByUserID(userID)
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

// failingCheckoutRepo fails saves that would persist the given state.
type failingCheckoutRepo struct {
	repository.CheckoutRepository
	failState model.CheckoutState
}

func (r *failingCheckoutRepo) Save(checkout *model.Checkout) error {
	if r.failState != "" && checkout.State == r.failState {
		return errStorage
	}
	return r.CheckoutRepository.Save(checkout)
}

type memoryBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func newMemoryBlacklist() *memoryBlacklist {
	return &memoryBlacklist{revoked: make(map[string]time.Duration)}
}

func (b *memoryBlacklist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[tokenID] = ttl
	return nil
}

func (b *memoryBlacklist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.revoked[tokenID]
	return ok, nil
}
