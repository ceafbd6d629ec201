package repository

import (
	"fmt"
	"testing"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRepoTest(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return testDB
}

func createTestUser(t *testing.T, testDB *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{Name: "Test User", Email: email, PasswordHash: "hash", Role: model.RoleCustomer}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createTestProduct(t *testing.T, testDB *gorm.DB, sku string, mutate ...func(*model.Product)) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:        fmt.Sprintf("Product %s", sku),
		Description: "Soft cotton",
		Price:       decimal.RequireFromString("19.99"),
		SKU:         sku,
		Category:    "Top Wear",
		Collections: "Summer",
		Sizes:       []string{"S", "M"},
		Colors:      []string{"Red"},
		Images:      []model.ProductImage{{URL: "https://img.test/" + sku + ".jpg"}},
		IsPublished: true,
	}
	for _, m := range mutate {
		m(product)
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}
