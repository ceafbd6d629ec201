package service

import (
	"testing"
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/authz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type orderFixture struct {
	service OrderService
	repo    repository.OrderRepository
	buyer   authz.Actor
	admin   authz.Actor
	db      *gorm.DB
}

func setupOrderServiceTest(t *testing.T) *orderFixture {
	testDB := setupServiceTest(t)
	repo := repository.NewOrderRepository(testDB)
	return &orderFixture{
		service: NewOrderService(repo),
		repo:    repo,
		buyer:   actorFor(createTestUser(t, testDB, "buyer@example.com", model.RoleCustomer)),
		admin:   actorFor(createTestUser(t, testDB, "admin@example.com", model.RoleAdmin)),
		db:      testDB,
	}
}

func (f *orderFixture) createOrder(t *testing.T, userID uint) *model.Order {
	t.Helper()
	input := testCheckoutInput("20", "15.5")
	checkout := model.NewCheckout(userID, input.CheckoutItems, input.ShippingAddress, input.PaymentMethod, input.TotalPrice)
	require.NoError(t, checkout.MarkPaid(model.PaymentStatusPaid, nil, time.Now()))
	require.NoError(t, f.db.Create(checkout).Error)

	order := model.NewOrderFromCheckout(checkout)
	require.NoError(t, f.repo.Create(order))
	return order
}

func TestOrderService_ListAndGet(t *testing.T) {
	f := setupOrderServiceTest(t)
	stranger := actorFor(createTestUser(t, f.db, "stranger@example.com", model.RoleCustomer))
	mine := f.createOrder(t, f.buyer.UserID)
	f.createOrder(t, stranger.UserID)

	orders, err := f.service.ListForUser(f.buyer.UserID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, mine.ID, orders[0].ID)

	got, err := f.service.GetOrder(f.buyer, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, "35.5", got.TotalPrice.String())

	_, err = f.service.GetOrder(stranger, mine.ID)
	assert.ErrorIs(t, err, ErrOrderForbidden)

	_, err = f.service.GetOrder(f.admin, mine.ID)
	assert.NoError(t, err)

	_, err = f.service.GetOrder(f.buyer, 999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_AdminList(t *testing.T) {
	f := setupOrderServiceTest(t)
	f.createOrder(t, f.buyer.UserID)
	f.createOrder(t, f.buyer.UserID)

	_, err := f.service.AdminList(f.buyer)
	assert.ErrorIs(t, err, ErrAdminOnly)

	orders, err := f.service.AdminList(f.admin)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	require.NotNil(t, orders[0].User)
	assert.Equal(t, "buyer@example.com", orders[0].User.Email)
}

func TestOrderService_AdminUpdateStatus(t *testing.T) {
	f := setupOrderServiceTest(t)

	t.Run("delivered stamps delivery", func(t *testing.T) {
		order := f.createOrder(t, f.buyer.UserID)

		updated, err := f.service.AdminUpdateStatus(f.admin, order.ID, "Delivered")
		require.NoError(t, err)
		assert.Equal(t, model.OrderDelivered, updated.Status)
		assert.True(t, updated.IsDelivered)
		require.NotNil(t, updated.DeliveredAt)

		stored, err := f.repo.FindByID(order.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsDelivered)
		assert.NotNil(t, stored.DeliveredAt)
	})

	t.Run("other statuses leave delivery alone", func(t *testing.T) {
		order := f.createOrder(t, f.buyer.UserID)

		for _, status := range []string{"Shipped", "Cancelled", "Processing"} {
			updated, err := f.service.AdminUpdateStatus(f.admin, order.ID, status)
			require.NoError(t, err)
			assert.Equal(t, model.OrderStatus(status), updated.Status)
			assert.False(t, updated.IsDelivered)
			assert.Nil(t, updated.DeliveredAt)
		}
	})

	t.Run("delivered then cancelled keeps delivery", func(t *testing.T) {
		order := f.createOrder(t, f.buyer.UserID)
		_, err := f.service.AdminUpdateStatus(f.admin, order.ID, "Delivered")
		require.NoError(t, err)

		updated, err := f.service.AdminUpdateStatus(f.admin, order.ID, "Cancelled")
		require.NoError(t, err)
		assert.Equal(t, model.OrderCancelled, updated.Status)
		assert.True(t, updated.IsDelivered)
	})

	t.Run("empty status keeps current", func(t *testing.T) {
		order := f.createOrder(t, f.buyer.UserID)

		updated, err := f.service.AdminUpdateStatus(f.admin, order.ID, "")
		require.NoError(t, err)
		assert.Equal(t, model.OrderProcessing, updated.Status)
	})

	t.Run("rejections", func(t *testing.T) {
		order := f.createOrder(t, f.buyer.UserID)

		_, err := f.service.AdminUpdateStatus(f.admin, order.ID, "Lost")
		assert.ErrorIs(t, err, ErrInvalidOrderStatus)

		_, err = f.service.AdminUpdateStatus(f.buyer, order.ID, "Shipped")
		assert.ErrorIs(t, err, ErrAdminOnly)

		_, err = f.service.AdminUpdateStatus(f.admin, 999, "Shipped")
		assert.ErrorIs(t, err, ErrOrderNotFound)

		stored, err := f.repo.FindByID(order.ID)
		require.NoError(t, err)
		assert.Equal(t, model.OrderProcessing, stored.Status)
	})
}

func TestOrderService_AdminDelete(t *testing.T) {
	f := setupOrderServiceTest(t)
	order := f.createOrder(t, f.buyer.UserID)

	assert.ErrorIs(t, f.service.AdminDelete(f.buyer, order.ID), ErrAdminOnly)
	require.NoError(t, f.service.AdminDelete(f.admin, order.ID))
	assert.ErrorIs(t, f.service.AdminDelete(f.admin, order.ID), ErrOrderNotFound)
}

func TestOrderService_AdminExport(t *testing.T) {
	f := setupOrderServiceTest(t)
	order := f.createOrder(t, f.buyer.UserID)

	_, err := f.service.AdminExport(f.buyer)
	assert.ErrorIs(t, err, ErrAdminOnly)

	file, err := f.service.AdminExport(f.admin)
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows(orderExportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Order ID", rows[0][0])
	assert.Equal(t, "Created At", rows[0][len(rows[0])-1])

	row := rows[1]
	assert.Equal(t, "1", row[0])
	assert.Equal(t, "buyer@example.com", row[3])
	assert.Equal(t, "Item 1 (Red/M) x1; Item 2 (Red/M) x1", row[4])
	assert.Equal(t, string(order.Status), row[8])
}
