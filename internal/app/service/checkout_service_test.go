package service

import (
	"testing"
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/authz"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type checkoutFixture struct {
	service      CheckoutService
	cartService  CartService
	checkoutRepo *failingCheckoutRepo
	orderRepo    *failingOrderRepo
	cartRepo     *failingCartRepo
	buyer        authz.Actor
	db           *gorm.DB
}

func setupCheckoutServiceTest(t *testing.T) *checkoutFixture {
	testDB := setupServiceTest(t)
	checkoutRepo := &failingCheckoutRepo{CheckoutRepository: repository.NewCheckoutRepository(testDB)}
	orderRepo := &failingOrderRepo{OrderRepository: repository.NewOrderRepository(testDB)}
	cartRepo := &failingCartRepo{CartRepository: repository.NewCartRepository(testDB)}
	finalizer := NewFinalizer(checkoutRepo, orderRepo, cartRepo)

	buyer := createTestUser(t, testDB, "buyer@example.com", model.RoleCustomer)
	return &checkoutFixture{
		service:      NewCheckoutService(checkoutRepo, finalizer),
		cartService:  NewCartService(cartRepo, repository.NewProductRepository(testDB)),
		checkoutRepo: checkoutRepo,
		orderRepo:    orderRepo,
		cartRepo:     cartRepo,
		buyer:        actorFor(buyer),
		db:           testDB,
	}
}

func (f *checkoutFixture) createCheckout(t *testing.T) *model.Checkout {
	t.Helper()
	checkout, err := f.service.Create(f.buyer, testCheckoutInput("20", "15.5"))
	require.NoError(t, err)
	return checkout
}

func (f *checkoutFixture) countOrders(t *testing.T, checkoutID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&model.Order{}).Where("checkout_id = ?", checkoutID).Count(&count).Error)
	return count
}

func TestCheckoutService_Create(t *testing.T) {
	f := setupCheckoutServiceTest(t)

	checkout := f.createCheckout(t)
	assert.NotZero(t, checkout.ID)
	assert.Equal(t, f.buyer.UserID, checkout.UserID)
	assert.Equal(t, model.CheckoutPending, checkout.State)
	assert.Equal(t, model.PaymentStatusPending, checkout.PaymentStatus)
	assert.False(t, checkout.IsPaid)
	assert.False(t, checkout.IsFinalized)
	assert.Equal(t, "35.5", checkout.TotalPrice.String())
}

func TestCheckoutService_Create_EmptyItems(t *testing.T) {
	f := setupCheckoutServiceTest(t)

	_, err := f.service.Create(f.buyer, testCheckoutInput())
	assert.ErrorIs(t, err, ErrCheckoutEmpty)
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))

	checkouts, err := f.service.ListForUser(f.buyer.UserID)
	require.NoError(t, err)
	assert.Empty(t, checkouts)
}

func TestCheckoutService_Get(t *testing.T) {
	f := setupCheckoutServiceTest(t)
	checkout := f.createCheckout(t)
	stranger := actorFor(createTestUser(t, f.db, "stranger@example.com", model.RoleCustomer))
	admin := actorFor(createTestUser(t, f.db, "admin@example.com", model.RoleAdmin))

	got, err := f.service.Get(f.buyer, checkout.ID)
	require.NoError(t, err)
	assert.Equal(t, checkout.ID, got.ID)

	_, err = f.service.Get(stranger, checkout.ID)
	assert.ErrorIs(t, err, ErrCheckoutForbidden)

	_, err = f.service.Get(admin, checkout.ID)
	assert.NoError(t, err)

	_, err = f.service.Get(f.buyer, 999)
	assert.ErrorIs(t, err, ErrCheckoutNotFound)
}

func TestCheckoutService_MarkPaid_FinalizesAndClearsCart(t *testing.T) {
	f := setupCheckoutServiceTest(t)
	product := createTestProduct(t, f.db, "TEE", "20")
	_, _, err := f.cartService.AddItem(CartOwner{UserID: f.buyer.UserID}, CartItemInput{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)
	checkout := f.createCheckout(t)

	result, err := f.service.MarkPaid(f.buyer, checkout.ID, "paid", map[string]interface{}{"transactionId": "tx-1"})
	require.NoError(t, err)
	require.NoError(t, result.FinalizeErr)
	require.NotNil(t, result.Finalize)

	assert.True(t, result.Checkout.IsPaid)
	assert.True(t, result.Checkout.IsFinalized)
	assert.Equal(t, model.CheckoutFinalized, result.Checkout.State)
	require.NotNil(t, result.Checkout.PaidAt)
	require.NotNil(t, result.Checkout.FinalizedAt)

	order := result.Finalize.Order
	assert.Equal(t, checkout.ID, order.CheckoutID)
	assert.Equal(t, f.buyer.UserID, order.UserID)
	assert.Equal(t, model.OrderProcessing, order.Status)
	assert.Equal(t, model.OrderPaymentStatusPaid, order.PaymentStatus)
	assert.True(t, order.IsPaid)
	assert.False(t, order.IsDelivered)
	require.Len(t, order.OrderItems, len(checkout.CheckoutItems))
	for i := range checkout.CheckoutItems {
		assert.Equal(t, checkout.CheckoutItems[i].ProductID, order.OrderItems[i].ProductID)
		assert.Equal(t, checkout.CheckoutItems[i].Quantity, order.OrderItems[i].Quantity)
	}
	assert.Equal(t, "tx-1", order.PaymentDetails["transactionId"])
	assert.True(t, result.Finalize.CartCleanup.Attempted)
	assert.False(t, result.Finalize.OrderReused)

	cart, err := f.cartService.Resolve(CartOwner{UserID: f.buyer.UserID})
	require.NoError(t, err)
	assert.Nil(t, cart)

	stored, err := f.service.Get(f.buyer, checkout.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CheckoutFinalized, stored.State)
	assert.EqualValues(t, 1, f.countOrders(t, checkout.ID))
}

func TestCheckoutService_MarkPaid_Rejections(t *testing.T) {
	f := setupCheckoutServiceTest(t)
	checkout := f.createCheckout(t)
	stranger := actorFor(createTestUser(t, f.db, "s@example.com", model.RoleCustomer))

	_, err := f.service.MarkPaid(f.buyer, 999, "paid", nil)
	assert.ErrorIs(t, err, ErrCheckoutNotFound)

	_, err = f.service.MarkPaid(stranger, checkout.ID, "paid", nil)
	assert.ErrorIs(t, err, ErrCheckoutForbidden)

	for _, status := range []string{"", "Pending", "failed", "PAID"} {
		_, err = f.service.MarkPaid(f.buyer, checkout.ID, status, nil)
		assert.ErrorIs(t, err, ErrInvalidPaymentStatus, status)
	}

	stored, err := f.service.Get(f.buyer, checkout.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsPaid)
}

func TestCheckoutService_MarkPaid_AlreadyPaidKeepsPaidAt(t *testing.T) {
	f := setupCheckoutServiceTest(t)
	checkout := f.createCheckout(t)

	paid, err := f.service.MarkPaidOnly(f.buyer, checkout.ID)
	require.NoError(t, err)
	firstPaidAt := *paid.PaidAt

	f.service.(*checkoutService).now = func() time.Time { return firstPaidAt.Add(time.Hour) }
	_, err = f.service.MarkPaid(f.buyer, checkout.ID, "paid", nil)
	assert.ErrorIs(t, err, ErrCheckoutAlreadyPaid)
	assert.Equal(t, apperrors.KindInvalidState, apperrors.KindOf(err))

	_, err = f.service.MarkPaidOnly(f.buyer, checkout.ID)
	assert.ErrorIs(t, err, ErrCheckoutAlreadyPaid)

	stored, err := f.service.Get(f.buyer, checkout.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PaidAt)
	assert.WithinDuration(t, firstPaidAt, *stored.PaidAt, time.Second)
	assert.EqualValues(t, 0, f.countOrders(t, checkout.ID))
}

func TestCheckoutService_MarkPaid_OrderFailureKeepsPayment(t *testing.T) {
	f := setupCheckoutServiceTest(t)
	checkout := f.createCheckout(t)
	f.orderRepo.createErr = errStorage

	result, err := f.service.MarkPaid(f.buyer, checkout.ID, "paid", nil)
	require.NoError(t, err)
	assert.ErrorIs(t, result.FinalizeErr, ErrFinalizeFailed)
	assert.Nil(t, result.Finalize)
	assert.True(t, result.Checkout.IsPaid)
	assert.False(t, result.Checkout.IsFinalized)

	stored, err := f.service.Get(f.buyer, checkout.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CheckoutPaid, stored.State)
	assert.True(t, stored.IsPaid)
	assert.False(t, stored.IsFinalized)

	// retry through the recovery path once storage is back
	f.orderRepo.createErr = nil
	converted, err := f.service.ConvertToOrder(f.buyer, checkout.ID)
	require.NoError(t, err)
	assert.True(t, converted.Checkout.IsFinalized)
	assert.EqualValues(t, 1, f.countOrders(t, checkout.ID))
}

func TestCheckoutService_MarkPaidManual(t *testing.T) {
	f := setupCheckoutServiceTest(t)
	checkout := f.createCheckout(t)

	result, err := f.service.MarkPaidManual(f.buyer, checkout.ID)
	require.NoError(t, err)
	require.NoError(t, result.FinalizeErr)
	assert.Equal(t, "manual", result.Checkout.PaymentDetails["method"])
	assert.Equal(t, true, result.Checkout.PaymentDetails["manual"])
	assert.Equal(t, model.PaymentStatusPaid, result.Checkout.PaymentStatus)
	assert.NotNil(t, result.Finalize.Order)

	_, err = f.service.MarkPaidManual(f.buyer, checkout.ID)
	assert.ErrorIs(t, err, ErrCheckoutAlreadyPaid)
}

func TestCheckoutService_ConvertToOrder(t *testing.T) {
	f := setupCheckoutServiceTest(t)
	checkout := f.createCheckout(t)

	_, err := f.service.ConvertToOrder(f.buyer, checkout.ID)
	assert.ErrorIs(t, err, ErrCheckoutNotPaid)
	assert.Equal(t, apperrors.KindInvalidState, apperrors.KindOf(err))

	_, err = f.service.MarkPaidOnly(f.buyer, checkout.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, f.countOrders(t, checkout.ID))

	result, err := f.service.ConvertToOrder(f.buyer, checkout.ID)
	require.NoError(t, err)
	assert.True(t, result.Checkout.IsFinalized)
	assert.Equal(t, checkout.ID, result.Order.CheckoutID)
	assert.EqualValues(t, 1, f.countOrders(t, checkout.ID))

	_, err = f.service.ConvertToOrder(f.buyer, checkout.ID)
	assert.ErrorIs(t, err, ErrCheckoutAlreadyFinalized)
	assert.EqualValues(t, 1, f.countOrders(t, checkout.ID))
}

func TestCheckoutService_ConvertReusesOrderAfterFailedFinalizeSave(t *testing.T) {
	f := setupCheckoutServiceTest(t)
	checkout := f.createCheckout(t)
	_, err := f.service.MarkPaidOnly(f.buyer, checkout.ID)
	require.NoError(t, err)

	f.checkoutRepo.failState = model.CheckoutFinalized
	result, err := f.service.ConvertToOrder(f.buyer, checkout.ID)
	assert.ErrorIs(t, err, ErrFinalizeFailed)
	require.NotNil(t, result)
	require.NotNil(t, result.Order)
	assert.False(t, result.Checkout.IsFinalized)
	assert.EqualValues(t, 1, f.countOrders(t, checkout.ID))

	f.checkoutRepo.failState = ""
	retry, err := f.service.ConvertToOrder(f.buyer, checkout.ID)
	require.NoError(t, err)
	assert.True(t, retry.OrderReused)
	assert.Equal(t, result.Order.ID, retry.Order.ID)
	assert.EqualValues(t, 1, f.countOrders(t, checkout.ID))
}

func TestCheckoutService_CartCleanupFailureDoesNotFailFinalize(t *testing.T) {
	f := setupCheckoutServiceTest(t)
	checkout := f.createCheckout(t)
	f.cartRepo.deleteByUserErr = errStorage

	result, err := f.service.MarkPaid(f.buyer, checkout.ID, "paid", nil)
	require.NoError(t, err)
	require.NoError(t, result.FinalizeErr)
	assert.True(t, result.Checkout.IsFinalized)
	assert.True(t, result.Finalize.CartCleanup.Failed())
}

func TestCheckoutService_SummaryForUser(t *testing.T) {
	f := setupCheckoutServiceTest(t)
	first := f.createCheckout(t)
	second := f.createCheckout(t)
	f.createCheckout(t)

	_, err := f.service.MarkPaidOnly(f.buyer, first.ID)
	require.NoError(t, err)
	_, err = f.service.MarkPaid(f.buyer, second.ID, "paid", nil)
	require.NoError(t, err)

	summary, err := f.service.SummaryForUser(f.buyer.UserID)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalCheckouts)
	assert.Equal(t, 2, summary.PaidCheckouts)
	assert.Equal(t, 1, summary.FinalizedCheckouts)
	assert.Len(t, summary.Checkouts, 3)
}
