package service

import (
	"errors"
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// FinalizeResult is the outcome of turning a paid checkout into an order.
type FinalizeResult struct {
	Checkout    *model.Checkout `json:"checkout"`
	Order       *model.Order    `json:"order"`
	OrderReused bool            `json:"orderReused"`
	CartCleanup BestEffort      `json:"cartCleanup"`
}

// Finalizer runs Paid → Finalized as three sequential steps with no
// surrounding transaction:
//
//  1. find the order already created for the checkout, or create it
//  2. persist the checkout as Finalized
//  3. delete the owner's cart, best-effort
//
// A failure in step 1 or 2 leaves the checkout Paid, and a later call picks
// up where it stopped: an order left by a failed step 2 is reused rather than
// duplicated. The lookup in step 1 is not a lock, so two concurrent calls for
// the same checkout can still both create an order.
type Finalizer struct {
	checkoutRepo repository.CheckoutRepository
	orderRepo    repository.OrderRepository
	cartRepo     repository.CartRepository
	now          func() time.Time
}

func NewFinalizer(
	checkoutRepo repository.CheckoutRepository,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
) *Finalizer {
	return &Finalizer{
		checkoutRepo: checkoutRepo,
		orderRepo:    orderRepo,
		cartRepo:     cartRepo,
		now:          time.Now,
	}
}

// Finalize requires a Paid checkout. On success checkout itself is updated to
// Finalized. When step 2 fails the returned result still carries the order.
func (f *Finalizer) Finalize(checkout *model.Checkout) (*FinalizeResult, error) {
	if err := checkout.CanFinalize(); err != nil {
		return nil, checkoutStateError(err)
	}

	order, reused, err := f.orderFor(checkout)
	if err != nil {
		logger.Error("Failed to create order from checkout", err, map[string]interface{}{
			"checkout_id": checkout.ID,
			"user_id":     checkout.UserID,
		})
		return nil, ErrFinalizeFailed.Wrap(err)
	}

	finalized := *checkout
	if err := finalized.MarkFinalized(f.now()); err != nil {
		return nil, checkoutStateError(err)
	}
	if err := f.checkoutRepo.Save(&finalized); err != nil {
		logger.Error("Order created but checkout not marked finalized", err, map[string]interface{}{
			"checkout_id": checkout.ID,
			"order_id":    order.ID,
		})
		return &FinalizeResult{Checkout: checkout, Order: order, OrderReused: reused},
			ErrFinalizeFailed.WithMessage("Order created but checkout could not be finalized").Wrap(err)
	}
	*checkout = finalized

	cleanup := attempted(f.cartRepo.DeleteByUserID(checkout.UserID))
	if cleanup.Failed() {
		logger.Error("Failed to clear cart after finalize", cleanup.Err, map[string]interface{}{
			"checkout_id": checkout.ID,
			"user_id":     checkout.UserID,
		})
	}

	logger.Info("Checkout finalized", map[string]interface{}{
		"checkout_id":  checkout.ID,
		"order_id":     order.ID,
		"order_reused": reused,
	})
	return &FinalizeResult{
		Checkout:    checkout,
		Order:       order,
		OrderReused: reused,
		CartCleanup: cleanup,
	}, nil
}

func (f *Finalizer) orderFor(checkout *model.Checkout) (*model.Order, bool, error) {
	existing, err := f.orderRepo.FindByCheckoutID(checkout.ID)
	if err == nil {
		logger.Warn("Reusing order from an earlier finalize attempt", map[string]interface{}{
			"checkout_id": checkout.ID,
			"order_id":    existing.ID,
		})
		return existing, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	order := model.NewOrderFromCheckout(checkout)
	if err := f.orderRepo.Create(order); err != nil {
		return nil, false, err
	}
	return order, false, nil
}

// checkoutStateError maps model transition errors to service errors.
func checkoutStateError(err error) error {
	switch {
	case errors.Is(err, model.ErrCheckoutAlreadyPaid):
		return ErrCheckoutAlreadyPaid
	case errors.Is(err, model.ErrCheckoutNotPaid):
		return ErrCheckoutNotPaid
	case errors.Is(err, model.ErrCheckoutAlreadyFinalized):
		return ErrCheckoutAlreadyFinalized
	case errors.Is(err, model.ErrPendingPaymentStatus):
		return ErrInvalidPaymentStatus
	}
	return err
}
