package service

import (
	"errors"
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/authz"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CheckoutInput is the snapshot a client submits at checkout. Items and
// total are stored as given.
type CheckoutInput struct {
	CheckoutItems   []model.CheckoutItem  `json:"checkoutItems" binding:"dive"`
	ShippingAddress model.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                `json:"paymentMethod" binding:"required"`
	TotalPrice      decimal.Decimal       `json:"totalPrice"`
}

// PaymentResult reports a recorded payment. FinalizeErr is set when the
// payment was stored but order creation did not complete; the payment is
// never rolled back for that.
type PaymentResult struct {
	Checkout    *model.Checkout
	Finalize    *FinalizeResult
	FinalizeErr error
}

// CheckoutSummary is a user's checkout history with counts per state.
type CheckoutSummary struct {
	UserID             uint             `json:"userId"`
	TotalCheckouts     int              `json:"totalCheckouts"`
	PaidCheckouts      int              `json:"paidCheckouts"`
	FinalizedCheckouts int              `json:"finalizedCheckouts"`
	Checkouts          []model.Checkout `json:"checkouts"`
}

type CheckoutService interface {
	Create(actor authz.Actor, input CheckoutInput) (*model.Checkout, error)
	Get(actor authz.Actor, id uint) (*model.Checkout, error)
	ListForUser(userID uint) ([]model.Checkout, error)
	SummaryForUser(userID uint) (*CheckoutSummary, error)
	MarkPaid(actor authz.Actor, id uint, paymentStatus string, details map[string]interface{}) (*PaymentResult, error)
	MarkPaidManual(actor authz.Actor, id uint) (*PaymentResult, error)
	MarkPaidOnly(actor authz.Actor, id uint) (*model.Checkout, error)
	ConvertToOrder(actor authz.Actor, id uint) (*FinalizeResult, error)
}

type checkoutService struct {
	checkoutRepo repository.CheckoutRepository
	finalizer    *Finalizer
	now          func() time.Time
}

func NewCheckoutService(checkoutRepo repository.CheckoutRepository, finalizer *Finalizer) CheckoutService {
	return &checkoutService{
		checkoutRepo: checkoutRepo,
		finalizer:    finalizer,
		now:          time.Now,
	}
}

func (s *checkoutService) Create(actor authz.Actor, input CheckoutInput) (*model.Checkout, error) {
	logger.Info("Creating checkout", map[string]interface{}{
		"user_id": actor.UserID,
		"items":   len(input.CheckoutItems),
		"total":   input.TotalPrice.String(),
	})

	if len(input.CheckoutItems) == 0 {
		logger.Warn("Checkout rejected: no items", map[string]interface{}{
			"user_id": actor.UserID,
		})
		return nil, ErrCheckoutEmpty
	}

	checkout := model.NewCheckout(actor.UserID, input.CheckoutItems, input.ShippingAddress, input.PaymentMethod, input.TotalPrice)
	if err := s.checkoutRepo.Create(checkout); err != nil {
		logger.Error("Failed to create checkout", err, map[string]interface{}{
			"user_id": actor.UserID,
		})
		return nil, err
	}

	logger.Info("Checkout created", map[string]interface{}{
		"checkout_id": checkout.ID,
		"user_id":     actor.UserID,
	})
	return checkout, nil
}

func (s *checkoutService) Get(actor authz.Actor, id uint) (*model.Checkout, error) {
	return s.load(actor, id, authz.ActionViewCheckout)
}

func (s *checkoutService) ListForUser(userID uint) ([]model.Checkout, error) {
	checkouts, err := s.checkoutRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	logger.Debug("Checkouts listed", map[string]interface{}{
		"user_id": userID,
		"count":   len(checkouts),
	})
	return checkouts, nil
}

func (s *checkoutService) SummaryForUser(userID uint) (*CheckoutSummary, error) {
	checkouts, err := s.ListForUser(userID)
	if err != nil {
		return nil, err
	}

	summary := &CheckoutSummary{
		UserID:         userID,
		TotalCheckouts: len(checkouts),
		Checkouts:      checkouts,
	}
	for _, c := range checkouts {
		if c.IsPaid {
			summary.PaidCheckouts++
		}
		if c.IsFinalized {
			summary.FinalizedCheckouts++
		}
	}
	return summary, nil
}

// MarkPaid records a confirmed payment and then finalizes the checkout. Only
// the "paid" status is accepted.
func (s *checkoutService) MarkPaid(actor authz.Actor, id uint, paymentStatus string, details map[string]interface{}) (*PaymentResult, error) {
	checkout, err := s.load(actor, id, authz.ActionPayCheckout)
	if err != nil {
		return nil, err
	}
	if paymentStatus != model.PaymentStatusPaid {
		logger.Warn("Payment rejected: invalid payment status", map[string]interface{}{
			"checkout_id":    id,
			"payment_status": paymentStatus,
		})
		return nil, ErrInvalidPaymentStatus
	}
	return s.payAndFinalize(checkout, paymentStatus, details)
}

// MarkPaidManual records an out-of-band payment and finalizes.
func (s *checkoutService) MarkPaidManual(actor authz.Actor, id uint) (*PaymentResult, error) {
	checkout, err := s.load(actor, id, authz.ActionPayCheckout)
	if err != nil {
		return nil, err
	}
	return s.payAndFinalize(checkout, model.PaymentStatusPaid, map[string]interface{}{
		"method": "manual",
		"status": "success",
		"manual": true,
	})
}

// MarkPaidOnly records the payment without creating an order. The checkout
// stays Paid until ConvertToOrder runs.
func (s *checkoutService) MarkPaidOnly(actor authz.Actor, id uint) (*model.Checkout, error) {
	checkout, err := s.load(actor, id, authz.ActionPayCheckout)
	if err != nil {
		return nil, err
	}
	if err := s.recordPayment(checkout, model.PaymentStatusPaid, checkout.PaymentDetails); err != nil {
		return nil, err
	}
	return checkout, nil
}

// ConvertToOrder is the explicit recovery path for a checkout left Paid.
func (s *checkoutService) ConvertToOrder(actor authz.Actor, id uint) (*FinalizeResult, error) {
	checkout, err := s.load(actor, id, authz.ActionFinalizeCheckout)
	if err != nil {
		return nil, err
	}

	result, err := s.finalizer.Finalize(checkout)
	if err != nil {
		logger.Warn("Checkout conversion failed", map[string]interface{}{
			"checkout_id": id,
			"error":       err.Error(),
		})
		return result, err
	}
	return result, nil
}

func (s *checkoutService) payAndFinalize(checkout *model.Checkout, paymentStatus string, details map[string]interface{}) (*PaymentResult, error) {
	if err := s.recordPayment(checkout, paymentStatus, details); err != nil {
		return nil, err
	}

	result := &PaymentResult{Checkout: checkout}
	result.Finalize, result.FinalizeErr = s.finalizer.Finalize(checkout)
	if result.FinalizeErr != nil {
		logger.Error("Payment recorded but finalize failed", result.FinalizeErr, map[string]interface{}{
			"checkout_id": checkout.ID,
			"user_id":     checkout.UserID,
		})
	}
	return result, nil
}

// recordPayment persists Pending → Paid. A failed save leaves the stored
// checkout untouched.
func (s *checkoutService) recordPayment(checkout *model.Checkout, paymentStatus string, details map[string]interface{}) error {
	paid := *checkout
	if err := paid.MarkPaid(paymentStatus, details, s.now()); err != nil {
		logger.Warn("Payment rejected", map[string]interface{}{
			"checkout_id": checkout.ID,
			"reason":      err.Error(),
		})
		return checkoutStateError(err)
	}
	if err := s.checkoutRepo.Save(&paid); err != nil {
		logger.Error("Failed to record payment", err, map[string]interface{}{
			"checkout_id": checkout.ID,
		})
		return err
	}
	*checkout = paid

	logger.Info("Payment recorded", map[string]interface{}{
		"checkout_id":    checkout.ID,
		"payment_status": paymentStatus,
	})
	return nil
}

// load finds the checkout and checks that actor may perform action on it.
func (s *checkoutService) load(actor authz.Actor, id uint, action authz.Action) (*model.Checkout, error) {
	checkout, err := s.checkoutRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCheckoutNotFound
		}
		logger.Error("Failed to fetch checkout", err, map[string]interface{}{
			"checkout_id": id,
		})
		return nil, err
	}

	if !authz.Can(actor, action, checkout) {
		logger.Warn("Checkout access denied", map[string]interface{}{
			"checkout_id": id,
			"user_id":     actor.UserID,
			"action":      action,
		})
		return nil, ErrCheckoutForbidden
	}
	return checkout, nil
}
