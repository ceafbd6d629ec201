package service

import (
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
)

// Domain failures returned by the services. Storage failures are returned
// unchanged and classified at the transport boundary.
var (
	ErrEmailAlreadyExists = apperrors.New(apperrors.KindInvalidState, apperrors.AuthEmailAlreadyExists, "User already exists")
	ErrInvalidCredentials = apperrors.New(apperrors.KindUnauthenticated, apperrors.AuthInvalidCredentials, "Invalid email or password")
	ErrUserNotFound       = apperrors.New(apperrors.KindNotFound, apperrors.AuthUserNotFound, "User not found")
	ErrInvalidToken       = apperrors.New(apperrors.KindUnauthenticated, apperrors.AuthTokenInvalid, "Invalid token")
	ErrTokenExpired       = apperrors.New(apperrors.KindUnauthenticated, apperrors.AuthTokenExpired, "Token has expired")
	ErrTokenRevoked       = apperrors.New(apperrors.KindUnauthenticated, apperrors.AuthTokenRevoked, "Token has been revoked")
	ErrInvalidRole        = apperrors.New(apperrors.KindInvalidInput, apperrors.ValidationInvalidInput, "Role must be customer or admin")
	ErrAdminOnly          = apperrors.New(apperrors.KindForbidden, apperrors.AuthzAdminOnly, "Not authorized as an admin")
	ErrMissingFields      = apperrors.New(apperrors.KindInvalidInput, apperrors.ValidationRequired, "Please provide all required fields")

	ErrProductNotFound = apperrors.New(apperrors.KindNotFound, apperrors.ProductNotFound, "Product not found")
	ErrInvalidProduct  = apperrors.New(apperrors.KindInvalidInput, apperrors.ProductInvalid, "Invalid product data")
	ErrSKUExists       = apperrors.New(apperrors.KindInvalidState, apperrors.ProductSKUExists, "A product with this SKU already exists")

	ErrCartNotFound      = apperrors.New(apperrors.KindNotFound, apperrors.CartNotFound, "Cart not found")
	ErrCartItemNotFound  = apperrors.New(apperrors.KindNotFound, apperrors.CartItemNotFound, "Product not found in cart")
	ErrCartOwnerRequired = apperrors.New(apperrors.KindInvalidInput, apperrors.CartOwnerRequired, "A user ID or guest ID is required")
	ErrInvalidQuantity   = apperrors.New(apperrors.KindInvalidInput, apperrors.CartInvalidItem, "Quantity must be at least 1")
	ErrGuestCartEmpty    = apperrors.New(apperrors.KindInvalidState, apperrors.CartGuestEmpty, "Guest cart is empty")

	ErrCheckoutNotFound         = apperrors.New(apperrors.KindNotFound, apperrors.CheckoutNotFound, "Checkout not found")
	ErrCheckoutForbidden        = apperrors.New(apperrors.KindForbidden, apperrors.AuthzOwnerOnly, "Unauthorized access")
	ErrCheckoutEmpty            = apperrors.New(apperrors.KindInvalidInput, apperrors.CheckoutEmpty, "No items to checkout")
	ErrInvalidPaymentStatus     = apperrors.New(apperrors.KindInvalidInput, apperrors.CheckoutInvalidPayment, "Invalid payment status")
	ErrCheckoutAlreadyPaid      = apperrors.New(apperrors.KindInvalidState, apperrors.CheckoutAlreadyPaid, "Checkout already paid")
	ErrCheckoutNotPaid          = apperrors.New(apperrors.KindInvalidState, apperrors.CheckoutNotPaid, "Checkout not paid yet")
	ErrCheckoutAlreadyFinalized = apperrors.New(apperrors.KindInvalidState, apperrors.CheckoutFinalized, "Checkout already finalized")
	ErrFinalizeFailed           = apperrors.New(apperrors.KindInternal, apperrors.CheckoutFinalizeFailed, "Payment successful but order creation failed")

	ErrOrderNotFound      = apperrors.New(apperrors.KindNotFound, apperrors.OrderNotFound, "Order not found")
	ErrOrderForbidden     = apperrors.New(apperrors.KindForbidden, apperrors.AuthzOwnerOnly, "Not authorized to view this order")
	ErrInvalidOrderStatus = apperrors.New(apperrors.KindInvalidInput, apperrors.OrderInvalidStatus, "Status must be Processing, Shipped, Delivered or Cancelled")

	ErrSubscriberEmailRequired = apperrors.New(apperrors.KindInvalidInput, apperrors.ValidationRequired, "Email is required")
	ErrAlreadySubscribed       = apperrors.New(apperrors.KindInvalidInput, apperrors.SubscriberExists, "Email is already subscribed")
)

// BestEffort reports a secondary cleanup step. A failed cleanup never fails
// the operation it follows; the primary result is returned regardless.
type BestEffort struct {
	Attempted bool   `json:"attempted"`
	Error     string `json:"error,omitempty"`
	Err       error  `json:"-"`
}

func attempted(err error) BestEffort {
	b := BestEffort{Attempted: true, Err: err}
	if err != nil {
		b.Error = err.Error()
	}
	return b
}

func (b BestEffort) Failed() bool {
	return b.Err != nil
}
