package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutState is the persisted lifecycle position of a checkout.
// Pending → Paid → Finalized, never backwards.
type CheckoutState string

const (
	CheckoutPending   CheckoutState = "Pending"
	CheckoutPaid      CheckoutState = "Paid"
	CheckoutFinalized CheckoutState = "Finalized"
)

const (
	PaymentStatusPending = "Pending"
	// PaymentStatusPaid is the only payment status accepted as confirmation.
	PaymentStatusPaid = "paid"
)

var (
	ErrCheckoutAlreadyPaid      = errors.New("checkout already paid")
	ErrCheckoutNotPaid          = errors.New("checkout not paid")
	ErrCheckoutAlreadyFinalized = errors.New("checkout already finalized")
	ErrPendingPaymentStatus     = errors.New("payment status must not be pending once paid")
)

type ShippingAddress struct {
	Address    string `json:"address" binding:"required"`
	City       string `json:"city" binding:"required"`
	PostalCode string `json:"postalCode" binding:"required"`
	Country    string `json:"country" binding:"required"`
}

// CheckoutItem is a line item frozen at checkout time.
type CheckoutItem struct {
	ProductID uint            `json:"productId" binding:"required"`
	Name      string          `json:"name" binding:"required"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Color     string          `json:"color"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity" binding:"required,gte=1"`
}

type Checkout struct {
	ID              uint                   `gorm:"primarykey" json:"id"`
	UserID          uint                   `gorm:"not null;index" json:"user"`
	CheckoutItems   []CheckoutItem         `gorm:"type:text;serializer:json;not null" json:"checkoutItems"`
	ShippingAddress ShippingAddress        `gorm:"type:text;serializer:json" json:"shippingAddress"`
	PaymentMethod   string                 `gorm:"not null" json:"paymentMethod"`
	TotalPrice      decimal.Decimal        `gorm:"type:decimal(12,2);not null" json:"totalPrice"`
	State           CheckoutState          `gorm:"type:varchar(16);not null;default:'Pending';index" json:"state"`
	PaymentStatus   string                 `gorm:"type:varchar(32);not null;default:'Pending'" json:"paymentStatus"`
	IsPaid          bool                   `gorm:"not null;default:false" json:"isPaid"`
	PaidAt          *time.Time             `json:"paidAt,omitempty"`
	PaymentDetails  map[string]interface{} `gorm:"type:text;serializer:json" json:"paymentDetails,omitempty"`
	IsFinalized     bool                   `gorm:"not null;default:false" json:"isFinalized"`
	FinalizedAt     *time.Time             `json:"finalizedAt,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

func (Checkout) TableName() string {
	return "checkouts"
}

// NewCheckout starts a checkout in the Pending state.
func NewCheckout(userID uint, items []CheckoutItem, address ShippingAddress, paymentMethod string, total decimal.Decimal) *Checkout {
	frozen := make([]CheckoutItem, len(items))
	copy(frozen, items)
	return &Checkout{
		UserID:          userID,
		CheckoutItems:   frozen,
		ShippingAddress: address,
		PaymentMethod:   paymentMethod,
		TotalPrice:      total,
		State:           CheckoutPending,
		PaymentStatus:   PaymentStatusPending,
	}
}

func (c *Checkout) OwnerID() uint {
	return c.UserID
}

// MarkPaid moves Pending → Paid. It refuses an already paid checkout and a
// status that still reads Pending.
func (c *Checkout) MarkPaid(paymentStatus string, details map[string]interface{}, at time.Time) error {
	if c.IsPaid {
		return ErrCheckoutAlreadyPaid
	}
	if paymentStatus == "" || paymentStatus == PaymentStatusPending {
		return ErrPendingPaymentStatus
	}
	c.IsPaid = true
	c.PaymentStatus = paymentStatus
	c.PaymentDetails = details
	c.PaidAt = &at
	c.State = CheckoutPaid
	return nil
}

// CanFinalize reports whether an order may be created from the checkout.
func (c *Checkout) CanFinalize() error {
	if !c.IsPaid {
		return ErrCheckoutNotPaid
	}
	if c.IsFinalized {
		return ErrCheckoutAlreadyFinalized
	}
	return nil
}

// MarkFinalized moves Paid → Finalized.
func (c *Checkout) MarkFinalized(at time.Time) error {
	if err := c.CanFinalize(); err != nil {
		return err
	}
	c.IsFinalized = true
	c.FinalizedAt = &at
	c.State = CheckoutFinalized
	return nil
}
