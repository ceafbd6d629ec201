package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
)

const OrderPaymentStatusPaid = "Paid"

type Order struct {
	ID              uint                   `gorm:"primarykey" json:"id"`
	UserID          uint                   `gorm:"not null;index" json:"user"`
	CheckoutID      uint                   `gorm:"index" json:"checkout"` // not unique, see Finalizer
	OrderItems      []CheckoutItem         `gorm:"type:text;serializer:json;not null" json:"orderItems"`
	ShippingAddress ShippingAddress        `gorm:"type:text;serializer:json" json:"shippingAddress"`
	PaymentMethod   string                 `gorm:"not null" json:"paymentMethod"`
	TotalPrice      decimal.Decimal        `gorm:"type:decimal(12,2);not null" json:"totalPrice"`
	IsPaid          bool                   `gorm:"not null;default:false" json:"isPaid"`
	PaidAt          *time.Time             `json:"paidAt,omitempty"`
	IsDelivered     bool                   `gorm:"not null;default:false" json:"isDelivered"`
	DeliveredAt     *time.Time             `json:"deliveredAt,omitempty"`
	PaymentStatus   string                 `gorm:"type:varchar(32)" json:"paymentStatus"`
	PaymentDetails  map[string]interface{} `gorm:"type:text;serializer:json" json:"paymentDetails,omitempty"`
	Status          OrderStatus            `gorm:"type:varchar(32);not null;default:'Processing'" json:"status"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`

	User *User `gorm:"foreignKey:UserID" json:"userInfo,omitempty"` // loaded for admin listings
}

func (Order) TableName() string {
	return "orders"
}

// NewOrderFromCheckout builds the order for a paid checkout. It does not
// touch stock.
func NewOrderFromCheckout(c *Checkout) *Order {
	items := make([]CheckoutItem, len(c.CheckoutItems))
	copy(items, c.CheckoutItems)

	paidAt := c.PaidAt
	if paidAt == nil {
		now := time.Now()
		paidAt = &now
	}
	return &Order{
		UserID:          c.UserID,
		CheckoutID:      c.ID,
		OrderItems:      items,
		ShippingAddress: c.ShippingAddress,
		PaymentMethod:   c.PaymentMethod,
		TotalPrice:      c.TotalPrice,
		IsPaid:          true,
		PaidAt:          paidAt,
		IsDelivered:     false,
		PaymentStatus:   OrderPaymentStatusPaid,
		PaymentDetails:  c.PaymentDetails,
		Status:          OrderProcessing,
	}
}

func (o *Order) OwnerID() uint {
	return o.UserID
}

// ApplyStatus sets the status. Delivered also stamps the delivery; any other
// value leaves delivery fields alone.
func (o *Order) ApplyStatus(status OrderStatus, at time.Time) {
	o.Status = status
	if status == OrderDelivered {
		o.IsDelivered = true
		o.DeliveredAt = &at
	}
}
