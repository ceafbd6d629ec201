package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderFromCheckout(t *testing.T) {
	c := newTestCheckout()
	c.ID = 12
	require.NoError(t, c.MarkPaid(PaymentStatusPaid, map[string]interface{}{"id": "PAY-9"}, time.Now()))

	o := NewOrderFromCheckout(c)

	assert.Equal(t, c.UserID, o.UserID)
	assert.Equal(t, uint(12), o.CheckoutID)
	assert.Equal(t, c.CheckoutItems, o.OrderItems)
	assert.Equal(t, c.ShippingAddress, o.ShippingAddress)
	assert.True(t, o.TotalPrice.Equal(c.TotalPrice))
	assert.True(t, o.IsPaid)
	assert.Equal(t, c.PaidAt, o.PaidAt)
	assert.False(t, o.IsDelivered)
	assert.Equal(t, OrderProcessing, o.Status)
	assert.Equal(t, OrderPaymentStatusPaid, o.PaymentStatus)
}

func TestOrder_ApplyStatus(t *testing.T) {
	o := &Order{Status: OrderProcessing}

	o.ApplyStatus(OrderShipped, time.Now())
	assert.False(t, o.IsDelivered)
	assert.Nil(t, o.DeliveredAt)

	o.ApplyStatus(OrderDelivered, time.Now())
	assert.True(t, o.IsDelivered)
	assert.NotNil(t, o.DeliveredAt)

	// leaving Delivered keeps the delivery stamp
	o.ApplyStatus(OrderStatus("Returned"), time.Now())
	assert.Equal(t, OrderStatus("Returned"), o.Status)
	assert.True(t, o.IsDelivered)
}
