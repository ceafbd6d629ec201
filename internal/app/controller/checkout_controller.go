package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/service"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

type CheckoutController struct {
	checkoutService service.CheckoutService
}

func NewCheckoutController(checkoutService service.CheckoutService) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
	}
}

type PayCheckoutRequest struct {
	PaymentStatus  string                 `json:"paymentStatus"`
	PaymentDetails map[string]interface{} `json:"paymentDetails"`
}

// CreateCheckout POST /api/checkout
func (ctrl *CheckoutController) CreateCheckout(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var input service.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		invalidInput(c, err, "Invalid checkout data")
		return
	}

	checkout, err := ctrl.checkoutService.Create(actor, input)
	if err != nil {
		apperrors.Respond(c, err, "create checkout")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"checkout": checkout})
}

// ListMine GET /api/checkout/user/checkouts
func (ctrl *CheckoutController) ListMine(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	checkouts, err := ctrl.checkoutService.ListForUser(actor.UserID)
	if err != nil {
		apperrors.Respond(c, err, "list checkouts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"checkouts": checkouts, "count": len(checkouts)})
}

// Summary GET /api/checkout/user/summary
func (ctrl *CheckoutController) Summary(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	summary, err := ctrl.checkoutService.SummaryForUser(actor.UserID)
	if err != nil {
		apperrors.Respond(c, err, "summarize checkouts")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetCheckout GET /api/checkout/:id
func (ctrl *CheckoutController) GetCheckout(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	checkout, err := ctrl.checkoutService.Get(actor, id)
	if err != nil {
		apperrors.Respond(c, err, "get checkout")
		return
	}
	c.JSON(http.StatusOK, gin.H{"checkout": checkout})
}

// Pay records a confirmed payment and creates the order
// PUT /api/checkout/:id/pay
func (ctrl *CheckoutController) Pay(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req PayCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err, "Invalid payment data")
		return
	}

	result, err := ctrl.checkoutService.MarkPaid(actor, id, req.PaymentStatus, req.PaymentDetails)
	if err != nil {
		apperrors.Respond(c, err, "pay checkout")
		return
	}
	respondPayment(c, result)
}

// MarkPaid records a manual payment and creates the order
// PUT /api/checkout/:id/mark-paid
func (ctrl *CheckoutController) MarkPaid(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := ctrl.checkoutService.MarkPaidManual(actor, id)
	if err != nil {
		apperrors.Respond(c, err, "mark checkout paid")
		return
	}
	respondPayment(c, result)
}

// MarkPaidSimple records the payment only
// PUT /api/checkout/:id/mark-paid-simple
func (ctrl *CheckoutController) MarkPaidSimple(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	checkout, err := ctrl.checkoutService.MarkPaidOnly(actor, id)
	if err != nil {
		apperrors.Respond(c, err, "mark checkout paid")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Checkout marked as paid", "checkout": checkout})
}

// ConvertToOrder finalizes a checkout left paid
// POST /api/checkout/:id/convert-to-order
func (ctrl *CheckoutController) ConvertToOrder(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := ctrl.checkoutService.ConvertToOrder(actor, id)
	if err != nil {
		apperrors.Respond(c, err, "convert checkout")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":     "Order created successfully",
		"checkout":    result.Checkout,
		"order":       result.Order,
		"orderReused": result.OrderReused,
		"cartCleanup": result.CartCleanup,
	})
}

// respondPayment reports a recorded payment. A failed finalize is a 500 that
// still tells the client the payment is stored, so it retries the conversion
// and never the charge.
func respondPayment(c *gin.Context, result *service.PaymentResult) {
	if result.FinalizeErr != nil {
		middleware.GetLoggerFromContext(c).Error("Payment recorded but order not created", result.FinalizeErr, map[string]interface{}{
			"checkout_id": result.Checkout.ID,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":            apperrors.CheckoutFinalizeFailed,
			"kind":             apperrors.KindInternal,
			"message":          service.ErrFinalizeFailed.Message,
			"payment_recorded": true,
			"checkout":         result.Checkout,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Payment successful and order created",
		"checkout":    result.Checkout,
		"order":       result.Finalize.Order,
		"cartCleanup": result.Finalize.CartCleanup,
	})
}
