package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/service"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

// CartItemRequest identifies a cart line and its owner. UserID and GuestID
// are only read for unauthenticated calls.
type CartItemRequest struct {
	ProductID uint   `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	GuestID   string `json:"guestId"`
	UserID    uint   `json:"userId"`
}

func (r CartItemRequest) item() service.CartItemInput {
	return service.CartItemInput{
		ProductID: r.ProductID,
		Color:     r.Color,
		Size:      r.Size,
		Quantity:  r.Quantity,
	}
}

type MergeCartRequest struct {
	GuestID string `json:"guestId"`
}

// cartOwner resolves the cart key. A bearer token always wins over ids sent
// by the client.
func cartOwner(c *gin.Context, userID uint, guestID string) service.CartOwner {
	if id, ok := middleware.GetUserID(c); ok {
		return service.CartOwner{UserID: id}
	}
	return service.CartOwner{UserID: userID, GuestID: guestID}
}

// GetCart GET /api/cart?userId=&guestId=
func (ctrl *CartController) GetCart(c *gin.Context) {
	var userID uint
	if raw := c.Query("userId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid userId")
			return
		}
		userID = uint(id)
	}

	owner := cartOwner(c, userID, c.Query("guestId"))
	cart, err := ctrl.cartService.Resolve(owner)
	if err != nil {
		apperrors.Respond(c, err, "get cart")
		return
	}
	if cart == nil {
		apperrors.Respond(c, service.ErrCartNotFound, "get cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

// AddItem POST /api/cart
func (ctrl *CartController) AddItem(c *gin.Context) {
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err, "productId is required")
		return
	}

	cart, created, err := ctrl.cartService.AddItem(cartOwner(c, req.UserID, req.GuestID), req.item())
	if err != nil {
		apperrors.Respond(c, err, "add to cart")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"cart": cart})
}

// UpdateItem PUT /api/cart
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err, "productId is required")
		return
	}

	cart, err := ctrl.cartService.SetItemQuantity(cartOwner(c, req.UserID, req.GuestID), req.item())
	if err != nil {
		apperrors.Respond(c, err, "update cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

// RemoveItem DELETE /api/cart
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err, "productId is required")
		return
	}

	cart, err := ctrl.cartService.RemoveItem(cartOwner(c, req.UserID, req.GuestID), req.item())
	if err != nil {
		apperrors.Respond(c, err, "remove from cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

// Merge folds the guest cart into the caller's cart after login
// POST /api/cart/merge
func (ctrl *CartController) Merge(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req MergeCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err, "Invalid merge request")
		return
	}

	result, err := ctrl.cartService.Merge(req.GuestID, actor.UserID)
	if err != nil {
		apperrors.Respond(c, err, "merge cart")
		return
	}
	if result.Outcome == service.MergeNothing {
		c.JSON(http.StatusOK, gin.H{"outcome": result.Outcome, "message": "No carts to merge"})
		return
	}

	c.JSON(http.StatusOK, result)
}
