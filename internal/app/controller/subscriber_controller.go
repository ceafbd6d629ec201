package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/service"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
)

type SubscriberController struct {
	subscriberService service.SubscriberService
}

func NewSubscriberController(subscriberService service.SubscriberService) *SubscriberController {
	return &SubscriberController{subscriberService: subscriberService}
}

type SubscribeRequest struct {
	Email string `json:"email"`
}

// Subscribe POST /api/subscribers/subscribe
func (ctrl *SubscriberController) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err, "Email is required")
		return
	}

	if _, err := ctrl.subscriberService.Subscribe(req.Email); err != nil {
		apperrors.Respond(c, err, "subscribe")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Subscribed successfully"})
}
